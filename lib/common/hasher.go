// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
)

// HashOf returns the SHA-256 digest of the input data. It is the content
// hash of transactions, intents and proposal contents.
func HashOf(in []byte) Hash {
	return sha256.Sum256(in)
}

// Blake2b160 returns the 160-bit blake2b hash of the input data
func Blake2b160(in []byte) ([]byte, error) {
	const size = 20
	h, err := blake2b.New(size, nil)
	if err != nil {
		return nil, err
	}

	_, err = h.Write(in)
	if err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}

// Blake2bHash returns the 256-bit blake2b hash of the input data
func Blake2bHash(in []byte) (Hash, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, err
	}

	_, err = h.Write(in)
	if err != nil {
		return [32]byte{}, err
	}

	var hash Hash
	copy(hash[:], h.Sum(nil))
	return hash, nil
}

// MustBlake2bHash returns the 256-bit blake2b hash of the input data. It panics if it fails to hash.
func MustBlake2bHash(in []byte) Hash {
	hash, err := Blake2bHash(in)
	if err != nil {
		panic(err)
	}

	return hash
}
