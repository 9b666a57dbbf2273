// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// HashLength is the expected length of the common.Hash type
	HashLength = 32
)

var (
	// ErrLengthMismatch is returned when a byte slice does not have the
	// length of the fixed size type it is converted into.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrNoPrefix is returned when a hex string is not 0x prefixed.
	ErrNoPrefix = errors.New("could not byteify non 0x prefixed string")
	// ErrInvalidHashFormat is returned when a JSON hash value is malformed.
	ErrInvalidHashFormat = errors.New("invalid hash format")
)

// EmptyHash is the zero value hash.
var EmptyHash = Hash{}

// Hash is a 32 bytes content digest.
type Hash [HashLength]byte

// NewHashFromBytes converts the byte slice into a Hash, copying it.
// It fails if the slice is not exactly HashLength bytes long.
func NewHashFromBytes(b []byte) (h Hash, err error) {
	if len(b) != HashLength {
		return h, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrLengthMismatch, HashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// ToBytes returns a copy of the hash bytes.
func (h Hash) ToBytes() []byte {
	b := [HashLength]byte(h)
	return b[:]
}

// IsEmpty returns true if the hash is empty, false otherwise.
func (h Hash) IsEmpty() bool {
	return h == EmptyHash
}

// String returns the hex string for the hash
func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// Short returns the first 4 bytes and the last 4 bytes of the hex string for the hash
func (h Hash) Short() string {
	const nBytes = 4
	return fmt.Sprintf("0x%x...%x", h[:nBytes], h[len(h)-nBytes:])
}

// ReadHash reads exactly 32 bytes from the reader and returns them as a hash.
func ReadHash(r io.Reader) (h Hash, err error) {
	_, err = io.ReadFull(r, h[:])
	if err != nil {
		return EmptyHash, fmt.Errorf("reading hash: %w", err)
	}
	return h, nil
}

// UnmarshalJSON converts hex data to hash
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidHashFormat, err)
	}

	*h, err = HexToHash(s)
	return err
}

// MarshalJSON converts hash to hex data
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// HexToHash turns a 0x prefixed hex string of exactly
// 32 bytes into type Hash.
func HexToHash(in string) (Hash, error) {
	b, err := HexToBytes(in)
	if err != nil {
		return EmptyHash, err
	}
	return NewHashFromBytes(b)
}

// MustHexToHash turns a 0x prefixed hex string into type Hash
// it panics if it cannot turn the string into a Hash
func MustHexToHash(in string) Hash {
	h, err := HexToHash(in)
	if err != nil {
		panic(err)
	}
	return h
}

// HexToBytes turns a 0x prefixed hex string into a byte slice
func HexToBytes(in string) ([]byte, error) {
	if !strings.HasPrefix(in, "0x") {
		return nil, fmt.Errorf("%w: %q", ErrNoPrefix, in)
	}
	return hex.DecodeString(in[2:])
}

// BytesToHex turns a byte slice into a 0x prefixed hex string
func BytesToHex(in []byte) string {
	return "0x" + hex.EncodeToString(in)
}
