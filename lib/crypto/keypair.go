// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package crypto

import (
	"errors"
)

// KeyType str
type KeyType = string

const (
	// Ed25519Type is ed25519
	Ed25519Type KeyType = "ed25519"
	// Sr25519Type is sr25519
	Sr25519Type KeyType = "sr25519"
	// Secp256k1Type is secp256k1
	Secp256k1Type KeyType = "secp256k1"
	// UnknownType is used by the GenericKeystore
	UnknownType KeyType = "unknown"
)

var (
	// ErrInvalidKeyType is returned for a key type none of the signature schemes implement.
	ErrInvalidKeyType = errors.New("invalid key type")
	// ErrInvalidSignature is returned when a signature fails verification.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Keypair interface
type Keypair interface {
	Type() KeyType
	Sign(msg []byte) ([]byte, error)
	Public() PublicKey
	Private() PrivateKey
}

// PublicKey interface
type PublicKey interface {
	Type() KeyType
	Verify(msg, sig []byte) (bool, error)
	Encode() []byte
	Decode([]byte) error
	Hex() string
}

// PrivateKey interface
type PrivateKey interface {
	Sign(msg []byte) ([]byte, error)
	Public() (PublicKey, error)
	Encode() []byte
	Decode([]byte) error
	Hex() string
}

// SigVerifyFunc verifies a signature given a public key and a message.
type SigVerifyFunc func(pubkey, sig, msg []byte) error
