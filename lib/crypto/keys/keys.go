// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package keys dispatches key operations on the signature scheme name.
package keys

import (
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/ed25519"
	"github.com/ChainSafe/anoma-go/lib/crypto/secp256k1"
	"github.com/ChainSafe/anoma-go/lib/crypto/sr25519"
)

// DecodePublicKey decodes a public key of the given scheme.
func DecodePublicKey(keyType crypto.KeyType, in []byte) (crypto.PublicKey, error) {
	switch keyType {
	case crypto.Ed25519Type:
		return publicKeyOrNil(ed25519.NewPublicKey(in))
	case crypto.Sr25519Type:
		return publicKeyOrNil(sr25519.NewPublicKey(in))
	case crypto.Secp256k1Type:
		pub := new(secp256k1.PublicKey)
		if err := pub.Decode(in); err != nil {
			return nil, err
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("%w: %q", crypto.ErrInvalidKeyType, keyType)
	}
}

// DecodePrivateKey decodes a private key of the given scheme.
func DecodePrivateKey(keyType crypto.KeyType, in []byte) (crypto.PrivateKey, error) {
	switch keyType {
	case crypto.Ed25519Type:
		return privateKeyOrNil(ed25519.NewPrivateKey(in))
	case crypto.Sr25519Type:
		return privateKeyOrNil(sr25519.NewPrivateKey(in))
	case crypto.Secp256k1Type:
		return privateKeyOrNil(secp256k1.NewPrivateKey(in))
	default:
		return nil, fmt.Errorf("%w: %q", crypto.ErrInvalidKeyType, keyType)
	}
}

// DecodeKeypair decodes a private key of the given scheme into a keypair.
func DecodeKeypair(keyType crypto.KeyType, in []byte) (crypto.Keypair, error) {
	switch keyType {
	case crypto.Ed25519Type:
		priv, err := ed25519.NewPrivateKey(in)
		if err != nil {
			return nil, err
		}
		return keypairOrNil(ed25519.NewKeypairFromPrivate(priv))
	case crypto.Sr25519Type:
		priv, err := sr25519.NewPrivateKey(in)
		if err != nil {
			return nil, err
		}
		return keypairOrNil(sr25519.NewKeypairFromPrivate(priv))
	case crypto.Secp256k1Type:
		priv, err := secp256k1.NewPrivateKey(in)
		if err != nil {
			return nil, err
		}
		return keypairOrNil(secp256k1.NewKeypairFromPrivate(priv))
	default:
		return nil, fmt.Errorf("%w: %q", crypto.ErrInvalidKeyType, keyType)
	}
}

// GenerateKeypair generates a random keypair of the given scheme.
func GenerateKeypair(keyType crypto.KeyType) (crypto.Keypair, error) {
	switch keyType {
	case crypto.Ed25519Type:
		return keypairOrNil(ed25519.GenerateKeypair())
	case crypto.Sr25519Type:
		return keypairOrNil(sr25519.GenerateKeypair())
	case crypto.Secp256k1Type:
		return keypairOrNil(secp256k1.GenerateKeypair())
	default:
		return nil, fmt.Errorf("%w: %q", crypto.ErrInvalidKeyType, keyType)
	}
}

// KeypairFromSeed derives the keypair of the given scheme from a 32 bytes seed.
func KeypairFromSeed(keyType crypto.KeyType, seed []byte) (crypto.Keypair, error) {
	switch keyType {
	case crypto.Ed25519Type:
		return keypairOrNil(ed25519.NewKeypairFromSeed(seed))
	case crypto.Sr25519Type:
		return keypairOrNil(sr25519.NewKeypairFromSeed(seed))
	case crypto.Secp256k1Type:
		return keypairOrNil(secp256k1.NewKeypairFromSeed(seed))
	default:
		return nil, fmt.Errorf("%w: %q", crypto.ErrInvalidKeyType, keyType)
	}
}

// VerifyFunc returns the signature verification function of the given scheme.
func VerifyFunc(keyType crypto.KeyType) (crypto.SigVerifyFunc, error) {
	switch keyType {
	case crypto.Ed25519Type:
		return ed25519.VerifySignature, nil
	case crypto.Sr25519Type:
		return sr25519.VerifySignature, nil
	case crypto.Secp256k1Type:
		return secp256k1.VerifySignature, nil
	default:
		return nil, fmt.Errorf("%w: %q", crypto.ErrInvalidKeyType, keyType)
	}
}

func publicKeyOrNil(pub crypto.PublicKey, err error) (crypto.PublicKey, error) {
	if err != nil {
		return nil, err
	}
	return pub, nil
}

func privateKeyOrNil(priv crypto.PrivateKey, err error) (crypto.PrivateKey, error) {
	if err != nil {
		return nil, err
	}
	return priv, nil
}

func keypairOrNil(kp crypto.Keypair, err error) (crypto.Keypair, error) {
	if err != nil {
		return nil, err
	}
	return kp, nil
}
