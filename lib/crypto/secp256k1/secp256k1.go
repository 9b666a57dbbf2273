// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package secp256k1

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"

	secp256k1 "github.com/ethereum/go-ethereum/crypto"
)

const (
	// PublicKeyLength is the length of a compressed public key
	PublicKeyLength = 33
	// UncompressedPublicKeyLength is the length of an uncompressed public key
	UncompressedPublicKeyLength = 65
	// PrivateKeyLength is the fixed Private Key Length
	PrivateKeyLength = 32
	// SignatureLength is the length of a [R || S] signature
	SignatureLength = 64
	// SignatureLengthRecovery is the length of a [R || S || V] signature
	SignatureLengthRecovery = 65
)

var (
	ErrInvalidPublicKey       = errors.New("secp256k1: invalid public key")
	ErrInvalidPrivateKey      = errors.New("secp256k1: invalid private key")
	ErrInvalidSignatureLength = errors.New("secp256k1: invalid signature length")
)

// Keypair is a secp256k1 public-private keypair
type Keypair struct {
	public  *PublicKey
	private *PrivateKey
}

// PublicKey struct for PublicKey
type PublicKey struct {
	key ecdsa.PublicKey
}

// PrivateKey struct for PrivateKey
type PrivateKey struct {
	key ecdsa.PrivateKey
}

// NewKeypair returns a secp256k1 keypair given an *ecdsa.PrivateKey
func NewKeypair(pk ecdsa.PrivateKey) *Keypair {
	pub := pk.Public().(*ecdsa.PublicKey)
	return &Keypair{
		public:  &PublicKey{key: *pub},
		private: &PrivateKey{key: pk},
	}
}

// NewKeypairFromPrivate returns a secp256k1 keypair given a *PrivateKey
func NewKeypairFromPrivate(priv *PrivateKey) (*Keypair, error) {
	pub, err := priv.Public()
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  pub.(*PublicKey),
		private: priv,
	}, nil
}

// GenerateKeypair returns a new secp256k1 keypair
func GenerateKeypair() (*Keypair, error) {
	priv, err := secp256k1.GenerateKey()
	if err != nil {
		return nil, err
	}

	return NewKeypair(*priv), nil
}

// NewKeypairFromSeed returns the keypair whose private key is the 32 bytes seed.
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	priv, err := NewPrivateKey(seed)
	if err != nil {
		return nil, err
	}
	return NewKeypairFromPrivate(priv)
}

// VerifySignature verifies a signature given a public key and a message
func VerifySignature(publicKey, signature, message []byte) error {
	pub := new(PublicKey)
	if err := pub.Decode(publicKey); err != nil {
		return err
	}

	ok, err := pub.Verify(message, signature)
	if err != nil {
		return err
	}
	if !ok {
		return crypto.ErrInvalidSignature
	}
	return nil
}

// Type returns Secp256k1Type
func (*Keypair) Type() crypto.KeyType {
	return crypto.Secp256k1Type
}

// Sign signs the SHA-256 digest of msg.
// The returned signature is in the [R || S] format.
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return kp.private.Sign(msg)
}

// Public returns the keypair's public key
func (kp *Keypair) Public() crypto.PublicKey {
	return kp.public
}

// Private returns the keypair's private key
func (kp *Keypair) Private() crypto.PrivateKey {
	return kp.private
}

// Type returns Secp256k1Type
func (*PublicKey) Type() crypto.KeyType {
	return crypto.Secp256k1Type
}

// Verify checks a [R || S] or [R || S || V] signature over the SHA-256 digest of msg.
func (k *PublicKey) Verify(msg, sig []byte) (bool, error) {
	switch len(sig) {
	case SignatureLength:
	case SignatureLengthRecovery:
		sig = sig[:SignatureLength]
	default:
		return false, fmt.Errorf("%w: expected %d or %d bytes, got %d",
			ErrInvalidSignatureLength, SignatureLength, SignatureLengthRecovery, len(sig))
	}

	hash := sha256.Sum256(msg)
	return secp256k1.VerifySignature(k.Encode(), hash[:], sig), nil
}

// Encode returns the compressed encoding of the public key
func (k *PublicKey) Encode() []byte {
	return secp256k1.CompressPubkey(&k.key)
}

// Decode decodes a compressed or uncompressed public key
func (k *PublicKey) Decode(in []byte) error {
	var (
		pub *ecdsa.PublicKey
		err error
	)

	switch len(in) {
	case PublicKeyLength:
		pub, err = secp256k1.DecompressPubkey(in)
	case UncompressedPublicKeyLength:
		pub, err = secp256k1.UnmarshalPubkey(in)
	default:
		return fmt.Errorf("%w: unexpected length %d", ErrInvalidPublicKey, len(in))
	}
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	k.key = *pub
	return nil
}

// Hex returns the public key as a '0x' prefixed hex string
func (k *PublicKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

// NewPrivateKey returns a secp256k1 private key from 32 bytes
func NewPrivateKey(in []byte) (*PrivateKey, error) {
	priv := new(PrivateKey)
	err := priv.Decode(in)
	if err != nil {
		return nil, err
	}
	return priv, nil
}

// Sign signs the SHA-256 digest of msg.
func (pk *PrivateKey) Sign(msg []byte) ([]byte, error) {
	hash := sha256.Sum256(msg)
	sig, err := secp256k1.Sign(hash[:], &pk.key)
	if err != nil {
		return nil, err
	}
	return sig[:SignatureLength], nil
}

// Public returns the public key for the private key
func (pk *PrivateKey) Public() (crypto.PublicKey, error) {
	pub := pk.key.Public().(*ecdsa.PublicKey)
	return &PublicKey{key: *pub}, nil
}

// Encode returns the 32 bytes of the private key
func (pk *PrivateKey) Encode() []byte {
	return secp256k1.FromECDSA(&pk.key)
}

// Decode decodes a 32 bytes private key
func (pk *PrivateKey) Decode(in []byte) error {
	if len(in) != PrivateKeyLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeyLength, len(in))
	}

	key, err := secp256k1.ToECDSA(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}
	pk.key = *key
	return nil
}

// Hex returns the private key as a '0x' prefixed hex string
func (pk *PrivateKey) Hex() string {
	return common.BytesToHex(pk.Encode())
}
