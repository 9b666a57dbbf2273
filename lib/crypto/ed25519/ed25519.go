// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ed25519

import (
	"bytes"
	ed25519 "crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"

	bip39 "github.com/cosmos/go-bip39"
)

const (
	// PublicKeyLength is the expected public key length for ed25519.
	PublicKeyLength = 32
	// SeedLength is the expected seed length for ed25519.
	SeedLength = 32
	// PrivateKeyLength is the expected private key length for ed25519.
	PrivateKeyLength = 64
	// SignatureLength is the expected signature length for ed25519.
	SignatureLength = 64
)

var (
	ErrInvalidPublicKeyLength  = errors.New("ed25519: invalid public key length")
	ErrInvalidPrivateKeyLength = errors.New("ed25519: invalid private key length")
	ErrInvalidSeedLength       = errors.New("ed25519: invalid seed length")
	ErrInvalidSignatureLength  = errors.New("ed25519: invalid signature length")
)

// Keypair is a ed25519 public-private keypair
type Keypair struct {
	public  *PublicKey
	private *PrivateKey
}

// PrivateKey is the ed25519 private key
type PrivateKey ed25519.PrivateKey

// PublicKey is the ed25519 public key
type PublicKey ed25519.PublicKey

// PublicKeyBytes is an encoded ed25519 public key
type PublicKeyBytes [PublicKeyLength]byte

// NewKeypair returns an Ed25519 keypair given a ed25519 private key
func NewKeypair(priv ed25519.PrivateKey) *Keypair {
	pubkey := PublicKey(priv.Public().(ed25519.PublicKey))
	privkey := PrivateKey(priv)
	return &Keypair{
		public:  &pubkey,
		private: &privkey,
	}
}

// NewKeypairFromPrivate returns a ed25519 Keypair given a *ed25519.PrivateKey
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

// NewKeypairFromSeed generates a new ed25519 keypair from a 32 bytes seed
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSeedLength, SeedLength, len(seed))
	}
	edpriv := ed25519.NewKeyFromSeed(seed)
	return NewKeypair(edpriv), nil
}

// NewKeypairFromMnenomic returns a new Keypair using the given mnemonic and password.
func NewKeypairFromMnenomic(mnemonic, password string) (*Keypair, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, password)
	if err != nil {
		return nil, err
	}
	return NewKeypairFromSeed(seed[:SeedLength])
}

// GenerateKeypair returns a new ed25519 keypair
func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	return NewKeypair(priv), nil
}

// VerifySignature verifies a signature given a public key and a message
func VerifySignature(publicKey, signature, message []byte) error {
	pubKey, err := NewPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("ed25519: %w", err)
	}

	ok, err := pubKey.Verify(message, signature)
	if err != nil {
		return err
	}
	if !ok {
		return crypto.ErrInvalidSignature
	}
	return nil
}

// Type returns Ed25519Type
func (*Keypair) Type() crypto.KeyType {
	return crypto.Ed25519Type
}

// Sign uses the keypair to sign the message using the ed25519 signature algorithm
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(*kp.private), msg), nil
}

// Public returns the keypair's public key
func (kp *Keypair) Public() crypto.PublicKey {
	return kp.public
}

// Private returns the keypair's private key
func (kp *Keypair) Private() crypto.PrivateKey {
	return kp.private
}

// NewPrivateKey returns an ed25519 private key given raw bytes
func NewPrivateKey(in []byte) (*PrivateKey, error) {
	if len(in) != PrivateKeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKeyLength, PrivateKeyLength, len(in))
	}

	priv := make(PrivateKey, PrivateKeyLength)
	copy(priv, in)
	return &priv, nil
}

// Sign uses the ed25519 signature algorithm to sign the message
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(*k), msg), nil
}

// Public returns the public key corresponding to the ed25519 private key
func (k *PrivateKey) Public() (crypto.PublicKey, error) {
	kp := NewKeypair(ed25519.PrivateKey(*k))
	return kp.Public(), nil
}

// Encode returns the bytes underlying the ed25519 PrivateKey
func (k *PrivateKey) Encode() []byte {
	return append([]byte(nil), *k...)
}

// Decode turns the input bytes into an ed25519 PrivateKey
// the input must be 64 bytes, or the function will return an error
func (k *PrivateKey) Decode(in []byte) error {
	priv, err := NewPrivateKey(in)
	if err != nil {
		return err
	}
	*k = *priv
	return nil
}

// Hex will return PrivateKey Hex
func (k *PrivateKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

// NewPublicKey returns an ed25519 public key from 32 byte input
func NewPublicKey(in []byte) (*PublicKey, error) {
	if len(in) != PublicKeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKeyLength, PublicKeyLength, len(in))
	}

	pub := make(PublicKey, PublicKeyLength)
	copy(pub, in)
	return &pub, nil
}

// Type returns Ed25519Type
func (*PublicKey) Type() crypto.KeyType {
	return crypto.Ed25519Type
}

// Verify checks that Ed25519PublicKey was used to create the signature for the message
func (k *PublicKey) Verify(msg, sig []byte) (bool, error) {
	if len(sig) != SignatureLength {
		return false, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignatureLength, SignatureLength, len(sig))
	}
	return ed25519.Verify(ed25519.PublicKey(*k), msg, sig), nil
}

// Encode returns the encoding of the ed25519 PublicKey
func (k *PublicKey) Encode() []byte {
	return append([]byte(nil), *k...)
}

// Decode turns the input bytes into an ed25519 PublicKey
// the input must be 32 bytes, or the function will return and error
func (k *PublicKey) Decode(in []byte) error {
	pub, err := NewPublicKey(in)
	if err != nil {
		return err
	}
	*k = *pub
	return nil
}

// Hex returns the public key as a '0x' prefixed hex string
func (k *PublicKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

// Equal returns true if both public keys have the same encoding.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return bytes.Equal(*k, *other)
}

// AsBytes returns the public key as PublicKeyBytes
func (k *PublicKey) AsBytes() (b PublicKeyBytes) {
	copy(b[:], *k)
	return b
}
