// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/scale"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrDecryption is returned when an encrypted inner transaction cannot be decrypted.
	ErrDecryption = errors.New("cannot decrypt inner transaction")
	// ErrMissingEncryptionKey is returned when decrypting without a key.
	ErrMissingEncryptionKey = errors.New("missing encryption key")
)

// EncryptionKey is the symmetric key inner transactions are encrypted with.
type EncryptionKey [chacha20poly1305.KeySize]byte

// NewEncryptionKey generates a random encryption key.
func NewEncryptionKey() (key EncryptionKey, err error) {
	if _, err = rand.Read(key[:]); err != nil {
		return key, fmt.Errorf("generating encryption key: %w", err)
	}
	return key, nil
}

// EncryptedTx is the XChaCha20-Poly1305 ciphertext of an inner transaction.
type EncryptedTx struct {
	Nonce      [chacha20poly1305.NonceSizeX]byte
	Ciphertext []byte
}

// Encrypt encrypts the plaintext with a random nonce.
func Encrypt(key EncryptionKey, plaintext []byte) (*EncryptedTx, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}

	encrypted := new(EncryptedTx)
	if _, err = rand.Read(encrypted.Nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	encrypted.Ciphertext = aead.Seal(nil, encrypted.Nonce[:], plaintext, nil)
	return encrypted, nil
}

// Decrypt authenticates and decrypts the ciphertext.
func (e *EncryptedTx) Decrypt(key EncryptionKey) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, e.Nonce[:], e.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecryption, err)
	}
	return plaintext, nil
}

// MarshalSCALE writes the nonce followed by the length prefixed ciphertext.
func (e *EncryptedTx) MarshalSCALE(enc *scale.Encoder) {
	enc.EncodeFixed(e.Nonce[:])
	enc.EncodeBytes(e.Ciphertext)
}

// UnmarshalSCALE reads the nonce and the ciphertext.
func (e *EncryptedTx) UnmarshalSCALE(d *scale.Decoder) error {
	nonce, err := d.DecodeFixed(chacha20poly1305.NonceSizeX)
	if err != nil {
		return err
	}
	copy(e.Nonce[:], nonce)

	e.Ciphertext, err = d.DecodeBytes()
	return err
}

const (
	plainInner     byte = 0
	encryptedInner byte = 1
)

// InnerTx is the payload of a wrapper: the encoding of the inner
// transaction, either in the clear or encrypted.
type InnerTx struct {
	Plain     []byte
	Encrypted *EncryptedTx
}

// IsEncrypted returns true if the inner transaction is encrypted.
func (i InnerTx) IsEncrypted() bool {
	return i.Encrypted != nil
}

// Len returns the size of the payload.
func (i InnerTx) Len() int {
	if i.Encrypted != nil {
		return len(i.Encrypted.Ciphertext)
	}
	return len(i.Plain)
}

// Bytes returns the encoding of the inner transaction, decrypting it
// with the key if needed.
func (i InnerTx) Bytes(key *EncryptionKey) ([]byte, error) {
	if i.Encrypted == nil {
		return i.Plain, nil
	}
	if key == nil {
		return nil, ErrMissingEncryptionKey
	}
	return i.Encrypted.Decrypt(*key)
}

// MarshalSCALE writes a discriminant followed by the payload.
func (i *InnerTx) MarshalSCALE(e *scale.Encoder) {
	if i.Encrypted != nil {
		e.EncodeByte(encryptedInner)
		i.Encrypted.MarshalSCALE(e)
		return
	}
	e.EncodeByte(plainInner)
	e.EncodeBytes(i.Plain)
}

// UnmarshalSCALE reads the discriminant and the payload.
func (i *InnerTx) UnmarshalSCALE(d *scale.Decoder) (err error) {
	*i = InnerTx{}
	b, err := d.DecodeByte()
	if err != nil {
		return err
	}
	switch b {
	case plainInner:
		i.Plain, err = d.DecodeBytes()
		return err
	case encryptedInner:
		i.Encrypted = new(EncryptedTx)
		return i.Encrypted.UnmarshalSCALE(d)
	default:
		return fmt.Errorf("inner transaction discriminant %d", b)
	}
}
