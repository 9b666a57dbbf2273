// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
)

// ErrDecrypt is returned when a ciphertext does not decrypt with the password.
var ErrDecrypt = errors.New("cannot decrypt: wrong password or corrupted data")

// EncryptedKeystore is the file format of an encrypted private key.
type EncryptedKeystore struct {
	Type       string `json:"type"`
	PublicKey  string `json:"publicKey"`
	Ciphertext []byte `json:"ciphertext"`
}

func newGCM(password []byte) (cipher.AEAD, error) {
	key, err := common.Blake2bHash(password)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key.ToBytes())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt uses AES-GCM to encrypt the message, keyed by the blake2b hash
// of the password. The nonce is prepended to the ciphertext.
func Encrypt(msg, password []byte) ([]byte, error) {
	gcm, err := newGCM(password)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, msg, nil), nil
}

// Decrypt reverses Encrypt.
func Decrypt(data, password []byte) ([]byte, error) {
	gcm, err := newGCM(password)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecrypt, err)
	}
	return plaintext, nil
}

// EncryptPrivateKey encrypts the encoding of the private key.
func EncryptPrivateKey(pk crypto.PrivateKey, password []byte) ([]byte, error) {
	return Encrypt(pk.Encode(), password)
}

// DecryptPrivateKey decrypts and decodes a private key of the given scheme.
func DecryptPrivateKey(data, password []byte, keyType crypto.KeyType) (crypto.PrivateKey, error) {
	plaintext, err := Decrypt(data, password)
	if err != nil {
		return nil, err
	}
	return keys.DecodePrivateKey(keyType, plaintext)
}

// EncryptKeypair encrypts the keypair into its file format.
func EncryptKeypair(kp crypto.Keypair, password []byte) (*EncryptedKeystore, error) {
	ciphertext, err := EncryptPrivateKey(kp.Private(), password)
	if err != nil {
		return nil, err
	}
	return &EncryptedKeystore{
		Type:       kp.Type(),
		PublicKey:  kp.Public().Hex(),
		Ciphertext: ciphertext,
	}, nil
}

// DecryptKeypair decrypts a keypair from its file format.
func DecryptKeypair(ks *EncryptedKeystore, password []byte) (crypto.Keypair, error) {
	plaintext, err := Decrypt(ks.Ciphertext, password)
	if err != nil {
		return nil, err
	}
	kp, err := keys.DecodeKeypair(ks.Type, plaintext)
	if err != nil {
		return nil, err
	}
	if kp.Public().Hex() != ks.PublicKey {
		return nil, fmt.Errorf("%w: public key mismatch", ErrDecrypt)
	}
	return kp, nil
}

// EncryptAndWriteToFile encrypts the keypair and writes it as JSON to the file.
func EncryptAndWriteToFile(file *os.File, kp crypto.Keypair, password []byte) error {
	ks, err := EncryptKeypair(kp, password)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(ks, "", "\t")
	if err != nil {
		return err
	}
	_, err = file.Write(data)
	return err
}

// ReadFromFileAndDecrypt reads and decrypts the keypair written by
// EncryptAndWriteToFile.
func ReadFromFileAndDecrypt(filename string, password []byte) (crypto.Keypair, error) {
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return nil, err
	}

	ks := new(EncryptedKeystore)
	if err = json.Unmarshal(data, ks); err != nil {
		return nil, err
	}
	return DecryptKeypair(ks, password)
}
