// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package keystore

import (
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
)

// TestAccounts are the names of the accounts of a test keyring.
var TestAccounts = []string{
	"albert",
	"bertha",
	"christel",
	"daewon",
	"ester",
}

// Keyring represents a test keyring
type Keyring struct {
	keyType crypto.KeyType
	keys    map[string]crypto.Keypair
}

// NewKeyring returns a keyring of the test accounts with keys of the given
// scheme. Each key is derived from the blake2b hash of the account name.
func NewKeyring(keyType crypto.KeyType) (*Keyring, error) {
	kr := &Keyring{
		keyType: keyType,
		keys:    make(map[string]crypto.Keypair, len(TestAccounts)),
	}

	for _, name := range TestAccounts {
		seed, err := common.Blake2bHash([]byte(name))
		if err != nil {
			return nil, err
		}

		kp, err := keys.KeypairFromSeed(keyType, seed.ToBytes())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		kr.keys[name] = kp
	}

	return kr, nil
}

// Keypair returns the key of the named account.
func (kr *Keyring) Keypair(name string) (kp crypto.Keypair, ok bool) {
	kp, ok = kr.keys[name]
	return kp, ok
}

// Address returns the implicit address of the named account.
func (kr *Keyring) Address(name string) (addr address.Address, ok bool) {
	kp, ok := kr.keys[name]
	if !ok {
		return addr, false
	}
	return address.FromPublicKey(kp.Public()), true
}

// Albert returns Albert's key
func (kr *Keyring) Albert() crypto.Keypair {
	return kr.keys["albert"]
}

// Bertha returns Bertha's key
func (kr *Keyring) Bertha() crypto.Keypair {
	return kr.keys["bertha"]
}

// Christel returns Christel's key
func (kr *Keyring) Christel() crypto.Keypair {
	return kr.keys["christel"]
}

// Keystore returns a keystore holding every account key under its implicit
// address, aliased by the account name.
func (kr *Keyring) Keystore() (*BasicKeystore, error) {
	ks := NewBasicKeystore(kr.keyType)
	for _, name := range TestAccounts {
		addr, err := ks.InsertImplicit(kr.keys[name])
		if err != nil {
			return nil, err
		}
		if err = ks.AddAlias(name, addr); err != nil {
			return nil, err
		}
	}
	return ks, nil
}
