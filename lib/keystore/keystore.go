// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package keystore

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/crypto"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "keystore"))

var (
	// ErrKeyNotFound is returned when no key is stored for an address.
	ErrKeyNotFound = errors.New("key not found")
	// ErrAliasTaken is returned when an alias already names another address.
	ErrAliasTaken = errors.New("alias already in use")
	// ErrUnknownAlias is returned when an alias names no address.
	ErrUnknownAlias = errors.New("unknown alias")
	// ErrInvalidKeyType is returned when a keypair is not of the keystore scheme.
	ErrInvalidKeyType = errors.New("invalid key type for keystore")
)

// KeyFinder finds the key material of an address.
type KeyFinder interface {
	FindKeypair(addr address.Address) (crypto.Keypair, error)
	FindPublicKey(addr address.Address) (crypto.PublicKey, error)
}

// Keystore provides key management functionality
type Keystore interface {
	KeyFinder
	Type() crypto.KeyType
	Insert(addr address.Address, kp crypto.Keypair) error
	InsertImplicit(kp crypto.Keypair) (address.Address, error)
	Addresses() []address.Address
	Size() int
}

// BasicKeystore is an in-memory keystore mapping addresses to keypairs.
// A keystore of crypto.UnknownType accepts keypairs of any scheme.
type BasicKeystore struct {
	keyType crypto.KeyType

	mu      sync.RWMutex
	keys    map[address.Address]crypto.Keypair
	aliases map[string]address.Address
}

// NewBasicKeystore creates a new BasicKeystore holding keys of the given scheme.
func NewBasicKeystore(keyType crypto.KeyType) *BasicKeystore {
	return &BasicKeystore{
		keyType: keyType,
		keys:    make(map[address.Address]crypto.Keypair),
		aliases: make(map[string]address.Address),
	}
}

// NewGenericKeystore creates a new BasicKeystore accepting keys of any scheme.
func NewGenericKeystore() *BasicKeystore {
	return NewBasicKeystore(crypto.UnknownType)
}

// Type returns the scheme of the stored keys.
func (ks *BasicKeystore) Type() crypto.KeyType {
	return ks.keyType
}

// Insert stores the keypair as the key of the address, replacing any
// previous key of that address.
func (ks *BasicKeystore) Insert(addr address.Address, kp crypto.Keypair) error {
	if ks.keyType != crypto.UnknownType && kp.Type() != ks.keyType {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidKeyType, ks.keyType, kp.Type())
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.keys[addr] = kp
	logger.Tracef("inserted %s key for %s", kp.Type(), addr)
	return nil
}

// InsertImplicit stores the keypair under the implicit address of its
// public key and returns that address.
func (ks *BasicKeystore) InsertImplicit(kp crypto.Keypair) (address.Address, error) {
	addr := address.FromPublicKey(kp.Public())
	if err := ks.Insert(addr, kp); err != nil {
		return address.Address{}, err
	}
	return addr, nil
}

// FindKeypair returns the keypair of the address.
func (ks *BasicKeystore) FindKeypair(addr address.Address) (crypto.Keypair, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	kp, ok := ks.keys[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, addr)
	}
	return kp, nil
}

// FindPublicKey returns the public key of the address.
func (ks *BasicKeystore) FindPublicKey(addr address.Address) (crypto.PublicKey, error) {
	kp, err := ks.FindKeypair(addr)
	if err != nil {
		return nil, err
	}
	return kp.Public(), nil
}

// AddAlias names the address. An alias can only be reassigned to the
// address it already names.
func (ks *BasicKeystore) AddAlias(alias string, addr address.Address) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if existing, ok := ks.aliases[alias]; ok && existing != addr {
		return fmt.Errorf("%w: %s", ErrAliasTaken, alias)
	}
	ks.aliases[alias] = addr
	return nil
}

// Lookup returns the address named by the alias.
func (ks *BasicKeystore) Lookup(alias string) (address.Address, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	addr, ok := ks.aliases[alias]
	if !ok {
		return address.Address{}, fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}
	return addr, nil
}

// Addresses returns the addresses with a stored key, in string order.
func (ks *BasicKeystore) Addresses() []address.Address {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	addresses := make([]address.Address, 0, len(ks.keys))
	for addr := range ks.keys {
		addresses = append(addresses, addr)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].String() < addresses[j].String()
	})
	return addresses
}

// Size returns the number of stored keys.
func (ks *BasicKeystore) Size() int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.keys)
}
