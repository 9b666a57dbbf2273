// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
	"github.com/ChainSafe/anoma-go/lib/keystore"
	"github.com/ChainSafe/anoma-go/lib/scale"

	"github.com/ChainSafe/chaindb"
	bip39 "github.com/cosmos/go-bip39"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "wallet"))

const (
	keyPrefix     = "key"
	addressPrefix = "addr"
	mnemonicBits  = 256
	seedLength    = 32
)

var aliasIndexKey = []byte("aliases")

var (
	// ErrInvalidAlias is returned for an empty alias.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrAliasExists is returned when the alias is already stored.
	ErrAliasExists = errors.New("alias already exists")
	// ErrUnknownAlias is returned when no address is stored for the alias.
	ErrUnknownAlias = errors.New("unknown alias")
	// ErrInvalidMnemonic is returned when a mnemonic does not decode.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
)

// Config is the configuration of a wallet database.
type Config struct {
	DataDir  string
	InMemory bool
}

// Wallet stores encrypted keys and addresses by alias.
type Wallet struct {
	mu        sync.Mutex
	db        chaindb.Database
	keys      chaindb.Database
	addresses chaindb.Database
}

// Open opens the wallet database.
func Open(cfg Config) (*Wallet, error) {
	db, err := chaindb.NewBadgerDB(&chaindb.Config{
		DataDir:  cfg.DataDir,
		InMemory: cfg.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open wallet database: %w", err)
	}

	logger.Debugf("opened wallet at %s", cfg.DataDir)
	return &Wallet{
		db:        db,
		keys:      chaindb.NewTable(db, keyPrefix),
		addresses: chaindb.NewTable(db, addressPrefix),
	}, nil
}

// Close closes the wallet database.
func (w *Wallet) Close() error {
	return w.db.Close()
}

func normalizeAlias(alias string) (string, error) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		return "", ErrInvalidAlias
	}
	return alias, nil
}

// GenerateKey generates a keypair from a new mnemonic, stores it encrypted
// with the password and returns its implicit address and the mnemonic.
func (w *Wallet) GenerateKey(alias string, keyType crypto.KeyType, password []byte) (
	addr address.Address, mnemonic string, err error) {
	entropy, err := bip39.NewEntropy(mnemonicBits)
	if err != nil {
		return addr, "", err
	}
	mnemonic, err = bip39.NewMnemonic(entropy)
	if err != nil {
		return addr, "", err
	}

	addr, err = w.RestoreKey(alias, keyType, mnemonic, password)
	if err != nil {
		return address.Address{}, "", err
	}
	return addr, mnemonic, nil
}

// RestoreKey derives the keypair of the mnemonic and stores it encrypted
// with the password.
func (w *Wallet) RestoreKey(alias string, keyType crypto.KeyType, mnemonic string, password []byte) (
	address.Address, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return address.Address{}, fmt.Errorf("%w: %s", ErrInvalidMnemonic, err)
	}

	kp, err := keys.KeypairFromSeed(keyType, seed[:seedLength])
	if err != nil {
		return address.Address{}, err
	}
	return w.ImportKeypair(alias, kp, password)
}

// ImportKeypair stores the keypair encrypted with the password and returns
// its implicit address.
func (w *Wallet) ImportKeypair(alias string, kp crypto.Keypair, password []byte) (address.Address, error) {
	alias, err := normalizeAlias(alias)
	if err != nil {
		return address.Address{}, err
	}

	encrypted, err := keystore.EncryptKeypair(kp, password)
	if err != nil {
		return address.Address{}, err
	}
	record, err := json.Marshal(encrypted)
	if err != nil {
		return address.Address{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	addr := address.FromPublicKey(kp.Public())
	batch := w.db.NewBatch()
	if err = w.stageAddress(batch, alias, addr); err != nil {
		return address.Address{}, err
	}
	if err = batch.Put(tableKey(keyPrefix, alias), record); err != nil {
		return address.Address{}, err
	}
	if err = batch.Flush(); err != nil {
		return address.Address{}, fmt.Errorf("cannot store key %s: %w", alias, err)
	}

	logger.Infof("stored %s key %s as %s", kp.Type(), addr, alias)
	return addr, nil
}

// AddAddress stores the address under the alias.
func (w *Wallet) AddAddress(alias string, addr address.Address) error {
	alias, err := normalizeAlias(alias)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	batch := w.db.NewBatch()
	if err = w.stageAddress(batch, alias, addr); err != nil {
		return err
	}
	if err = batch.Flush(); err != nil {
		return fmt.Errorf("cannot store address %s: %w", alias, err)
	}
	return nil
}

// stageAddress adds the address and the updated alias index to the batch.
// Nothing is written until the batch is flushed.
func (w *Wallet) stageAddress(batch chaindb.Batch, alias string, addr address.Address) error {
	has, err := w.addresses.Has([]byte(alias))
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %s", ErrAliasExists, alias)
	}

	aliases, err := w.aliases()
	if err != nil {
		return err
	}
	aliases = append(aliases, alias)
	sort.Strings(aliases)

	if err = batch.Put(tableKey(addressPrefix, alias), addr.Bytes()); err != nil {
		return err
	}
	return batch.Put(aliasIndexKey, scale.Marshal(aliasList(aliases)))
}

// tableKey is the key of the alias in the chaindb table with the prefix.
func tableKey(prefix, alias string) []byte {
	return append([]byte(prefix), alias...)
}

// Lookup returns the address stored under the alias.
func (w *Wallet) Lookup(alias string) (address.Address, error) {
	alias, err := normalizeAlias(alias)
	if err != nil {
		return address.Address{}, err
	}

	b, err := w.addresses.Get([]byte(alias))
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return address.Address{}, fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	} else if err != nil {
		return address.Address{}, err
	}
	return address.FromBytes(b)
}

// Aliases returns the stored aliases in order.
func (w *Wallet) Aliases() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.aliases()
}

func (w *Wallet) aliases() ([]string, error) {
	b, err := w.db.Get(aliasIndexKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var aliases aliasList
	if err = scale.Unmarshal(b, &aliases); err != nil {
		return nil, fmt.Errorf("cannot decode alias index: %w", err)
	}
	return aliases, nil
}

// Unlock decrypts every stored key with the password and returns a
// keystore holding them with their aliases.
func (w *Wallet) Unlock(password []byte) (*keystore.BasicKeystore, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	aliases, err := w.aliases()
	if err != nil {
		return nil, err
	}

	ks := keystore.NewGenericKeystore()
	for _, alias := range aliases {
		b, err := w.addresses.Get([]byte(alias))
		if err != nil {
			return nil, fmt.Errorf("address of %s: %w", alias, err)
		}
		addr, err := address.FromBytes(b)
		if err != nil {
			return nil, fmt.Errorf("address of %s: %w", alias, err)
		}
		if err = ks.AddAlias(alias, addr); err != nil {
			return nil, err
		}

		record, err := w.keys.Get([]byte(alias))
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("key of %s: %w", alias, err)
		}

		encrypted := new(keystore.EncryptedKeystore)
		if err = json.Unmarshal(record, encrypted); err != nil {
			return nil, fmt.Errorf("key of %s: %w", alias, err)
		}
		kp, err := keystore.DecryptKeypair(encrypted, password)
		if err != nil {
			return nil, fmt.Errorf("key of %s: %w", alias, err)
		}
		if err = ks.Insert(addr, kp); err != nil {
			return nil, err
		}
	}

	logger.Debugf("unlocked %d keys", ks.Size())
	return ks, nil
}

type aliasList []string

func (l aliasList) MarshalSCALE(e *scale.Encoder) {
	e.EncodeLength(len(l))
	for _, alias := range l {
		e.EncodeString(alias)
	}
}

func (l *aliasList) UnmarshalSCALE(d *scale.Decoder) error {
	n, err := d.DecodeLength(1)
	if err != nil {
		return err
	}
	aliases := make(aliasList, n)
	for i := range aliases {
		if aliases[i], err = d.DecodeString(); err != nil {
			return err
		}
	}
	*l = aliases
	return nil
}
