// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package wallet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
	"github.com/ChainSafe/anoma-go/lib/keystore"

	"github.com/ChainSafe/chaindb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(t *testing.T) *Wallet {
	t.Helper()

	w, err := Open(Config{DataDir: t.TempDir(), InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = w.Close()
	})
	return w
}

func Test_Wallet_GenerateKey_Unlock(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	password := []byte("hunter2")

	addr, mnemonic, err := w.GenerateKey("Albert", crypto.Ed25519Type, password)
	require.NoError(t, err)
	assert.Equal(t, address.Implicit, addr.Kind())
	assert.NotEmpty(t, mnemonic)

	found, err := w.Lookup("albert")
	require.NoError(t, err)
	assert.Equal(t, addr, found)

	established := address.NewEstablished([]byte("multisig"))
	require.NoError(t, w.AddAddress("multisig", established))

	aliases, err := w.Aliases()
	require.NoError(t, err)
	assert.Equal(t, []string{"albert", "multisig"}, aliases)

	ks, err := w.Unlock(password)
	require.NoError(t, err)
	assert.Equal(t, 1, ks.Size())

	kp, err := ks.FindKeypair(addr)
	require.NoError(t, err)
	assert.Equal(t, addr, address.FromPublicKey(kp.Public()))

	aliased, err := ks.Lookup("multisig")
	require.NoError(t, err)
	assert.Equal(t, established, aliased)

	_, err = w.Unlock([]byte("wrong"))
	assert.ErrorIs(t, err, keystore.ErrDecrypt)
}

func Test_Wallet_RestoreKey(t *testing.T) {
	t.Parallel()

	const mnemonic = "abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon about"

	first := newTestWallet(t)
	second := newTestWallet(t)

	addr, err := first.RestoreKey("key", crypto.Sr25519Type, mnemonic, []byte("a"))
	require.NoError(t, err)
	again, err := second.RestoreKey("other", crypto.Sr25519Type, mnemonic, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, addr, again)

	_, err = first.RestoreKey("bad", crypto.Sr25519Type, "abandon abandon", []byte("a"))
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func Test_Wallet_errors(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	addr := address.NewEstablished([]byte("a"))

	err := w.AddAddress("  ", addr)
	assert.ErrorIs(t, err, ErrInvalidAlias)

	require.NoError(t, w.AddAddress("a", addr))
	err = w.AddAddress("A", addr)
	assert.ErrorIs(t, err, ErrAliasExists)

	_, err = w.Lookup("b")
	assert.ErrorIs(t, err, ErrUnknownAlias)

	aliases, err := w.Aliases()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, aliases)
}

var errTest = errors.New("test error")

// failingDatabase returns batches failing the writes under a key prefix.
type failingDatabase struct {
	chaindb.Database
	prefix []byte
}

func (db *failingDatabase) NewBatch() chaindb.Batch {
	return &failingBatch{Batch: db.Database.NewBatch(), prefix: db.prefix}
}

type failingBatch struct {
	chaindb.Batch
	prefix []byte
}

func (b *failingBatch) Put(key, value []byte) error {
	if bytes.HasPrefix(key, b.prefix) {
		return errTest
	}
	return b.Batch.Put(key, value)
}

func Test_Wallet_ImportKeypair_atomic(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	require.NoError(t, w.AddAddress("multisig", address.NewEstablished([]byte("multisig"))))

	kp, err := keys.GenerateKeypair(crypto.Ed25519Type)
	require.NoError(t, err)

	w.db = &failingDatabase{Database: w.db, prefix: []byte(keyPrefix)}
	_, err = w.ImportKeypair("albert", kp, []byte("hunter2"))
	assert.ErrorIs(t, err, errTest)

	_, err = w.Lookup("albert")
	assert.ErrorIs(t, err, ErrUnknownAlias)
	aliases, err := w.Aliases()
	require.NoError(t, err)
	assert.Equal(t, []string{"multisig"}, aliases)

	w.db = w.db.(*failingDatabase).Database
	addr, err := w.ImportKeypair("albert", kp, []byte("hunter2"))
	require.NoError(t, err)
	ks, err := w.Unlock([]byte("hunter2"))
	require.NoError(t, err)
	found, err := ks.FindKeypair(addr)
	require.NoError(t, err)
	assert.Equal(t, kp.Public().Encode(), found.Public().Encode())
}
