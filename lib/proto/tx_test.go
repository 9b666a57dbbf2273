// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package proto

import (
	"testing"
	"time"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
	"github.com/ChainSafe/anoma-go/lib/datetime"
	"github.com/ChainSafe/anoma-go/lib/scale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTx(t *testing.T) *Tx {
	t.Helper()
	timestamp := datetime.MustNew(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	return &Tx{
		Code:      []byte("tx_transfer.wasm"),
		Data:      []byte{1, 2, 3},
		Timestamp: &timestamp,
	}
}

func Test_DecodeTx_roundTrip(t *testing.T) {
	t.Parallel()

	signed := newTestTx(t)
	for _, keyType := range []crypto.KeyType{crypto.Ed25519Type, crypto.Sr25519Type, crypto.Secp256k1Type} {
		kp, err := keys.GenerateKeypair(keyType)
		require.NoError(t, err)
		require.NoError(t, signed.Sign(kp))
	}

	testCases := map[string]struct {
		tx *Tx
	}{
		"empty": {
			tx: &Tx{Code: []byte{}},
		},
		"empty data is not absent data": {
			tx: &Tx{Code: []byte{0xaa}, Data: []byte{}},
		},
		"timestamped": {
			tx: newTestTx(t),
		},
		"signed": {
			tx: signed,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			encoded := testCase.tx.Encode()
			decoded, err := DecodeTx(encoded)
			require.NoError(t, err)
			assert.Equal(t, encoded, decoded.Encode())
			assert.Equal(t, testCase.tx.Hash(), decoded.Hash())
			assert.Equal(t, testCase.tx.Data == nil, decoded.Data == nil)
		})
	}
}

func Test_DecodeTx_errors(t *testing.T) {
	t.Parallel()

	tx := newTestTx(t)
	kp, err := keys.GenerateKeypair(crypto.Ed25519Type)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(kp))
	encoded := tx.Encode()

	unknownKeyType := newTestTx(t)
	unknownKeyType.Signatures = []Signature{{KeyType: "rsa", PublicKey: []byte{1}, Signature: []byte{2}}}

	badPublicKey := newTestTx(t)
	badPublicKey.Signatures = []Signature{{KeyType: crypto.Ed25519Type, PublicKey: []byte{1}, Signature: []byte{2}}}

	e := scale.NewEncoder()
	e.EncodeBytes(nil)
	e.EncodeOptionBytes(nil)
	e.EncodeByte(1)
	// 10000-01-01T00:00:00Z
	e.EncodeInt64(253402300800)
	e.EncodeUint32(0)
	e.EncodeLength(0)
	badTimestamp, err := e.Bytes()
	require.NoError(t, err)

	testCases := map[string]struct {
		b []byte
	}{
		"nil":                     {b: nil},
		"truncated":               {b: encoded[:len(encoded)-1]},
		"truncated in code":       {b: encoded[:3]},
		"trailing bytes":          {b: append(append([]byte{}, encoded...), 0)},
		"invalid option":          {b: []byte{0, 2}},
		"oversized length prefix": {b: []byte{0xfd, 0xff, 0xff, 0xff}},
		"unknown key type":        {b: unknownKeyType.Encode()},
		"invalid public key":      {b: badPublicKey.Encode()},
		"timestamp out of range":  {b: badTimestamp},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tx, err := DecodeTx(testCase.b)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Nil(t, tx)
		})
	}
}

func Test_Tx_Sign_VerifySignatures(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		keyType crypto.KeyType
	}{
		"ed25519":   {keyType: crypto.Ed25519Type},
		"sr25519":   {keyType: crypto.Sr25519Type},
		"secp256k1": {keyType: crypto.Secp256k1Type},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tx := newTestTx(t)
			err := tx.VerifySignatures()
			assert.ErrorIs(t, err, ErrNoSignature)

			kp, err := keys.GenerateKeypair(testCase.keyType)
			require.NoError(t, err)

			signingBytes := tx.SigningBytes()
			require.NoError(t, tx.Sign(kp))
			assert.Equal(t, signingBytes, tx.SigningBytes())
			require.NoError(t, tx.VerifySignatures())
			assert.True(t, tx.IsSignedBy(kp.Public()))

			other, err := keys.GenerateKeypair(testCase.keyType)
			require.NoError(t, err)
			assert.False(t, tx.IsSignedBy(other.Public()))

			tx.Data = []byte{4, 5, 6}
			assert.Error(t, tx.VerifySignatures())
			assert.False(t, tx.IsSignedBy(kp.Public()))
		})
	}
}

func Test_Tx_Hash(t *testing.T) {
	t.Parallel()

	tx := newTestTx(t)
	assert.Equal(t, common.HashOf(tx.Encode()), tx.Hash())

	other := newTestTx(t)
	other.Code = []byte("tx_bond.wasm")
	assert.NotEqual(t, tx.Hash(), other.Hash())
}

func Test_NewTx(t *testing.T) {
	t.Parallel()

	tx := NewTx([]byte{1}, nil)
	require.NotNil(t, tx.Timestamp)
	assert.Nil(t, tx.Data)
	assert.Empty(t, tx.Signatures)

	decoded, err := DecodeTx(tx.Encode())
	require.NoError(t, err)
	assert.True(t, tx.Timestamp.Equal(*decoded.Timestamp))
}
