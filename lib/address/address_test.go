// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package address

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ChainSafe/anoma-go/lib/crypto/ed25519"
	"github.com/ChainSafe/anoma-go/lib/scale"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Address_StringRoundTrip(t *testing.T) {
	t.Parallel()

	kp, err := ed25519.GenerateKeypair()
	require.NoError(t, err)

	testCases := map[string]struct {
		address Address
	}{
		"established": {address: NewEstablished([]byte("seed"))},
		"implicit":    {address: FromPublicKey(kp.Public())},
		"internal":    {address: PoS},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := testCase.address.String()
			assert.True(t, strings.HasPrefix(s, HRP+"1"))

			decoded, err := Decode(s)
			require.NoError(t, err)
			assert.Equal(t, testCase.address, decoded)
		})
	}
}

func Test_Decode(t *testing.T) {
	t.Parallel()

	otherHRP, err := bech32.ConvertBits(XAN.Bytes(), 8, 5, true)
	require.NoError(t, err)
	wrongPrefix, err := bech32.Encode("other", otherHRP)
	require.NoError(t, err)

	unknownKind := append([]byte{9}, make([]byte, HashLength)...)
	unknownKindData, err := bech32.ConvertBits(unknownKind, 8, 5, true)
	require.NoError(t, err)
	unknownKindString, err := bech32.Encode(HRP, unknownKindData)
	require.NoError(t, err)

	valid := XAN.String()
	corrupted := valid[:len(valid)-1] + "q"
	if corrupted == valid {
		corrupted = valid[:len(valid)-1] + "p"
	}

	testCases := map[string]struct {
		s string
	}{
		"empty":          {s: ""},
		"not bech32":     {s: "hello"},
		"wrong prefix":   {s: wrongPrefix},
		"bad checksum":   {s: corrupted},
		"unknown kind":   {s: unknownKindString},
		"negative-ish":   {s: "-" + valid},
		"trailing space": {s: valid + " "},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(testCase.s)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func Test_FromPublicKey(t *testing.T) {
	t.Parallel()

	kp, err := ed25519.NewKeypairFromSeed(make([]byte, 32))
	require.NoError(t, err)
	other, err := ed25519.GenerateKeypair()
	require.NoError(t, err)

	addr := FromPublicKey(kp.Public())
	assert.Equal(t, Implicit, addr.Kind())
	assert.Equal(t, addr, FromPublicKey(kp.Public()))
	assert.NotEqual(t, addr, FromPublicKey(other.Public()))
}

func Test_Address_SCALE(t *testing.T) {
	t.Parallel()

	encoded := scale.Marshal(Governance)
	require.Len(t, encoded, encodedLength)
	assert.Equal(t, byte(Internal), encoded[0])

	var decoded Address
	err := scale.Unmarshal(encoded, &decoded)
	require.NoError(t, err)
	assert.Equal(t, Governance, decoded)

	encoded[0] = 0
	err = scale.Unmarshal(encoded, &decoded)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	err = scale.Unmarshal(encoded[:5], &decoded)
	assert.ErrorIs(t, err, scale.ErrTruncated)
}

func Test_Address_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(BTC)
	require.NoError(t, err)

	var decoded Address
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, BTC, decoded)

	err = json.Unmarshal([]byte(`"nope"`), &decoded)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func Test_TokenBySymbol(t *testing.T) {
	t.Parallel()

	token, ok := TokenBySymbol("xan")
	require.True(t, ok)
	assert.Equal(t, XAN, token)

	_, ok = TokenBySymbol("doge")
	assert.False(t, ok)
}
