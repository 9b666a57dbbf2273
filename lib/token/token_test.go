// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"math"
	"testing"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/scale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseAmount(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s          string
		amount     Amount
		errWrapped error
	}{
		"zero":          {s: "0", amount: 0},
		"value":         {s: "1000000", amount: 1_000_000},
		"leading zeros": {s: "007", amount: 7},
		"max":           {s: "18446744073709551615", amount: math.MaxUint64},
		"overflow":      {s: "18446744073709551616", errWrapped: ErrInvalidAmount},
		"empty":         {s: "", errWrapped: ErrInvalidAmount},
		"negative":      {s: "-1", errWrapped: ErrInvalidAmount},
		"plus sign":     {s: "+1", errWrapped: ErrInvalidAmount},
		"negative zero": {s: "-0", errWrapped: ErrInvalidAmount},
		"fraction":      {s: "1.5", errWrapped: ErrInvalidAmount},
		"hex":           {s: "0x10", errWrapped: ErrInvalidAmount},
		"space":         {s: " 1", errWrapped: ErrInvalidAmount},
		"underscore":    {s: "1_000", errWrapped: ErrInvalidAmount},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			amount, err := ParseAmount(testCase.s)

			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.amount, amount)
		})
	}
}

func Test_Amount_arithmetic(t *testing.T) {
	t.Parallel()

	sum, err := Amount(1).Add(2)
	require.NoError(t, err)
	assert.Equal(t, Amount(3), sum)

	_, err = Amount(math.MaxUint64).Add(1)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	diff, err := Amount(5).Sub(2)
	require.NoError(t, err)
	assert.Equal(t, Amount(3), diff)

	_, err = Amount(2).Sub(5)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	whole, err := Whole(3)
	require.NoError(t, err)
	assert.Equal(t, Amount(3_000_000), whole)

	_, err = Whole(math.MaxUint64)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func Test_Amount_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.5", Amount(1_500_000).String())
	assert.Equal(t, "0.000001", Amount(1).String())
	assert.Equal(t, "0", Amount(0).String())
	assert.Equal(t, "18446744073709.551615", Amount(math.MaxUint64).String())
}

func Test_Transfer_SCALE(t *testing.T) {
	t.Parallel()

	transfer := Transfer{
		Source: address.NewEstablished([]byte("alice")),
		Target: address.NewEstablished([]byte("bob")),
		Token:  address.XAN,
		Amount: 42,
	}

	encoded := scale.Marshal(transfer)
	var decoded Transfer
	require.NoError(t, scale.Unmarshal(encoded, &decoded))
	assert.Equal(t, transfer, decoded)

	err := scale.Unmarshal(encoded[:len(encoded)-1], &decoded)
	assert.ErrorIs(t, err, scale.ErrTruncated)
}
