// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/scale"

	"github.com/shopspring/decimal"
)

const (
	// MaxDecimalPlaces is the number of decimal places of a token amount.
	MaxDecimalPlaces = 6
	// Scale is the number of micro units in a whole token.
	Scale = 1_000_000
)

var (
	// ErrInvalidAmount is returned when an amount does not parse.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountOverflow is returned when an amount operation overflows.
	ErrAmountOverflow = errors.New("amount overflow")
)

// Amount is a token amount in micro units.
type Amount uint64

// Whole returns the amount of whole tokens.
func Whole(tokens uint64) (Amount, error) {
	if tokens > math.MaxUint64/Scale {
		return 0, fmt.Errorf("%w: %d whole tokens", ErrAmountOverflow, tokens)
	}
	return Amount(tokens * Scale), nil
}

// ParseAmount parses a non-negative base-10 integer amount of micro units.
// Signs, whitespace and fractional parts are rejected.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a non-negative integer", ErrInvalidAmount, s)
		}
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	return Amount(v), nil
}

// Add is a checked addition, returning an error on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, fmt.Errorf("%w: %d + %d", ErrAmountOverflow, a, b)
	}
	return sum, nil
}

// Sub is a checked subtraction, returning an error on underflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d", ErrAmountOverflow, a, b)
	}
	return a - b, nil
}

// Decimal returns the amount in whole tokens as a decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(a)), -MaxDecimalPlaces)
}

func (a Amount) String() string {
	return a.Decimal().String()
}

// MarshalSCALE writes the amount as a little endian u64.
func (a Amount) MarshalSCALE(e *scale.Encoder) {
	e.EncodeUint64(uint64(a))
}

// UnmarshalSCALE reads a little endian u64 amount.
func (a *Amount) UnmarshalSCALE(d *scale.Decoder) error {
	v, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// Transfer is the data of a token transfer transaction.
type Transfer struct {
	Source address.Address
	Target address.Address
	Token  address.Address
	Amount Amount
}

// MarshalSCALE encodes the transfer fields in order.
func (t Transfer) MarshalSCALE(e *scale.Encoder) {
	t.Source.MarshalSCALE(e)
	t.Target.MarshalSCALE(e)
	t.Token.MarshalSCALE(e)
	t.Amount.MarshalSCALE(e)
}

// UnmarshalSCALE decodes the transfer fields in order.
func (t *Transfer) UnmarshalSCALE(d *scale.Decoder) error {
	if err := t.Source.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := t.Target.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if err := t.Token.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if err := t.Amount.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return nil
}
