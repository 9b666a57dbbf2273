// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package intent

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/datetime"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/proto/wire"
	"github.com/ChainSafe/anoma-go/lib/scale"
	"github.com/ChainSafe/anoma-go/lib/token"

	"github.com/shopspring/decimal"
)

var (
	// ErrPrecisionOverflow is returned when an amount does not fit the precision of a DecimalWrapper.
	ErrPrecisionOverflow = errors.New("amount exceeds decimal precision")
	// ErrInvalidIntent is returned when the data of an intent is inconsistent.
	ErrInvalidIntent = errors.New("invalid intent")
)

// DecimalWrapper is a non-negative exchange rate with six decimal places.
type DecimalWrapper struct {
	value decimal.Decimal
}

// NewDecimalWrapper converts an amount of micro units into a decimal.
// It fails with ErrPrecisionOverflow if the amount does not fit a signed 64 bits mantissa.
func NewDecimalWrapper(amount token.Amount) (DecimalWrapper, error) {
	if uint64(amount) > math.MaxInt64 {
		return DecimalWrapper{}, fmt.Errorf("%w: %d", ErrPrecisionOverflow, uint64(amount))
	}
	return DecimalWrapper{
		value: decimal.New(int64(amount), -token.MaxDecimalPlaces),
	}, nil
}

// Decimal returns the wrapped decimal.
func (w DecimalWrapper) Decimal() decimal.Decimal {
	return w.value
}

// Amount converts the decimal back into micro units.
func (w DecimalWrapper) Amount() token.Amount {
	return token.Amount(w.value.Shift(token.MaxDecimalPlaces).IntPart())
}

func (w DecimalWrapper) String() string {
	return w.value.String()
}

// MarshalSCALE writes the decimal as its amount of micro units.
func (w DecimalWrapper) MarshalSCALE(e *scale.Encoder) {
	w.Amount().MarshalSCALE(e)
}

// UnmarshalSCALE reads an amount of micro units and converts it.
func (w *DecimalWrapper) UnmarshalSCALE(d *scale.Decoder) error {
	var amount token.Amount
	if err := amount.UnmarshalSCALE(d); err != nil {
		return err
	}
	wrapper, err := NewDecimalWrapper(amount)
	if err != nil {
		return err
	}
	*w = wrapper
	return nil
}

// Intent is an unmatched offer to exchange tokens.
type Intent struct {
	Addr      address.Address
	TokenSell address.Address
	MaxSell   token.Amount
	TokenBuy  address.Address
	MinBuy    token.Amount
	RateMin   DecimalWrapper
	Timestamp datetime.DateTimeUtc
}

// Validate checks the consistency of the intent.
func (i Intent) Validate() error {
	switch {
	case i.TokenSell == i.TokenBuy:
		return fmt.Errorf("%w: sells and buys the same token %s", ErrInvalidIntent, i.TokenSell)
	case i.MaxSell == 0:
		return fmt.Errorf("%w: nothing to sell", ErrInvalidIntent)
	}
	return nil
}

// MarshalSCALE encodes the exchange data of the intent.
// The timestamp travels in the gossip envelope.
func (i Intent) MarshalSCALE(e *scale.Encoder) {
	i.Addr.MarshalSCALE(e)
	i.TokenSell.MarshalSCALE(e)
	i.MaxSell.MarshalSCALE(e)
	i.TokenBuy.MarshalSCALE(e)
	i.MinBuy.MarshalSCALE(e)
	i.RateMin.MarshalSCALE(e)
}

// UnmarshalSCALE decodes the exchange data of the intent.
func (i *Intent) UnmarshalSCALE(d *scale.Decoder) error {
	if err := i.Addr.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("addr: %w", err)
	}
	if err := i.TokenSell.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("token sell: %w", err)
	}
	if err := i.MaxSell.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("max sell: %w", err)
	}
	if err := i.TokenBuy.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("token buy: %w", err)
	}
	if err := i.MinBuy.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("min buy: %w", err)
	}
	if err := i.RateMin.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("rate min: %w", err)
	}
	return nil
}

// FromProto decodes the data of a gossiped intent.
func FromProto(p proto.Intent) (intent Intent, err error) {
	if err = scale.Unmarshal(p.Data, &intent); err != nil {
		return Intent{}, fmt.Errorf("%w: %s", proto.ErrDecode, err)
	}
	if err = intent.Validate(); err != nil {
		return Intent{}, err
	}
	intent.Timestamp = p.Timestamp
	return intent, nil
}

// FromWire validates and decodes the wire representation of an intent.
func FromWire(w *wire.Intent) (Intent, error) {
	p, err := proto.NewIntentFromWire(w)
	if err != nil {
		return Intent{}, err
	}
	return FromProto(p)
}

// ToProto wraps the intent into its gossip representation.
func (i Intent) ToProto() proto.Intent {
	return proto.Intent{
		Data:      scale.Marshal(i),
		Timestamp: i.Timestamp,
	}
}

// Hash returns the hash of the gossip representation of the intent.
func (i Intent) Hash() (common.Hash, error) {
	return i.ToProto().Hash()
}

// FromGossipMessage decodes every intent of a gossip message.
func FromGossipMessage(m *proto.IntentGossipMessage) ([]Intent, error) {
	intents := make([]Intent, len(m.Intents))
	for n, p := range m.Intents {
		intent, err := FromProto(p)
		if err != nil {
			return nil, fmt.Errorf("intent %d: %w", n, err)
		}
		intents[n] = intent
	}
	return intents, nil
}
