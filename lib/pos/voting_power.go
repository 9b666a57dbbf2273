// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pos

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/scale"
	"github.com/ChainSafe/anoma-go/lib/token"
)

const (
	// MaxVotingPower is the largest voting power, so that every
	// voting power converts into a VotingPowerDelta.
	MaxVotingPower = math.MaxInt64
	// VotesPerToken is the number of micro token units per vote.
	VotesPerToken = token.Scale
)

var (
	// ErrNegativeVotingPower is returned when a negative delta is converted into a voting power.
	ErrNegativeVotingPower = errors.New("voting power cannot be negative")
	// ErrVotingPowerOverflow is returned when a voting power or delta leaves its range.
	ErrVotingPowerOverflow = errors.New("voting power overflow")
)

// VotingPower is the non-negative consensus weight of a validator.
type VotingPower struct {
	power uint64
}

// NewVotingPower returns the voting power, failing above MaxVotingPower.
func NewVotingPower(power uint64) (VotingPower, error) {
	if power > MaxVotingPower {
		return VotingPower{}, fmt.Errorf("%w: %d is above %d", ErrVotingPowerOverflow, power, uint64(MaxVotingPower))
	}
	return VotingPower{power: power}, nil
}

// VotingPowerFromTokens returns the voting power of a bonded amount.
// The result is always in range since the amount is divided by VotesPerToken.
func VotingPowerFromTokens(amount token.Amount) VotingPower {
	return VotingPower{power: uint64(amount) / VotesPerToken}
}

// Uint64 returns the voting power.
func (vp VotingPower) Uint64() uint64 {
	return vp.power
}

// Delta widens the voting power into a delta. It never fails.
func (vp VotingPower) Delta() VotingPowerDelta {
	return VotingPowerDelta(vp.power)
}

func (vp VotingPower) String() string {
	return fmt.Sprintf("%d", vp.power)
}

// MarshalSCALE writes the voting power as a little endian u64.
func (vp VotingPower) MarshalSCALE(e *scale.Encoder) {
	e.EncodeUint64(vp.power)
}

// UnmarshalSCALE reads and range checks a voting power.
func (vp *VotingPower) UnmarshalSCALE(d *scale.Decoder) error {
	v, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	*vp, err = NewVotingPower(v)
	return err
}

// VotingPowerDelta is a signed change of voting power.
type VotingPowerDelta int64

// VotingPower narrows the delta into a voting power.
// A negative delta fails and is never clamped.
func (d VotingPowerDelta) VotingPower() (VotingPower, error) {
	if d < 0 {
		return VotingPower{}, fmt.Errorf("%w: %d", ErrNegativeVotingPower, int64(d))
	}
	return VotingPower{power: uint64(d)}, nil
}

// Add returns d + other, failing on overflow.
func (d VotingPowerDelta) Add(other VotingPowerDelta) (VotingPowerDelta, error) {
	if (other > 0 && d > math.MaxInt64-other) ||
		(other < 0 && d < math.MinInt64-other) {
		return 0, fmt.Errorf("%w: %d + %d", ErrVotingPowerOverflow, int64(d), int64(other))
	}
	return d + other, nil
}

// Sub returns d - other, failing on overflow.
func (d VotingPowerDelta) Sub(other VotingPowerDelta) (VotingPowerDelta, error) {
	if (other < 0 && d > math.MaxInt64+other) ||
		(other > 0 && d < math.MinInt64+other) {
		return 0, fmt.Errorf("%w: %d - %d", ErrVotingPowerOverflow, int64(d), int64(other))
	}
	return d - other, nil
}

// MarshalSCALE writes the delta as a little endian i64.
func (d VotingPowerDelta) MarshalSCALE(e *scale.Encoder) {
	e.EncodeInt64(int64(d))
}

// UnmarshalSCALE reads a little endian i64 delta.
func (d *VotingPowerDelta) UnmarshalSCALE(dec *scale.Decoder) error {
	v, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	*d = VotingPowerDelta(v)
	return nil
}

// ValidatorSetUpdate is the new voting power of a validator, as consumed
// by the consensus engine.
type ValidatorSetUpdate struct {
	PubKey crypto.PublicKey
	Power  VotingPower
}

// NewValidatorSetUpdate applies the delta to the current voting power.
// It fails if the resulting power would be negative or overflow.
func NewValidatorSetUpdate(pubKey crypto.PublicKey, current VotingPower,
	delta VotingPowerDelta) (update ValidatorSetUpdate, err error) {
	next, err := current.Delta().Add(delta)
	if err != nil {
		return update, err
	}

	power, err := next.VotingPower()
	if err != nil {
		return update, fmt.Errorf("applying delta %d to %s: %w", int64(delta), current, err)
	}

	return ValidatorSetUpdate{
		PubKey: pubKey,
		Power:  power,
	}, nil
}
