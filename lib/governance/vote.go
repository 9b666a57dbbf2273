// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package governance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/scale"
	"github.com/ChainSafe/anoma-go/lib/storage"
)

// ErrInvalidVote is returned for a vote other than yay or nay.
var ErrInvalidVote = errors.New("invalid vote")

// ProposalVote is a vote cast on a proposal.
type ProposalVote byte

const (
	// Yay votes in favour of the proposal.
	Yay ProposalVote = iota
	// Nay votes against the proposal.
	Nay
)

// ParseProposalVote parses "yay" or "nay", ignoring case.
func ParseProposalVote(s string) (ProposalVote, error) {
	switch strings.ToLower(s) {
	case "yay":
		return Yay, nil
	case "nay":
		return Nay, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidVote, s)
	}
}

func (v ProposalVote) String() string {
	switch v {
	case Yay:
		return "yay"
	case Nay:
		return "nay"
	default:
		return fmt.Sprintf("unknown(%d)", byte(v))
	}
}

// VoteProposalData is the data of the transaction voting on a proposal.
type VoteProposalData struct {
	ID    uint64
	Vote  ProposalVote
	Voter address.Address
	Epoch storage.Epoch
	// Delegations are the validators the voter delegates to.
	Delegations []address.Address
}

// MarshalSCALE encodes the fields in order.
func (d VoteProposalData) MarshalSCALE(e *scale.Encoder) {
	e.EncodeUint64(d.ID)
	e.EncodeByte(byte(d.Vote))
	d.Voter.MarshalSCALE(e)
	d.Epoch.MarshalSCALE(e)
	e.EncodeLength(len(d.Delegations))
	for _, delegation := range d.Delegations {
		delegation.MarshalSCALE(e)
	}
}

// UnmarshalSCALE decodes the fields in order.
func (d *VoteProposalData) UnmarshalSCALE(dec *scale.Decoder) (err error) {
	if d.ID, err = dec.DecodeUint64(); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	vote, err := dec.DecodeByte()
	if err != nil {
		return fmt.Errorf("vote: %w", err)
	}
	if ProposalVote(vote) > Nay {
		return fmt.Errorf("%w: %d", ErrInvalidVote, vote)
	}
	d.Vote = ProposalVote(vote)
	if err = d.Voter.UnmarshalSCALE(dec); err != nil {
		return fmt.Errorf("voter: %w", err)
	}
	if err = d.Epoch.UnmarshalSCALE(dec); err != nil {
		return fmt.Errorf("epoch: %w", err)
	}

	const addressSize = 1 + address.HashLength
	n, err := dec.DecodeLength(addressSize)
	if err != nil {
		return fmt.Errorf("delegations: %w", err)
	}
	d.Delegations = nil
	if n > 0 {
		d.Delegations = make([]address.Address, n)
	}
	for i := range d.Delegations {
		if err = d.Delegations[i].UnmarshalSCALE(dec); err != nil {
			return fmt.Errorf("delegation %d: %w", i, err)
		}
	}
	return nil
}
