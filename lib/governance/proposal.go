// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package governance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/scale"
	"github.com/ChainSafe/anoma-go/lib/storage"

	"github.com/go-playground/validator/v10"
)

// MaxContentSize is the largest encoded proposal content.
const MaxContentSize = 10_000

var (
	// ErrMissingField is wrapped by MissingFieldError.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidRange is returned when the proposal epochs are not ordered.
	ErrInvalidRange = errors.New("invalid voting range")
	// ErrInvalidProposal is returned when a proposal document does not parse.
	ErrInvalidProposal = errors.New("invalid proposal")
	// ErrContentTooLarge is returned when the proposal content exceeds MaxContentSize.
	ErrContentTooLarge = errors.New("proposal content too large")
)

// MissingFieldError names the required proposal field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

// Unwrap returns ErrMissingField.
func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// Proposal is a governance proposal as written by its author.
type Proposal struct {
	ID               *uint64           `json:"id" validate:"required"`
	Content          map[string]string `json:"content" validate:"required"`
	Author           *string           `json:"author" validate:"required"`
	VotingStartEpoch *uint64           `json:"voting_start_epoch" validate:"required"`
	VotingEndEpoch   *uint64           `json:"voting_end_epoch" validate:"required"`
	GraceEpoch       *uint64           `json:"grace_epoch" validate:"required"`
	ProposalCode     []byte            `json:"proposal_code,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeProposal parses a proposal document. Unknown fields are rejected.
func DecodeProposal(r io.Reader) (p Proposal, err error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(&p); err != nil {
		return Proposal{}, fmt.Errorf("%w: %s", ErrInvalidProposal, err)
	}
	if _, err = decoder.Token(); !errors.Is(err, io.EOF) {
		return Proposal{}, fmt.Errorf("%w: trailing data", ErrInvalidProposal)
	}
	return p, nil
}

// InitProposalData is the data of the transaction submitting a proposal.
type InitProposalData struct {
	ID uint64
	// Content is the canonical JSON encoding of the proposal content.
	Content          []byte
	Author           address.Address
	VotingStartEpoch storage.Epoch
	VotingEndEpoch   storage.Epoch
	GraceEpoch       storage.Epoch
	// ProposalCode is nil when the proposal carries no code.
	ProposalCode []byte
}

// NewInitProposalData validates the proposal and converts it.
// The first missing field in declaration order is reported as a
// *MissingFieldError.
func NewInitProposalData(p Proposal) (data InitProposalData, err error) {
	if err = validate.Struct(p); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return data, &MissingFieldError{Field: validationErrors[0].Field()}
		}
		return data, fmt.Errorf("%w: %s", ErrInvalidProposal, err)
	}

	start, end, grace := *p.VotingStartEpoch, *p.VotingEndEpoch, *p.GraceEpoch
	if start >= end {
		return data, fmt.Errorf("%w: voting start epoch %d is not before voting end epoch %d",
			ErrInvalidRange, start, end)
	}
	if end >= grace {
		return data, fmt.Errorf("%w: voting end epoch %d is not before grace epoch %d",
			ErrInvalidRange, end, grace)
	}

	author, err := address.Decode(*p.Author)
	if err != nil {
		return data, fmt.Errorf("author: %w", err)
	}

	content, err := json.Marshal(p.Content)
	if err != nil {
		return data, fmt.Errorf("%w: %s", ErrInvalidProposal, err)
	}
	if len(content) > MaxContentSize {
		return data, fmt.Errorf("%w: %d bytes", ErrContentTooLarge, len(content))
	}

	return InitProposalData{
		ID:               *p.ID,
		Content:          content,
		Author:           author,
		VotingStartEpoch: storage.Epoch(start),
		VotingEndEpoch:   storage.Epoch(end),
		GraceEpoch:       storage.Epoch(grace),
		ProposalCode:     p.ProposalCode,
	}, nil
}

// ContentHash returns the hash of the proposal content.
func (d InitProposalData) ContentHash() common.Hash {
	return common.HashOf(d.Content)
}

// Encode returns the canonical encoding of the proposal data.
func (d InitProposalData) Encode() []byte {
	return scale.Marshal(d)
}

// DecodeInitProposalData decodes the canonical encoding of proposal data.
func DecodeInitProposalData(b []byte) (data InitProposalData, err error) {
	if err = scale.Unmarshal(b, &data); err != nil {
		return InitProposalData{}, fmt.Errorf("%w: %s", ErrInvalidProposal, err)
	}
	return data, nil
}

// MarshalSCALE encodes the fields in order.
func (d InitProposalData) MarshalSCALE(e *scale.Encoder) {
	e.EncodeUint64(d.ID)
	e.EncodeBytes(d.Content)
	d.Author.MarshalSCALE(e)
	d.VotingStartEpoch.MarshalSCALE(e)
	d.VotingEndEpoch.MarshalSCALE(e)
	d.GraceEpoch.MarshalSCALE(e)
	e.EncodeOptionBytes(d.ProposalCode)
}

// UnmarshalSCALE decodes the fields in order and checks the epochs.
func (d *InitProposalData) UnmarshalSCALE(dec *scale.Decoder) (err error) {
	if d.ID, err = dec.DecodeUint64(); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if d.Content, err = dec.DecodeBytes(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err = d.Author.UnmarshalSCALE(dec); err != nil {
		return fmt.Errorf("author: %w", err)
	}
	if err = d.VotingStartEpoch.UnmarshalSCALE(dec); err != nil {
		return fmt.Errorf("voting start epoch: %w", err)
	}
	if err = d.VotingEndEpoch.UnmarshalSCALE(dec); err != nil {
		return fmt.Errorf("voting end epoch: %w", err)
	}
	if err = d.GraceEpoch.UnmarshalSCALE(dec); err != nil {
		return fmt.Errorf("grace epoch: %w", err)
	}
	if d.ProposalCode, err = dec.DecodeOptionBytes(); err != nil {
		return fmt.Errorf("proposal code: %w", err)
	}

	if d.VotingStartEpoch >= d.VotingEndEpoch || d.VotingEndEpoch >= d.GraceEpoch {
		return ErrInvalidRange
	}
	return nil
}
