// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ibc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHeight is returned for a height not of the form revision-height.
var ErrInvalidHeight = errors.New("invalid height")

// Height is a height on a counterparty chain.
type Height struct {
	RevisionNumber uint64 `json:"revision"`
	RevisionHeight uint64 `json:"height"`
}

// IsZero returns true for the zero height, which disables height timeouts.
func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}

// ParseHeight parses a height formatted as revision-height.
func ParseHeight(s string) (h Height, err error) {
	revision, height, ok := strings.Cut(s, "-")
	if !ok {
		return h, fmt.Errorf("%w: %q", ErrInvalidHeight, s)
	}
	if h.RevisionNumber, err = strconv.ParseUint(revision, 10, 64); err != nil {
		return Height{}, fmt.Errorf("%w: revision: %s", ErrInvalidHeight, err)
	}
	if h.RevisionHeight, err = strconv.ParseUint(height, 10, 64); err != nil {
		return Height{}, fmt.Errorf("%w: height: %s", ErrInvalidHeight, err)
	}
	return h, nil
}

func (h Height) marshalProto() (b []byte) {
	b = appendUint64(b, 1, h.RevisionNumber)
	return appendUint64(b, 2, h.RevisionHeight)
}

func (h *Height) unmarshalProto(b []byte) error {
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			h.RevisionNumber, err = f.uint64()
		case 2:
			h.RevisionHeight, err = f.uint64()
		}
		return err
	})
}

// Endpoint identifies one end of a channel.
type Endpoint struct {
	PortID    string `json:"port_id"`
	ChannelID string `json:"channel_id"`
}

// Packet is an IBC packet sent over a channel.
type Packet struct {
	Sequence         uint64   `json:"sequence"`
	Source           Endpoint `json:"src"`
	Destination      Endpoint `json:"dest"`
	Data             []byte   `json:"data"`
	TimeoutHeight    Height   `json:"timeout_height"`
	TimeoutTimestamp uint64   `json:"timeout_timestamp"`
}

func (p Packet) marshalProto() (b []byte) {
	b = appendUint64(b, 1, p.Sequence)
	b = appendString(b, 2, p.Source.PortID)
	b = appendString(b, 3, p.Source.ChannelID)
	b = appendString(b, 4, p.Destination.PortID)
	b = appendString(b, 5, p.Destination.ChannelID)
	b = appendBytes(b, 6, p.Data)
	b = appendMessage(b, 7, p.TimeoutHeight.marshalProto())
	return appendUint64(b, 8, p.TimeoutTimestamp)
}

func (p *Packet) unmarshalProto(b []byte) error {
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			p.Sequence, err = f.uint64()
		case 2:
			p.Source.PortID, err = f.string()
		case 3:
			p.Source.ChannelID, err = f.string()
		case 4:
			p.Destination.PortID, err = f.string()
		case 5:
			p.Destination.ChannelID, err = f.string()
		case 6:
			p.Data, err = f.bytesValue()
		case 7:
			err = unmarshalEmbedded(f, p.TimeoutHeight.unmarshalProto)
		case 8:
			p.TimeoutTimestamp, err = f.uint64()
		}
		if err != nil {
			return fmt.Errorf("packet: %w", err)
		}
		return nil
	})
}

// unmarshalEmbedded decodes the embedded message carried by f.
func unmarshalEmbedded(f field, unmarshal func([]byte) error) error {
	message, err := f.bytesValue()
	if err != nil {
		return err
	}
	return unmarshal(message)
}
