// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package proto

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/datetime"
	"github.com/ChainSafe/anoma-go/lib/proto/wire"
)

// ErrEmptyGossipMessage is returned when a gossip message carries no intent.
var ErrEmptyGossipMessage = errors.New("gossip message has no intent")

// Intent is a gossiped intent whose timestamp has been range checked.
// Its data is opaque at this layer.
type Intent struct {
	Data      []byte
	Timestamp datetime.DateTimeUtc
}

// NewIntent creates an intent timestamped now.
func NewIntent(data []byte) Intent {
	return Intent{
		Data:      data,
		Timestamp: datetime.Now(),
	}
}

// NewIntentFromWire validates the wire representation of an intent.
// The timestamp is required.
func NewIntentFromWire(w *wire.Intent) (intent Intent, err error) {
	if w == nil {
		return intent, fmt.Errorf("%w: nil intent", ErrDecode)
	}
	timestamp, err := datetime.FromTimestamp(w.Timestamp)
	if err != nil {
		return intent, fmt.Errorf("intent timestamp: %w", err)
	}
	return Intent{
		Data:      w.Data,
		Timestamp: timestamp,
	}, nil
}

// ToWire returns the wire representation of the intent.
func (i Intent) ToWire() (*wire.Intent, error) {
	timestamp, err := i.Timestamp.ToTimestamp()
	if err != nil {
		return nil, fmt.Errorf("intent timestamp: %w", err)
	}
	return &wire.Intent{
		Data:      i.Data,
		Timestamp: timestamp,
	}, nil
}

// Encode returns the protobuf encoding of the intent.
func (i Intent) Encode() ([]byte, error) {
	w, err := i.ToWire()
	if err != nil {
		return nil, err
	}
	return w.Marshal()
}

// Hash returns the hash of the protobuf encoding of the intent.
func (i Intent) Hash() (common.Hash, error) {
	encoded, err := i.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return common.HashOf(encoded), nil
}

// IntentGossipMessage is the unit of intent exchange between peers.
type IntentGossipMessage struct {
	Intents []Intent
}

// DecodeIntentGossipMessage decodes a gossip message received from a peer.
// The message must hold at least one intent and every intent must validate.
func DecodeIntentGossipMessage(b []byte) (*IntentGossipMessage, error) {
	w := new(wire.IntentGossipMessage)
	if err := w.Unmarshal(b); err != nil {
		return nil, fmt.Errorf("%w: gossip message: %s", ErrDecode, err)
	}
	if len(w.Intents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDecode, ErrEmptyGossipMessage)
	}

	message := &IntentGossipMessage{
		Intents: make([]Intent, len(w.Intents)),
	}
	for i, wireIntent := range w.Intents {
		intent, err := NewIntentFromWire(wireIntent)
		if err != nil {
			return nil, fmt.Errorf("%w: intent %d: %s", ErrDecode, i, err)
		}
		message.Intents[i] = intent
	}
	return message, nil
}

// Encode returns the protobuf encoding of the gossip message.
func (m *IntentGossipMessage) Encode() ([]byte, error) {
	w := &wire.IntentGossipMessage{
		Intents: make([]*wire.Intent, len(m.Intents)),
	}
	for i, intent := range m.Intents {
		wireIntent, err := intent.ToWire()
		if err != nil {
			return nil, fmt.Errorf("intent %d: %w", i, err)
		}
		w.Intents[i] = wireIntent
	}
	return w.Marshal()
}
