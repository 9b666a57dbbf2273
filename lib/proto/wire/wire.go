// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package wire holds the protobuf messages exchanged between peers:
//
//	message Intent {
//	  bytes data = 1;
//	  google.protobuf.Timestamp timestamp = 2;
//	}
//
//	message IntentGossipMessage {
//	  repeated Intent intents = 1;
//	}
//
// Decoding is strict: unknown fields, unexpected wire types and
// repeated singular fields are rejected.
package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var (
	ErrMalformed        = errors.New("malformed protobuf")
	ErrUnknownField     = errors.New("unknown field")
	ErrWrongWireType    = errors.New("wrong wire type")
	ErrDuplicateField   = errors.New("duplicate field")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

const (
	intentDataField      protowire.Number = 1
	intentTimestampField protowire.Number = 2
	gossipIntentsField   protowire.Number = 1
)

// Intent is the wire representation of a gossiped intent.
type Intent struct {
	Data      []byte
	Timestamp *timestamppb.Timestamp
}

// IntentGossipMessage is the wire representation of a gossip message.
type IntentGossipMessage struct {
	Intents []*Intent
}

var deterministic = proto.MarshalOptions{Deterministic: true}

// Marshal encodes the intent. Fields holding default values are omitted.
func (i *Intent) Marshal() ([]byte, error) {
	var b []byte
	if len(i.Data) > 0 {
		b = protowire.AppendTag(b, intentDataField, protowire.BytesType)
		b = protowire.AppendBytes(b, i.Data)
	}
	if i.Timestamp != nil {
		ts, err := deterministic.Marshal(i.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("encoding timestamp: %w", err)
		}
		b = protowire.AppendTag(b, intentTimestampField, protowire.BytesType)
		b = protowire.AppendBytes(b, ts)
	}
	return b, nil
}

// Unmarshal decodes the intent, replacing any previous content.
func (i *Intent) Unmarshal(b []byte) error {
	*i = Intent{}
	seen := make(map[protowire.Number]bool)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %s", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case intentDataField, intentTimestampField:
		default:
			return fmt.Errorf("%w: intent field %d", ErrUnknownField, num)
		}
		if typ != protowire.BytesType {
			return fmt.Errorf("%w: intent field %d has wire type %d", ErrWrongWireType, num, typ)
		}
		if seen[num] {
			return fmt.Errorf("%w: intent field %d", ErrDuplicateField, num)
		}
		seen[num] = true

		value, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("%w: %s", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case intentDataField:
			i.Data = append([]byte{}, value...)
		case intentTimestampField:
			ts := new(timestamppb.Timestamp)
			err := proto.Unmarshal(value, ts)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidTimestamp, err)
			}
			if len(ts.ProtoReflect().GetUnknown()) > 0 {
				return fmt.Errorf("%w: timestamp has unknown fields", ErrUnknownField)
			}
			i.Timestamp = ts
		}
	}
	return nil
}

// Marshal encodes the gossip message.
func (m *IntentGossipMessage) Marshal() ([]byte, error) {
	var b []byte
	for _, intent := range m.Intents {
		encoded, err := intent.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, gossipIntentsField, protowire.BytesType)
		b = protowire.AppendBytes(b, encoded)
	}
	return b, nil
}

// Unmarshal decodes the gossip message, replacing any previous content.
func (m *IntentGossipMessage) Unmarshal(b []byte) error {
	*m = IntentGossipMessage{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %s", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		if num != gossipIntentsField {
			return fmt.Errorf("%w: gossip message field %d", ErrUnknownField, num)
		}
		if typ != protowire.BytesType {
			return fmt.Errorf("%w: gossip message field %d has wire type %d", ErrWrongWireType, num, typ)
		}

		value, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("%w: %s", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		intent := new(Intent)
		if err := intent.Unmarshal(value); err != nil {
			return fmt.Errorf("intent %d: %w", len(m.Intents), err)
		}
		m.Intents = append(m.Intents, intent)
	}
	return nil
}
