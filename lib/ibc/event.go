// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ibc

import (
	"errors"
	"fmt"
	"strconv"
)

// EventType is the type of an IBC packet event.
type EventType string

// Supported packet event types.
const (
	SendPacket           EventType = "send_packet"
	RecvPacket           EventType = "recv_packet"
	WriteAcknowledgement EventType = "write_acknowledgement"
	AcknowledgePacket    EventType = "acknowledge_packet"
	TimeoutPacket        EventType = "timeout_packet"
)

const (
	attributePacketData   = "packet_data"
	attributePacketAck    = "packet_ack"
	attributeTimeoutH     = "packet_timeout_height"
	attributeTimeoutTS    = "packet_timeout_timestamp"
	attributeSequence     = "packet_sequence"
	attributeSrcPort      = "packet_src_port"
	attributeSrcChannel   = "packet_src_channel"
	attributeDstPort      = "packet_dst_port"
	attributeDstChannel   = "packet_dst_channel"
	attributeConnectionID = "packet_connection"
)

var (
	// ErrUnsupportedEventType is returned for an event type that is not a packet event.
	ErrUnsupportedEventType = errors.New("unsupported event type")
	// ErrMissingAttribute is wrapped by MissingAttributeError.
	ErrMissingAttribute = errors.New("missing event attribute")
	// ErrInvalidAttribute is returned when an attribute value does not parse.
	ErrInvalidAttribute = errors.New("invalid event attribute")
)

// MissingAttributeError names the attribute absent from an event.
type MissingAttributeError struct {
	EventType EventType
	Key       string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: %s in %s", ErrMissingAttribute, e.Key, e.EventType)
}

// Unwrap returns ErrMissingAttribute.
func (e *MissingAttributeError) Unwrap() error {
	return ErrMissingAttribute
}

// EventAttribute is a key value pair of an event.
type EventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is an event emitted by the ledger, as returned by a node.
type Event struct {
	Type       string           `json:"type"`
	Attributes []EventAttribute `json:"attributes"`
}

var packetAttributes = []string{
	attributeTimeoutH,
	attributeTimeoutTS,
	attributeSequence,
	attributeSrcPort,
	attributeSrcChannel,
	attributeDstPort,
	attributeDstChannel,
}

func requiredAttributes(eventType EventType) (keys []string, ok bool) {
	switch eventType {
	case SendPacket, RecvPacket:
		return append([]string{attributePacketData}, packetAttributes...), true
	case WriteAcknowledgement:
		return append([]string{attributePacketData, attributePacketAck}, packetAttributes...), true
	case AcknowledgePacket, TimeoutPacket:
		return packetAttributes, true
	default:
		return nil, false
	}
}

// IbcEvent is a packet event with all its required attributes present.
type IbcEvent struct {
	Type       EventType
	Attributes map[string]string
}

// NewIbcEvent converts a ledger event to an IbcEvent. The first missing
// required attribute is reported as a *MissingAttributeError.
func NewIbcEvent(event Event) (IbcEvent, error) {
	eventType := EventType(event.Type)
	required, ok := requiredAttributes(eventType)
	if !ok {
		return IbcEvent{}, fmt.Errorf("%w: %s", ErrUnsupportedEventType, event.Type)
	}

	attributes := make(map[string]string, len(event.Attributes))
	for _, attribute := range event.Attributes {
		attributes[attribute.Key] = attribute.Value
	}
	for _, key := range required {
		if _, ok := attributes[key]; !ok {
			return IbcEvent{}, &MissingAttributeError{EventType: eventType, Key: key}
		}
	}

	return IbcEvent{Type: eventType, Attributes: attributes}, nil
}

// Packet parses the packet described by the event attributes.
func (e IbcEvent) Packet() (p Packet, err error) {
	if p.Sequence, err = e.uint64Attribute(attributeSequence); err != nil {
		return Packet{}, err
	}
	if p.TimeoutTimestamp, err = e.uint64Attribute(attributeTimeoutTS); err != nil {
		return Packet{}, err
	}
	if p.TimeoutHeight, err = ParseHeight(e.Attributes[attributeTimeoutH]); err != nil {
		return Packet{}, fmt.Errorf("%w: %s: %s", ErrInvalidAttribute, attributeTimeoutH, err)
	}

	p.Source = Endpoint{
		PortID:    e.Attributes[attributeSrcPort],
		ChannelID: e.Attributes[attributeSrcChannel],
	}
	p.Destination = Endpoint{
		PortID:    e.Attributes[attributeDstPort],
		ChannelID: e.Attributes[attributeDstChannel],
	}
	if data, ok := e.Attributes[attributePacketData]; ok {
		p.Data = []byte(data)
	}
	return p, nil
}

// Acknowledgement returns the acknowledgement written by a
// write_acknowledgement event.
func (e IbcEvent) Acknowledgement() (ack []byte, ok bool) {
	value, ok := e.Attributes[attributePacketAck]
	if !ok {
		return nil, false
	}
	return []byte(value), true
}

// ConnectionID returns the connection the packet travels on, if present.
func (e IbcEvent) ConnectionID() (id string, ok bool) {
	id, ok = e.Attributes[attributeConnectionID]
	return id, ok
}

func (e IbcEvent) uint64Attribute(key string) (uint64, error) {
	v, err := strconv.ParseUint(e.Attributes[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrInvalidAttribute, key, err)
	}
	return v, nil
}
