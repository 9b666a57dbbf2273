// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ibc

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/internal/log"

	"google.golang.org/protobuf/types/known/anypb"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "ibc"))

// Type URLs of the supported IBC messages.
const (
	TypeURLMsgTransfer        = "/ibc.applications.transfer.v1.MsgTransfer"
	TypeURLMsgRecvPacket      = "/ibc.core.channel.v1.MsgRecvPacket"
	TypeURLMsgAcknowledgement = "/ibc.core.channel.v1.MsgAcknowledgement"
	TypeURLMsgTimeout         = "/ibc.core.channel.v1.MsgTimeout"
)

var (
	// ErrUnsupportedMessageType is returned for a message type URL that is not handled.
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	// ErrDecodeMessage is returned when a message value cannot be decoded.
	ErrDecodeMessage = errors.New("cannot decode message")
)

// IbcMessage is a decoded IBC message.
type IbcMessage interface {
	TypeURL() string
	marshalProto() []byte
}

// NewIbcMessage decodes the IBC message carried by msg, dispatching on its
// type URL.
func NewIbcMessage(msg *anypb.Any) (IbcMessage, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrDecodeMessage)
	}

	var (
		message   IbcMessage
		unmarshal func([]byte) error
	)
	switch msg.GetTypeUrl() {
	case TypeURLMsgTransfer:
		m := &MsgTransfer{}
		message, unmarshal = m, m.unmarshalProto
	case TypeURLMsgRecvPacket:
		m := &MsgRecvPacket{}
		message, unmarshal = m, m.unmarshalProto
	case TypeURLMsgAcknowledgement:
		m := &MsgAcknowledgement{}
		message, unmarshal = m, m.unmarshalProto
	case TypeURLMsgTimeout:
		m := &MsgTimeout{}
		message, unmarshal = m, m.unmarshalProto
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMessageType, msg.GetTypeUrl())
	}

	if err := unmarshal(msg.GetValue()); err != nil {
		logger.Debugf("cannot decode %s: %s", msg.GetTypeUrl(), err)
		return nil, fmt.Errorf("%w: %s: %s", ErrDecodeMessage, msg.GetTypeUrl(), err)
	}
	return message, nil
}

// ToAny wraps the message with its type URL.
func ToAny(message IbcMessage) *anypb.Any {
	return &anypb.Any{
		TypeUrl: message.TypeURL(),
		Value:   message.marshalProto(),
	}
}

// Coin is an amount of a denomination, the amount being a decimal string.
type Coin struct {
	Denom  string
	Amount string
}

func (c Coin) marshalProto() (b []byte) {
	b = appendString(b, 1, c.Denom)
	return appendString(b, 2, c.Amount)
}

func (c *Coin) unmarshalProto(b []byte) error {
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			c.Denom, err = f.string()
		case 2:
			c.Amount, err = f.string()
		}
		return err
	})
}

// MsgTransfer sends fungible tokens to a counterparty chain.
type MsgTransfer struct {
	SourcePort       string
	SourceChannel    string
	Token            Coin
	Sender           string
	Receiver         string
	TimeoutHeight    Height
	TimeoutTimestamp uint64
}

// TypeURL returns TypeURLMsgTransfer.
func (*MsgTransfer) TypeURL() string { return TypeURLMsgTransfer }

// PacketData returns the packet data sent for this transfer.
func (m *MsgTransfer) PacketData() FungibleTokenPacketData {
	return FungibleTokenPacketData{
		Denom:    m.Token.Denom,
		Amount:   m.Token.Amount,
		Sender:   m.Sender,
		Receiver: m.Receiver,
	}
}

func (m *MsgTransfer) marshalProto() (b []byte) {
	b = appendString(b, 1, m.SourcePort)
	b = appendString(b, 2, m.SourceChannel)
	b = appendMessage(b, 3, m.Token.marshalProto())
	b = appendString(b, 4, m.Sender)
	b = appendString(b, 5, m.Receiver)
	b = appendMessage(b, 6, m.TimeoutHeight.marshalProto())
	return appendUint64(b, 7, m.TimeoutTimestamp)
}

func (m *MsgTransfer) unmarshalProto(b []byte) error {
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.SourcePort, err = f.string()
		case 2:
			m.SourceChannel, err = f.string()
		case 3:
			err = unmarshalEmbedded(f, m.Token.unmarshalProto)
		case 4:
			m.Sender, err = f.string()
		case 5:
			m.Receiver, err = f.string()
		case 6:
			err = unmarshalEmbedded(f, m.TimeoutHeight.unmarshalProto)
		case 7:
			m.TimeoutTimestamp, err = f.uint64()
		}
		return err
	})
}

// MsgRecvPacket delivers a packet from a counterparty chain.
type MsgRecvPacket struct {
	Packet          Packet
	ProofCommitment []byte
	ProofHeight     Height
	Signer          string
}

// TypeURL returns TypeURLMsgRecvPacket.
func (*MsgRecvPacket) TypeURL() string { return TypeURLMsgRecvPacket }

func (m *MsgRecvPacket) marshalProto() (b []byte) {
	b = appendMessage(b, 1, m.Packet.marshalProto())
	b = appendBytes(b, 2, m.ProofCommitment)
	b = appendMessage(b, 3, m.ProofHeight.marshalProto())
	return appendString(b, 4, m.Signer)
}

func (m *MsgRecvPacket) unmarshalProto(b []byte) error {
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			err = unmarshalEmbedded(f, m.Packet.unmarshalProto)
		case 2:
			m.ProofCommitment, err = f.bytesValue()
		case 3:
			err = unmarshalEmbedded(f, m.ProofHeight.unmarshalProto)
		case 4:
			m.Signer, err = f.string()
		}
		return err
	})
}

// MsgAcknowledgement acknowledges a packet received by a counterparty chain.
type MsgAcknowledgement struct {
	Packet          Packet
	Acknowledgement []byte
	ProofAcked      []byte
	ProofHeight     Height
	Signer          string
}

// TypeURL returns TypeURLMsgAcknowledgement.
func (*MsgAcknowledgement) TypeURL() string { return TypeURLMsgAcknowledgement }

func (m *MsgAcknowledgement) marshalProto() (b []byte) {
	b = appendMessage(b, 1, m.Packet.marshalProto())
	b = appendBytes(b, 2, m.Acknowledgement)
	b = appendBytes(b, 3, m.ProofAcked)
	b = appendMessage(b, 4, m.ProofHeight.marshalProto())
	return appendString(b, 5, m.Signer)
}

func (m *MsgAcknowledgement) unmarshalProto(b []byte) error {
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			err = unmarshalEmbedded(f, m.Packet.unmarshalProto)
		case 2:
			m.Acknowledgement, err = f.bytesValue()
		case 3:
			m.ProofAcked, err = f.bytesValue()
		case 4:
			err = unmarshalEmbedded(f, m.ProofHeight.unmarshalProto)
		case 5:
			m.Signer, err = f.string()
		}
		return err
	})
}

// MsgTimeout times out a packet that was not received in time.
type MsgTimeout struct {
	Packet           Packet
	ProofUnreceived  []byte
	ProofHeight      Height
	NextSequenceRecv uint64
	Signer           string
}

// TypeURL returns TypeURLMsgTimeout.
func (*MsgTimeout) TypeURL() string { return TypeURLMsgTimeout }

func (m *MsgTimeout) marshalProto() (b []byte) {
	b = appendMessage(b, 1, m.Packet.marshalProto())
	b = appendBytes(b, 2, m.ProofUnreceived)
	b = appendMessage(b, 3, m.ProofHeight.marshalProto())
	b = appendUint64(b, 4, m.NextSequenceRecv)
	return appendString(b, 5, m.Signer)
}

func (m *MsgTimeout) unmarshalProto(b []byte) error {
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			err = unmarshalEmbedded(f, m.Packet.unmarshalProto)
		case 2:
			m.ProofUnreceived, err = f.bytesValue()
		case 3:
			err = unmarshalEmbedded(f, m.ProofHeight.unmarshalProto)
		case 4:
			m.NextSequenceRecv, err = f.uint64()
		case 5:
			m.Signer, err = f.string()
		}
		return err
	})
}
