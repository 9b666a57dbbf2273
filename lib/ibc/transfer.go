// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ibc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/token"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidPacketData is returned when packet data is not a fungible token transfer.
	ErrInvalidPacketData = errors.New("invalid packet data")
	// ErrInvalidAmount is returned when the transferred amount is not a non-negative integer.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidAddress is returned when the sender or receiver is not a ledger address.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidDenom is returned when the denomination resolves to no token.
	ErrInvalidDenom = errors.New("invalid denomination")
)

// FungibleTokenPacketData is the packet data of an ICS-20 token transfer.
type FungibleTokenPacketData struct {
	Denom    string `json:"denom" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
	Sender   string `json:"sender" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
}

var validate = validator.New()

// DecodePacketData parses the JSON packet data of a token transfer.
// Unknown fields, trailing data and empty fields are rejected.
func DecodePacketData(data []byte) (p FungibleTokenPacketData, err error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(&p); err != nil {
		return FungibleTokenPacketData{}, fmt.Errorf("%w: %s", ErrInvalidPacketData, err)
	}
	if _, err = decoder.Token(); !errors.Is(err, io.EOF) {
		return FungibleTokenPacketData{}, fmt.Errorf("%w: trailing data", ErrInvalidPacketData)
	}
	if err = validate.Struct(p); err != nil {
		return FungibleTokenPacketData{}, fmt.Errorf("%w: %s", ErrInvalidPacketData, err)
	}
	return p, nil
}

// Encode returns the JSON encoding of the packet data.
func (p FungibleTokenPacketData) Encode() []byte {
	// only strings, which always marshal
	b, _ := json.Marshal(p)
	return b
}

// TransferFromPacketData converts the packet data to a ledger transfer.
func TransferFromPacketData(p FungibleTokenPacketData) (token.Transfer, error) {
	amount, err := token.ParseAmount(p.Amount)
	if err != nil {
		return token.Transfer{}, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}

	source, err := address.Decode(p.Sender)
	if err != nil {
		return token.Transfer{}, fmt.Errorf("%w: sender: %s", ErrInvalidAddress, err)
	}
	target, err := address.Decode(p.Receiver)
	if err != nil {
		return token.Transfer{}, fmt.Errorf("%w: receiver: %s", ErrInvalidAddress, err)
	}

	tokenAddress, err := ResolveDenom(p.Denom)
	if err != nil {
		return token.Transfer{}, err
	}

	return token.Transfer{
		Source: source,
		Target: target,
		Token:  tokenAddress,
		Amount: amount,
	}, nil
}

// ResolveDenom strips the port/channel trace of the denomination and
// resolves its base to a token address, either encoded directly or by
// symbol.
func ResolveDenom(denom string) (address.Address, error) {
	base := BaseDenom(denom)
	if base == "" {
		return address.Address{}, fmt.Errorf("%w: %q", ErrInvalidDenom, denom)
	}
	if a, err := address.Decode(base); err == nil {
		return a, nil
	}
	if a, ok := address.TokenBySymbol(base); ok {
		return a, nil
	}
	return address.Address{}, fmt.Errorf("%w: %q", ErrInvalidDenom, denom)
}

// BaseDenom returns the denomination without its trace path.
func BaseDenom(denom string) string {
	segments := strings.Split(denom, "/")
	return segments[len(segments)-1]
}
