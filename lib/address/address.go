// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package address

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/scale"

	"github.com/btcsuite/btcutil/bech32"
)

// HRP is the human readable part of the bech32 encoded addresses.
const HRP = "atest"

// HashLength is the length of the hash identifying an address.
const HashLength = 20

// encodedLength is the length of the kind byte followed by the hash.
const encodedLength = 1 + HashLength

// Kind is the kind of an address.
type Kind byte

const (
	// Established addresses are generated on chain for accounts with a validity predicate.
	Established Kind = iota + 1
	// Implicit addresses are derived from a public key.
	Implicit
	// Internal addresses belong to the ledger's native modules.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Established:
		return "established"
	case Implicit:
		return "implicit"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("unknown(%d)", byte(k))
	}
}

var (
	// ErrInvalidAddress is returned when an address does not decode.
	ErrInvalidAddress = errors.New("invalid address")
)

// Address is a ledger account address.
type Address struct {
	kind Kind
	hash [HashLength]byte
}

// New creates an address of the given kind and hash.
func New(kind Kind, hash [HashLength]byte) (Address, error) {
	if kind < Established || kind > Internal {
		return Address{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidAddress, kind)
	}
	return Address{kind: kind, hash: hash}, nil
}

// NewEstablished derives an established address from the seed bytes.
func NewEstablished(seed []byte) Address {
	return Address{kind: Established, hash: hash160(seed)}
}

// NewInternal derives the internal address of the named module.
func NewInternal(name string) Address {
	return Address{kind: Internal, hash: hash160([]byte(name))}
}

// FromPublicKey returns the implicit address of the public key.
func FromPublicKey(pub crypto.PublicKey) Address {
	data := append([]byte(pub.Type()+":"), pub.Encode()...)
	return Address{kind: Implicit, hash: hash160(data)}
}

func hash160(data []byte) (h [HashLength]byte) {
	b, err := common.Blake2b160(data)
	if err != nil {
		// blake2b only fails for invalid sizes or keys
		panic(err)
	}
	copy(h[:], b)
	return h
}

// Decode decodes a bech32 encoded address.
func Decode(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if hrp != HRP {
		return Address{}, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidAddress, hrp)
	}

	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	return FromBytes(decoded)
}

// FromBytes decodes the kind byte followed by the hash.
func FromBytes(b []byte) (Address, error) {
	if len(b) != encodedLength {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, encodedLength, len(b))
	}
	var hash [HashLength]byte
	copy(hash[:], b[1:])
	return New(Kind(b[0]), hash)
}

// Kind returns the kind of the address.
func (a Address) Kind() Kind { return a.kind }

// Hash returns the hash identifying the address.
func (a Address) Hash() [HashLength]byte { return a.hash }

// IsZero returns true for the zero value, which is not a valid address.
func (a Address) IsZero() bool { return a.kind == 0 }

// Bytes returns the kind byte followed by the hash.
func (a Address) Bytes() []byte {
	b := make([]byte, 0, encodedLength)
	b = append(b, byte(a.kind))
	return append(b, a.hash[:]...)
}

// String returns the bech32 encoding of the address.
func (a Address) String() string {
	data, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		panic(err)
	}
	s, err := bech32.Encode(HRP, data)
	if err != nil {
		panic(err)
	}
	return s
}

// MarshalSCALE writes the kind byte followed by the hash.
func (a Address) MarshalSCALE(e *scale.Encoder) {
	e.EncodeFixed(a.Bytes())
}

// UnmarshalSCALE reads and validates an address.
func (a *Address) UnmarshalSCALE(d *scale.Decoder) error {
	b, err := d.DecodeFixed(encodedLength)
	if err != nil {
		return err
	}
	*a, err = FromBytes(b)
	return err
}

// MarshalJSON encodes the address as a bech32 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a bech32 string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	decoded, err := Decode(s)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}
