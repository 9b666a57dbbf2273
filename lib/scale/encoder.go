// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package scale

import (
	"bytes"
	"fmt"
	"math/big"

	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Marshaler is implemented by types with a canonical SCALE encoding.
type Marshaler interface {
	MarshalSCALE(e *Encoder)
}

// Encoder writes SCALE values into an in-memory buffer.
// The first write error is kept and reported by Bytes.
type Encoder struct {
	buffer  *bytes.Buffer
	encoder *substrate.Encoder
	err     error
}

// NewEncoder creates an encoder writing to a fresh buffer.
func NewEncoder() *Encoder {
	buffer := bytes.NewBuffer(nil)
	return &Encoder{
		buffer:  buffer,
		encoder: substrate.NewEncoder(buffer),
	}
}

func (e *Encoder) setErr(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

// Bytes returns the encoded bytes or the first error encountered.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buffer.Bytes(), nil
}

// EncodeByte writes a single byte.
func (e *Encoder) EncodeByte(b byte) {
	e.setErr(e.encoder.PushByte(b))
}

// EncodeBool writes a boolean as 0x00 or 0x01.
func (e *Encoder) EncodeBool(b bool) {
	e.setErr(e.encoder.Encode(b))
}

// EncodeUint32 writes a little endian uint32.
func (e *Encoder) EncodeUint32(v uint32) {
	e.setErr(e.encoder.Encode(v))
}

// EncodeInt32 writes a little endian int32.
func (e *Encoder) EncodeInt32(v int32) {
	e.setErr(e.encoder.Encode(v))
}

// EncodeUint64 writes a little endian uint64.
func (e *Encoder) EncodeUint64(v uint64) {
	e.setErr(e.encoder.Encode(v))
}

// EncodeInt64 writes a little endian int64.
func (e *Encoder) EncodeInt64(v int64) {
	e.setErr(e.encoder.Encode(v))
}

// EncodeCompact writes v as a compact unsigned integer.
func (e *Encoder) EncodeCompact(v uint64) {
	e.setErr(e.encoder.EncodeUintCompact(*new(big.Int).SetUint64(v)))
}

// EncodeFixed writes b without any length prefix.
func (e *Encoder) EncodeFixed(b []byte) {
	e.setErr(e.encoder.Write(b))
}

// EncodeBytes writes b prefixed with its compact length.
func (e *Encoder) EncodeBytes(b []byte) {
	e.EncodeCompact(uint64(len(b)))
	if len(b) > 0 {
		e.EncodeFixed(b)
	}
}

// EncodeString writes s as length prefixed bytes.
func (e *Encoder) EncodeString(s string) {
	e.EncodeBytes([]byte(s))
}

// EncodeOptionBytes writes nil as None and any other
// slice, including an empty one, as Some.
func (e *Encoder) EncodeOptionBytes(b []byte) {
	if b == nil {
		e.EncodeByte(0)
		return
	}
	e.EncodeByte(1)
	e.EncodeBytes(b)
}

// EncodeOption writes nil as None and calls encode for Some.
func (e *Encoder) EncodeOption(isSome bool, encode func(e *Encoder)) {
	if !isSome {
		e.EncodeByte(0)
		return
	}
	e.EncodeByte(1)
	encode(e)
}

// EncodeLength writes a compact collection length.
func (e *Encoder) EncodeLength(n int) {
	e.EncodeCompact(uint64(n))
}

// Marshal encodes v. Writing to memory does not fail,
// so any encoder error is a programming error and panics.
func Marshal(v Marshaler) []byte {
	e := NewEncoder()
	v.MarshalSCALE(e)
	b, err := e.Bytes()
	if err != nil {
		panic(fmt.Sprintf("encoding %T: %s", v, err))
	}
	return b
}
