// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package scale

import (
	"bytes"
	"errors"
	"fmt"

	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

var (
	ErrTruncated      = errors.New("input is truncated")
	ErrTrailingBytes  = errors.New("trailing bytes after value")
	ErrLengthPrefix   = errors.New("length prefix exceeds remaining input")
	ErrInvalidOption  = errors.New("invalid option discriminant")
	ErrInvalidBool    = errors.New("invalid boolean byte")
	ErrCompactTooWide = errors.New("compact integer does not fit 64 bits")
	ErrNonCanonical   = errors.New("encoding is not canonical")
)

// Unmarshaler is implemented by types decodable from SCALE.
type Unmarshaler interface {
	UnmarshalSCALE(d *Decoder) error
}

// Decoder reads SCALE values from a byte slice and refuses
// to read beyond it.
type Decoder struct {
	reader  *bytes.Reader
	decoder *substrate.Decoder
}

// NewDecoder creates a decoder over data.
func NewDecoder(data []byte) *Decoder {
	reader := bytes.NewReader(data)
	return &Decoder{
		reader:  reader,
		decoder: substrate.NewDecoder(reader),
	}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return d.reader.Len()
}

func (d *Decoder) require(n int) error {
	if d.reader.Len() < n {
		return fmt.Errorf("%w: need %d bytes, %d remaining", ErrTruncated, n, d.reader.Len())
	}
	return nil
}

// DecodeByte reads a single byte.
func (d *Decoder) DecodeByte() (b byte, err error) {
	if err = d.require(1); err != nil {
		return 0, err
	}
	return d.decoder.ReadOneByte()
}

// DecodeBool reads a strict 0x00 or 0x01 byte.
func (d *Decoder) DecodeBool() (bool, error) {
	b, err := d.DecodeByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x", ErrInvalidBool, b)
	}
}

// DecodeUint32 reads a little endian uint32.
func (d *Decoder) DecodeUint32() (v uint32, err error) {
	const size = 4
	if err = d.require(size); err != nil {
		return 0, err
	}
	err = d.decoder.Decode(&v)
	return v, err
}

// DecodeInt32 reads a little endian int32.
func (d *Decoder) DecodeInt32() (v int32, err error) {
	const size = 4
	if err = d.require(size); err != nil {
		return 0, err
	}
	err = d.decoder.Decode(&v)
	return v, err
}

// DecodeUint64 reads a little endian uint64.
func (d *Decoder) DecodeUint64() (v uint64, err error) {
	const size = 8
	if err = d.require(size); err != nil {
		return 0, err
	}
	err = d.decoder.Decode(&v)
	return v, err
}

// DecodeInt64 reads a little endian int64.
func (d *Decoder) DecodeInt64() (v int64, err error) {
	const size = 8
	if err = d.require(size); err != nil {
		return 0, err
	}
	err = d.decoder.Decode(&v)
	return v, err
}

// DecodeCompact reads a compact unsigned integer fitting 64 bits.
func (d *Decoder) DecodeCompact() (uint64, error) {
	if err := d.require(1); err != nil {
		return 0, err
	}

	v, err := d.decoder.DecodeUintCompact()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrTruncated, err)
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrCompactTooWide, v)
	}
	return v.Uint64(), nil
}

// DecodeLength reads a compact collection length and checks that
// at least minItemSize bytes per item remain in the input.
func (d *Decoder) DecodeLength(minItemSize int) (int, error) {
	n, err := d.DecodeCompact()
	if err != nil {
		return 0, err
	}
	if minItemSize < 1 {
		minItemSize = 1
	}
	if n > uint64(d.reader.Len()/minItemSize) {
		return 0, fmt.Errorf("%w: %d items, %d bytes remaining",
			ErrLengthPrefix, n, d.reader.Len())
	}
	return int(n), nil
}

// DecodeFixed reads exactly n bytes.
func (d *Decoder) DecodeFixed(n int) ([]byte, error) {
	if err := d.require(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if n == 0 {
		return b, nil
	}
	if err := d.decoder.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeBytes reads length prefixed bytes. The result is never nil.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	n, err := d.DecodeLength(1)
	if err != nil {
		return nil, err
	}
	return d.DecodeFixed(n)
}

// DecodeString reads length prefixed bytes as a string.
func (d *Decoder) DecodeString() (string, error) {
	b, err := d.DecodeBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeOptionBytes reads an optional byte slice, returning nil for None.
func (d *Decoder) DecodeOptionBytes() ([]byte, error) {
	isSome, err := d.DecodeOption()
	if err != nil || !isSome {
		return nil, err
	}
	return d.DecodeBytes()
}

// DecodeOption reads an option discriminant.
func (d *Decoder) DecodeOption() (isSome bool, err error) {
	b, err := d.DecodeByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x", ErrInvalidOption, b)
	}
}

// Finish fails if any input is left unread.
func (d *Decoder) Finish() error {
	if n := d.reader.Len(); n > 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingBytes, n)
	}
	return nil
}

// Unmarshal decodes data into v, requiring the whole input to be consumed.
// When v also implements Marshaler, the value must re-encode to exactly
// the input bytes.
func Unmarshal(data []byte, v Unmarshaler) error {
	d := NewDecoder(data)
	if err := v.UnmarshalSCALE(d); err != nil {
		return err
	}
	if err := d.Finish(); err != nil {
		return err
	}

	m, ok := v.(Marshaler)
	if !ok {
		return nil
	}
	if !bytes.Equal(Marshal(m), data) {
		return ErrNonCanonical
	}
	return nil
}
