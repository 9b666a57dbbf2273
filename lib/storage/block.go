// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/scale"
)

// BlockHashLength is the length of a block hash.
const BlockHashLength = 32

var (
	// ErrNegativeHeight is returned when converting a negative integer into a block height.
	ErrNegativeHeight = errors.New("block height cannot be negative")
	// ErrBlockHashLength is returned when the block hash input does not have the expected length.
	ErrBlockHashLength = errors.New("invalid block hash length")
)

// BlockHeight is the height of a block, starting from 0.
type BlockHeight uint64

// NewBlockHeight converts a signed height reported by the consensus
// engine into a BlockHeight.
func NewBlockHeight(height int64) (BlockHeight, error) {
	if height < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeHeight, height)
	}
	return BlockHeight(height), nil
}

// Next returns the height of the next block.
func (h BlockHeight) Next() BlockHeight {
	return h + 1
}

func (h BlockHeight) String() string {
	return fmt.Sprintf("%d", uint64(h))
}

// BlockHash is the hash of a block.
type BlockHash [BlockHashLength]byte

// NewBlockHash copies the borrowed slice into a BlockHash.
func NewBlockHash(b []byte) (BlockHash, error) {
	return blockHashFromBytes(b)
}

// BlockHashFromBuffer consumes the owned buffer into a BlockHash.
// The buffer is drained even if the conversion fails.
func BlockHashFromBuffer(buffer *bytes.Buffer) (BlockHash, error) {
	return blockHashFromBytes(buffer.Next(buffer.Len()))
}

func blockHashFromBytes(b []byte) (h BlockHash, err error) {
	if len(b) != BlockHashLength {
		return h, fmt.Errorf("%w: expected %d bytes, got %d", ErrBlockHashLength, BlockHashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// ToBytes returns a copy of the block hash bytes.
func (h BlockHash) ToBytes() []byte {
	b := [BlockHashLength]byte(h)
	return b[:]
}

func (h BlockHash) String() string {
	return common.BytesToHex(h[:])
}

// Epoch is a ledger epoch number.
type Epoch uint64

// Next returns the following epoch.
func (e Epoch) Next() Epoch {
	return e + 1
}

// MarshalSCALE writes the epoch as a little endian u64.
func (e Epoch) MarshalSCALE(enc *scale.Encoder) {
	enc.EncodeUint64(uint64(e))
}

// UnmarshalSCALE reads a little endian u64 epoch.
func (e *Epoch) UnmarshalSCALE(d *scale.Decoder) error {
	v, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	*e = Epoch(v)
	return nil
}
