// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/scale"
	"github.com/ChainSafe/anoma-go/lib/storage"
	"github.com/ChainSafe/anoma-go/lib/token"
)

const (
	// GasLimitResolution is the granularity of gas limits.
	GasLimitResolution uint64 = 1_000_000
	// GasPerByte is the gas charged per byte of inner transaction.
	GasPerByte uint64 = 10
	// MaxGasLimitMultiplier is the largest number of resolution steps of a gas limit.
	MaxGasLimitMultiplier = math.MaxUint64 / GasLimitResolution
)

var (
	// ErrZeroFee is returned when a wrapper pays no fee.
	ErrZeroFee = errors.New("wrapper fee is zero")
	// ErrGasLimitTooLow is returned when a wrapper gas limit cannot cover its inner transaction.
	ErrGasLimitTooLow = errors.New("gas limit too low")
	// ErrTxHashMismatch is returned when the inner transaction does not hash to the wrapper tx hash.
	ErrTxHashMismatch = errors.New("inner transaction hash mismatch")
	// ErrInvalidFeeToken is returned when the fee token is not an address.
	ErrInvalidFeeToken = errors.New("invalid fee token")
	// ErrSignerMismatch is returned when signing a wrapper with a key other than its public key.
	ErrSignerMismatch = errors.New("signer does not match wrapper public key")
	// ErrGasLimitOverflow is returned when a decoded gas limit is out of range.
	ErrGasLimitOverflow = errors.New("gas limit overflow")
)

// Fee is the fee paid by a wrapper.
type Fee struct {
	Amount token.Amount
	Token  address.Address
}

// MarshalSCALE writes the amount and the token.
func (f Fee) MarshalSCALE(e *scale.Encoder) {
	f.Amount.MarshalSCALE(e)
	f.Token.MarshalSCALE(e)
}

// UnmarshalSCALE reads the amount and the token.
func (f *Fee) UnmarshalSCALE(d *scale.Decoder) error {
	if err := f.Amount.UnmarshalSCALE(d); err != nil {
		return err
	}
	return f.Token.UnmarshalSCALE(d)
}

// GasLimit is a gas limit rounded up to a multiple of GasLimitResolution.
type GasLimit struct {
	multiplier uint64
}

// NewGasLimit rounds the gas up to the next multiple of GasLimitResolution,
// or down to the largest one if rounding up would overflow.
func NewGasLimit(gas uint64) GasLimit {
	multiplier := gas / GasLimitResolution
	if gas%GasLimitResolution != 0 && multiplier < MaxGasLimitMultiplier {
		multiplier++
	}
	return GasLimit{multiplier: multiplier}
}

// Uint64 returns the gas limit.
func (g GasLimit) Uint64() uint64 {
	return g.multiplier * GasLimitResolution
}

func (g GasLimit) String() string {
	return fmt.Sprintf("%d", g.Uint64())
}

// MarshalSCALE writes the number of resolution steps.
func (g GasLimit) MarshalSCALE(e *scale.Encoder) {
	e.EncodeUint64(g.multiplier)
}

// UnmarshalSCALE reads and range checks the number of resolution steps.
func (g *GasLimit) UnmarshalSCALE(d *scale.Decoder) error {
	multiplier, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	if multiplier > MaxGasLimitMultiplier {
		return fmt.Errorf("%w: %d steps", ErrGasLimitOverflow, multiplier)
	}
	g.multiplier = multiplier
	return nil
}

// WrapperTx pays the fee for an inner transaction and commits to its hash.
type WrapperTx struct {
	Fee      Fee
	PubKey   crypto.PublicKey
	Epoch    storage.Epoch
	GasLimit GasLimit
	Inner    InnerTx
	// TxHash is the hash of the inner transaction encoding.
	TxHash common.Hash
}

// NewWrapperTx wraps the inner transaction, encrypting it if a key is given.
func NewWrapperTx(fee Fee, pubKey crypto.PublicKey, epoch storage.Epoch,
	gasLimit GasLimit, inner *proto.Tx, key *EncryptionKey) (*WrapperTx, error) {
	encoded := inner.Encode()

	w := &WrapperTx{
		Fee:      fee,
		PubKey:   pubKey,
		Epoch:    epoch,
		GasLimit: gasLimit,
		TxHash:   common.HashOf(encoded),
	}

	if key == nil {
		w.Inner.Plain = encoded
		return w, nil
	}

	encrypted, err := Encrypt(*key, encoded)
	if err != nil {
		return nil, fmt.Errorf("encrypting inner transaction: %w", err)
	}
	w.Inner.Encrypted = encrypted
	return w, nil
}

// Kind returns WrapperKind.
func (*WrapperTx) Kind() Kind { return WrapperKind }

// InnerTx recovers the inner transaction and checks it against TxHash.
// The key is only needed for an encrypted inner transaction.
func (w *WrapperTx) InnerTx(key *EncryptionKey) (*proto.Tx, error) {
	encoded, err := w.Inner.Bytes(key)
	if err != nil {
		return nil, err
	}
	if hash := common.HashOf(encoded); hash != w.TxHash {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrTxHashMismatch, w.TxHash, hash)
	}
	return proto.DecodeTx(encoded)
}

// Sign creates the wrapper transaction signed with the keypair,
// which must match the wrapper public key.
func (w *WrapperTx) Sign(kp crypto.Keypair) (*proto.Tx, error) {
	if kp.Type() != w.PubKey.Type() || !bytes.Equal(kp.Public().Encode(), w.PubKey.Encode()) {
		return nil, fmt.Errorf("%w: %s", ErrSignerMismatch, kp.Public().Hex())
	}

	tx := NewTx(nil, w)
	if err := tx.Sign(kp); err != nil {
		return nil, err
	}
	return tx, nil
}

// MarshalSCALE encodes the wrapper fields in order.
func (w *WrapperTx) MarshalSCALE(e *scale.Encoder) {
	w.Fee.MarshalSCALE(e)
	encodePublicKey(e, w.PubKey)
	w.Epoch.MarshalSCALE(e)
	w.GasLimit.MarshalSCALE(e)
	w.Inner.MarshalSCALE(e)
	encodeHash(e, w.TxHash)
}

// UnmarshalSCALE decodes the wrapper fields in order.
func (w *WrapperTx) UnmarshalSCALE(d *scale.Decoder) (err error) {
	if err = w.Fee.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("fee: %w", err)
	}
	if w.PubKey, err = decodePublicKey(d); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	if err = w.Epoch.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("epoch: %w", err)
	}
	if err = w.GasLimit.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("gas limit: %w", err)
	}
	if err = w.Inner.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("inner transaction: %w", err)
	}
	if w.TxHash, err = decodeHash(d); err != nil {
		return fmt.Errorf("tx hash: %w", err)
	}
	return nil
}

// ValidateWrapper is the fee and gas pre-check run before a wrapper is
// included in a block. The inner transaction is checked against the
// wrapper tx hash when it is in the clear or a key is given.
func ValidateWrapper(w *WrapperTx, key *EncryptionKey) error {
	if w.Fee.Amount == 0 {
		return ErrZeroFee
	}
	if w.Fee.Token.IsZero() {
		return ErrInvalidFeeToken
	}

	minGas := uint64(w.Inner.Len()) * GasPerByte
	if gas := w.GasLimit.Uint64(); gas == 0 || gas < minGas {
		return fmt.Errorf("%w: %d for %d bytes of inner transaction",
			ErrGasLimitTooLow, gas, w.Inner.Len())
	}

	if w.Inner.IsEncrypted() && key == nil {
		return nil
	}
	_, err := w.InnerTx(key)
	return err
}
