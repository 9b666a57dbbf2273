// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/scale"
)

// ErrUnknownTxType is returned when the data of a transaction is not a known TxType.
var ErrUnknownTxType = errors.New("unknown transaction type")

// Kind is the discriminant of a TxType, written as the first byte of the
// transaction data.
type Kind byte

const (
	// RawKind is an ordinary transaction.
	RawKind Kind = iota
	// WrapperKind is a fee paying wrapper around an inner transaction.
	WrapperKind
	// DecryptedKind is an inner transaction after decryption by the block proposer.
	DecryptedKind
	// ProtocolKind is a transaction issued by a validator as part of the protocol.
	ProtocolKind
)

func (k Kind) String() string {
	switch k {
	case RawKind:
		return "raw"
	case WrapperKind:
		return "wrapper"
	case DecryptedKind:
		return "decrypted"
	case ProtocolKind:
		return "protocol"
	default:
		return fmt.Sprintf("unknown(%d)", byte(k))
	}
}

// TxType is the classification of a transaction. It is one of
// *RawTx, *WrapperTx, *DecryptedTx or *ProtocolTx.
type TxType interface {
	Kind() Kind
	scale.Marshaler
}

// RawTx is an ordinary transaction whose data is passed to its code.
type RawTx struct {
	Data []byte
}

// Kind returns RawKind.
func (*RawTx) Kind() Kind { return RawKind }

// MarshalSCALE writes the data.
func (r *RawTx) MarshalSCALE(e *scale.Encoder) {
	e.EncodeBytes(r.Data)
}

// UnmarshalSCALE reads the data.
func (r *RawTx) UnmarshalSCALE(d *scale.Decoder) (err error) {
	r.Data, err = d.DecodeBytes()
	return err
}

// tagged encodes a TxType preceded by its discriminant.
type tagged struct {
	txType TxType
}

func (t *tagged) MarshalSCALE(e *scale.Encoder) {
	e.EncodeByte(byte(t.txType.Kind()))
	t.txType.MarshalSCALE(e)
}

func (t *tagged) UnmarshalSCALE(d *scale.Decoder) error {
	b, err := d.DecodeByte()
	if err != nil {
		return err
	}

	var txType interface {
		TxType
		scale.Unmarshaler
	}
	switch Kind(b) {
	case RawKind:
		txType = new(RawTx)
	case WrapperKind:
		txType = new(WrapperTx)
	case DecryptedKind:
		txType = new(DecryptedTx)
	case ProtocolKind:
		txType = new(ProtocolTx)
	default:
		return fmt.Errorf("discriminant %d", b)
	}

	if err = txType.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("%s: %w", Kind(b), err)
	}
	t.txType = txType
	return nil
}

// EncodeTxType returns the discriminant followed by the encoding of the TxType.
func EncodeTxType(txType TxType) []byte {
	return scale.Marshal(&tagged{txType: txType})
}

// DecodeTxType decodes transaction data into its TxType.
func DecodeTxType(data []byte) (TxType, error) {
	t := new(tagged)
	if err := scale.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTxType, err)
	}
	return t.txType, nil
}

// TxTypeFromTx classifies a decoded transaction. Every transaction
// maps to exactly one TxType or fails with ErrUnknownTxType.
func TxTypeFromTx(tx *proto.Tx) (TxType, error) {
	if tx.Data == nil {
		return nil, fmt.Errorf("%w: transaction has no data", ErrUnknownTxType)
	}
	return DecodeTxType(tx.Data)
}

// NewTx creates an unsigned transaction of the given type.
func NewTx(code []byte, txType TxType) *proto.Tx {
	return proto.NewTx(code, EncodeTxType(txType))
}

// NewRawTx creates an unsigned ordinary transaction.
func NewRawTx(code, data []byte) *proto.Tx {
	return NewTx(code, &RawTx{Data: data})
}

func encodePublicKey(e *scale.Encoder, pub crypto.PublicKey) {
	e.EncodeString(pub.Type())
	e.EncodeBytes(pub.Encode())
}

func decodePublicKey(d *scale.Decoder) (crypto.PublicKey, error) {
	keyType, err := d.DecodeString()
	if err != nil {
		return nil, err
	}
	b, err := d.DecodeBytes()
	if err != nil {
		return nil, err
	}
	return keys.DecodePublicKey(keyType, b)
}

func encodeHash(e *scale.Encoder, h common.Hash) {
	e.EncodeFixed(h[:])
}

func decodeHash(d *scale.Decoder) (common.Hash, error) {
	b, err := d.DecodeFixed(common.HashLength)
	if err != nil {
		return common.Hash{}, err
	}
	return common.NewHashFromBytes(b)
}
