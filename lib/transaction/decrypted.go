// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/scale"
)

const (
	decrypted     byte = 0
	undecryptable byte = 1
)

// DecryptedTx is the outcome of decrypting the inner transaction of a
// wrapper. At most one of Tx and Undecryptable is set; the zero value
// is the decrypted empty transaction.
type DecryptedTx struct {
	Tx *proto.Tx
	// Undecryptable is the wrapper whose inner transaction could not be
	// decrypted or did not match its tx hash.
	Undecryptable *WrapperTx
}

// Decrypt recovers the inner transaction of the wrapper. Failing to
// decrypt is an outcome, not an error.
func Decrypt(w *WrapperTx, key *EncryptionKey) *DecryptedTx {
	tx, err := w.InnerTx(key)
	if err != nil {
		logger.Debugf("wrapper for %s is undecryptable: %s", w.TxHash, err)
		return &DecryptedTx{Undecryptable: w}
	}
	return &DecryptedTx{Tx: tx}
}

// Kind returns DecryptedKind.
func (*DecryptedTx) Kind() Kind { return DecryptedKind }

// MarshalSCALE writes a discriminant followed by the transaction or the wrapper.
func (dt *DecryptedTx) MarshalSCALE(e *scale.Encoder) {
	if dt.Undecryptable != nil {
		e.EncodeByte(undecryptable)
		dt.Undecryptable.MarshalSCALE(e)
		return
	}
	e.EncodeByte(decrypted)
	tx := dt.Tx
	if tx == nil {
		tx = new(proto.Tx)
	}
	tx.MarshalSCALE(e)
}

// UnmarshalSCALE reads the discriminant and the transaction or the wrapper.
func (dt *DecryptedTx) UnmarshalSCALE(d *scale.Decoder) error {
	*dt = DecryptedTx{}
	b, err := d.DecodeByte()
	if err != nil {
		return err
	}
	switch b {
	case decrypted:
		dt.Tx = new(proto.Tx)
		return dt.Tx.UnmarshalSCALE(d)
	case undecryptable:
		dt.Undecryptable = new(WrapperTx)
		return dt.Undecryptable.UnmarshalSCALE(d)
	default:
		return fmt.Errorf("decrypted transaction discriminant %d", b)
	}
}

// ProtocolTxKind is the kind of a protocol transaction.
type ProtocolTxKind byte

const (
	// EthereumEvents carries ethereum bridge events observed by a validator.
	EthereumEvents ProtocolTxKind = iota
	// DkgShares carries the key shares of the threshold encryption key generation.
	DkgShares
	// NewDkgKeypair publishes a validator key for the key generation.
	NewDkgKeypair
)

// ErrUnknownProtocolTxKind is returned for an unknown protocol transaction kind.
var ErrUnknownProtocolTxKind = errors.New("unknown protocol transaction kind")

// ProtocolTx is a transaction issued by a validator as part of the protocol.
type ProtocolTx struct {
	PubKey crypto.PublicKey
	TxKind ProtocolTxKind
	Data   []byte
}

// Kind returns ProtocolKind.
func (*ProtocolTx) Kind() Kind { return ProtocolKind }

// Sign creates the protocol transaction signed with the keypair.
func (p *ProtocolTx) Sign(kp crypto.Keypair) (*proto.Tx, error) {
	tx := NewTx(nil, p)
	if err := tx.Sign(kp); err != nil {
		return nil, err
	}
	return tx, nil
}

// MarshalSCALE encodes the protocol transaction fields in order.
func (p *ProtocolTx) MarshalSCALE(e *scale.Encoder) {
	encodePublicKey(e, p.PubKey)
	e.EncodeByte(byte(p.TxKind))
	e.EncodeBytes(p.Data)
}

// UnmarshalSCALE decodes the protocol transaction fields in order.
func (p *ProtocolTx) UnmarshalSCALE(d *scale.Decoder) (err error) {
	if p.PubKey, err = decodePublicKey(d); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	kind, err := d.DecodeByte()
	if err != nil {
		return err
	}
	if ProtocolTxKind(kind) > NewDkgKeypair {
		return fmt.Errorf("%w: %d", ErrUnknownProtocolTxKind, kind)
	}
	p.TxKind = ProtocolTxKind(kind)
	p.Data, err = d.DecodeBytes()
	return err
}
