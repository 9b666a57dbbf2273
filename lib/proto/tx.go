// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package proto

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
	"github.com/ChainSafe/anoma-go/lib/datetime"
	"github.com/ChainSafe/anoma-go/lib/scale"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "proto"))

var (
	// ErrDecode is returned when bytes do not decode into a transaction or gossip message.
	ErrDecode = errors.New("decode error")
	// ErrNoSignature is returned when verifying a transaction carrying no signature.
	ErrNoSignature = errors.New("transaction is not signed")
)

// minSignatureSize is the smallest encoding of a Signature: three empty byte strings.
const minSignatureSize = 3

// Signature is a detached signature over the signing hash of a transaction.
type Signature struct {
	KeyType   crypto.KeyType
	PublicKey []byte
	Signature []byte
}

// MarshalSCALE encodes the signature fields in order.
func (s Signature) MarshalSCALE(e *scale.Encoder) {
	e.EncodeString(s.KeyType)
	e.EncodeBytes(s.PublicKey)
	e.EncodeBytes(s.Signature)
}

// UnmarshalSCALE decodes a signature, checking that the key type is known
// and that the public key decodes for it.
func (s *Signature) UnmarshalSCALE(d *scale.Decoder) (err error) {
	s.KeyType, err = d.DecodeString()
	if err != nil {
		return fmt.Errorf("key type: %w", err)
	}
	s.PublicKey, err = d.DecodeBytes()
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	if _, err = keys.DecodePublicKey(s.KeyType, s.PublicKey); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	s.Signature, err = d.DecodeBytes()
	if err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	return nil
}

// PubKey decodes the public key of the signature.
func (s Signature) PubKey() (crypto.PublicKey, error) {
	return keys.DecodePublicKey(s.KeyType, s.PublicKey)
}

// Tx is the signed envelope executed by the ledger.
type Tx struct {
	// Code is the code, or the hash of the code, to execute.
	Code []byte
	// Data is the optional input of the code. A nil slice means absent.
	Data []byte
	// Timestamp is the optional creation time.
	Timestamp *datetime.DateTimeUtc
	// Signatures are detached signatures over SigningHash.
	Signatures []Signature
}

// NewTx creates an unsigned transaction timestamped now.
func NewTx(code, data []byte) *Tx {
	now := datetime.Now()
	return &Tx{
		Code:      code,
		Data:      data,
		Timestamp: &now,
	}
}

// DecodeTx decodes the canonical encoding of a transaction.
// It is the only way to obtain a Tx from untrusted bytes.
func DecodeTx(b []byte) (*Tx, error) {
	tx := new(Tx)
	if err := scale.Unmarshal(b, tx); err != nil {
		return nil, fmt.Errorf("%w: transaction: %s", ErrDecode, err)
	}
	return tx, nil
}

func (tx *Tx) marshalSigned(e *scale.Encoder) {
	e.EncodeBytes(tx.Code)
	e.EncodeOptionBytes(tx.Data)
	e.EncodeOption(tx.Timestamp != nil, func(e *scale.Encoder) {
		tx.Timestamp.MarshalSCALE(e)
	})
}

// MarshalSCALE encodes the signed content followed by the signatures.
func (tx *Tx) MarshalSCALE(e *scale.Encoder) {
	tx.marshalSigned(e)
	e.EncodeLength(len(tx.Signatures))
	for _, sig := range tx.Signatures {
		sig.MarshalSCALE(e)
	}
}

// UnmarshalSCALE decodes a transaction.
func (tx *Tx) UnmarshalSCALE(d *scale.Decoder) (err error) {
	*tx = Tx{}

	tx.Code, err = d.DecodeBytes()
	if err != nil {
		return fmt.Errorf("code: %w", err)
	}
	tx.Data, err = d.DecodeOptionBytes()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	hasTimestamp, err := d.DecodeOption()
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if hasTimestamp {
		tx.Timestamp = new(datetime.DateTimeUtc)
		if err = tx.Timestamp.UnmarshalSCALE(d); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
	}

	n, err := d.DecodeLength(minSignatureSize)
	if err != nil {
		return fmt.Errorf("signatures: %w", err)
	}
	if n > 0 {
		tx.Signatures = make([]Signature, n)
	}
	for i := range tx.Signatures {
		if err = tx.Signatures[i].UnmarshalSCALE(d); err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
	}
	return nil
}

// Encode returns the canonical encoding of the transaction.
func (tx *Tx) Encode() []byte {
	return scale.Marshal(tx)
}

// SigningBytes returns the encoding of the code, data and timestamp.
func (tx *Tx) SigningBytes() []byte {
	return scale.Marshal(signedContent{tx})
}

type signedContent struct{ tx *Tx }

func (s signedContent) MarshalSCALE(e *scale.Encoder) { s.tx.marshalSigned(e) }

// SigningHash returns the hash of the signing bytes, which is the
// message every signature of the transaction is made over.
func (tx *Tx) SigningHash() common.Hash {
	return common.HashOf(tx.SigningBytes())
}

// Hash returns the hash of the canonical encoding.
func (tx *Tx) Hash() common.Hash {
	return common.HashOf(tx.Encode())
}

// Sign appends a signature of the signing hash made with the keypair.
func (tx *Tx) Sign(kp crypto.Keypair) error {
	sig, err := kp.Sign(tx.SigningHash().ToBytes())
	if err != nil {
		return fmt.Errorf("signing transaction: %w", err)
	}

	tx.Signatures = append(tx.Signatures, Signature{
		KeyType:   kp.Type(),
		PublicKey: kp.Public().Encode(),
		Signature: sig,
	})
	return nil
}

// VerifySignatures verifies every signature of the transaction.
// An unsigned transaction fails with ErrNoSignature.
func (tx *Tx) VerifySignatures() error {
	if len(tx.Signatures) == 0 {
		return ErrNoSignature
	}

	msg := tx.SigningHash().ToBytes()
	batch := make([]*crypto.SignatureInfo, len(tx.Signatures))
	for i, sig := range tx.Signatures {
		verify, err := keys.VerifyFunc(sig.KeyType)
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
		batch[i] = &crypto.SignatureInfo{
			PubKey:     sig.PublicKey,
			Sign:       sig.Signature,
			Msg:        msg,
			VerifyFunc: verify,
		}
	}

	return crypto.VerifyBatch(logger, batch)
}

// IsSignedBy returns true if the transaction carries a valid
// signature made with the public key.
func (tx *Tx) IsSignedBy(pub crypto.PublicKey) bool {
	msg := tx.SigningHash().ToBytes()
	encoded := pub.Encode()
	for _, sig := range tx.Signatures {
		if sig.KeyType != pub.Type() || string(sig.PublicKey) != string(encoded) {
			continue
		}
		ok, err := pub.Verify(msg, sig.Signature)
		if err == nil && ok {
			return true
		}
	}
	return false
}
