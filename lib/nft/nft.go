// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package nft

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/scale"
	"github.com/ChainSafe/anoma-go/lib/storage"
)

var (
	// ErrDuplicateToken is returned when a token id appears more than once.
	ErrDuplicateToken = errors.New("duplicate token id")
	// ErrUnauthorized is returned when a mint is not verified by the creator.
	ErrUnauthorized = errors.New("mint not authorized by creator")
	// ErrInvalidNft is returned when nft transaction data does not decode.
	ErrInvalidNft = errors.New("invalid nft data")
)

// Token is a single non fungible token.
type Token struct {
	ID       uint64
	Metadata string
	// Approvals are the addresses allowed to transfer the token.
	Approvals []address.Address
}

// MarshalSCALE encodes the token fields in order.
func (t Token) MarshalSCALE(e *scale.Encoder) {
	e.EncodeUint64(t.ID)
	e.EncodeString(t.Metadata)
	encodeAddresses(e, t.Approvals)
}

// UnmarshalSCALE decodes the token fields in order.
func (t *Token) UnmarshalSCALE(d *scale.Decoder) (err error) {
	if t.ID, err = d.DecodeUint64(); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if t.Metadata, err = d.DecodeString(); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	if t.Approvals, err = decodeAddresses(d); err != nil {
		return fmt.Errorf("approvals: %w", err)
	}
	return nil
}

// CreateNft is the data of the transaction creating an nft collection.
type CreateNft struct {
	Owner  address.Address
	VpCode []byte
	Tokens []Token
}

// Validate checks that token ids are unique.
func (c CreateNft) Validate() error {
	return checkUnique(c.Tokens)
}

// Encode returns the canonical encoding.
func (c CreateNft) Encode() []byte {
	return scale.Marshal(c)
}

// DecodeCreateNft decodes and validates the canonical encoding.
func DecodeCreateNft(b []byte) (c CreateNft, err error) {
	if err = scale.Unmarshal(b, &c); err != nil {
		return CreateNft{}, fmt.Errorf("%w: %s", ErrInvalidNft, err)
	}
	if err = c.Validate(); err != nil {
		return CreateNft{}, err
	}
	return c, nil
}

// MarshalSCALE encodes the fields in order.
func (c CreateNft) MarshalSCALE(e *scale.Encoder) {
	c.Owner.MarshalSCALE(e)
	e.EncodeBytes(c.VpCode)
	encodeTokens(e, c.Tokens)
}

// UnmarshalSCALE decodes the fields in order.
func (c *CreateNft) UnmarshalSCALE(d *scale.Decoder) (err error) {
	if err = c.Owner.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	if c.VpCode, err = d.DecodeBytes(); err != nil {
		return fmt.Errorf("vp code: %w", err)
	}
	if c.Tokens, err = decodeTokens(d); err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	return nil
}

// MintNft is the data of the transaction minting tokens in a collection.
type MintNft struct {
	Address  address.Address
	Owner    address.Address
	Verifier address.Address
	Tokens   []Token
}

// Encode returns the canonical encoding.
func (m MintNft) Encode() []byte {
	return scale.Marshal(m)
}

// DecodeMintNft decodes the canonical encoding and checks token ids are unique.
func DecodeMintNft(b []byte) (m MintNft, err error) {
	if err = scale.Unmarshal(b, &m); err != nil {
		return MintNft{}, fmt.Errorf("%w: %s", ErrInvalidNft, err)
	}
	if err = checkUnique(m.Tokens); err != nil {
		return MintNft{}, err
	}
	return m, nil
}

// Authorize checks that the mint is verified by the collection creator
// and returns the storage keys the mint writes.
func (m MintNft) Authorize(creator address.Address) ([]storage.Key, error) {
	if m.Verifier != creator {
		return nil, fmt.Errorf("%w: verifier %s, creator %s", ErrUnauthorized, m.Verifier, creator)
	}
	if err := checkUnique(m.Tokens); err != nil {
		return nil, err
	}

	keys := make([]storage.Key, 0, 3*len(m.Tokens))
	for _, token := range m.Tokens {
		keys = append(keys,
			TokenOwnerKey(m.Address, token.ID),
			TokenMetadataKey(m.Address, token.ID),
			TokenApprovalKey(m.Address, token.ID),
		)
	}
	return keys, nil
}

// MarshalSCALE encodes the fields in order.
func (m MintNft) MarshalSCALE(e *scale.Encoder) {
	m.Address.MarshalSCALE(e)
	m.Owner.MarshalSCALE(e)
	m.Verifier.MarshalSCALE(e)
	encodeTokens(e, m.Tokens)
}

// UnmarshalSCALE decodes the fields in order.
func (m *MintNft) UnmarshalSCALE(d *scale.Decoder) (err error) {
	if err = m.Address.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("address: %w", err)
	}
	if err = m.Owner.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	if err = m.Verifier.UnmarshalSCALE(d); err != nil {
		return fmt.Errorf("verifier: %w", err)
	}
	if m.Tokens, err = decodeTokens(d); err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	return nil
}

func checkUnique(tokens []Token) error {
	seen := make(map[uint64]struct{}, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateToken, token.ID)
		}
		seen[token.ID] = struct{}{}
	}
	return nil
}

const (
	addressSize = 1 + address.HashLength
	// id, empty metadata and empty approvals
	minTokenSize = 8 + 1 + 1
)

func encodeAddresses(e *scale.Encoder, addresses []address.Address) {
	e.EncodeLength(len(addresses))
	for _, a := range addresses {
		a.MarshalSCALE(e)
	}
}

func decodeAddresses(d *scale.Decoder) (addresses []address.Address, err error) {
	n, err := d.DecodeLength(addressSize)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	addresses = make([]address.Address, n)
	for i := range addresses {
		if err = addresses[i].UnmarshalSCALE(d); err != nil {
			return nil, fmt.Errorf("%d: %w", i, err)
		}
	}
	return addresses, nil
}

func encodeTokens(e *scale.Encoder, tokens []Token) {
	e.EncodeLength(len(tokens))
	for _, token := range tokens {
		token.MarshalSCALE(e)
	}
}

func decodeTokens(d *scale.Decoder) (tokens []Token, err error) {
	n, err := d.DecodeLength(minTokenSize)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	tokens = make([]Token, n)
	for i := range tokens {
		if err = tokens[i].UnmarshalSCALE(d); err != nil {
			return nil, fmt.Errorf("%d: %w", i, err)
		}
	}
	return tokens, nil
}
