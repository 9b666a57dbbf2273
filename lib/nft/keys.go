// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package nft

import (
	"strconv"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/storage"
)

// Storage key segments of an nft collection.
const (
	CreatorSegment    = "creator"
	TokensSegment     = "keys"
	OwnerSegment      = "current_owner"
	PastOwnersSegment = "past_owners"
	MetadataSegment   = "metadata"
	ApprovalsSegment  = "approvals"
	BurntSegment      = "burnt"
)

// CreatorKey is the key holding the creator of the collection.
func CreatorKey(nft address.Address) storage.Key {
	return storage.NewKey(nft).PushString(CreatorSegment)
}

func tokenKey(nft address.Address, id uint64) storage.Key {
	return storage.NewKey(nft).
		PushString(TokensSegment).
		PushString(strconv.FormatUint(id, 10))
}

// TokenOwnerKey is the key holding the current owner of a token.
func TokenOwnerKey(nft address.Address, id uint64) storage.Key {
	return tokenKey(nft, id).PushString(OwnerSegment)
}

// TokenPastOwnersKey is the key holding the previous owners of a token.
func TokenPastOwnersKey(nft address.Address, id uint64) storage.Key {
	return tokenKey(nft, id).PushString(PastOwnersSegment)
}

// TokenMetadataKey is the key holding the metadata of a token.
func TokenMetadataKey(nft address.Address, id uint64) storage.Key {
	return tokenKey(nft, id).PushString(MetadataSegment)
}

// TokenApprovalKey is the key holding the approvals of a token.
func TokenApprovalKey(nft address.Address, id uint64) storage.Key {
	return tokenKey(nft, id).PushString(ApprovalsSegment)
}

// TokenBurntKey is the key marking a token as burnt.
func TokenBurntKey(nft address.Address, id uint64) storage.Key {
	return tokenKey(nft, id).PushString(BurntSegment)
}

// IsNftKey reports whether the key belongs to the nft collection. For
// token keys it also returns the token id and the attribute segment.
func IsNftKey(nft address.Address, key storage.Key) (id uint64, attribute string, ok bool) {
	first, ok := key.FirstAddress()
	if !ok || first != nft {
		return 0, "", false
	}

	segments := key.Segments[1:]
	switch {
	case len(segments) == 1 && segments[0].String() == CreatorSegment:
		return 0, CreatorSegment, true
	case len(segments) == 3 && segments[0].String() == TokensSegment:
		id, err := strconv.ParseUint(segments[1].String(), 10, 64)
		if err != nil {
			return 0, "", false
		}
		switch attribute = segments[2].String(); attribute {
		case OwnerSegment, PastOwnersSegment, MetadataSegment, ApprovalsSegment, BurntSegment:
			return id, attribute, true
		}
	}
	return 0, "", false
}
