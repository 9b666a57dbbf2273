// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChainSafe/anoma-go/lib/address"
)

const (
	// KeySeparator separates the segments of a storage key.
	KeySeparator = "/"
	// addressPrefix marks a segment holding an address.
	addressPrefix = "#"
)

var (
	// ErrInvalidKey is returned when a storage key does not parse.
	ErrInvalidKey = errors.New("invalid storage key")
)

// KeySegment is a segment of a storage key. It holds either
// an address or a plain string.
type KeySegment struct {
	address *address.Address
	value   string
}

// StringSegment returns a plain string segment.
func StringSegment(s string) KeySegment {
	return KeySegment{value: s}
}

// AddressSegment returns an address segment.
func AddressSegment(addr address.Address) KeySegment {
	return KeySegment{address: &addr}
}

// Address returns the address held by the segment, if any.
func (s KeySegment) Address() (addr address.Address, ok bool) {
	if s.address == nil {
		return addr, false
	}
	return *s.address, true
}

func (s KeySegment) String() string {
	if s.address != nil {
		return addressPrefix + s.address.String()
	}
	return s.value
}

// Key is a storage key made of segments.
type Key struct {
	Segments []KeySegment
}

// NewKey returns a key whose first segment is the address.
func NewKey(addr address.Address) Key {
	return Key{Segments: []KeySegment{AddressSegment(addr)}}
}

// ParseKey parses a '/' separated key. Segments prefixed with '#'
// must decode as addresses. Empty segments are rejected.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	parts := strings.Split(s, KeySeparator)
	segments := make([]KeySegment, 0, len(parts))
	for i, part := range parts {
		switch {
		case part == "":
			return Key{}, fmt.Errorf("%w: empty segment at index %d", ErrInvalidKey, i)
		case strings.HasPrefix(part, addressPrefix):
			addr, err := address.Decode(strings.TrimPrefix(part, addressPrefix))
			if err != nil {
				return Key{}, fmt.Errorf("%w: segment %d: %s", ErrInvalidKey, i, err)
			}
			segments = append(segments, AddressSegment(addr))
		default:
			segments = append(segments, StringSegment(part))
		}
	}
	return Key{Segments: segments}, nil
}

// Push returns a new key with the segment appended.
func (k Key) Push(segment KeySegment) Key {
	segments := make([]KeySegment, len(k.Segments), len(k.Segments)+1)
	copy(segments, k.Segments)
	return Key{Segments: append(segments, segment)}
}

// PushString returns a new key with the string segment appended.
func (k Key) PushString(s string) Key {
	return k.Push(StringSegment(s))
}

// Len returns the number of segments.
func (k Key) Len() int {
	return len(k.Segments)
}

// FirstAddress returns the address of the first segment, if any.
func (k Key) FirstAddress() (addr address.Address, ok bool) {
	if len(k.Segments) == 0 {
		return addr, false
	}
	return k.Segments[0].Address()
}

func (k Key) String() string {
	parts := make([]string, len(k.Segments))
	for i, segment := range k.Segments {
		parts[i] = segment.String()
	}
	return strings.Join(parts, KeySeparator)
}
