// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package proto

import (
	"testing"
	"time"

	"github.com/ChainSafe/anoma-go/lib/datetime"
	"github.com/ChainSafe/anoma-go/lib/proto/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func Test_DecodeIntentGossipMessage(t *testing.T) {
	t.Parallel()

	timestamp := datetime.MustNew(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	message := &IntentGossipMessage{
		Intents: []Intent{
			{Data: []byte("sell 10 BTC"), Timestamp: timestamp},
			{Data: []byte("buy 100 ETH"), Timestamp: timestamp},
		},
	}
	encoded, err := message.Encode()
	require.NoError(t, err)

	decoded, err := DecodeIntentGossipMessage(encoded)
	require.NoError(t, err)
	assert.Equal(t, message, decoded)

	reencoded, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func Test_DecodeIntentGossipMessage_errors(t *testing.T) {
	t.Parallel()

	encode := func(intents ...*wire.Intent) []byte {
		b, err := (&wire.IntentGossipMessage{Intents: intents}).Marshal()
		require.NoError(t, err)
		return b
	}

	valid := encode(&wire.Intent{Data: []byte{1}, Timestamp: &timestamppb.Timestamp{Seconds: 1}})

	testCases := map[string]struct {
		b []byte
	}{
		"empty message": {
			b: nil,
		},
		"truncated": {
			b: valid[:len(valid)-1],
		},
		"missing timestamp": {
			b: encode(&wire.Intent{Data: []byte{1}}),
		},
		"timestamp out of range": {
			b: encode(&wire.Intent{Data: []byte{1}, Timestamp: &timestamppb.Timestamp{Seconds: 253402300800}}),
		},
		"invalid nanos": {
			b: encode(&wire.Intent{Data: []byte{1}, Timestamp: &timestamppb.Timestamp{Nanos: -1}}),
		},
		"one bad intent among good ones": {
			b: encode(
				&wire.Intent{Data: []byte{1}, Timestamp: &timestamppb.Timestamp{Seconds: 1}},
				&wire.Intent{Data: []byte{2}},
			),
		},
		"garbage": {
			b: []byte{0xff, 0xff, 0xff},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			message, err := DecodeIntentGossipMessage(testCase.b)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Nil(t, message)
		})
	}
}

func Test_Intent_Hash(t *testing.T) {
	t.Parallel()

	intent := NewIntent([]byte("intent"))
	hash, err := intent.Hash()
	require.NoError(t, err)

	other := intent
	other.Data = []byte("other intent")
	otherHash, err := other.Hash()
	require.NoError(t, err)

	assert.NotEqual(t, hash, otherHash)
}
