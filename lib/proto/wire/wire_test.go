// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package wire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func Test_Intent_roundTrip(t *testing.T) {
	t.Parallel()

	intent := &Intent{
		Data:      []byte{1, 2, 3},
		Timestamp: &timestamppb.Timestamp{Seconds: 1640995200, Nanos: 5},
	}

	encoded, err := intent.Marshal()
	require.NoError(t, err)

	decoded := new(Intent)
	require.NoError(t, decoded.Unmarshal(encoded))

	diff := cmp.Diff(intent, decoded, protocmp.Transform())
	assert.Empty(t, diff)
}

func Test_IntentGossipMessage_roundTrip(t *testing.T) {
	t.Parallel()

	message := &IntentGossipMessage{
		Intents: []*Intent{
			{Data: []byte("first"), Timestamp: &timestamppb.Timestamp{Seconds: 1}},
			{Data: []byte("second"), Timestamp: &timestamppb.Timestamp{Seconds: 2}},
		},
	}

	encoded, err := message.Marshal()
	require.NoError(t, err)

	decoded := new(IntentGossipMessage)
	require.NoError(t, decoded.Unmarshal(encoded))
	require.Len(t, decoded.Intents, 2)

	diff := cmp.Diff(message, decoded, protocmp.Transform())
	assert.Empty(t, diff)

	reencoded, err := decoded.Marshal()
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func Test_Intent_Unmarshal_errors(t *testing.T) {
	t.Parallel()

	dataField := protowire.AppendTag(nil, intentDataField, protowire.BytesType)
	dataField = protowire.AppendBytes(dataField, []byte{9})

	unknownField := protowire.AppendTag(nil, 7, protowire.VarintType)
	unknownField = protowire.AppendVarint(unknownField, 1)

	wrongType := protowire.AppendTag(nil, intentDataField, protowire.VarintType)
	wrongType = protowire.AppendVarint(wrongType, 1)

	badTimestamp := protowire.AppendTag(nil, intentTimestampField, protowire.BytesType)
	badTimestamp = protowire.AppendBytes(badTimestamp, []byte{0xff})

	timestampUnknown := protowire.AppendTag(nil, 9, protowire.VarintType)
	timestampUnknown = protowire.AppendVarint(timestampUnknown, 1)
	unknownInTimestamp := protowire.AppendTag(nil, intentTimestampField, protowire.BytesType)
	unknownInTimestamp = protowire.AppendBytes(unknownInTimestamp, timestampUnknown)

	testCases := map[string]struct {
		b          []byte
		errWrapped error
	}{
		"truncated tag": {
			b:          []byte{0x80},
			errWrapped: ErrMalformed,
		},
		"truncated bytes": {
			b:          dataField[:len(dataField)-1],
			errWrapped: ErrMalformed,
		},
		"unknown field": {
			b:          unknownField,
			errWrapped: ErrUnknownField,
		},
		"wrong wire type": {
			b:          wrongType,
			errWrapped: ErrWrongWireType,
		},
		"duplicate field": {
			b:          append(append([]byte{}, dataField...), dataField...),
			errWrapped: ErrDuplicateField,
		},
		"bad timestamp": {
			b:          badTimestamp,
			errWrapped: ErrInvalidTimestamp,
		},
		"unknown timestamp field": {
			b:          unknownInTimestamp,
			errWrapped: ErrUnknownField,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := new(Intent).Unmarshal(testCase.b)
			assert.ErrorIs(t, err, testCase.errWrapped)

			message := protowire.AppendTag(nil, gossipIntentsField, protowire.BytesType)
			message = protowire.AppendBytes(message, testCase.b)
			err = new(IntentGossipMessage).Unmarshal(message)
			assert.ErrorIs(t, err, testCase.errWrapped)
		})
	}
}

func Test_IntentGossipMessage_Unmarshal_unknownField(t *testing.T) {
	t.Parallel()

	b := protowire.AppendTag(nil, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, nil)

	err := new(IntentGossipMessage).Unmarshal(b)
	assert.ErrorIs(t, err, ErrUnknownField)
}
