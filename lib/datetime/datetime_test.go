// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package datetime

import (
	"testing"
	"time"

	"github.com/ChainSafe/anoma-go/lib/scale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func Test_RoundTrip_2022(t *testing.T) {
	t.Parallel()

	instant, err := ParseRfc3339("2022-01-01T00:00:00Z")
	require.NoError(t, err)

	ts, err := instant.ToTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(1640995200), ts.GetSeconds())
	fromTimestamp, err := FromTimestamp(ts)
	require.NoError(t, err)
	assert.Equal(t, instant, fromTimestamp)

	ct, err := instant.ToConsensusTime()
	require.NoError(t, err)
	assert.Equal(t, ConsensusTime{Seconds: 1640995200}, ct)
	fromConsensus, err := FromConsensusTime(ct)
	require.NoError(t, err)
	assert.Equal(t, instant, fromConsensus)

	assert.Equal(t, Rfc3339String("2022-01-01T00:00:00Z"), instant.ToRfc3339())
}

func Test_RoundTrip_nanoseconds(t *testing.T) {
	t.Parallel()

	instants := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 6, 30, 12, 34, 56, 123456789, time.UTC),
		time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC),
		time.Date(2000, 2, 29, 23, 0, 0, 1, time.FixedZone("UTC+5", 5*3600)),
	}

	for _, instant := range instants {
		dt, err := New(instant)
		require.NoError(t, err)
		assert.True(t, dt.Time().Equal(instant))

		ts, err := dt.ToTimestamp()
		require.NoError(t, err)
		back, err := FromTimestamp(ts)
		require.NoError(t, err)
		assert.Equal(t, dt, back)

		ct, err := dt.ToConsensusTime()
		require.NoError(t, err)
		back, err = FromConsensusTime(ct)
		require.NoError(t, err)
		assert.Equal(t, dt, back)

		back, err = ParseRfc3339(dt.ToRfc3339())
		require.NoError(t, err)
		assert.Equal(t, dt, back)

		var decoded DateTimeUtc
		require.NoError(t, scale.Unmarshal(scale.Marshal(dt), &decoded))
		assert.Equal(t, dt, decoded)
	}
}

func Test_FromTimestamp(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		ts         *timestamppb.Timestamp
		errWrapped error
	}{
		"nil": {
			errWrapped: ErrOutOfRange,
		},
		"unix epoch": {
			ts: &timestamppb.Timestamp{},
		},
		"before epoch": {
			ts: &timestamppb.Timestamp{Seconds: -1},
		},
		"year one": {
			ts: &timestamppb.Timestamp{Seconds: minSeconds},
		},
		"before year one": {
			ts:         &timestamppb.Timestamp{Seconds: minSeconds - 1},
			errWrapped: ErrOutOfRange,
		},
		"after year 9999": {
			ts:         &timestamppb.Timestamp{Seconds: maxSeconds + 1},
			errWrapped: ErrOutOfRange,
		},
		"negative nanos": {
			ts:         &timestamppb.Timestamp{Nanos: -1},
			errWrapped: ErrOutOfRange,
		},
		"nanos overflow": {
			ts:         &timestamppb.Timestamp{Nanos: 1e9},
			errWrapped: ErrOutOfRange,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := FromTimestamp(testCase.ts)
			assert.ErrorIs(t, err, testCase.errWrapped)
		})
	}
}

func Test_ConsensusTime(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		ct         ConsensusTime
		errWrapped error
	}{
		"epoch":          {ct: ConsensusTime{}},
		"before epoch":   {ct: ConsensusTime{Seconds: -1}, errWrapped: ErrOutOfRange},
		"max":            {ct: ConsensusTime{Seconds: maxSeconds, Nanos: 999999999}},
		"beyond max":     {ct: ConsensusTime{Seconds: maxSeconds + 1}, errWrapped: ErrOutOfRange},
		"negative nanos": {ct: ConsensusTime{Nanos: -5}, errWrapped: ErrOutOfRange},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dt, err := FromConsensusTime(testCase.ct)
			assert.ErrorIs(t, err, testCase.errWrapped)
			if err != nil {
				return
			}
			back, err := dt.ToConsensusTime()
			require.NoError(t, err)
			assert.Equal(t, testCase.ct, back)
		})
	}

	beforeEpoch := MustNew(time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC))
	_, err := beforeEpoch.ToConsensusTime()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func Test_ParseRfc3339(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s          Rfc3339String
		errWrapped error
	}{
		"valid":             {s: "2022-01-01T00:00:00Z"},
		"with offset":       {s: "2022-01-01T02:00:00+02:00"},
		"fraction":          {s: "2022-01-01T00:00:00.5Z"},
		"empty":             {s: "", errWrapped: ErrParse},
		"garbage":           {s: "yesterday", errWrapped: ErrParse},
		"missing time zone": {s: "2022-01-01T00:00:00", errWrapped: ErrParse},
		"year zero":         {s: "0000-01-01T00:00:00Z", errWrapped: ErrOutOfRange},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRfc3339(testCase.s)
			assert.ErrorIs(t, err, testCase.errWrapped)
		})
	}

	withOffset, err := ParseRfc3339("2022-01-01T02:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, Rfc3339String("2022-01-01T00:00:00Z"), withOffset.ToRfc3339())
}

func Test_DateTimeUtc_UnmarshalSCALE(t *testing.T) {
	t.Parallel()

	e := scale.NewEncoder()
	e.EncodeInt64(maxSeconds + 1)
	e.EncodeUint32(0)
	b, err := e.Bytes()
	require.NoError(t, err)

	var dt DateTimeUtc
	err = scale.Unmarshal(b, &dt)
	assert.ErrorIs(t, err, ErrOutOfRange)

	err = scale.Unmarshal(b[:9], &dt)
	assert.ErrorIs(t, err, scale.ErrTruncated)
}
