// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package datetime

import (
	"errors"
	"fmt"
	"time"

	"github.com/ChainSafe/anoma-go/lib/scale"

	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	// minSeconds is 0001-01-01T00:00:00Z in seconds since the Unix epoch.
	minSeconds int64 = -62135596800
	// maxSeconds is 9999-12-31T23:59:59Z in seconds since the Unix epoch.
	maxSeconds int64 = 253402300799
	nanosPerSecond   = int64(time.Second)
)

var (
	// ErrOutOfRange is returned when a timestamp cannot be represented
	// on one side of a conversion.
	ErrOutOfRange = errors.New("timestamp out of range")
	// ErrParse is returned when a timestamp string is malformed.
	ErrParse = errors.New("cannot parse timestamp")
)

// DateTimeUtc is an UTC instant with nanosecond precision.
type DateTimeUtc struct {
	t time.Time
}

// Now returns the current instant.
func Now() DateTimeUtc {
	return DateTimeUtc{t: time.Now().UTC().Round(0)}
}

// New converts t into UTC. It fails if t is outside
// the years 1 to 9999.
func New(t time.Time) (DateTimeUtc, error) {
	return fromUnix(t.Unix(), int64(t.Nanosecond()))
}

// MustNew is like New but panics on error.
func MustNew(t time.Time) DateTimeUtc {
	dt, err := New(t)
	if err != nil {
		panic(err)
	}
	return dt
}

func fromUnix(seconds, nanos int64) (DateTimeUtc, error) {
	if nanos < 0 || nanos >= nanosPerSecond {
		return DateTimeUtc{}, fmt.Errorf("%w: nanos %d not in [0, 1e9)", ErrOutOfRange, nanos)
	}
	if seconds < minSeconds || seconds > maxSeconds {
		return DateTimeUtc{}, fmt.Errorf("%w: %d seconds since epoch", ErrOutOfRange, seconds)
	}
	return DateTimeUtc{t: time.Unix(seconds, nanos).UTC()}, nil
}

// Time returns the instant as a time.Time in UTC.
func (dt DateTimeUtc) Time() time.Time {
	return dt.t
}

// Equal reports whether both instants are the same.
func (dt DateTimeUtc) Equal(other DateTimeUtc) bool {
	return dt.t.Equal(other.t)
}

func (dt DateTimeUtc) String() string {
	return string(dt.ToRfc3339())
}

// Rfc3339String is a timestamp formatted following RFC3339.
type Rfc3339String string

// ToRfc3339 formats the instant with nanosecond precision.
func (dt DateTimeUtc) ToRfc3339() Rfc3339String {
	return Rfc3339String(dt.t.Format(time.RFC3339Nano))
}

// ParseRfc3339 parses an RFC3339 timestamp with an optional fractional part.
func ParseRfc3339(s Rfc3339String) (DateTimeUtc, error) {
	t, err := time.Parse(time.RFC3339Nano, string(s))
	if err != nil {
		return DateTimeUtc{}, fmt.Errorf("%w: %s", ErrParse, err)
	}
	return New(t)
}

// FromTimestamp converts a protobuf timestamp.
func FromTimestamp(ts *timestamppb.Timestamp) (DateTimeUtc, error) {
	if ts == nil {
		return DateTimeUtc{}, fmt.Errorf("%w: nil timestamp", ErrOutOfRange)
	}
	if err := ts.CheckValid(); err != nil {
		return DateTimeUtc{}, fmt.Errorf("%w: %s", ErrOutOfRange, err)
	}
	return fromUnix(ts.GetSeconds(), int64(ts.GetNanos()))
}

// ToTimestamp converts the instant into a protobuf timestamp.
func (dt DateTimeUtc) ToTimestamp() (*timestamppb.Timestamp, error) {
	ts := timestamppb.New(dt.t)
	if err := ts.CheckValid(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, err)
	}
	return ts, nil
}

// ConsensusTime is the block time shape of the consensus engine.
// It cannot represent instants before the Unix epoch.
type ConsensusTime struct {
	Seconds int64
	Nanos   int32
}

// FromConsensusTime converts a consensus engine block time.
func FromConsensusTime(ct ConsensusTime) (DateTimeUtc, error) {
	if ct.Seconds < 0 {
		return DateTimeUtc{}, fmt.Errorf("%w: %d seconds is before the Unix epoch", ErrOutOfRange, ct.Seconds)
	}
	return fromUnix(ct.Seconds, int64(ct.Nanos))
}

// ToConsensusTime converts the instant into a consensus engine block time.
func (dt DateTimeUtc) ToConsensusTime() (ConsensusTime, error) {
	seconds := dt.t.Unix()
	if seconds < 0 {
		return ConsensusTime{}, fmt.Errorf("%w: %s is before the Unix epoch", ErrOutOfRange, dt)
	}
	return ConsensusTime{
		Seconds: seconds,
		Nanos:   int32(dt.t.Nanosecond()),
	}, nil
}

// MarshalSCALE writes the seconds since the Unix epoch as an i64
// followed by the nanoseconds as an u32.
func (dt DateTimeUtc) MarshalSCALE(e *scale.Encoder) {
	e.EncodeInt64(dt.t.Unix())
	e.EncodeUint32(uint32(dt.t.Nanosecond()))
}

// UnmarshalSCALE reads and range checks an instant.
func (dt *DateTimeUtc) UnmarshalSCALE(d *scale.Decoder) error {
	seconds, err := d.DecodeInt64()
	if err != nil {
		return err
	}
	nanos, err := d.DecodeUint32()
	if err != nil {
		return err
	}
	decoded, err := fromUnix(seconds, int64(nanos))
	if err != nil {
		return err
	}
	*dt = decoded
	return nil
}

// MarshalText formats the instant as RFC3339.
func (dt DateTimeUtc) MarshalText() ([]byte, error) {
	return []byte(dt.ToRfc3339()), nil
}

// UnmarshalText parses an RFC3339 instant.
func (dt *DateTimeUtc) UnmarshalText(text []byte) error {
	decoded, err := ParseRfc3339(Rfc3339String(text))
	if err != nil {
		return err
	}
	*dt = decoded
	return nil
}
