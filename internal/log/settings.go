// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format is the format of the log output.
type Format uint8

const (
	// FormatConsole writes a human readable line per log entry.
	FormatConsole Format = iota
	// FormatColour is FormatConsole with coloured levels.
	FormatColour
	// FormatJSON writes a JSON object per log entry.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatConsole:
		return "console"
	case FormatColour:
		return "colour"
	case FormatJSON:
		return "json"
	default:
		return "???"
	}
}

// ErrFormatNotRecognised is returned if the format string is not recognised.
var ErrFormatNotRecognised = errors.New("format is not recognised")

// ParseFormat parses a string into a format.
func ParseFormat(s string) (format Format, err error) {
	switch strings.ToLower(s) {
	case FormatConsole.String():
		return FormatConsole, nil
	case FormatColour.String(), "color":
		return FormatColour, nil
	case FormatJSON.String():
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrFormatNotRecognised, s)
}

type contextKeyValues struct {
	key    string
	values []string
}

type settings struct {
	writer  io.Writer
	level   *Level
	format  *Format
	caller  *Caller
	context []contextKeyValues
}

func newSettings(options []Option) (settings settings) {
	for _, option := range options {
		option(&settings)
	}
	return settings
}

// mergeWith sets values for each unset field of the
// receiving settings from the other settings.
func (s *settings) mergeWith(other settings) {
	if s.writer == nil {
		s.writer = other.writer
	}

	if s.level == nil && other.level != nil {
		value := *other.level
		s.level = &value
	}

	if s.format == nil && other.format != nil {
		value := *other.format
		s.format = &value
	}

	if s.caller == nil && other.caller != nil {
		value := *other.caller
		s.caller = &value
	}

	// other context goes first, the receiving context
	// values are appended to it.
	newContext := make([]contextKeyValues, 0, len(other.context)+len(s.context))
	for _, kv := range other.context {
		newContext = append(newContext, contextKeyValues{
			key:    kv.key,
			values: append([]string(nil), kv.values...),
		})
	}
	for _, kv := range s.context {
		found := false
		for i := range newContext {
			if newContext[i].key == kv.key {
				newContext[i].values = append(newContext[i].values, kv.values...)
				found = true
				break
			}
		}
		if !found {
			newContext = append(newContext, kv)
		}
	}

	if len(newContext) > 0 {
		s.context = newContext
	}
}

// overrideWith sets each field of the receiving settings
// that is set in the other settings.
func (s *settings) overrideWith(other settings) {
	if other.writer != nil {
		s.writer = other.writer
	}

	if other.level != nil {
		value := *other.level
		s.level = &value
	}

	if other.format != nil {
		value := *other.format
		s.format = &value
	}

	if other.caller != nil {
		value := *other.caller
		s.caller = &value
	}

	for _, kv := range other.context {
		found := false
		for i := range s.context {
			if s.context[i].key == kv.key {
				s.context[i].values = append(s.context[i].values, kv.values...)
				found = true
				break
			}
		}
		if !found {
			s.context = append(s.context, kv)
		}
	}
}

func (s *settings) setDefaults() {
	if s.writer == nil {
		s.writer = os.Stdout
	}

	if s.level == nil {
		value := Info
		s.level = &value
	}

	if s.format == nil {
		value := FormatConsole
		s.format = &value
	}

	if s.caller == nil {
		value := CallerNone
		s.caller = &value
	}
}
