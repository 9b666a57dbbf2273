// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
)

// Option modifies the settings of a logger. Options only set fields;
// unset fields are inherited from the parent logger on creation and
// left untouched on Patch.
type Option func(s *settings)

// SetLevel sets the minimum level logged, Info by default.
func SetLevel(level Level) Option {
	return func(s *settings) {
		s.level = &level
	}
}

// SetCaller sets the caller fields appended to each line, CallerNone by default.
func SetCaller(caller Caller) Option {
	return func(s *settings) {
		s.caller = &caller
	}
}

// SetFormat sets the line format, FormatConsole by default.
func SetFormat(format Format) Option {
	return func(s *settings) {
		s.format = &format
	}
}

// SetWriter sets the output, os.Stdout by default.
func SetWriter(writer io.Writer) Option {
	return func(s *settings) {
		s.writer = writer
	}
}

// AddContext appends a key value pair logged with every line.
// Values of a key already present are joined with a comma.
func AddContext(key, value string) Option {
	return func(s *settings) {
		for i, kv := range s.context {
			if kv.key == key {
				s.context[i].values = append(kv.values, value)
				return
			}
		}
		s.context = append(s.context, contextKeyValues{key: key, values: []string{value}})
	}
}
