// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Caller is the set of caller fields appended to each log line.
type Caller uint8

const (
	// CallerFile logs the base name of the caller file.
	CallerFile Caller = 1 << iota
	// CallerLine logs the caller line number.
	CallerLine
	// CallerFunc logs the caller function name.
	CallerFunc
)

// CallerNone logs no caller field.
const CallerNone Caller = 0

var callerFieldNames = [...]struct {
	field Caller
	name  string
}{
	{field: CallerFile, name: "file"},
	{field: CallerLine, name: "line"},
	{field: CallerFunc, name: "func"},
}

func (c Caller) String() string {
	if c == CallerNone {
		return "none"
	}
	names := make([]string, 0, len(callerFieldNames))
	for _, f := range callerFieldNames {
		if c&f.field != 0 {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, ",")
}

// ErrCallerNotRecognised is returned if a caller field is not recognised.
var ErrCallerNotRecognised = errors.New("caller field is not recognised")

// ParseCaller parses a comma separated list of the caller fields
// file, line and func. An empty string and "none" select no field.
func ParseCaller(s string) (caller Caller, err error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return CallerNone, nil
	}

	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		found := false
		for _, f := range callerFieldNames {
			if f.name == name {
				caller |= f.field
				found = true
				break
			}
		}
		if !found {
			return CallerNone, fmt.Errorf("%w: %s", ErrCallerNotRecognised, name)
		}
	}
	return caller, nil
}

// callerString must be called from Logger.log only.
func (c Caller) callerString() string {
	if c == CallerNone {
		return ""
	}

	// callerString -> Logger.log -> Logger.<Level> -> caller
	const depth = 3
	pc, file, line, ok := runtime.Caller(depth)
	if !ok {
		return "error"
	}

	fields := make([]string, 0, len(callerFieldNames))
	if c&CallerFile != 0 {
		fields = append(fields, filepath.Base(file))
	}
	if c&CallerLine != 0 {
		fields = append(fields, "L"+strconv.Itoa(line))
	}
	if c&CallerFunc != 0 {
		if details := runtime.FuncForPC(pc); details != nil {
			fields = append(fields, strings.TrimLeft(filepath.Ext(details.Name()), "."))
		}
	}
	return strings.Join(fields, ":")
}
