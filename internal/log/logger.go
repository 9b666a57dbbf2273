// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Logger is the logger implementation structure.
// It is thread safe to use.
type Logger struct {
	settings settings
	childs   []*Logger
	mutex    *sync.Mutex // pointer shared with child loggers
}

// New creates a new logger.
// It can only be called once per writer.
// If you want to create more loggers with different settings for the
// same writer, child loggers can be created using the New(options) method,
// to ensure thread safety on the same writer.
func New(options ...Option) *Logger {
	s := newSettings(options)
	s.setDefaults()

	return &Logger{
		settings: s,
		mutex:    new(sync.Mutex),
	}
}

// New creates a new thread safe child logger.
// It can use a different writer, but it is expected to use the
// same writer since it is thread safe.
func (l *Logger) New(options ...Option) *Logger {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	s := newSettings(options)
	s.mergeWith(l.settings)
	s.setDefaults()

	child := &Logger{
		settings: s,
		mutex:    l.mutex,
	}
	l.childs = append(l.childs, child)
	return child
}

// Patch patches the existing settings with any option given.
// This is thread safe and propagates to all child loggers.
func (l *Logger) Patch(options ...Option) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.patchWithoutLocking(newSettings(options))
}

func (l *Logger) patchWithoutLocking(patch settings) {
	l.settings.overrideWith(patch)
	for _, child := range l.childs {
		child.patchWithoutLocking(patch)
	}
}

func (l *Logger) log(logLevel Level, s string, args ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if *l.settings.level > logLevel {
		return
	}

	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}

	caller := l.settings.caller.callerString()

	var line string
	switch *l.settings.format {
	case FormatJSON:
		line = l.jsonLine(logLevel, s, caller)
	case FormatColour:
		line = l.consoleLine(logLevel.ColouredString(), s, caller)
	default:
		line = l.consoleLine(logLevel.String(), s, caller)
	}

	_, _ = l.settings.writer.Write([]byte(line + "\n"))
}

func (l *Logger) consoleLine(level, s, caller string) string {
	line := time.Now().UTC().Format(time.RFC3339) + " " +
		fmt.Sprintf("%-8s", level) + " " + s

	if caller != "" {
		line += "\t" + caller
	}

	if len(l.settings.context) > 0 {
		keyValues := make([]string, 0, len(l.settings.context))
		for _, kvs := range l.settings.context {
			valuesString := strings.Join(kvs.values, ",")
			keyValues = append(keyValues, kvs.key+"="+valuesString)
		}
		line += "\t" + strings.Join(keyValues, " ")
	}

	return line
}

// jsonLine encodes the entry as a JSON object. Context keys never
// override the time, level, msg and caller fields.
func (l *Logger) jsonLine(level Level, s, caller string) string {
	fields := make(map[string]string, len(l.settings.context)+4)
	for _, kvs := range l.settings.context {
		fields[kvs.key] = strings.Join(kvs.values, ",")
	}
	fields["time"] = time.Now().UTC().Format(time.RFC3339)
	fields["level"] = level.String()
	fields["msg"] = s
	if caller != "" {
		fields["caller"] = caller
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return l.consoleLine(level.String(), s, caller)
	}
	return string(b)
}

// Trace logs with the TRACE level.
func (l *Logger) Trace(s string) { l.log(Trace, s) }

// Debug logs with the DEBUG level.
func (l *Logger) Debug(s string) { l.log(Debug, s) }

// Info logs with the INFO level.
func (l *Logger) Info(s string) { l.log(Info, s) }

// Warn logs with the WARN level.
func (l *Logger) Warn(s string) { l.log(Warn, s) }

// Error logs with the ERROR level.
func (l *Logger) Error(s string) { l.log(Error, s) }

// Critical logs with the CRITICAL level.
func (l *Logger) Critical(s string) { l.log(Critical, s) }

// Tracef formats and logs at the TRACE level.
func (l *Logger) Tracef(format string, args ...interface{}) { l.log(Trace, format, args...) }

// Debugf formats and logs at the DEBUG level.
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(Debug, format, args...) }

// Infof formats and logs at the INFO level.
func (l *Logger) Infof(format string, args ...interface{}) { l.log(Info, format, args...) }

// Warnf formats and logs at the WARN level.
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(Warn, format, args...) }

// Errorf formats and logs at the ERROR level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(Error, format, args...) }

// Criticalf formats and logs at the CRITICAL level.
func (l *Logger) Criticalf(format string, args ...interface{}) { l.log(Critical, format, args...) }
