// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package logger defines a type for writing to logs, constructs structured
// loggers and masks secrets that end up in log attributes.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Logf is the basic logger type: a printf-like func. Like [log.Printf], the
// format need not end in a newline. Logf functions must be safe for concurrent
// use.
type Logf func(format string, args ...any)

// Write implements the [io.Writer] interface.
func (f Logf) Write(p []byte) (n int, err error) {
	f("%s", p)
	return len(p), nil
}

// New returns a [slog.Logger] writing text records to w. Debug records are
// only written when verbose is true.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a [slog.Logger] that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Secret is a string that is masked when logged through [slog]: only the
// first and the last four characters are kept.
type Secret string

// LogValue implements the [slog.LogValuer] interface.
func (s Secret) LogValue() slog.Value { return slog.StringValue(Mask(string(s))) }

// String implements the [fmt.Stringer] interface.
func (s Secret) String() string { return Mask(string(s)) }

// Mask hides the middle of s, keeping the first and the last four characters.
// Strings too short to keep both ends are hidden completely.
func Mask(s string) string {
	const keep = 4
	if utf8.RuneCountInString(s) <= 2*keep {
		return strings.Repeat("*", utf8.RuneCountInString(s))
	}
	r := []rune(s)
	return string(r[:keep]) + "..." + string(r[len(r)-keep:])
}
