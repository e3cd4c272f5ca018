// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package almanac

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrFormat is returned when a record doesn't fit the layout: a field is
// missing or has the wrong shape.
var ErrFormat = errors.New("cannot format almanac record")

// DefaultSeparator joins list fields such as auspicious activities.
const DefaultSeparator = "、"

// Layout describes the text produced for a record.
//
// Each line is a [text/template] executed against the record, so fields are
// referenced as {{.solar_calendar}}, list items as {{index .year_of 0}} and
// whole lists as {{join .should}}.
type Layout struct {
	Lines     []string `yaml:"lines"`
	Separator string   `yaml:"separator"`
}

// Formatter renders records according to a Layout.
type Formatter struct {
	tmpl *template.Template
}

// NewFormatter parses the layout lines.
func NewFormatter(l Layout) (*Formatter, error) {
	if len(l.Lines) == 0 {
		return nil, errors.New("almanac layout has no lines")
	}
	sep := l.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	tmpl, err := template.New("almanac").
		Option("missingkey=error").
		Funcs(template.FuncMap{"join": joinFunc(sep)}).
		Parse(strings.Join(l.Lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("parsing almanac layout: %w", err)
	}
	return &Formatter{tmpl: tmpl}, nil
}

// Format renders rec. It never returns partial text: any error wraps
// ErrFormat and comes with an empty string.
func (f *Formatter) Format(rec Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("%w: record is empty", ErrFormat)
	}
	var sb strings.Builder
	if err := f.tmpl.Execute(&sb, map[string]any(rec)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return sb.String(), nil
}

func joinFunc(sep string) func(any) (string, error) {
	return func(v any) (string, error) {
		items, ok := v.([]any)
		if !ok {
			if ss, ok := v.([]string); ok {
				return strings.Join(ss, sep), nil
			}
			return "", fmt.Errorf("join: want a list, got %T", v)
		}
		parts := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return "", fmt.Errorf("join: item %d is %T, not a string", i, item)
			}
			parts[i] = s
		}
		return strings.Join(parts, sep), nil
	}
}
