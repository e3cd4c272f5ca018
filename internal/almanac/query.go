// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package almanac

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidQuery is returned when a query field is not a number or is out of
// range. Use [errors.As] with [*QueryError] to find out which field.
var ErrInvalidQuery = errors.New("invalid almanac query")

// Query selects the date to look up. Empty fields are left out of the
// request, and the API falls back to its own defaults for them.
type Query struct {
	Year  string
	Month string
	Day   string
}

// QueryFor returns a Query for the date of t.
func QueryFor(t time.Time) Query {
	return Query{
		Year:  strconv.Itoa(t.Year()),
		Month: strconv.Itoa(int(t.Month())),
		Day:   strconv.Itoa(t.Day()),
	}
}

// QueryError describes an invalid Query field.
type QueryError struct {
	Field  string // "year", "month" or "day"
	Value  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %s %q %s", ErrInvalidQuery, e.Field, e.Value, e.Reason)
}

func (e *QueryError) Unwrap() error { return ErrInvalidQuery }

var queryFields = []struct {
	name     string
	get      func(Query) string
	min, max int
	width    int
}{
	{"year", func(q Query) string { return q.Year }, 1900, 2100, 0},
	{"month", func(q Query) string { return q.Month }, 1, 12, 2},
	{"day", func(q Query) string { return q.Day }, 1, 31, 2},
}

// Values validates q and returns it as query parameters. Month and day are
// zero-padded to two digits.
func (q Query) Values() (url.Values, error) {
	v := make(url.Values)
	for _, f := range queryFields {
		raw := f.get(q)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &QueryError{Field: f.name, Value: raw, Reason: "is not a number"}
		}
		if n < f.min || n > f.max {
			return nil, &QueryError{
				Field:  f.name,
				Value:  raw,
				Reason: fmt.Sprintf("must be between %d and %d", f.min, f.max),
			}
		}
		v.Set(f.name, fmt.Sprintf("%0*d", f.width, n))
	}
	return v, nil
}
