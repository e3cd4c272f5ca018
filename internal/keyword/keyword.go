// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package keyword decides whether a message should trigger a plugin.
package keyword

import "strings"

// Matcher matches messages containing any of its keywords.
//
// Matching is case-sensitive substring containment, without tokenization.
type Matcher struct {
	keywords []string
}

// New returns a Matcher for the given keywords. Empty keywords are dropped,
// since an empty string is contained in every message.
func New(keywords ...string) *Matcher {
	m := &Matcher{}
	for _, kw := range keywords {
		if kw != "" {
			m.keywords = append(m.keywords, kw)
		}
	}
	return m
}

// Match reports whether s contains any of the keywords.
func (m *Matcher) Match(s string) bool {
	for _, kw := range m.keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the keywords the Matcher looks for.
func (m *Matcher) Keywords() []string {
	return append([]string(nil), m.keywords...)
}
