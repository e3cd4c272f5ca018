// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package almanac

import (
	"context"
	"encoding/json"
	"fmt"

	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"go.astrophena.name/huangli/internal/almanac"
)

// Almanac is what the module exposes. [*plugin.Plugin] implements it.
type Almanac interface {
	Get(ctx context.Context, q almanac.Query) (almanac.Record, error)
	Format(rec almanac.Record) (string, error)
	Match(text string) bool
}

const contextKey = "context"

// SetContext attaches ctx to thread. Requests made by the module's functions
// are bound to it.
func SetContext(thread *starlark.Thread, ctx context.Context) {
	thread.SetLocal(contextKey, ctx)
}

func threadContext(thread *starlark.Thread) context.Context {
	if ctx, ok := thread.Local(contextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// Module returns a Starlark module that exposes a.
func Module(a Almanac) *starlarkstruct.Module {
	m := &module{a: a}
	return &starlarkstruct.Module{
		Name: "almanac",
		Members: starlark.StringDict{
			"get":    starlark.NewBuiltin("almanac.get", m.get),
			"format": starlark.NewBuiltin("almanac.format", m.format),
			"match":  starlark.NewBuiltin("almanac.match", m.match),
		},
	}
}

type module struct {
	a Almanac
}

func (m *module) get(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var year, month, day starlark.Value = starlark.None, starlark.None, starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "year?", &year, "month?", &month, "day?", &day); err != nil {
		return nil, err
	}

	var q almanac.Query
	for _, f := range []struct {
		name string
		val  starlark.Value
		dst  *string
	}{
		{"year", year, &q.Year},
		{"month", month, &q.Month},
		{"day", day, &q.Day},
	} {
		switch v := f.val.(type) {
		case starlark.NoneType:
		case starlark.String:
			*f.dst = string(v)
		case starlark.Int:
			*f.dst = v.String()
		default:
			return nil, fmt.Errorf("%s: %s must be a string or an int, got %s", b.Name(), f.name, f.val.Type())
		}
	}

	rec, err := m.a.Get(threadContext(thread), q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.Call(thread, starlarkjson.Module.Members["decode"], starlark.Tuple{starlark.String(raw)}, nil)
}

func (m *module) format(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var dict *starlark.Dict
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "record", &dict); err != nil {
		return nil, err
	}

	raw, err := starlark.Call(thread, starlarkjson.Module.Members["encode"], starlark.Tuple{dict}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode record to JSON: %v", b.Name(), err)
	}
	s, ok := raw.(starlark.String)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected return type of json.encode Starlark function", b.Name())
	}
	var rec almanac.Record
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	text, err := m.a.Format(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.String(text), nil
}

func (m *module) match(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}
	return starlark.Bool(m.a.Match(text)), nil
}
