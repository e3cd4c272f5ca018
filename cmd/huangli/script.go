// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"go.astrophena.name/huangli/internal/cli"
	"go.astrophena.name/huangli/internal/plugin"
	starlarkalmanac "go.astrophena.name/huangli/internal/starlark/lib/almanac"
)

var errNoHandler = errors.New("script doesn't define a handle function")

func runScript(ctx context.Context, env *cli.Env, p *plugin.Plugin, path, message string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	thread := &starlark.Thread{
		Name:  path,
		Print: func(_ *starlark.Thread, msg string) { env.Logf("%s", msg) },
	}
	starlarkalmanac.SetContext(thread, ctx)

	predeclared := starlark.StringDict{
		"almanac": starlarkalmanac.Module(p),
		"time":    starlarktime.Module,
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, src, predeclared)
	if err != nil {
		return scriptError(err)
	}

	handle, ok := globals["handle"].(starlark.Callable)
	if !ok {
		return fmt.Errorf("%s: %w", path, errNoHandler)
	}
	v, err := starlark.Call(thread, handle, starlark.Tuple{starlark.String(message)}, nil)
	if err != nil {
		return scriptError(err)
	}

	switch v := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.String:
		fmt.Fprintln(env.Stdout, string(v))
		return nil
	default:
		return fmt.Errorf("%s: handle returned %s, want string or None", path, v.Type())
	}
}

// backtraceError prints the Starlark backtrace and unwraps to the cause.
type backtraceError struct{ *starlark.EvalError }

func (e backtraceError) Error() string { return e.Backtrace() }

func scriptError(err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return backtraceError{evalErr}
	}
	return err
}
