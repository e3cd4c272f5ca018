// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.astrophena.name/huangli/internal/cli"
	"go.astrophena.name/huangli/internal/config"
	"go.astrophena.name/huangli/internal/logger"
	"go.astrophena.name/huangli/internal/plugin"
)

func main() { cli.Main(new(app)) }

type app struct {
	// configuration
	key        string
	configPath string
	date       string
	script     string
	info       bool
	verbose    bool

	// for tests
	httpc *http.Client
	now   func() time.Time
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.key, "key", "", "Tanshu API `key`. Defaults to TAN_SHU_API_KEY.")
	fs.StringVar(&a.configPath, "config", "", "Configuration `file`. Defaults to HUANGLI_CONFIG or the built-in configuration.")
	fs.StringVar(&a.date, "date", "", "Look up the almanac for this `date` (YYYY-MM-DD) instead of today.")
	fs.StringVar(&a.script, "script", "", "Starlark `file` whose handle function answers the message.")
	fs.BoolVar(&a.info, "info", false, "Print plugin information and exit.")
	fs.BoolVar(&a.verbose, "v", false, "Enable verbose logging.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	a.key = cmp.Or(a.key, env.Getenv("TAN_SHU_API_KEY"))
	a.configPath = cmp.Or(a.configPath, env.Getenv("HUANGLI_CONFIG"))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.info {
		info := plugin.Metadata
		fmt.Fprintf(env.Stdout, "%s %s by %s: %s (priority %d)\n", info.Name, info.Version, info.Author, info.Desc, info.Priority)
		fmt.Fprint(env.Stdout, cfg.Messages.Help)
		return nil
	}

	now := a.now
	if a.date != "" {
		d, err := time.ParseInLocation(time.DateOnly, a.date, time.Local)
		if err != nil {
			return fmt.Errorf("%w: -date: %v", cli.ErrInvalidArgs, err)
		}
		now = func() time.Time { return d }
	}

	message, err := readMessage(env)
	if err != nil {
		return err
	}

	p, err := plugin.New(plugin.Opts{
		Config:     cfg,
		Key:        a.key,
		HTTPClient: a.httpc,
		Logger:     logger.New(env.Stderr, a.verbose),
		Now:        now,
	})
	if errors.Is(err, plugin.ErrNoKey) {
		return fmt.Errorf("%w: pass -key or set TAN_SHU_API_KEY", err)
	}
	if err != nil {
		return err
	}

	if a.script != "" {
		return runScript(ctx, env, p, a.script, message)
	}

	ec := &plugin.EventContext{
		Context: plugin.Context{Type: plugin.Text, Content: message},
	}
	p.HandleContext(ctx, ec)
	if ec.Reply == nil {
		return nil
	}
	fmt.Fprintln(env.Stdout, ec.Reply.Content)
	if ec.Err != nil {
		// Already logged by the plugin.
		return cli.Silent(ec.Err)
	}
	return nil
}

func readMessage(env *cli.Env) (string, error) {
	if len(env.Args) > 0 {
		return strings.Join(env.Args, " "), nil
	}
	b, err := io.ReadAll(env.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading message: %w", err)
	}
	message := strings.TrimSpace(string(b))
	if message == "" {
		return "", fmt.Errorf("%w: no message given", cli.ErrInvalidArgs)
	}
	return message, nil
}
