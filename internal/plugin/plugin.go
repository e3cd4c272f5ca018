// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package plugin implements the almanac (黄历) chat plugin.
//
// The host calls [Plugin.HandleContext] for every inbound message. When a
// text message contains one of the configured keywords, the plugin fetches
// today's almanac, formats it and takes over the event with the reply.
package plugin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go.astrophena.name/huangli/internal/almanac"
	"go.astrophena.name/huangli/internal/config"
	"go.astrophena.name/huangli/internal/keyword"
	"go.astrophena.name/huangli/internal/logger"
)

// ErrNoKey is returned by New when no API key is configured.
var ErrNoKey = errors.New("missing Tanshu API key")

// Fetcher looks up almanac records. [*almanac.Client] implements it.
type Fetcher interface {
	Get(ctx context.Context, q almanac.Query) (almanac.Record, error)
}

// Info is the registration metadata the host shows in its plugin list.
type Info struct {
	Name     string
	Desc     string
	Version  string
	Author   string
	Priority int
	Hidden   bool
}

// Metadata describes this plugin to the host.
var Metadata = Info{
	Name:     "HuangLi",
	Desc:     "黄历",
	Version:  "1.0",
	Author:   "sakura7301",
	Priority: 99,
}

// Plugin is the almanac plugin. It's safe for concurrent use.
type Plugin struct {
	cfg       *config.Config
	fetcher   Fetcher
	formatter *almanac.Formatter
	matcher   *keyword.Matcher
	logger    *slog.Logger
	now       func() time.Time
}

// Opts is the options for creating a new Plugin.
type Opts struct {
	// Config is the plugin configuration. If nil, config.Default is used.
	Config *config.Config
	// Key is the Tanshu API key. Required unless Fetcher is set.
	Key string
	// HTTPClient is used for API requests. If nil, a client with the
	// configured timeout is created.
	HTTPClient *http.Client
	// Fetcher replaces the Tanshu API client. Used in tests and by hosts
	// that bring their own almanac source.
	Fetcher Fetcher
	// Logger is where handled events and failures are logged. Optional.
	Logger *slog.Logger
	// Now returns the current time; the almanac is looked up for its date.
	// Defaults to time.Now.
	Now func() time.Time
}

// New creates a new Plugin.
func New(opts Opts) (*Plugin, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("plugin", Metadata.Name)

	formatter, err := almanac.NewFormatter(cfg.Layout)
	if err != nil {
		return nil, err
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		if opts.Key == "" {
			return nil, ErrNoKey
		}
		httpc := opts.HTTPClient
		if httpc == nil {
			httpc = &http.Client{Timeout: cfg.Timeout}
		}
		fetcher = &almanac.Client{
			Key:        opts.Key,
			BaseURL:    cfg.BaseURL,
			DataPath:   cfg.DataPath,
			HTTPClient: httpc,
			Logger:     log,
		}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	p := &Plugin{
		cfg:       cfg,
		fetcher:   fetcher,
		formatter: formatter,
		matcher:   keyword.New(cfg.Keywords...),
		logger:    log,
		now:       now,
	}
	log.Debug("plugin initialized", "keywords", cfg.Keywords)
	return p, nil
}

// Info returns the plugin registration metadata.
func (p *Plugin) Info() Info { return Metadata }

// HelpText returns the configured usage hint.
func (p *Plugin) HelpText() string { return p.cfg.Messages.Help }

// Match reports whether the message should trigger the plugin.
func (p *Plugin) Match(content string) bool {
	return p.matcher.Match(strings.TrimSpace(content))
}

// Get fetches the almanac record selected by q.
func (p *Plugin) Get(ctx context.Context, q almanac.Query) (almanac.Record, error) {
	return p.fetcher.Get(ctx, q)
}

// Format renders rec with the configured layout.
func (p *Plugin) Format(rec almanac.Record) (string, error) {
	return p.formatter.Format(rec)
}

// Almanac fetches and formats the almanac for the current date.
func (p *Plugin) Almanac(ctx context.Context) (string, error) {
	rec, err := p.Get(ctx, almanac.QueryFor(p.now()))
	if err != nil {
		return "", err
	}
	return p.Format(rec)
}

// HandleContext handles one inbound message. Non-text messages and messages
// without a keyword are left untouched. Otherwise the event gets a reply and
// its action is set to BreakPass.
func (p *Plugin) HandleContext(ctx context.Context, ec *EventContext) {
	log := p.logger.With("event_id", uuid.NewString())

	if ec.Context.Type != Text {
		log.Debug("context is not text, skipping", "type", ec.Context.Type)
		return
	}

	content := strings.TrimSpace(ec.Context.Content)
	log.Debug("handling context", "content", content)
	if !p.matcher.Match(content) {
		return
	}

	log.Info("almanac requested")
	text, err := p.Almanac(ctx)
	if err != nil {
		log.Error("almanac failed", "err", err)
		ec.Reply = &Reply{Type: ReplyError, Content: p.cfg.Messages.Failure}
		ec.Err = err
	} else {
		ec.Reply = &Reply{Type: ReplyText, Content: text}
	}
	ec.Action = BreakPass
}
