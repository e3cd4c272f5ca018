// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package config loads the plugin configuration: API endpoint, trigger
// keywords, reply layout and user-facing messages.
//
// Defaults are embedded in the binary. A YAML file passed to [Load] only
// needs to contain the keys it overrides.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"go.astrophena.name/huangli/internal/almanac"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the plugin configuration.
type Config struct {
	BaseURL  string
	DataPath string
	Timeout  time.Duration
	Keywords []string
	Layout   almanac.Layout
	Messages Messages
}

// Messages are the strings shown to users, apart from the almanac itself.
type Messages struct {
	// Help describes how to trigger the plugin.
	Help string `yaml:"help"`
	// Failure is sent instead of the almanac when it can't be produced.
	Failure string `yaml:"failure"`
}

type file struct {
	API struct {
		BaseURL  string `yaml:"base_url"`
		DataPath string `yaml:"data_path"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"api"`
	Keywords []string       `yaml:"keywords"`
	Layout   almanac.Layout `yaml:"layout"`
	Messages Messages       `yaml:"messages"`
}

// Default returns the embedded configuration.
func Default() *Config {
	c, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return c
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML overrides in b on top of the defaults. Unknown keys are
// an error.
func Parse(b []byte) (*Config, error) {
	var f file
	if err := decode(defaultYAML, &f); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) > 0 {
		if err := decode(b, &f); err != nil {
			return nil, err
		}
	}
	return f.config()
}

func decode(b []byte, f *file) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (f *file) config() (*Config, error) {
	timeout, err := time.ParseDuration(f.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("config: api.timeout: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("config: api.timeout must be positive, got %v", timeout)
	}
	u, err := url.Parse(f.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("config: api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("config: api.base_url %q must be an http(s) URL", f.API.BaseURL)
	}

	var keywords []string
	for _, kw := range f.Keywords {
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return nil, errors.New("config: keywords must not be empty")
	}
	if len(f.Layout.Lines) == 0 {
		return nil, errors.New("config: layout.lines must not be empty")
	}

	return &Config{
		BaseURL:  f.API.BaseURL,
		DataPath: f.API.DataPath,
		Timeout:  timeout,
		Keywords: keywords,
		Layout:   f.Layout,
		Messages: f.Messages,
	}, nil
}
