// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package almanac provides a client for the Tanshu almanac (老黄历) API and
// formats its records as plain text.
//
// To use this package, create a [Client] with your API key and call
// [Client.Get]. Then render the returned [Record] with a [Formatter].
package almanac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"go.astrophena.name/huangli/internal/logger"
	"go.astrophena.name/huangli/internal/request"
)

const (
	// DefaultBaseURL is the Tanshu almanac API endpoint.
	DefaultBaseURL = "https://api.tanshuapi.com/api/almanac/v1/index"
	// DefaultDataPath is the JSONPath of the record in the API response.
	DefaultDataPath = "$.data"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrTimeout is returned when the API doesn't respond in time.
	ErrTimeout = errors.New("almanac request timed out")
	// ErrBadResponse is returned when the response has an unexpected shape.
	ErrBadResponse = errors.New("unexpected almanac response")
	// ErrNoData is returned when the response carries no record.
	ErrNoData = errors.New("almanac response has no data")
)

// Record is a single almanac entry as returned by the API.
type Record map[string]any

// Client represents a Tanshu almanac API client.
type Client struct {
	// Key is the Tanshu API key.
	Key string
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// DataPath overrides DefaultDataPath.
	DataPath string
	// HTTPClient is an optional custom HTTP client object to use for requests.
	// If not provided, a client with DefaultTimeout will be used.
	HTTPClient *http.Client
	// Logger receives request details at debug level. Optional.
	Logger *slog.Logger
}

var defaultHTTPClient = &http.Client{Timeout: DefaultTimeout}

// Get validates q and fetches the matching record. It makes no request when
// q is invalid.
func (c *Client) Get(ctx context.Context, q Query) (Record, error) {
	params, err := q.Values()
	if err != nil {
		return nil, err
	}
	params.Set("key", c.Key)

	log := c.logger()
	log.Debug("requesting almanac",
		"url", c.baseURL(),
		"key", logger.Secret(c.Key),
		"year", params.Get("year"),
		"month", params.Get("month"),
		"day", params.Get("day"),
	)

	doc, err := request.Make[any](ctx, request.Params{
		Method:     http.MethodGet,
		URL:        c.baseURL(),
		Query:      params,
		HTTPClient: c.httpClient(),
		Scrubber:   c.scrubber(),
	})
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, err
	}

	rec, err := c.extract(doc)
	if err != nil {
		return nil, err
	}
	log.Debug("received almanac", "fields", len(rec))
	return rec, nil
}

func (c *Client) extract(doc any) (Record, error) {
	switch v := doc.(type) {
	case map[string]any:
		if len(v) == 0 {
			return nil, ErrNoData
		}
	case []any:
		if len(v) == 0 {
			return nil, ErrNoData
		}
	default:
		return nil, fmt.Errorf("%w: top-level value is %s, want object or array", ErrBadResponse, jsonType(doc))
	}

	val, err := jsonpath.Get(c.dataPath(), doc)
	if err != nil {
		if msg, ok := apiMessage(doc); ok {
			return nil, fmt.Errorf("%w: %s", ErrNoData, msg)
		}
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	switch v := val.(type) {
	case nil:
		return nil, ErrNoData
	case map[string]any:
		return Record(v), nil
	default:
		return nil, fmt.Errorf("%w: data is %s, want object", ErrBadResponse, jsonType(val))
	}
}

// apiMessage returns the "msg" field the API sets next to its status code.
func apiMessage(doc any) (string, bool) {
	m, ok := doc.(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := m["msg"].(string)
	return msg, ok && msg != ""
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (c *Client) scrubber() *strings.Replacer {
	if c.Key == "" {
		return nil
	}
	pairs := []string{c.Key, "[EXPUNGED]"}
	if esc := url.QueryEscape(c.Key); esc != c.Key {
		pairs = append(pairs, esc, "[EXPUNGED]")
	}
	return strings.NewReplacer(pairs...)
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) dataPath() string {
	if c.DataPath != "" {
		return c.DataPath
	}
	return DefaultDataPath
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return defaultHTTPClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Discard()
}
