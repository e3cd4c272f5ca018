// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package request_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"go.astrophena.name/huangli/internal/request"
	"go.astrophena.name/huangli/internal/testutil"
)

func TestMake(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "missing content type", http.StatusBadRequest)
			return
		}
		if r.Header.Get("X-Test") == "fail" {
			http.Error(w, "token hello rejected", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("broken") != "" {
			w.Write([]byte(`<html>`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"query": r.URL.RawQuery})
	})
	httpc := testutil.MockHTTPClient(mux)

	cases := map[string]struct {
		params        request.Params
		want          string
		wantErrIs     error
		wantStatus    int
		wantNotInErr  string
		wantErrString bool
	}{
		"GET with query": {
			params: request.Params{
				Method: http.MethodGet,
				URL:    "https://example.com/test?a=1",
				Query:  url.Values{"month": {"05"}},
			},
			want: "a=1&month=05",
		},
		"POST with body": {
			params: request.Params{
				Method: http.MethodPost,
				URL:    "https://example.com/test",
				Body:   map[string]string{"key": "value"},
			},
			want: "",
		},
		"not found": {
			params: request.Params{
				Method: http.MethodGet,
				URL:    "https://example.com/invalid",
			},
			wantStatus: http.StatusNotFound,
		},
		"not JSON": {
			params: request.Params{
				Method: http.MethodGet,
				URL:    "https://example.com/test",
				Query:  url.Values{"broken": {"1"}},
			},
			wantErrIs: request.ErrNotJSON,
		},
		"invalid value for JSON": {
			params: request.Params{
				Method: http.MethodPost,
				URL:    "https://example.com/test",
				Body:   make(chan int),
			},
			wantErrString: true,
		},
		"scrubbed token": {
			params: request.Params{
				Method:   http.MethodGet,
				URL:      "https://example.com/test",
				Query:    url.Values{"key": {"hello"}},
				Headers:  map[string]string{"X-Test": "fail"},
				Scrubber: strings.NewReplacer("hello", "[EXPUNGED]"),
			},
			wantStatus:   http.StatusForbidden,
			wantNotInErr: "hello",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tc.params.HTTPClient = httpc
			resp, err := request.Make[map[string]string](context.Background(), tc.params)

			wantErr := tc.wantErrIs != nil || tc.wantStatus != 0 || tc.wantErrString
			if !wantErr {
				if err != nil {
					t.Fatalf("Make() error = %v", err)
				}
				testutil.AssertEqual(t, resp["query"], tc.want)
				return
			}

			if err == nil {
				t.Fatal("Make() expected error, got none")
			}
			if tc.wantErrIs != nil {
				testutil.AssertErrorIs(t, err, tc.wantErrIs)
			}
			if tc.wantStatus != 0 {
				var se *request.StatusError
				if !errors.As(err, &se) {
					t.Fatalf("want *request.StatusError, got %T", err)
				}
				testutil.AssertEqual(t, se.StatusCode, tc.wantStatus)
			}
			if tc.wantNotInErr != "" && strings.Contains(err.Error(), tc.wantNotInErr) {
				t.Fatalf("error %q must not contain %q", err, tc.wantNotInErr)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	var got string
	httpc := testutil.MockHTTPClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	if _, err := request.Make[map[string]any](context.Background(), request.Params{
		Method:     http.MethodGet,
		URL:        "https://example.com",
		HTTPClient: httpc,
	}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "huangli/") {
		t.Fatalf("unexpected User-Agent: %q", got)
	}
}
