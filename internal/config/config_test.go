// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.astrophena.name/huangli/internal/almanac"
	"go.astrophena.name/huangli/internal/testutil"
)

var testRecord = almanac.Record{
	"solar_calendar": "2024年05月01日",
	"lunar_calendar": "甲辰年 三月廿三",
	"week":           "星期三",
	"en_week":        "Wednesday",
	"year_of":        []any{"甲辰年", "戊辰月", "丁卯日"},
	"five_elements":  "炉中火",
	"conflict":       "冲鸡(辛酉)煞西",
	"should":         []any{"祭祀", "出行", "扫舍"},
	"avoid":          []any{"嫁娶", "安葬"},
	"lucky_god":      "天德 月德",
	"wealthy_god":    "正西",
	"happy_god":      "正南",
	"bless_god":      "东南",
	"evil":           "西",
	"fetal_god":      "仓库门外东北",
	"auspicious_day": "司命(黄道日)",
}

func TestDefault(t *testing.T) {
	t.Parallel()

	c := Default()
	testutil.AssertEqual(t, c.BaseURL, almanac.DefaultBaseURL)
	testutil.AssertEqual(t, c.DataPath, almanac.DefaultDataPath)
	testutil.AssertEqual(t, c.Timeout, 10*time.Second)
	testutil.AssertEqual(t, c.Keywords, []string{"黄历", "老黄历", "今日黄历"})
	testutil.AssertEqual(t, c.Layout.Separator, "、")
	testutil.AssertEqual(t, c.Messages.Help, "输入'黄历'可得获得黄历推送哦~🐾\n")
	if c.Messages.Failure == "" {
		t.Fatal("default failure message is empty")
	}
}

func TestDefaultLayout(t *testing.T) {
	t.Parallel()

	f, err := almanac.NewFormatter(Default().Layout)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Format(testRecord)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"公历：2024年05月01日",
		"农历：甲辰年 三月廿三",
		"星期：星期三 (Wednesday)",
		"甲辰年 戊辰月 丁卯日",
		"五行：炉中火",
		"冲煞：冲鸡(辛酉)煞西",
		"宜：祭祀、出行、扫舍",
		"忌：嫁娶、安葬",
		"吉神宜趋：天德 月德",
		"财神方位：正西",
		"喜神方位：正南",
		"福神方位：东南",
		"煞位：西",
		"胎神：仓库门外东北",
		"吉日：司命(黄道日)",
	}, "\n")
	testutil.AssertEqual(t, got, want)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join("testdata", "en.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, c.Keywords, []string{"almanac", "old almanac", "today's almanac"})
	testutil.AssertEqual(t, c.Messages.Failure, "Could not fetch the almanac, try again later.")
	// Not overridden.
	testutil.AssertEqual(t, c.BaseURL, almanac.DefaultBaseURL)
	testutil.AssertEqual(t, c.Timeout, 10*time.Second)

	f, err := almanac.NewFormatter(c.Layout)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Format(testRecord)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, "Solar: 2024年05月01日\nLunar: 甲辰年 三月廿三\nDo: 祭祀, 出行, 扫舍\nAvoid: 嫁娶, 安葬")
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, c, Default())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	testutil.AssertErrorIs(t, err, os.ErrNotExist)
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in      string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		"empty": {
			in: "",
			check: func(t *testing.T, c *Config) {
				testutil.AssertEqual(t, c, Default())
			},
		},
		"comments only": {
			in: "# nothing here\n",
			check: func(t *testing.T, c *Config) {
				testutil.AssertEqual(t, c, Default())
			},
		},
		"timeout": {
			in: "api:\n  timeout: 3s\n",
			check: func(t *testing.T, c *Config) {
				testutil.AssertEqual(t, c.Timeout, 3*time.Second)
				testutil.AssertEqual(t, c.BaseURL, almanac.DefaultBaseURL)
			},
		},
		"separator only": {
			in: "layout:\n  separator: \" / \"\n",
			check: func(t *testing.T, c *Config) {
				testutil.AssertEqual(t, c.Layout.Separator, " / ")
				testutil.AssertEqual(t, len(c.Layout.Lines), 15)
			},
		},
		"empty keywords dropped": {
			in: "keywords: [\"\", 黄历]\n",
			check: func(t *testing.T, c *Config) {
				testutil.AssertEqual(t, c.Keywords, []string{"黄历"})
			},
		},
		"unknown key":         {in: "api:\n  token: x\n", wantErr: true},
		"bad timeout":         {in: "api:\n  timeout: soon\n", wantErr: true},
		"negative timeout":    {in: "api:\n  timeout: -1s\n", wantErr: true},
		"bad base url":        {in: "api:\n  base_url: ftp://example.com\n", wantErr: true},
		"no keywords":         {in: "keywords: []\n", wantErr: true},
		"only empty keywords": {in: "keywords: [\"\"]\n", wantErr: true},
		"no layout lines":     {in: "layout:\n  lines: []\n", wantErr: true},
		"not YAML":            {in: "keywords: [\n", wantErr: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := Parse([]byte(tc.in))
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tc.check(t, c)
		})
	}
}
