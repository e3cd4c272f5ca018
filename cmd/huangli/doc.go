// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Huangli answers chat messages that ask for the Chinese almanac (黄历).

When the message contains one of the configured keywords (黄历, 老黄历 or
今日黄历 by default), it fetches today's almanac from the Tanshu API and prints
the formatted reply. Messages without a keyword print nothing.

# Usage

	$ huangli [flags...] <message>

The message is read from standard input when no arguments are given.

The API key is taken from the -key flag or the TAN_SHU_API_KEY environment
variable. Replies are formatted according to the configuration file passed
with -config (or HUANGLI_CONFIG), which can override keywords, layout lines
and messages of the built-in configuration.

# Scripting

With -script, the message is passed to the handle function of a Starlark
script instead:

	def handle(message):
	    if not almanac.match(message):
	        return None
	    record = almanac.get()
	    return "宜：" + "、".join(record["should"])

A string result is printed as the reply, None means no reply. Scripts have the
almanac and time modules predeclared.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/huangli/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
