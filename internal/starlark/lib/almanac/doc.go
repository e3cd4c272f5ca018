// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package almanac contains a Starlark module that exposes the almanac (黄历)
plugin to bot scripts.

This module provides three functions: get, format and match.

# get

The get function fetches an almanac record. It accepts three optional
arguments, each a string or an int:

  - year: 1900 to 2100.
  - month: 1 to 12.
  - day: 1 to 31.

Omitted arguments are left to the API defaults. It returns the record as a
dict. For example:

	record = almanac.get(year=2024, month=5, day=1)
	print(record["lunar_calendar"])

# format

The format function renders a record with the configured layout and returns
a string:

	text = almanac.format(record)

# match

The match function reports whether a message contains one of the configured
keywords:

	if almanac.match(message):
	    ...
*/
package almanac
