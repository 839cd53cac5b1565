// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds the public URL identifiers used for portfolios.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// fallback is used when a name reduces to nothing after cleaning.
const fallback = "portfolio"

var (
	// disallowed matches anything outside lowercase letters, digits, whitespace and hyphens.
	// RE2's \s is ASCII only, so vertical tabs, Unicode spaces, line and
	// paragraph separators and the BOM are listed explicitly.
	disallowed = regexp.MustCompile(`[^a-z0-9\s\v\p{Zs}\x{2028}\x{2029}\x{feff}-]`)
	// whitespace runs become a single hyphen.
	whitespace = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{feff}]+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate reduces a display name to its slug base.
// Example: "Mario's Portfolio 2026" → "marios-portfolio-2026"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = disallowed.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// WithTimestamp appends the creation time in unix milliseconds to the slug
// base, so two portfolios with the same name created at different moments
// never collide. The result is deterministic for a given (name, t).
func WithTimestamp(name string, t time.Time) string {
	base := Generate(name)
	if base == "" {
		base = fallback
	}
	return base + "-" + strconv.FormatInt(t.UnixMilli(), 10)
}

// New is WithTimestamp at the current time.
func New(name string) string {
	return WithTimestamp(name, time.Now())
}
