// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argtypes provides ready-made coercion functions for command
// line values: primitives, durations, URLs, UUIDs, semantic versions,
// delimiter-separated lists, and sequence subsets (slices, ranges,
// index sets).
package argtypes

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/targslib/targs/pkg/targs"
)

// String captures the token unchanged.
func String(s string) (any, error) { return s, nil }

// Bool accepts the strconv boolean spellings.
func Bool(s string) (any, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("not a boolean: %q", s)
	}
	return b, nil
}

// Int parses a base-10 integer.
func Int(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

// Uint parses a non-negative base-10 integer as a uint64.
func Uint(s string) (any, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not an unsigned integer: %q", s)
	}
	return n, nil
}

// Float parses a decimal number.
func Float(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

// PositiveInt parses an integer and rejects negative values.
func PositiveInt(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	if n < 0 {
		return nil, fmt.Errorf("indices need to be positive integers")
	}
	return n, nil
}

// Duration parses a Go duration string ("300ms", "2h45m").
func Duration(s string) (any, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("not a duration: %q", s)
	}
	return d, nil
}

// URL parses an absolute URL.
func URL(s string) (any, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("not a URL: %q", s)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("URL %q has no scheme", s)
	}
	return u, nil
}

// UUID parses an RFC 4122 UUID.
func UUID(s string) (any, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("not a UUID: %q", s)
	}
	return id, nil
}

// SemVer parses a semantic version, with or without a leading v.
func SemVer(s string) (any, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("not a semantic version: %q", s)
	}
	return v, nil
}

// File opens the named file for reading. The handle is owned by the
// caller; a parse that opens files hands every one of them over in the
// namespace.
func File(s string) (any, error) {
	f, err := os.Open(s)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", s, err)
	}
	return f, nil
}

// ExistingFile accepts a path only when it names an existing regular
// file and returns the path.
func ExistingFile(s string) (any, error) {
	info, err := os.Stat(s)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", s, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", s)
	}
	return s, nil
}

// DSV coerces a delimiter-separated token into a list, applying item to
// every piece.
func DSV(item targs.TypeFunc, delimiter string) targs.TypeFunc {
	return func(s string) (any, error) {
		pieces := strings.Split(s, delimiter)
		out := make([]any, 0, len(pieces))
		for _, p := range pieces {
			v, err := item(p)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Alternative names one candidate coercion for OneOf.
type Alternative struct {
	Name string
	Type targs.TypeFunc
}

// OneOf tries each alternative in order and returns the first value that
// coerces. Order is meaningful: when two alternatives accept a token,
// the first one wins.
func OneOf(alts ...Alternative) targs.TypeFunc {
	return func(s string) (any, error) {
		var failures []string
		for _, alt := range alts {
			v, err := alt.Type(s)
			if err == nil {
				return v, nil
			}
			failures = append(failures, fmt.Sprintf("%s: %v", alt.Name, err))
		}
		names := make([]string, len(alts))
		for i, alt := range alts {
			names[i] = alt.Name
		}
		return nil, fmt.Errorf("%q does not match any of the allowed types: %s\n\t%s",
			s, strings.Join(names, ", "), strings.Join(failures, "\n\t"))
	}
}
