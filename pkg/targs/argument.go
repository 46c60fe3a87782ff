// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package targs

import (
	"fmt"
	"strings"
)

// TypeFunc coerces a raw command-line token into a typed value.
// Coercions may perform caller-owned side effects (opening a file, say);
// the engine only calls them while parsing.
type TypeFunc func(string) (any, error)

// ActionFunc is the callback of a terminal action argument. It receives
// the namespace assembled so far (defaults filled in) and returns the
// process exit code that ParseArgs will use.
type ActionFunc func(ns *Namespace) int

// NArgs describes how many value tokens an argument consumes.
// The zero value means exactly one. Positive values mean exactly N.
type NArgs int

const (
	// NArgsOne consumes exactly one value token.
	NArgsOne NArgs = 0
	// NArgsZeroOrMore consumes any number of value tokens, possibly none.
	NArgsZeroOrMore NArgs = -1
	// NArgsOneOrMore consumes one or more value tokens.
	NArgsOneOrMore NArgs = -2
)

// NArgsExactly returns the arity marker for exactly n values.
func NArgsExactly(n int) NArgs { return NArgs(n) }

// Argument declares one expected command-line value.
//
// By default an Argument is an option (--name). Set Positional to expect a
// bare token instead; a positional without a default is required. Toggle
// declares a boolean flag that is true when present. Action declares a
// terminal action flag whose callback short-circuits parsing.
type Argument struct {
	// Name is the argument name, unique within its owning group. It is
	// both the option spelling (--name) and the namespace attribute.
	Name string

	// Short is a single-letter alias usable as -x. Options only.
	Short string

	// Positional expects the value as a bare token instead of --name.
	Positional bool

	// Optional marks a positional that may be absent even without a
	// default. Ignored for options, which are always optional.
	Optional bool

	// Type coerces each raw token. Nil captures the token as a string.
	Type TypeFunc

	// Default is the value assigned when the argument is absent. A
	// positional with a default is not required.
	Default any

	// Choices restricts the accepted raw tokens.
	Choices []string

	// NArgs is the arity. Arguments with a non-single arity collect
	// their values into a []any.
	NArgs NArgs

	// AsManyAs names a sibling argument whose parsed cardinality this
	// argument must match. Checked after parsing; a mismatched count is
	// a usage error. Implies greedy multi-value collection.
	AsManyAs string

	// Help is shown on the help screen.
	Help string

	// Toggle declares a boolean flag (true when present, no value token).
	Toggle bool

	// Action declares a terminal action. When the flag is seen, the
	// callback runs with the namespace assembled so far and parsing
	// stops with an *ActionTaken outcome.
	Action ActionFunc
}

// ActionArg wraps a callback as a terminal action argument, the analog of
// version/help flags that print something and exit.
func ActionArg(name string, fn ActionFunc) *Argument {
	return &Argument{Name: name, Action: fn}
}

// Flag returns a boolean toggle argument.
func Flag(name, help string) *Argument {
	return &Argument{Name: name, Toggle: true, Help: help}
}

// required reports whether absence of the argument is a usage error.
func (a *Argument) required() bool {
	return a.Positional && a.Default == nil && !a.Optional
}

// multi reports whether the argument collects a sequence of values.
func (a *Argument) multi() bool {
	return a.NArgs != NArgsOne || a.AsManyAs != ""
}

// coerce applies the choices restriction and the type rule to one token.
func (a *Argument) coerce(token string) (any, error) {
	if len(a.Choices) > 0 {
		ok := false
		for _, c := range a.Choices {
			if c == token {
				ok = true
				break
			}
		}
		if !ok {
			quoted := make([]string, len(a.Choices))
			for i, c := range a.Choices {
				quoted[i] = fmt.Sprintf("%q", c)
			}
			return nil, fmt.Errorf("invalid choice: %q (choose from %s)",
				token, strings.Join(quoted, ", "))
		}
	}
	if a.Type == nil {
		return token, nil
	}
	v, err := a.Type(token)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", token, err)
	}
	return v, nil
}

// display is the user-facing spelling used in error messages.
func (a *Argument) display() string {
	if a.Positional {
		return a.Name
	}
	return "--" + a.Name
}
