// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package targs

import (
	"errors"
	"fmt"
	"os"
)

// ErrHelp matches the *HelpRequested outcome via errors.Is.
var ErrHelp = errors.New("help requested")

// BuildError reports an ill-formed declarative tree: duplicate names,
// dangling or cyclic AsManyAs links, an invalid arity. These are
// implementer mistakes and are never recovered from.
type BuildError struct {
	// Path is the dotted tree path of the offending group, empty at the
	// root.
	Path string
	Msg  string
}

func (e *BuildError) Error() string {
	if e.Path == "" {
		return "targs: " + e.Msg
	}
	return fmt.Sprintf("targs: %s: %s", e.Path, e.Msg)
}

// UsageError reports malformed user input: a failed coercion, a missing
// required argument, an out-of-choice value, unrecognized tokens.
type UsageError struct {
	// Group is the dotted path of the level that rejected the input.
	Group string
	Msg   string
}

func (e *UsageError) Error() string { return e.Msg }

// ActionTaken reports that a terminal action argument fired. It is not a
// failure: the callback already ran, and Code carries the exit status it
// chose.
type ActionTaken struct {
	Name string
	Code int
}

func (e *ActionTaken) Error() string {
	return fmt.Sprintf("action %q taken (exit %d)", e.Name, e.Code)
}

// HelpRequested reports that a help flag was seen. Text holds the
// rendered help screen. errors.Is(err, ErrHelp) matches it.
type HelpRequested struct {
	Text string
}

func (e *HelpRequested) Error() string { return "help requested" }

// Is makes HelpRequested match the ErrHelp sentinel.
func (e *HelpRequested) Is(target error) bool { return target == ErrHelp }

// exitForOutcome implements the process conventions of ParseArgs.
func exitForOutcome(g *Group, err error) {
	var help *HelpRequested
	if errors.As(err, &help) {
		fmt.Fprint(os.Stdout, help.Text)
		os.Exit(0)
	}
	var action *ActionTaken
	if errors.As(err, &action) {
		os.Exit(action.Code)
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintf(os.Stderr, "usage: %s\n%s: error: %s\n", usageLine(g), g.Name, usage.Msg)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", g.Name, err)
	os.Exit(2)
}
