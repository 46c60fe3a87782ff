// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package docfmt extracts per-parameter help strings from documentation
// comments written in the google, numpy, or rst convention. The deduction
// layer uses it to fill argument help texts that were not set explicitly.
package docfmt

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect names a documentation convention.
type Dialect string

const (
	DialectGoogle Dialect = "google"
	DialectNumPy  Dialect = "numpy"
	DialectRST    Dialect = "rst"
)

// Analyzer scans documentation text line by line and collects parameter
// descriptions. Parameter lines are recognized inside argument sections
// only; a blank line ends the current section.
type Analyzer struct {
	// pattern matches a parameter line, anchored at the start. It must
	// define a "name" group; with Inline set it must define "value" too.
	pattern *regexp.Regexp
	// sections are the line prefixes that open an argument section.
	sections []string
	// inline means the pattern captures the first description fragment
	// on the parameter line itself.
	inline bool
	// indentSensitive restricts parameter lines to the section's own
	// indent; deeper lines are description continuations.
	indentSensitive bool
	// skip drops lines that would otherwise count as continuations,
	// anchored at the start.
	skip *regexp.Regexp

	nameIdx  int
	valueIdx int
}

// New builds an analyzer for a custom convention. The pattern must define
// a named group "name", and "value" when inline is set.
func New(pattern string, sections []string, inline, indentSensitive bool, skip string) (*Analyzer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("docfmt: parameter pattern: %w", err)
	}
	a := &Analyzer{
		pattern:         re,
		sections:        sections,
		inline:          inline,
		indentSensitive: indentSensitive,
		nameIdx:         re.SubexpIndex("name"),
		valueIdx:        re.SubexpIndex("value"),
	}
	if a.nameIdx < 0 {
		return nil, fmt.Errorf("docfmt: parameter pattern lacks a name group")
	}
	if inline && a.valueIdx < 0 {
		return nil, fmt.Errorf("docfmt: inline pattern lacks a value group")
	}
	if skip != "" {
		a.skip, err = regexp.Compile(skip)
		if err != nil {
			return nil, fmt.Errorf("docfmt: skip pattern: %w", err)
		}
	}
	return a, nil
}

func mustNew(pattern string, sections []string, inline, indentSensitive bool, skip string) *Analyzer {
	a, err := New(pattern, sections, inline, indentSensitive, skip)
	if err != nil {
		panic(err)
	}
	return a
}

var (
	// Google recognizes "Args:"/"Arguments:" sections with inline
	// "name: description" parameter lines.
	Google = mustNew(`^(?P<name>.+?):(?P<value>.*)`, []string{"Arguments:", "Args:"}, true, false, "")

	// NumPy recognizes a "Parameters" section whose parameter names sit
	// on their own lines at the section indent, descriptions indented
	// below, with the underline of dashes skipped.
	NumPy = mustNew(`^(?P<name>[^-]+)`, []string{"Parameters"}, false, true, `^-+`)

	// RST recognizes ":param name: description" field lines; other
	// field lines (":returns:" and friends) are skipped.
	RST = mustNew(`^:param (?P<name>.+?):(?P<value>.*)`, []string{":param "}, true, false, `^:`)
)

var byDialect = map[Dialect]*Analyzer{
	DialectGoogle: Google,
	DialectNumPy:  NumPy,
	DialectRST:    RST,
}

// ByDialect returns the built-in analyzer for a convention name.
func ByDialect(d Dialect) (*Analyzer, bool) {
	a, ok := byDialect[d]
	return a, ok
}

// Extract runs the named convention's analyzer over text.
func Extract(text string, d Dialect) (map[string]string, error) {
	a, ok := ByDialect(d)
	if !ok {
		return nil, fmt.Errorf("docfmt: unknown dialect %q", d)
	}
	return a.Analyze(text), nil
}

// Analyze collects parameter descriptions from text. Description lines
// belonging to one parameter are joined with single spaces.
func (a *Analyzer) Analyze(text string) map[string]string {
	parts := make(map[string][]string)
	collect := false
	baseIndent := 0
	current := ""

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			collect = false
		}
		for _, s := range a.sections {
			if strings.HasPrefix(line, s) {
				collect = true
				baseIndent = measureIndent(raw)
				break
			}
		}
		if !collect {
			continue
		}

		m := a.pattern.FindStringSubmatch(line)
		if a.indentSensitive && measureIndent(raw) != baseIndent {
			m = nil
		}
		if m != nil {
			current = m[a.nameIdx]
			if a.inline {
				value := strings.TrimLeft(m[a.valueIdx], " \t")
				if value != "" {
					parts[current] = append(parts[current], value)
				}
			}
			continue
		}
		if current != "" && (a.skip == nil || !a.skip.MatchString(line)) {
			parts[current] = append(parts[current], line)
		}
	}

	out := make(map[string]string, len(parts))
	for name, fragments := range parts {
		out[name] = strings.Join(fragments, " ")
	}
	return out
}

// measureIndent counts the leading whitespace characters of a raw line.
func measureIndent(line string) int {
	for i, c := range line {
		if c != ' ' && c != '\t' {
			return i
		}
	}
	return len(line)
}
