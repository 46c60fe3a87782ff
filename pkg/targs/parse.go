// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package targs

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Leftover carries the tokens that no argument, group, or branch at a
// level recognized. Produce hooks may Take the ones they understand;
// whatever remains after the root level is an unrecognized-arguments
// usage error.
type Leftover struct {
	tokens []string
}

// Tokens returns a copy of the remaining tokens.
func (l *Leftover) Tokens() []string { return slices.Clone(l.tokens) }

// Len returns the number of remaining tokens.
func (l *Leftover) Len() int { return len(l.tokens) }

// Take removes the first occurrence of tok and reports whether it was
// present.
func (l *Leftover) Take(tok string) bool {
	for i, t := range l.tokens {
		if t == tok {
			l.tokens = append(l.tokens[:i], l.tokens[i+1:]...)
			return true
		}
	}
	return false
}

// Parse runs the compiled tree over tokens. A help flag anywhere in the
// input short-circuits to *HelpRequested. Tokens left over after every
// level and Produce hook had its chance are an unrecognized-arguments
// usage error.
func (c *Compiled) Parse(tokens []string) (*Namespace, error) {
	c.root.reset()
	for _, tok := range tokens {
		if tok == "--" {
			break
		}
		if tok == "-h" || tok == "--help" {
			return nil, &HelpRequested{Text: c.root.helpText(helpWidth())}
		}
	}
	ns, leftover, err := c.root.parse(tokens)
	if err != nil {
		return nil, err
	}
	if len(leftover) > 0 {
		return nil, &UsageError{Group: c.root.nsPath,
			Msg: "unrecognized arguments: " + strings.Join(leftover, " ")}
	}
	return ns, nil
}

// parse assembles one level: the tokens are split among this level and
// its nested groups by the group name tokens, nested groups parse their
// slices (depth-first unless the group opts into breadth-first), then the
// level's own options and positionals bind, the cardinality links are
// validated, and the Produce hooks run.
func (c *compiled) parse(tokens []string) (*Namespace, []string, error) {
	ns := c.newNamespace()
	grouped, ungrouped := splitByGroup(tokens, c.subNames)

	var leftover []string
	own := func() error {
		l, err := c.parseOwn(ns, ungrouped)
		leftover = l
		return err
	}
	if c.group.BreadthFirst {
		if err := own(); err != nil {
			return nil, nil, err
		}
		if err := c.parseSubs(ns, grouped); err != nil {
			return nil, nil, err
		}
	} else {
		if err := c.parseSubs(ns, grouped); err != nil {
			return nil, nil, err
		}
		if err := own(); err != nil {
			return nil, nil, err
		}
	}
	if err := c.validate(ns); err != nil {
		return nil, nil, err
	}

	l := &Leftover{tokens: leftover}
	for _, produce := range c.liftedProduce {
		next, err := produce(ns, l)
		if err != nil {
			return nil, nil, &UsageError{Group: c.nsPath, Msg: err.Error()}
		}
		if next != nil {
			ns = next
		}
	}
	if c.group.Produce != nil {
		next, err := c.group.Produce(ns, l)
		if err != nil {
			return nil, nil, &UsageError{Group: c.nsPath, Msg: err.Error()}
		}
		if next != nil {
			ns = next
		}
	}
	return ns, l.tokens, nil
}

// parseSubs routes the grouped token slices into the nested groups, in
// declaration order. A sequential group must have been entered unless it
// was added as optional; a branch set admits at most one member.
func (c *compiled) parseSubs(ns *Namespace, grouped map[string][]string) error {
	for _, sub := range c.subs {
		if !sub.branches {
			toks, present := grouped[sub.name]
			if !present {
				if sub.optional {
					ns.Set(sub.name, nil)
					continue
				}
				return &UsageError{Group: c.nsPath,
					Msg: fmt.Sprintf("the following arguments are required: %s", sub.name)}
			}
			subNs, err := sub.comp.parseNested(toks)
			if err != nil {
				return err
			}
			ns.Set(sub.name, subNs)
			continue
		}

		var chosen *branchMember
		var present []string
		for _, m := range sub.members {
			if _, ok := grouped[m.name]; ok {
				chosen = m
				present = append(present, m.name)
			}
		}
		if len(present) > 1 {
			return &UsageError{Group: c.nsPath,
				Msg: fmt.Sprintf("arguments %s are mutually exclusive", strings.Join(present, ", "))}
		}
		if chosen == nil && !sub.optional {
			names := make([]string, len(sub.members))
			for i, m := range sub.members {
				names[i] = m.name
			}
			return &UsageError{Group: c.nsPath,
				Msg: fmt.Sprintf("one of the following commands is required: %s", strings.Join(names, ", "))}
		}
		for _, m := range sub.members {
			if m != chosen {
				ns.Set(m.name, nil)
				continue
			}
			subNs, err := m.comp.parseNested(grouped[m.name])
			if err != nil {
				return err
			}
			ns.Set(m.name, subNs)
		}
	}
	return nil
}

// parseNested parses a nested group's token slice. Unlike the root,
// nested levels tolerate no leftovers: nothing further down would ever
// reclaim them.
func (c *compiled) parseNested(tokens []string) (*Namespace, error) {
	ns, leftover, err := c.parse(tokens)
	if err != nil {
		return nil, err
	}
	if len(leftover) > 0 {
		return nil, &UsageError{Group: c.nsPath,
			Msg: "unrecognized arguments: " + strings.Join(leftover, " ")}
	}
	return ns, nil
}

// parseOwn binds this level's options and positionals. Known options are
// rewritten into canonical --name=value tokens and handed to pflag;
// unknown flags and bare tokens stay in rest, preserving order, so the
// unrecognized ones can be reported (pflag's own unknown-flag whitelist
// silently drops them instead).
func (c *compiled) parseOwn(ns *Namespace, tokens []string) ([]string, error) {
	flagToks, rest, forced, action, err := c.consumeKnown(tokens)
	if err != nil {
		return nil, err
	}
	if action != nil {
		code := action.Action(ns)
		return nil, &ActionTaken{Name: action.Name, Code: code}
	}
	if err := c.flags.Parse(flagToks); err != nil {
		return nil, &UsageError{Group: c.nsPath, Msg: err.Error()}
	}
	for name, av := range c.options {
		if av.set {
			ns.Set(name, av.value())
		}
	}
	for name, tv := range c.toggles {
		if tv.on {
			ns.Set(name, true)
		}
	}
	return c.bindPositionals(ns, rest, forced)
}

// consumeKnown scans the level's tokens once: option spellings this level
// declares are canonicalized (with their value tokens attached), action
// flags short-circuit, and everything else is kept aside in order.
// "--" ends option processing; the remainder is forced positional.
func (c *compiled) consumeKnown(tokens []string) (flagToks, rest, forced []string, action *Argument, err error) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			forced = append(forced, tokens[i+1:]...)
			break
		}
		if !isFlagLike(tok) {
			rest = append(rest, tok)
			continue
		}
		name, inline, hasInline := splitFlagToken(tok)
		a := c.lookup[name]
		if a == nil {
			rest = append(rest, tok)
			continue
		}
		canonical := "--" + a.Name
		if a.Action != nil {
			return nil, nil, nil, a, nil
		}
		if a.Toggle {
			if hasInline {
				flagToks = append(flagToks, canonical+"="+inline)
			} else {
				flagToks = append(flagToks, canonical)
			}
			continue
		}
		if hasInline {
			flagToks = append(flagToks, canonical+"="+inline)
			continue
		}

		greedy := a.AsManyAs != "" || a.NArgs == NArgsZeroOrMore || a.NArgs == NArgsOneOrMore
		want := 1
		if a.NArgs > 0 {
			want = int(a.NArgs)
		}
		taken := 0
		j := i + 1
		for j < len(tokens) && tokens[j] != "--" && !isFlagLike(tokens[j]) {
			flagToks = append(flagToks, canonical+"="+tokens[j])
			j++
			taken++
			if !greedy && taken == want {
				break
			}
		}
		i = j - 1
		switch {
		case a.NArgs == NArgsOneOrMore && taken == 0:
			return nil, nil, nil, nil, &UsageError{Group: c.nsPath,
				Msg: fmt.Sprintf("argument %s: expected at least one argument", a.display())}
		case greedy:
		case taken < want && want == 1:
			return nil, nil, nil, nil, &UsageError{Group: c.nsPath,
				Msg: fmt.Sprintf("argument %s: expected one argument", a.display())}
		case taken < want:
			return nil, nil, nil, nil, &UsageError{Group: c.nsPath,
				Msg: fmt.Sprintf("argument %s: expected %d arguments", a.display(), want)}
		}
	}
	return flagToks, rest, forced, nil, nil
}

// bindPositionals assigns the leading run of bare tokens to this level's
// positionals in declaration order. Tokens forced positional by "--" join
// the run when no stray flag-like token interrupts it. Greedy positionals
// (ZeroOrMore, OneOrMore, AsManyAs) take the whole run; what the
// positionals do not take is leftover.
func (c *compiled) bindPositionals(ns *Namespace, rest, forced []string) ([]string, error) {
	cut := len(rest)
	for i, tok := range rest {
		if isFlagLike(tok) {
			cut = i
			break
		}
	}
	avail, tail := rest[:cut], rest[cut:]
	if cut == len(rest) {
		avail = append(slices.Clone(avail), forced...)
	} else {
		tail = append(slices.Clone(tail), forced...)
	}

	i := 0
	for _, a := range c.positionals {
		remaining := len(avail) - i
		var take int
		switch {
		case a.AsManyAs != "" || a.NArgs == NArgsZeroOrMore:
			take = remaining
		case a.NArgs == NArgsOneOrMore:
			if remaining < 1 {
				return nil, &UsageError{Group: c.nsPath,
					Msg: fmt.Sprintf("argument %s: expected at least one argument", a.Name)}
			}
			take = remaining
		case a.NArgs > 0:
			if remaining < int(a.NArgs) {
				return nil, &UsageError{Group: c.nsPath,
					Msg: fmt.Sprintf("argument %s: expected %d arguments", a.Name, a.NArgs)}
			}
			take = int(a.NArgs)
		default:
			if remaining < 1 {
				if a.required() {
					return nil, &UsageError{Group: c.nsPath,
						Msg: fmt.Sprintf("the following arguments are required: %s", a.Name)}
				}
				continue
			}
			take = 1
		}
		if take == 0 {
			continue
		}
		vals := make([]any, 0, take)
		for _, tok := range avail[i : i+take] {
			v, err := a.coerce(tok)
			if err != nil {
				return nil, &UsageError{Group: c.nsPath,
					Msg: fmt.Sprintf("argument %s: %v", a.Name, err)}
			}
			vals = append(vals, v)
		}
		i += take
		if a.multi() {
			ns.Set(a.Name, vals)
		} else {
			ns.Set(a.Name, vals[0])
		}
	}
	leftover := slices.Clone(avail[i:])
	return append(leftover, tail...), nil
}

// validate enforces the AsManyAs cardinality links: when both sides
// collected values, the counts must agree. An absent side waives the
// check, so an all-defaults parse stays valid.
func (c *compiled) validate(ns *Namespace) error {
	for _, a := range c.args {
		if a.AsManyAs == "" {
			continue
		}
		mine := countOf(ns.Get(a.Name))
		theirs := countOf(ns.Get(a.AsManyAs))
		if mine > 0 && theirs > 0 && mine != theirs {
			return &UsageError{Group: c.nsPath,
				Msg: fmt.Sprintf("%s for %d %s provided, expected for %d", a.Name, mine, a.AsManyAs, theirs)}
		}
	}
	return nil
}

func countOf(v any) int {
	if vs, ok := v.([]any); ok {
		return len(vs)
	}
	return 0
}

// newNamespace prefills every argument slot with its default, in
// declaration order, so actions and hooks see a complete namespace.
func (c *compiled) newNamespace() *Namespace {
	ns := NewNamespace()
	for _, a := range c.args {
		if a.Toggle {
			b, _ := a.Default.(bool)
			ns.Set(a.Name, b)
			continue
		}
		ns.Set(a.Name, a.Default)
	}
	return ns
}

// splitByGroup cuts a level's tokens at the nested group names: every
// token after a group name belongs to that group, up to the next group
// name. Tokens before the first group name belong to the level itself.
// A group name alone still enters the group (it parses on defaults).
func splitByGroup(tokens []string, names map[string]bool) (map[string][]string, []string) {
	grouped := make(map[string][]string)
	var ungrouped []string
	current := ""
	for _, tok := range tokens {
		if names[tok] {
			current = tok
			if _, ok := grouped[tok]; !ok {
				grouped[tok] = nil
			}
			continue
		}
		if current != "" {
			grouped[current] = append(grouped[current], tok)
		} else {
			ungrouped = append(ungrouped, tok)
		}
	}
	return grouped, ungrouped
}

// isFlagLike reports whether a token is spelled like an option. Negative
// numbers are values, not flags.
func isFlagLike(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if tok == "--" {
		return true
	}
	return !isNumeric(tok)
}

// isNumeric reports whether a token parses as a number, so "-1" and
// "-0.5" can be consumed as values.
func isNumeric(tok string) bool {
	if _, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

// splitFlagToken strips the dashes and an inline =value from an
// option-like token.
func splitFlagToken(tok string) (name, inline string, hasInline bool) {
	name = strings.TrimLeft(tok, "-")
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		return name[:eq], name[eq+1:], true
	}
	return name, "", false
}
