// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package targs

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
)

// Compiled is a group tree translated into pflag flag sets, one per
// level, plus the reverse path index. Compile it once per parse: the flag
// values hold per-parse state (Parse resets it on entry, so a Compiled
// may be reused sequentially but not concurrently).
type Compiled struct {
	group *Group
	root  *compiled
	index map[string]string
}

// compiled is one group level: the pflag set holding this level's
// options, the positional bindings, and the compiled nested groups.
type compiled struct {
	group    *Group
	declPath string
	nsPath   string

	flags       *pflag.FlagSet
	options     map[string]*argValue
	toggles     map[string]*toggleValue
	lookup      map[string]*Argument // option/toggle/action args by name and short
	allNames    map[string]bool      // flat per-level namespace, groups included
	args        []*Argument          // declaration order, lifted args included
	positionals []*Argument
	subs        []*subEntry
	subNames    map[string]bool

	liftedProduce []ProduceFunc
	index         map[string]string
}

type subEntry struct {
	branches bool
	optional bool

	// sequential group
	name string
	comp *compiled

	// branch set members
	members []*branchMember
}

type branchMember struct {
	name string
	comp *compiled
}

// argValue adapts an Argument's coercion rule to the pflag.Value
// contract. Multi-valued arguments append on every occurrence.
type argValue struct {
	arg  *Argument
	set  bool
	vals []any
}

func (v *argValue) Set(s string) error {
	val, err := v.arg.coerce(s)
	if err != nil {
		return err
	}
	if v.arg.multi() {
		v.vals = append(v.vals, val)
	} else {
		v.vals = []any{val}
	}
	v.set = true
	return nil
}

func (v *argValue) String() string { return "" }

func (v *argValue) Type() string {
	if v.arg.multi() {
		return "values"
	}
	return "value"
}

func (v *argValue) reset() {
	v.set = false
	v.vals = nil
}

func (v *argValue) value() any {
	if v.arg.multi() {
		return v.vals
	}
	return v.vals[0]
}

// toggleValue is a resettable boolean pflag.Value for Toggle arguments.
type toggleValue struct {
	on bool
}

func (v *toggleValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	v.on = b
	return nil
}

func (v *toggleValue) String() string { return strconv.FormatBool(v.on) }
func (v *toggleValue) Type() string   { return "bool" }
func (v *toggleValue) reset()         { v.on = false }

// Compile walks the group tree depth-first and registers every option on
// a pflag flag set per level, checking the construction invariants:
// unique names per level's flattened namespace, resolvable and acyclic
// AsManyAs links, valid arities. Positionals are recorded for the
// engine's own binding pass, since the primitive models options only.
func (g *Group) Compile() (*Compiled, error) {
	index := make(map[string]string)
	root, err := compileGroup(g, "", "", index)
	if err != nil {
		return nil, err
	}
	return &Compiled{group: g, root: root, index: index}, nil
}

// FlagSet exposes the root level's underlying pflag flag set.
func (c *Compiled) FlagSet() *pflag.FlagSet { return c.root.flags }

// PathIndex maps each primitive destination, keyed by its declaration
// path, to the dotted namespace path its value lands on. The two differ
// for arguments declared inside lifted groups.
func (c *Compiled) PathIndex() map[string]string {
	out := make(map[string]string, len(c.index))
	for k, v := range c.index {
		out[k] = v
	}
	return out
}

func compileGroup(g *Group, declPath, nsPath string, index map[string]string) (*compiled, error) {
	c := &compiled{
		group:    g,
		declPath: declPath,
		nsPath:   nsPath,
		options:  make(map[string]*argValue),
		toggles:  make(map[string]*toggleValue),
		lookup:   make(map[string]*Argument),
		allNames: make(map[string]bool),
		subNames: make(map[string]bool),
		index:    index,
	}
	c.flags = pflag.NewFlagSet(g.Name, pflag.ContinueOnError)
	c.flags.SetOutput(io.Discard)
	if err := c.addChildren(g, declPath); err != nil {
		return nil, err
	}
	if err := c.checkLinks(); err != nil {
		return nil, err
	}
	return c, nil
}

// addChildren registers a group's children on this level. Lifted child
// groups recurse into the same level so their members surface on the
// parent namespace.
func (c *compiled) addChildren(g *Group, declPath string) error {
	for _, ch := range g.children {
		switch ch.kind {
		case childArgument:
			if err := c.addArgument(ch.arg, declPath); err != nil {
				return err
			}
		case childGroup:
			sub := ch.group
			if sub.Name == "" {
				return &BuildError{Path: c.declPath, Msg: "nested group without a name"}
			}
			if sub.Lift {
				if err := c.addChildren(sub, joinPath(declPath, sub.Name)); err != nil {
					return err
				}
				if sub.Produce != nil {
					c.liftedProduce = append(c.liftedProduce, sub.Produce)
				}
				continue
			}
			if err := c.claimName(sub.Name); err != nil {
				return err
			}
			sc, err := compileGroup(sub, joinPath(declPath, sub.Name), joinPath(c.nsPath, sub.Name), c.index)
			if err != nil {
				return err
			}
			c.subs = append(c.subs, &subEntry{name: sub.Name, comp: sc, optional: ch.optional})
			c.subNames[sub.Name] = true
		case childBranches:
			entry := &subEntry{branches: true, optional: ch.optional}
			for _, m := range ch.branches {
				if m.Name == "" {
					return &BuildError{Path: c.declPath, Msg: "branch group without a name"}
				}
				if err := c.claimName(m.Name); err != nil {
					return err
				}
				mc, err := compileGroup(m, joinPath(declPath, m.Name), joinPath(c.nsPath, m.Name), c.index)
				if err != nil {
					return err
				}
				entry.members = append(entry.members, &branchMember{name: m.Name, comp: mc})
				c.subNames[m.Name] = true
			}
			if len(entry.members) == 0 {
				return &BuildError{Path: c.declPath, Msg: "empty branch set"}
			}
			c.subs = append(c.subs, entry)
		}
	}
	return nil
}

func (c *compiled) addArgument(a *Argument, declPath string) error {
	if a.Name == "" {
		return &BuildError{Path: c.declPath, Msg: "argument without a name"}
	}
	if len(a.Short) > 1 {
		return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("argument %q: short name %q is not a single letter", a.Name, a.Short)}
	}
	if a.Positional && a.Short != "" {
		return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("argument %q: a short name is useless for a positional", a.Name)}
	}
	if a.Positional && (a.Toggle || a.Action != nil) {
		return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("argument %q: a positional cannot be a toggle or an action", a.Name)}
	}
	if a.NArgs < NArgsOneOrMore {
		return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("argument %q: invalid arity %d", a.Name, a.NArgs)}
	}
	if err := c.claimName(a.Name); err != nil {
		return err
	}
	c.index[joinPath(declPath, a.Name)] = joinPath(c.nsPath, a.Name)
	c.args = append(c.args, a)

	if a.Positional {
		c.positionals = append(c.positionals, a)
		return nil
	}
	if a.Short != "" {
		if other, ok := c.lookup[a.Short]; ok {
			return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("short name %q conflicts between %q and %q", a.Short, other.Name, a.Name)}
		}
		c.lookup[a.Short] = a
	}
	c.lookup[a.Name] = a
	switch {
	case a.Action != nil:
		// Actions never reach the flag set: they fire before it parses.
	case a.Toggle:
		tv := &toggleValue{}
		c.flags.VarP(tv, a.Name, a.Short, a.Help)
		c.flags.Lookup(a.Name).NoOptDefVal = "true"
		c.toggles[a.Name] = tv
	default:
		av := &argValue{arg: a}
		c.flags.VarP(av, a.Name, a.Short, a.Help)
		c.options[a.Name] = av
	}
	return nil
}

func (c *compiled) claimName(name string) error {
	if c.allNames[name] {
		return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("conflicting name %q", name)}
	}
	c.allNames[name] = true
	return nil
}

// checkLinks resolves AsManyAs references: every link must point at a
// sibling on the same level, and the links must not form a cycle.
func (c *compiled) checkLinks() error {
	byName := make(map[string]*Argument, len(c.args))
	for _, a := range c.args {
		byName[a.Name] = a
	}
	for _, a := range c.args {
		if a.AsManyAs == "" {
			continue
		}
		seen := map[string]bool{a.Name: true}
		cur := a
		for cur.AsManyAs != "" {
			partner, ok := byName[cur.AsManyAs]
			if !ok {
				return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("argument %q: as-many-as target %q does not exist", a.Name, cur.AsManyAs)}
			}
			if seen[partner.Name] {
				return &BuildError{Path: c.declPath, Msg: fmt.Sprintf("argument %q: cyclic as-many-as link", a.Name)}
			}
			seen[partner.Name] = true
			cur = partner
		}
	}
	return nil
}

// reset clears per-parse flag state throughout the tree.
func (c *compiled) reset() {
	for _, av := range c.options {
		av.reset()
	}
	for _, tv := range c.toggles {
		tv.reset()
	}
	for _, sub := range c.subs {
		if sub.branches {
			for _, m := range sub.members {
				m.comp.reset()
			}
			continue
		}
		sub.comp.reset()
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
