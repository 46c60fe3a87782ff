// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package targs

import "os"

// ProduceFunc post-processes a group's assembled namespace. It receives
// the namespace and the tokens that nothing at this level recognized; a
// hook may Take tokens it understands. It returns the namespace to use in
// place of the assembled one, so a hook can inject derived attributes or
// swap the whole result. Hooks run bottom-up: children first.
type ProduceFunc func(ns *Namespace, leftover *Leftover) (*Namespace, error)

type childKind int

const (
	childArgument childKind = iota
	childGroup
	childBranches
)

type child struct {
	kind     childKind
	arg      *Argument
	group    *Group
	optional bool // childGroup: skip if the name token is absent
	branches []*Group
}

// Group is an ordered, named collection of arguments and nested groups.
// It is a read-only template once built: every Parse call compiles its own
// parser state, so one Group may serve concurrent parses.
type Group struct {
	// Name is the group name. For nested groups it is also the token
	// that enters the group on the command line.
	Name string

	// Description is shown on the group's own help screen.
	Description string

	// Epilog is appended after the generated help.
	Epilog string

	// Produce, if set, post-processes the assembled namespace.
	Produce ProduceFunc

	// Lift makes the group translucent: its arguments and nested groups
	// are registered on the parent level and surface directly on the
	// parent namespace. The group keeps its Produce hook, which runs on
	// the parent namespace before the parent's own hook.
	Lift bool

	// BreadthFirst parses this level's own arguments before descending
	// into nested groups. The default is depth-first: nested groups
	// first, so Produce hooks run bottom-up.
	BreadthFirst bool

	children []child
}

// NewGroup returns an empty group with the given name.
func NewGroup(name string) *Group {
	return &Group{Name: name}
}

// AddArgument appends an argument as the next child.
func (g *Group) AddArgument(a *Argument) *Group {
	g.children = append(g.children, child{kind: childArgument, arg: a})
	return g
}

// AddGroup appends a nested group that must be traversed: its name token
// has to appear on the command line.
func (g *Group) AddGroup(sub *Group) *Group {
	g.children = append(g.children, child{kind: childGroup, group: sub})
	return g
}

// AddOptionalGroup appends a nested group that is skipped when its name
// token is absent; the group's slot in the namespace is then nil.
func (g *Group) AddOptionalGroup(sub *Group) *Group {
	g.children = append(g.children, child{kind: childGroup, group: sub, optional: true})
	return g
}

// AddBranches appends a set of mutually exclusive nested groups sharing
// one discriminator position: the tokens select at most one member by
// name. When optional is false, selecting none is a usage error. Every
// unselected member's slot in the namespace is nil.
func (g *Group) AddBranches(optional bool, members ...*Group) *Group {
	g.children = append(g.children, child{kind: childBranches, optional: optional, branches: members})
	return g
}

// Arguments returns the direct child arguments in declaration order.
func (g *Group) Arguments() []*Argument {
	var out []*Argument
	for _, c := range g.children {
		if c.kind == childArgument {
			out = append(out, c.arg)
		}
	}
	return out
}

// Groups returns the direct child groups, branch members included, in
// declaration order.
func (g *Group) Groups() []*Group {
	var out []*Group
	for _, c := range g.children {
		switch c.kind {
		case childGroup:
			out = append(out, c.group)
		case childBranches:
			out = append(out, c.branches...)
		}
	}
	return out
}

// ArgumentByName returns the direct child argument with the given name,
// or nil.
func (g *Group) ArgumentByName(name string) *Argument {
	for _, c := range g.children {
		if c.kind == childArgument && c.arg.Name == name {
			return c.arg
		}
	}
	return nil
}

// GroupByName returns the direct child group (including branch members)
// with the given name, or nil.
func (g *Group) GroupByName(name string) *Group {
	for _, c := range g.children {
		switch c.kind {
		case childGroup:
			if c.group.Name == name {
				return c.group
			}
		case childBranches:
			for _, m := range c.branches {
				if m.Name == name {
					return m
				}
			}
		}
	}
	return nil
}

// Parse compiles the group and parses the given tokens. It returns the
// tree-shaped namespace, or one of the typed outcomes described in the
// package documentation. Leftover tokens that no level recognized (and no
// Produce hook consumed) are a usage error.
func (g *Group) Parse(tokens []string) (*Namespace, error) {
	c, err := g.Compile()
	if err != nil {
		return nil, err
	}
	return c.Parse(tokens)
}

// ParseArgs parses tokens (os.Args[1:] when nil) and maps the parse
// outcome onto the conventional process behavior: help prints to stdout
// and exits 0, a usage error prints to stderr and exits 2, a terminal
// action exits with the action's code. On success it returns the
// namespace.
func (g *Group) ParseArgs(tokens []string) *Namespace {
	if tokens == nil {
		tokens = os.Args[1:]
	}
	ns, err := g.Parse(tokens)
	if err != nil {
		exitForOutcome(g, err)
	}
	return ns
}
