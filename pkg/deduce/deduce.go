// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package deduce builds argument groups from Go values instead of
// explicit declarations. A struct type maps to a group through its field
// tags (flag, short, help, default, pos); documentation text in the
// google, numpy, or rst convention fills in help strings; explicit
// arguments override anything deduced.
package deduce

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/targslib/targs/pkg/argtypes"
	"github.com/targslib/targs/pkg/docfmt"
	"github.com/targslib/targs/pkg/targs"
)

// Param is one deduced command-line input.
type Param struct {
	Name       string
	Short      string
	Help       string
	Positional bool
	Toggle     bool
	// Multi collects any number of values into a slice.
	Multi      bool
	Coerce     targs.TypeFunc
	Default    any
	HasDefault bool

	// field locates the backing struct field, when there is one.
	field []int
}

// Introspector derives the parameter list of a target type.
type Introspector interface {
	Params(t reflect.Type) ([]Param, error)
}

// StructIntrospector reads parameters off struct fields. The field name,
// lowercased, is the argument name unless a flag tag overrides it; a
// flag:"-" tag skips the field. pos:"N" makes the field the N-th
// positional. A positional is required unless it has a default tag.
// Bool option fields become toggles.
type StructIntrospector struct{}

func (StructIntrospector) Params(t reflect.Type) ([]Param, error) {
	type ordered struct {
		order int
		p     Param
	}
	var positionals []ordered
	var options []Param

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		flagTag := f.Tag.Get("flag")
		if flagTag == "-" {
			continue
		}
		name := flagTag
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		posTag := f.Tag.Get("pos")

		p := Param{
			Name:       name,
			Short:      f.Tag.Get("short"),
			Help:       f.Tag.Get("help"),
			Positional: posTag != "",
			field:      f.Index,
		}
		fieldType := f.Type
		if fieldType.Kind() == reflect.Slice {
			p.Multi = true
			fieldType = fieldType.Elem()
		}
		// Fields with no known coercion degrade to string capture, so
		// deduction never blocks parser construction.
		coerce, ok := argtypes.ForType(fieldType)
		if !ok {
			coerce = argtypes.String
		}
		p.Coerce = coerce
		if !p.Positional && f.Type.Kind() == reflect.Bool {
			p.Toggle = true
		}
		if d, set := f.Tag.Lookup("default"); set {
			v, err := coerce(d)
			if err != nil {
				return nil, fmt.Errorf("deduce: field %s: bad default: %w", f.Name, err)
			}
			p.Default = v
			p.HasDefault = true
		}

		if p.Positional {
			order, err := strconv.Atoi(posTag)
			if err != nil {
				return nil, fmt.Errorf("deduce: field %s: bad pos tag %q", f.Name, posTag)
			}
			positionals = append(positionals, ordered{order: order, p: p})
			continue
		}
		options = append(options, p)
	}

	sort.SliceStable(positionals, func(i, j int) bool {
		return positionals[i].order < positionals[j].order
	})
	out := make([]Param, 0, len(positionals)+len(options))
	for _, o := range positionals {
		out = append(out, o.p)
	}
	return append(out, options...), nil
}

// ParamList is a fixed parameter list, for deducing a group from
// something without introspectable names (a function, say).
type ParamList []Param

func (l ParamList) Params(reflect.Type) ([]Param, error) { return l, nil }

type config struct {
	name        string
	description string
	doc         string
	dialect     docfmt.Dialect
	intro       Introspector
	explicit    map[string]*targs.Argument
	extra       []*targs.Argument
}

// Option adjusts group deduction.
type Option func(*config)

// WithName overrides the deduced group name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithDescription sets the group description shown on the help screen.
func WithDescription(d string) Option {
	return func(c *config) { c.description = d }
}

// WithDoc supplies documentation text; parameter descriptions found in
// it become help strings for arguments that have none.
func WithDoc(doc string) Option {
	return func(c *config) { c.doc = doc }
}

// WithDialect selects the documentation convention of the WithDoc text.
// The default is google.
func WithDialect(d docfmt.Dialect) Option {
	return func(c *config) { c.dialect = d }
}

// WithArgument overrides the deduced argument for one parameter. The
// explicit declaration wins entirely, except that an empty Help is still
// filled from the documentation. A name matching no parameter adds a
// free-standing argument.
func WithArgument(a *targs.Argument) Option {
	return func(c *config) {
		if c.explicit == nil {
			c.explicit = make(map[string]*targs.Argument)
		}
		c.explicit[a.Name] = a
	}
}

// WithIntrospector replaces the default struct introspection.
func WithIntrospector(i Introspector) Option {
	return func(c *config) { c.intro = i }
}

// Parser deduces a group from T and constructs *T values from parse
// results.
type Parser[T any] struct {
	group  *targs.Group
	params []Param
}

// For deduces a parser for the struct type T.
func For[T any](opts ...Option) (*Parser[T], error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("deduce: For requires a struct type, got %v", t)
	}
	cfg := config{dialect: docfmt.DialectGoogle, intro: StructIntrospector{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = strings.ToLower(t.Name())
	}
	params, err := cfg.intro.Params(t)
	if err != nil {
		return nil, err
	}
	g, err := buildGroup(cfg, params)
	if err != nil {
		return nil, err
	}
	return &Parser[T]{group: g, params: params}, nil
}

// Build deduces a group from an explicit parameter list, for targets
// without introspectable names.
func Build(name string, params ParamList, opts ...Option) (*targs.Group, error) {
	cfg := config{name: name, dialect: docfmt.DialectGoogle}
	for _, opt := range opts {
		opt(&cfg)
	}
	return buildGroup(cfg, params)
}

func buildGroup(cfg config, params []Param) (*targs.Group, error) {
	var docHelp map[string]string
	if cfg.doc != "" {
		h, err := docfmt.Extract(cfg.doc, cfg.dialect)
		if err != nil {
			return nil, err
		}
		docHelp = h
	}

	g := targs.NewGroup(cfg.name)
	g.Description = cfg.description
	if g.Description == "" && cfg.doc != "" {
		g.Description = firstLine(cfg.doc)
	}

	used := make(map[string]bool)
	for _, p := range params {
		arg := cfg.explicit[p.Name]
		if arg != nil {
			used[p.Name] = true
		} else {
			arg = &targs.Argument{
				Name:       p.Name,
				Short:      p.Short,
				Positional: p.Positional,
				Toggle:     p.Toggle,
				Help:       p.Help,
				Default:    p.Default,
			}
			if !p.Toggle {
				arg.Type = p.Coerce
			}
			if p.Multi {
				arg.NArgs = targs.NArgsZeroOrMore
			}
		}
		if arg.Help == "" {
			arg.Help = docHelp[p.Name]
		}
		g.AddArgument(arg)
	}
	for name, arg := range cfg.explicit {
		if used[name] {
			continue
		}
		if arg.Help == "" {
			arg.Help = docHelp[name]
		}
		g.AddArgument(arg)
	}
	return g, nil
}

// Group returns the deduced group template.
func (p *Parser[T]) Group() *targs.Group { return p.group }

// Parse parses tokens and constructs the populated target value.
func (p *Parser[T]) Parse(tokens []string) (*T, error) {
	ns, err := p.group.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return p.Construct(ns)
}

// ParseArgs parses tokens (os.Args[1:] when nil) with the process
// conventions of Group.ParseArgs and constructs the target value.
func (p *Parser[T]) ParseArgs(tokens []string) *T {
	ns := p.group.ParseArgs(tokens)
	out, err := p.Construct(ns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", p.group.Name, err)
		os.Exit(2)
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		return strings.TrimSpace(s[:nl])
	}
	return s
}
