// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package targs

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Namespace is the tree-shaped parse result. Each argument of a group is
// an entry holding its coerced value (nil when absent and not required),
// and each nested group is an entry holding that group's own Namespace.
// A Namespace is built fresh for every parse call and is owned by the
// caller once Parse returns.
type Namespace struct {
	keys   []string
	values map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// Set assigns a value, preserving first-set order for rendering.
func (ns *Namespace) Set(name string, v any) {
	if _, ok := ns.values[name]; !ok {
		ns.keys = append(ns.keys, name)
	}
	ns.values[name] = v
}

// Get returns the value for name, or nil.
func (ns *Namespace) Get(name string) any { return ns.values[name] }

// Has reports whether name is present (even with a nil value).
func (ns *Namespace) Has(name string) bool {
	_, ok := ns.values[name]
	return ok
}

// Keys returns the entry names in assignment order.
func (ns *Namespace) Keys() []string {
	out := make([]string, len(ns.keys))
	copy(out, ns.keys)
	return out
}

// Sub returns the nested namespace for a traversed child group, or nil if
// the name is absent, nil, or not a group.
func (ns *Namespace) Sub(name string) *Namespace {
	v, _ := ns.values[name].(*Namespace)
	return v
}

// GetString returns the value as a string, or "" when absent or not a
// string.
func (ns *Namespace) GetString(name string) string {
	v, _ := ns.values[name].(string)
	return v
}

// GetBool returns the value as a bool, false when absent.
func (ns *Namespace) GetBool(name string) bool {
	v, _ := ns.values[name].(bool)
	return v
}

// GetInt returns the value as an int, 0 when absent.
func (ns *Namespace) GetInt(name string) int {
	switch v := ns.values[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// GetFloat returns the value as a float64, 0 when absent.
func (ns *Namespace) GetFloat(name string) float64 {
	switch v := ns.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// GetValues returns the collected values of a multi-valued argument.
func (ns *Namespace) GetValues(name string) []any {
	v, _ := ns.values[name].([]any)
	return v
}

// GetStrings returns the collected values of a multi-valued string
// argument.
func (ns *Namespace) GetStrings(name string) []string {
	vs, ok := ns.values[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// Map returns a copy of the entries. Nested groups stay *Namespace.
func (ns *Namespace) Map() map[string]any {
	out := make(map[string]any, len(ns.values))
	for k, v := range ns.values {
		out[k] = v
	}
	return out
}

// Equal reports deep structural equality, comparing nested namespaces by
// value. go-cmp picks this method up automatically.
func (ns *Namespace) Equal(other *Namespace) bool {
	if ns == nil || other == nil {
		return ns == other
	}
	if len(ns.values) != len(other.values) {
		return false
	}
	for k, v := range ns.values {
		ov, ok := other.values[k]
		if !ok {
			return false
		}
		sub, isSub := v.(*Namespace)
		osub, oIsSub := ov.(*Namespace)
		if isSub != oIsSub {
			return false
		}
		if isSub {
			if !sub.Equal(osub) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String renders the namespace in a stable, argparse-like form, useful in
// test failure output.
func (ns *Namespace) String() string {
	if ns == nil {
		return "<nil>"
	}
	names := make([]string, 0, len(ns.values))
	for k := range ns.values {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ns.values[k]))
	}
	return "Namespace(" + strings.Join(parts, ", ") + ")"
}
