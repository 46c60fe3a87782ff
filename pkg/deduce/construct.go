// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deduce

import (
	"fmt"
	"reflect"

	"github.com/targslib/targs/pkg/targs"
)

// Construct populates a fresh *T from a parse result. Namespace entries
// are matched to fields through the deduced parameter list; nil entries
// leave the field at its zero value, so optional pointer fields stay
// nil when their argument was absent.
func (p *Parser[T]) Construct(ns *targs.Namespace) (*T, error) {
	out := new(T)
	v := reflect.ValueOf(out).Elem()
	for _, param := range p.params {
		if param.field == nil {
			continue
		}
		raw := ns.Get(param.Name)
		if raw == nil {
			continue
		}
		f := v.FieldByIndex(param.field)
		if err := assign(f, raw); err != nil {
			return nil, fmt.Errorf("deduce: %s: %w", param.Name, err)
		}
	}
	return out, nil
}

// assign stores a parsed value into a field, allocating through
// pointers and converting between compatible numeric kinds.
func assign(f reflect.Value, raw any) error {
	t := f.Type()
	if t.Kind() == reflect.Pointer {
		rv := reflect.ValueOf(raw)
		if rv.Type() == t {
			f.Set(rv)
			return nil
		}
		p := reflect.New(t.Elem())
		if err := assign(p.Elem(), raw); err != nil {
			return err
		}
		f.Set(p)
		return nil
	}

	if vs, ok := raw.([]any); ok && t.Kind() == reflect.Slice {
		s := reflect.MakeSlice(t, len(vs), len(vs))
		for i, item := range vs {
			if err := assign(s.Index(i), item); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		f.Set(s)
		return nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(t) {
		f.Set(rv)
		return nil
	}
	if isNumericKind(rv.Kind()) && isNumericKind(t.Kind()) && rv.Type().ConvertibleTo(t) {
		f.Set(rv.Convert(t))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", raw, t)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
