// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argtypes

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSlice(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	reversed := []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

	cases := map[string][]int{
		"2:3":    {2},
		"2:5":    {2, 3, 4},
		"5:2:-1": {5, 4, 3},
		"2:5:2":  {2, 4},
		":5":     {0, 1, 2, 3, 4},
		"::-1":   reversed,
		":":      items,
		":-2":    {0, 1, 2, 3, 4, 5, 6, 7},
	}
	for spec, want := range cases {
		t.Run(spec, func(t *testing.T) {
			sl, err := ParseSlice(spec)
			if err != nil {
				t.Fatalf("ParseSlice(%q): %v", spec, err)
			}
			if diff := cmp.Diff(want, Apply(sl, items)); diff != "" {
				t.Errorf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, bad := range []string{"1", "1:2:3:4", "1:2:0", "a:b"} {
		if _, err := ParseSlice(bad); err == nil {
			t.Errorf("ParseSlice(%q) should fail", bad)
		}
	}
}

func TestRange(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}
	cases := map[string][]int{
		"2-3": {2},
		"2-5": {2, 3, 4},
	}
	for spec, want := range cases {
		r, err := ParseRange(spec)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", spec, err)
		}
		if diff := cmp.Diff(want, Apply(r, items)); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", spec, diff)
		}
	}
	for _, bad := range []string{"2", "1--2", "1-2-3"} {
		if _, err := ParseRange(bad); err == nil {
			t.Errorf("ParseRange(%q) should fail", bad)
		}
	}
}

func TestIndices(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	cases := map[string][]string{
		"0":   {"a"},
		"0,1": {"a", "b"},
		"1,3": {"b", "d"},
		"3,1": {"b", "d"}, // order follows the sequence, not the spec
	}
	for spec, want := range cases {
		ix, err := ParseIndices(spec)
		if err != nil {
			t.Fatalf("ParseIndices(%q): %v", spec, err)
		}
		if diff := cmp.Diff(want, Apply(ix, items)); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", spec, diff)
		}
	}
	if _, err := ParseIndices("-5"); err == nil {
		t.Error("negative indices should be rejected")
	}
}

func TestPositiveInt(t *testing.T) {
	if _, err := PositiveInt("-5"); err == nil {
		t.Error("PositiveInt(-5) should fail")
	}
	v, err := PositiveInt("5")
	if err != nil || v != 5 {
		t.Errorf("PositiveInt(5) = %v, %v", v, err)
	}
}

func TestOneOf(t *testing.T) {
	numberOrName := OneOf(
		Alternative{Name: "int", Type: Int},
		Alternative{Name: "string", Type: String},
	)
	v, err := numberOrName("42")
	if err != nil || v != 42 {
		t.Errorf("OneOf(42) = %v, %v; the first matching type should win", v, err)
	}
	v, err = numberOrName("forty")
	if err != nil || v != "forty" {
		t.Errorf("OneOf(forty) = %v, %v", v, err)
	}

	strict := OneOf(Alternative{Name: "int", Type: Int})
	if _, err := strict("forty"); err == nil || !strings.Contains(err.Error(), "allowed types: int") {
		t.Errorf("OneOf failure should list the alternatives, got %v", err)
	}
}

func TestDSV(t *testing.T) {
	ints := DSV(Int, ",")
	v, err := ints("1,2,3")
	if err != nil {
		t.Fatalf("DSV: %v", err)
	}
	if diff := cmp.Diff([]any{1, 2, 3}, v); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if _, err := ints("1,x"); err == nil {
		t.Error("bad item should fail the whole list")
	}
}

func TestScalars(t *testing.T) {
	if v, err := Duration("2h45m"); err != nil || v != 2*time.Hour+45*time.Minute {
		t.Errorf("Duration = %v, %v", v, err)
	}
	if _, err := URL("not a url at all"); err == nil {
		t.Error("scheme-less URL should fail")
	}
	if _, err := UUID("123e4567-e89b-12d3-a456-426614174000"); err != nil {
		t.Errorf("UUID: %v", err)
	}
	if _, err := SemVer("1.2.3-rc.1"); err != nil {
		t.Errorf("SemVer: %v", err)
	}
	if _, err := SemVer("not.a.version"); err == nil {
		t.Error("bad semver should fail")
	}
}

func TestForType(t *testing.T) {
	tests := []struct {
		name  string
		typ   reflect.Type
		token string
		want  any
	}{
		{"string", reflect.TypeOf(""), "x", "x"},
		{"int", reflect.TypeOf(0), "7", 7},
		{"float", reflect.TypeOf(0.0), "0.5", 0.5},
		{"bool", reflect.TypeOf(false), "true", true},
		{"duration", reflect.TypeOf(time.Duration(0)), "5s", 5 * time.Second},
		{"pointer", reflect.TypeOf((*float64)(nil)), "0.5", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := ForType(tt.typ)
			if !ok {
				t.Fatalf("ForType(%v) not found", tt.typ)
			}
			v, err := fn(tt.token)
			if err != nil {
				t.Fatalf("coerce: %v", err)
			}
			if !reflect.DeepEqual(v, tt.want) {
				t.Errorf("got %#v, want %#v", v, tt.want)
			}
		})
	}
	if _, ok := ForType(reflect.TypeOf(struct{}{})); ok {
		t.Error("anonymous struct should have no coercion")
	}
}
