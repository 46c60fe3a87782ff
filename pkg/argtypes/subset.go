// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argtypes

import (
	"fmt"
	"strconv"
	"strings"
)

// Subset selects elements out of a sequence of length n by index.
type Subset interface {
	// Pick returns the selected indices in selection order. Every index
	// is within [0, n).
	Pick(n int) []int
}

// Apply materializes a subset selection over items.
func Apply[T any](sub Subset, items []T) []T {
	idx := sub.Pick(len(items))
	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

// Slice is a "start:stop:step" selection with the usual slicing rules:
// omitted bounds default to the ends, negative values count from the
// end, a negative step walks backwards, and out-of-range bounds clamp
// instead of failing.
type Slice struct {
	start, stop, step *int
}

// ParseSlice parses "start:stop" or "start:stop:step"; each part may be
// empty. A token without a colon is rejected, so plain numbers are not
// silently treated as slices.
func ParseSlice(s string) (*Slice, error) {
	if !strings.Contains(s, ":") {
		return nil, fmt.Errorf("%q does not look like a slice (no %q, which is required)", s, ":")
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("slice %q must have 2 or 3 parts, has %d", s, len(parts))
	}
	sl := &Slice{}
	fields := []**int{&sl.start, &sl.stop, &sl.step}
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("slice %q: not an integer: %q", s, p)
		}
		*fields[i] = &n
	}
	if sl.step != nil && *sl.step == 0 {
		return nil, fmt.Errorf("slice %q: step cannot be zero", s)
	}
	return sl, nil
}

// SliceType adapts ParseSlice to the coercion contract, yielding a
// *Slice value.
func SliceType(s string) (any, error) {
	return ParseSlice(s)
}

func (sl *Slice) Pick(n int) []int {
	step := 1
	if sl.step != nil {
		step = *sl.step
	}
	var out []int
	if step > 0 {
		start := clampIndex(sl.start, n, 0, n, 0)
		stop := clampIndex(sl.stop, n, 0, n, n)
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
		return out
	}
	start := clampIndex(sl.start, n, -1, n-1, n-1)
	stop := clampIndex(sl.stop, n, -1, n-1, -1)
	for i := start; i > stop; i += step {
		out = append(out, i)
	}
	return out
}

// clampIndex resolves one slice bound: nil takes the default, negative
// values count from the end, and the result clamps to [lo, hi].
func clampIndex(p *int, n, lo, hi, def int) int {
	if p == nil {
		return def
	}
	v := *p
	if v < 0 {
		v += n
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// Range is a simplified slice spelled "start-end". It handles only a
// start and an end; negative numbers and steps are not supported, since
// tokens like "1--3" are more likely typos than intent.
type Range struct {
	start, end *int
}

// ParseRange parses "start-end"; either side may be empty.
func ParseRange(s string) (*Range, error) {
	if !strings.Contains(s, "-") {
		return nil, fmt.Errorf("%q does not look like a range (no %q, which is required)", s, "-")
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("range %q must have exactly 2 parts, has %d", s, len(parts))
	}
	r := &Range{}
	fields := []**int{&r.start, &r.end}
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("range %q: not an integer: %q", s, p)
		}
		*fields[i] = &n
	}
	return r, nil
}

// RangeType adapts ParseRange to the coercion contract, yielding a
// *Range value.
func RangeType(s string) (any, error) {
	return ParseRange(s)
}

func (r *Range) Pick(n int) []int {
	sl := &Slice{start: r.start, stop: r.end}
	return sl.Pick(n)
}

// Indices is a comma-separated set of positive element indices. Each
// element is selected at most once, in sequence order.
type Indices struct {
	set map[int]bool
}

// ParseIndices parses "0,2,5". Negative indices are rejected as
// ambiguous.
func ParseIndices(s string) (*Indices, error) {
	set := make(map[int]bool)
	for _, p := range strings.Split(s, ",") {
		v, err := PositiveInt(p)
		if err != nil {
			return nil, err
		}
		set[v.(int)] = true
	}
	return &Indices{set: set}, nil
}

// IndicesType adapts ParseIndices to the coercion contract, yielding an
// *Indices value.
func IndicesType(s string) (any, error) {
	return ParseIndices(s)
}

func (ix *Indices) Pick(n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if ix.set[i] {
			out = append(out, i)
		}
	}
	return out
}
