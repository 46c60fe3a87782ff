// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prefs

import (
	"testing"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("IMGCONV_VERBOSE", "true")
	t.Setenv("IMGCONV_OUTPUT_SCALE", "25")

	g := tree()
	if err := FromEnv(g, "IMGCONV"); err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if got := g.ArgumentByName("verbose").Default; got != true {
		t.Errorf("verbose default = %v, want true", got)
	}
	if got := g.GroupByName("output").ArgumentByName("scale").Default; got != 25 {
		t.Errorf("scale default = %v (%T), want coerced int 25", got, got)
	}
	// Untouched arguments keep their declared defaults.
	if got := g.ArgumentByName("jobs").Default; got != 1 {
		t.Errorf("jobs default = %v, want 1", got)
	}
}

func TestFromEnvBadValue(t *testing.T) {
	t.Setenv("IMGCONV_OUTPUT_SCALE", "huge")
	if err := FromEnv(tree(), "IMGCONV"); err == nil {
		t.Error("malformed variable should be rejected at load time")
	}

	t.Setenv("IMGCONV_OUTPUT_SCALE", "25")
	t.Setenv("IMGCONV_VERBOSE", "definitely")
	if err := FromEnv(tree(), "IMGCONV"); err == nil {
		t.Error("non-boolean toggle variable should be rejected")
	}
}
