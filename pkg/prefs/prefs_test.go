// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/targslib/targs/pkg/targs"
)

func intType(s string) (any, error) {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, os.ErrInvalid
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func tree() *targs.Group {
	output := targs.NewGroup("output").
		AddArgument(&targs.Argument{Name: "format", Default: "png"}).
		AddArgument(&targs.Argument{Name: "scale", Type: intType, Default: 100})
	return targs.NewGroup("imgconv").
		AddArgument(targs.Flag("verbose", "")).
		AddArgument(&targs.Argument{Name: "jobs", Type: intType, Default: 1}).
		AddGroup(output)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "prefs.toml", `
jobs = 4

[output]
format = "gif"
scale = 50
`)
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := tree()
	if err := Apply(g, d); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := g.ArgumentByName("jobs").Default; got != 4 {
		t.Errorf("jobs default = %v (%T), want int 4", got, got)
	}
	output := g.GroupByName("output")
	if got := output.ArgumentByName("format").Default; got != "gif" {
		t.Errorf("format default = %v, want gif", got)
	}

	// The overridden defaults flow through an actual parse.
	ns, err := g.Parse([]string{"output"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := ns.Sub("output").GetInt("scale"); got != 50 {
		t.Errorf("parsed scale = %d, want preference default 50", got)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "prefs.yaml", `
jobs: 2
output:
  format: webp
`)
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := tree()
	if err := Apply(g, d); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := g.GroupByName("output").ArgumentByName("format").Default; got != "webp" {
		t.Errorf("format default = %v, want webp", got)
	}
	if got := g.ArgumentByName("jobs").Default; got != 2 {
		t.Errorf("jobs default = %v (%T), want int 2", got, got)
	}
}

func TestApplyRejectsUnknownKeys(t *testing.T) {
	if err := Apply(tree(), Defaults{"jbos": 4}); err == nil {
		t.Error("typo key should be rejected")
	}
	if err := Apply(tree(), Defaults{"output": "gif"}); err == nil {
		t.Error("scalar for a nested group should be rejected")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "prefs.ini", "jobs=4\n")
	if _, err := Load(path); err == nil {
		t.Error("ini files are not supported")
	}
}
