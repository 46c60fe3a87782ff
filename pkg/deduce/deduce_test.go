// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deduce

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/targslib/targs/pkg/argtypes"
	"github.com/targslib/targs/pkg/docfmt"
	"github.com/targslib/targs/pkg/targs"
)

type analysis struct {
	Text      string  `pos:"0" help:"text to process"`
	Threshold float64 `short:"t" default:"0.05"`
	Database  *string
}

func TestForStruct(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    *analysis
		wantErr bool
	}{
		{
			name:   "defaults",
			tokens: []string{"test"},
			want:   &analysis{Text: "test", Threshold: 0.05},
		},
		{
			name:   "explicit threshold",
			tokens: []string{"test", "--threshold", "0.6"},
			want:   &analysis{Text: "test", Threshold: 0.6},
		},
		{
			name:   "short spelling",
			tokens: []string{"test", "-t", "0.6"},
			want:   &analysis{Text: "test", Threshold: 0.6},
		},
		{
			name:   "pointer field set",
			tokens: []string{"test", "--database", "users.db"},
			want:   &analysis{Text: "test", Threshold: 0.05, Database: ptr("users.db")},
		},
		{
			name:    "bad threshold",
			tokens:  []string{"test", "--threshold", "f"},
			wantErr: true,
		},
		{
			name:    "missing text",
			tokens:  []string{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := For[analysis]()
			if err != nil {
				t.Fatalf("For: %v", err)
			}
			got, err := p.Parse(tt.tokens)
			if tt.wantErr {
				var usage *targs.UsageError
				if !errors.As(err, &usage) {
					t.Fatalf("err = %v, want *UsageError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("constructed value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestGroupShape(t *testing.T) {
	p, err := For[analysis]()
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	g := p.Group()
	if g.Name != "analysis" {
		t.Errorf("group name = %q, want lowercased type name", g.Name)
	}
	text := g.ArgumentByName("text")
	if text == nil || !text.Positional {
		t.Fatalf("text should be a positional, got %+v", text)
	}
	if text.Help != "text to process" {
		t.Errorf("help tag not carried: %q", text.Help)
	}
	threshold := g.ArgumentByName("threshold")
	if threshold == nil || threshold.Short != "t" || threshold.Default != 0.05 {
		t.Errorf("threshold deduced wrong: %+v", threshold)
	}
}

type job struct {
	Verbose bool  `help:"print progress"`
	Retries []int `flag:"retry"`
	Ignored string `flag:"-"`
}

func TestTogglesAndSlices(t *testing.T) {
	p, err := For[job]()
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	got, err := p.Parse([]string{"--verbose", "--retry", "1", "2", "3"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := &job{Verbose: true, Retries: []int{1, 2, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if p.Group().ArgumentByName("ignored") != nil {
		t.Error(`flag:"-" field should be skipped`)
	}
}

const analysisDoc = `Analyze text documents.

Args:
    text: the document to analyze
    threshold: significance cutoff
    database: where to look things up
`

func TestDocHelp(t *testing.T) {
	p, err := For[analysis](WithDoc(analysisDoc))
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	g := p.Group()
	if got := g.Description; got != "Analyze text documents." {
		t.Errorf("description = %q, want doc first line", got)
	}
	// The help tag on the field wins over the documentation text.
	if got := g.ArgumentByName("text").Help; got != "text to process" {
		t.Errorf("text help = %q, explicit tag should win", got)
	}
	if got := g.ArgumentByName("threshold").Help; got != "significance cutoff" {
		t.Errorf("threshold help = %q, want doc-derived", got)
	}
}

func TestExplicitArgumentWins(t *testing.T) {
	p, err := For[analysis](
		WithDoc(analysisDoc),
		WithArgument(&targs.Argument{
			Name:    "threshold",
			Type:    argtypes.Float,
			Default: 0.5,
			Help:    "Only decimals!",
		}),
		WithArgument(&targs.Argument{Name: "database", Type: argtypes.String}),
	)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	g := p.Group()
	threshold := g.ArgumentByName("threshold")
	if threshold.Default != 0.5 || threshold.Help != "Only decimals!" {
		t.Errorf("explicit argument should win entirely: %+v", threshold)
	}
	// An explicit argument with no help still inherits the doc help.
	if got := g.ArgumentByName("database").Help; got != "where to look things up" {
		t.Errorf("database help = %q, want doc-derived", got)
	}

	got, err := p.Parse([]string{"test"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Threshold != 0.5 {
		t.Errorf("threshold = %v, want explicit default 0.5", got.Threshold)
	}
}

func TestBuildFromParamList(t *testing.T) {
	g, err := Build("pow", ParamList{
		{Name: "base", Positional: true, Coerce: argtypes.Float},
		{Name: "exponent", Short: "n", Coerce: argtypes.Int, Default: 2, HasDefault: true},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ns, err := g.Parse([]string{"2", "--exponent", "3"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ns.GetFloat("base") != 2 || ns.GetInt("exponent") != 3 {
		t.Errorf("unexpected namespace: %v", ns)
	}

	ns, err = g.Parse([]string{"2"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ns.GetInt("exponent") != 2 {
		t.Errorf("exponent = %d, want default 2", ns.GetInt("exponent"))
	}
}

func TestForRejectsNonStruct(t *testing.T) {
	if _, err := For[int](); err == nil {
		t.Error("For[int] should be rejected")
	}
}

func TestUnsupportedFieldDegradesToString(t *testing.T) {
	type odd struct {
		Mode any
	}
	p, err := For[odd]()
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	got, err := p.Parse([]string{"--mode", "raw"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Mode != "raw" {
		t.Errorf("mode = %v, want string capture", got.Mode)
	}
}

func TestNumPyDialect(t *testing.T) {
	doc := `Summary.

Parameters
----------
text
    the document to analyze
`
	type plain struct {
		Text string `pos:"0"`
	}
	p, err := For[plain](WithDoc(doc), WithDialect(docfmt.DialectNumPy))
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if got := p.Group().ArgumentByName("text").Help; got != "the document to analyze" {
		t.Errorf("help = %q", got)
	}
}
