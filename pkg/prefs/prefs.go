// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prefs loads argument defaults from preference files. A
// preferences document mirrors the group tree: scalar entries override
// argument defaults, tables/mappings descend into nested groups.
// TOML and YAML files are recognized by extension.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/targslib/targs/pkg/targs"
)

// Defaults is a decoded preferences document.
type Defaults map[string]any

// Load reads a preferences file, picking the decoder by extension
// (.toml, .yaml, .yml).
func Load(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return decodeTOML(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	}
	return nil, fmt.Errorf("prefs: unsupported file type %q", filepath.Ext(path))
}

func decodeTOML(data []byte) (Defaults, error) {
	var d Defaults
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}
	return d, nil
}

func decodeYAML(data []byte) (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("prefs: %w", err)
	}
	return d, nil
}

// Apply overrides the defaults of g's arguments in place with the values
// from d. A mapping value descends into the same-named nested group.
// Entries naming nothing in the tree are an error, so typos in a
// preferences file do not silently vanish.
func Apply(g *targs.Group, d Defaults) error {
	for key, value := range d {
		if sub := g.GroupByName(key); sub != nil {
			nested, err := asDefaults(value)
			if err != nil {
				return fmt.Errorf("prefs: %s: %w", key, err)
			}
			if err := Apply(sub, nested); err != nil {
				return err
			}
			continue
		}
		arg := g.ArgumentByName(key)
		if arg == nil {
			return fmt.Errorf("prefs: no argument or group named %q in %q", key, g.Name)
		}
		arg.Default = normalize(value)
	}
	return nil
}

// asDefaults converts a decoded mapping value. YAML decodes nested
// mappings as map[string]any already; TOML does too, but guard against
// scalars where a table was expected.
func asDefaults(v any) (Defaults, error) {
	switch m := v.(type) {
	case map[string]any:
		return Defaults(m), nil
	case Defaults:
		return m, nil
	}
	return nil, fmt.Errorf("expected a table for a nested group, got %T", v)
}

// normalize aligns decoder output with parser value conventions: TOML
// integers arrive as int64, but coerced command-line integers are int,
// and defaults should compare equal to parsed values.
func normalize(v any) any {
	switch n := v.(type) {
	case int64:
		return int(n)
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}
