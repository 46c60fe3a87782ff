// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prefs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/targslib/targs/pkg/targs"
)

// FromEnv overrides argument defaults from environment variables. An
// argument "scale" in group "output" under a root passed with prefix
// "IMGCONV" reads IMGCONV_OUTPUT_SCALE. Values are run through the
// argument's own coercion, so a malformed variable fails here rather
// than surfacing as a strange default later. Environment overrides are
// meant to be applied after a preferences file, matching the usual
// file-then-environment precedence.
func FromEnv(g *targs.Group, prefix string) error {
	for _, arg := range g.Arguments() {
		key := envKey(prefix, arg.Name)
		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if arg.Toggle {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("prefs: %s: not a boolean: %q", key, raw)
			}
			arg.Default = b
			continue
		}
		if arg.Type == nil {
			arg.Default = raw
			continue
		}
		v, err := arg.Type(raw)
		if err != nil {
			return fmt.Errorf("prefs: %s: %w", key, err)
		}
		arg.Default = v
	}
	for _, sub := range g.Groups() {
		if err := FromEnv(sub, envKey(prefix, sub.Name)); err != nil {
			return err
		}
	}
	return nil
}

func envKey(prefix, name string) string {
	name = strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
