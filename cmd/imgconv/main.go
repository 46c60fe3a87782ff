// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command imgconv converts images between formats. It exists mostly as a
// worked example of a nested argument tree: a root group with global
// flags and two sequential sub-groups, one per side of the conversion.
//
// Usage:
//
//	imgconv [--verbose] input <path> [--format F] output [path] [--format F] [--scale N]
//
// Defaults can be overridden by a TOML or YAML preferences file named in
// the IMGCONV_PREFS environment variable.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/targslib/targs/pkg/argtypes"
	"github.com/targslib/targs/pkg/prefs"
	"github.com/targslib/targs/pkg/targs"
)

const version = "0.3.1"

var formats = []string{"png", "gif", "jpeg", "webp"}

func main() {
	root := buildRoot()

	if path := os.Getenv("IMGCONV_PREFS"); path != "" {
		d, err := prefs.Load(path)
		if err != nil {
			fatalf("loading preferences: %v", err)
		}
		if err := prefs.Apply(root, d); err != nil {
			fatalf("applying preferences: %v", err)
		}
	}
	if err := prefs.FromEnv(root, "IMGCONV"); err != nil {
		fatalf("%v", err)
	}

	run(root.ParseArgs(nil))
}

func buildRoot() *targs.Group {
	input := targs.NewGroup("input").
		AddArgument(&targs.Argument{
			Name:       "path",
			Positional: true,
			Type:       argtypes.ExistingFile,
			Help:       "file to read",
		}).
		AddArgument(&targs.Argument{
			Name:    "format",
			Choices: formats,
			Help:    "source format, deduced from the extension when omitted",
		})
	input.Produce = func(ns *targs.Namespace, _ *targs.Leftover) (*targs.Namespace, error) {
		if ns.Get("format") == nil {
			ext := strings.TrimPrefix(filepath.Ext(ns.GetString("path")), ".")
			if ext == "jpg" {
				ext = "jpeg"
			}
			for _, f := range formats {
				if f == ext {
					ns.Set("format", f)
					return ns, nil
				}
			}
			return nil, fmt.Errorf("cannot deduce the format of %q, pass --format", ns.GetString("path"))
		}
		return ns, nil
	}

	output := targs.NewGroup("output").
		AddArgument(&targs.Argument{
			Name:       "path",
			Positional: true,
			Optional:   true,
			Help:       "file to write, source path with the new extension when omitted",
		}).
		AddArgument(&targs.Argument{
			Name:    "format",
			Choices: formats,
			Default: "png",
			Help:    "target format",
		}).
		AddArgument(&targs.Argument{
			Name:    "scale",
			Type:    argtypes.PositiveInt,
			Default: 100,
			Help:    "output size as a percentage of the input",
		})

	root := targs.NewGroup("imgconv").
		AddArgument(targs.Flag("verbose", "print progress")).
		AddArgument(&targs.Argument{
			Name: "version",
			Help: "print the version and exit",
			Action: func(*targs.Namespace) int {
				fmt.Println("imgconv " + version)
				return 0
			},
		}).
		AddGroup(input).
		AddGroup(output)
	root.Description = "Convert images between formats."
	return root
}

func run(ns *targs.Namespace) {
	in, out := ns.Sub("input"), ns.Sub("output")

	target := out.GetString("path")
	if target == "" {
		src := in.GetString("path")
		target = strings.TrimSuffix(src, filepath.Ext(src)) + "." + out.GetString("format")
	}

	if ns.GetBool("verbose") {
		fmt.Printf("reading %s (%s)\n", in.GetString("path"), in.GetString("format"))
		fmt.Printf("writing %s (%s, %d%%)\n", target, out.GetString("format"), out.GetInt("scale"))
	}

	if err := convert(in.GetString("path"), target, out.GetString("format"), out.GetInt("scale")); err != nil {
		fatalf("%v", err)
	}
	fmt.Println(target)
}

// convert is a stand-in pipeline: it copies the bytes through so the
// command is end-to-end runnable. Decoding and re-encoding belong to a
// followup once the format matrix settles.
func convert(src, dst, format string, scale int) error {
	if scale <= 0 || scale > 1000 {
		return fmt.Errorf("scale %d%% out of range", scale)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	_ = format
	return os.WriteFile(dst, data, 0o644)
}

func fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		color.New(color.FgRed).Fprintln(os.Stderr, "imgconv: "+msg)
	} else {
		fmt.Fprintln(os.Stderr, "imgconv: "+msg)
	}
	os.Exit(1)
}
