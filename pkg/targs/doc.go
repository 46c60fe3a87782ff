// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package targs turns a declarative tree of arguments and groups into a
// working command-line parser backed by spf13/pflag, and reshapes the flat
// parse result into a namespace tree that mirrors the declared structure.
//
// The two building blocks are Argument (one expected value, either a
// --option or a positional) and Group (an ordered collection of arguments
// and nested groups). A nested group is entered when its name appears as a
// token, so a command line interleaves group names with each group's own
// flags and positionals:
//
//	input := targs.NewGroup("input").
//	    AddArgument(&targs.Argument{Name: "format", Default: "png"})
//	output := targs.NewGroup("output").
//	    AddArgument(&targs.Argument{Name: "format", Default: "jpeg"})
//
//	converter := targs.NewGroup("converter").
//	    AddArgument(&targs.Argument{Name: "verbose", Toggle: true}).
//	    AddGroup(input).
//	    AddGroup(output)
//
//	ns, err := converter.Parse([]string{
//	    "--verbose", "input", "output", "--format", "gif",
//	})
//	// ns.GetBool("verbose") == true
//	// ns.Sub("output").GetString("format") == "gif"
//
// Groups nest sequentially (AddGroup, AddOptionalGroup) or as a mutually
// exclusive branch set selected by a discriminator token (AddBranches).
// A group may define a Produce hook that post-processes its assembled
// namespace; hooks run bottom-up, so a parent can read attributes the
// children already produced.
//
// Parsing never calls os.Exit. Parse returns the namespace or a typed
// error: *UsageError for bad input, *HelpRequested (matching ErrHelp) when
// a help flag was seen, and *ActionTaken when a terminal action fired.
// ParseArgs maps those outcomes onto the conventional process behavior for
// command-line tools.
package targs
