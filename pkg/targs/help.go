// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package targs

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// Help renders the group's help screen without parsing anything.
func (g *Group) Help() (string, error) {
	c, err := g.Compile()
	if err != nil {
		return "", err
	}
	return c.root.helpText(helpWidth()), nil
}

// helpWidth returns the terminal width for wrapping flag usages, or 0
// (no wrapping) when stdout is not a terminal.
func helpWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

// helpText renders one level's help screen: description, usage line,
// positionals, nested groups with a one-line summary each, then the
// option usages from pflag.
func (c *compiled) helpText(width int) string {
	var b strings.Builder
	g := c.group
	if g.Description != "" {
		b.WriteString(g.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("Usage:\n  ")
	b.WriteString(usageLine(g))
	b.WriteString("\n")

	if len(c.positionals) > 0 {
		b.WriteString("\nArguments:\n")
		tw := tabwriter.NewWriter(&b, 0, 4, 3, ' ', 0)
		for _, a := range c.positionals {
			fmt.Fprintf(tw, "  %s\t%s\n", positionalSpelling(a), a.Help)
		}
		tw.Flush()
	}

	if len(c.subs) > 0 {
		b.WriteString("\nCommands:\n")
		tw := tabwriter.NewWriter(&b, 0, 4, 3, ' ', 0)
		for _, sub := range c.subs {
			if sub.branches {
				for _, m := range sub.members {
					fmt.Fprintf(tw, "  %s\t%s\n", m.name, summarize(m.comp))
				}
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\n", sub.name, summarize(sub.comp))
		}
		tw.Flush()
	}

	b.WriteString("\nFlags:\n")
	if usages := c.flags.FlagUsagesWrapped(width); strings.TrimSpace(usages) != "" {
		b.WriteString(usages)
	}
	for _, a := range c.args {
		if a.Action != nil {
			fmt.Fprintf(&b, "      --%s   %s\n", a.Name, a.Help)
		}
	}
	b.WriteString("  -h, --help   show this help and exit\n")

	if g.Epilog != "" {
		b.WriteString("\n")
		b.WriteString(g.Epilog)
		b.WriteString("\n")
	}
	return b.String()
}

// summarize produces a nested group's one-line summary: the first line of
// its description, or the names it accepts when it has none.
func summarize(c *compiled) string {
	if d := c.group.Description; d != "" {
		if nl := strings.IndexByte(d, '\n'); nl >= 0 {
			return d[:nl]
		}
		return d
	}
	names := make([]string, 0, len(c.args)+len(c.subs))
	for _, a := range c.args {
		names = append(names, a.Name)
	}
	for _, sub := range c.subs {
		if sub.branches {
			for _, m := range sub.members {
				names = append(names, m.name)
			}
			continue
		}
		names = append(names, sub.name)
	}
	if len(names) == 0 {
		return ""
	}
	return "Accepts: " + strings.Join(names, ", ")
}

// usageLine builds the one-line synopsis from the declarative template,
// without compiling it, so usage errors can render it even when the tree
// never compiled.
func usageLine(g *Group) string {
	parts, hasFlags := usageParts(g)
	line := g.Name
	if hasFlags {
		line += " [flags]"
	}
	if len(parts) > 0 {
		line += " " + strings.Join(parts, " ")
	}
	return line
}

func usageParts(g *Group) (parts []string, hasFlags bool) {
	for _, ch := range g.children {
		switch ch.kind {
		case childArgument:
			if !ch.arg.Positional {
				hasFlags = true
				continue
			}
			parts = append(parts, positionalUsage(ch.arg))
		case childGroup:
			if ch.group.Lift {
				sub, subFlags := usageParts(ch.group)
				parts = append(parts, sub...)
				hasFlags = hasFlags || subFlags
				continue
			}
			spell := ch.group.Name + " ..."
			if ch.optional {
				spell = "[" + spell + "]"
			}
			parts = append(parts, spell)
		case childBranches:
			names := make([]string, len(ch.branches))
			for i, m := range ch.branches {
				names[i] = m.Name
			}
			spell := "{" + strings.Join(names, "|") + "} ..."
			if ch.optional {
				spell = "[" + spell + "]"
			}
			parts = append(parts, spell)
		}
	}
	return parts, hasFlags
}

func positionalUsage(a *Argument) string {
	spell := positionalSpelling(a)
	if a.required() {
		return "<" + spell + ">"
	}
	return "[" + spell + "]"
}

func positionalSpelling(a *Argument) string {
	if a.multi() {
		return a.Name + "..."
	}
	return a.Name
}
