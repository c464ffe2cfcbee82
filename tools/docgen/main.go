// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

// docgen reads docs/commands/*.md and generates:
//   - docs/man/share/man1/famo-<cmd>.1 via md2man (full markdown)
//   - docs/tldr/famo-<cmd>.md from the short description and quick examples
//
// cache.md documents the root command, invoked as plain `famo`.

const rootDoc = "cache"

func main() {
	var (
		repoRoot      string
		onlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&onlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	n, err := generate(repoRoot, onlyIfChanged)
	if err != nil {
		fatalf("%v", err)
	}
	if n == 0 {
		fatalf("no command markdown found under %s", filepath.Join(repoRoot, "docs", "commands"))
	}
}

// generate renders every command doc and returns how many it processed.
func generate(repoRoot string, onlyIfChanged bool) (int, error) {
	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output dir: %w", err)
		}
	}

	entries, err := os.ReadDir(commandsDir)
	if err != nil {
		return 0, fmt.Errorf("reading commands dir %s: %w", commandsDir, err)
	}

	var processed int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		cmd := strings.TrimSuffix(e.Name(), ".md")
		raw, err := os.ReadFile(filepath.Join(commandsDir, e.Name()))
		if err != nil {
			return processed, err
		}

		manPath := filepath.Join(manOutDir, fmt.Sprintf("famo-%s.1", cmd))
		if err := writeFileIfChanged(manPath, md2man.Render(raw), onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing man page for %s: %w", cmd, err)
		}

		doc := parseDoc(string(raw))
		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("famo-%s.md", cmd))
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(cmd, doc)), onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing TLDR for %s: %w", cmd, err)
		}

		processed++
	}
	return processed, nil
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, content []byte, onlyIfChanged bool) error {
	if onlyIfChanged {
		old, err := os.ReadFile(path)
		if err == nil && bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)) {
			return nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}

type example struct {
	Desc string
	Cmd  string
}

type doc struct {
	Title    string
	Short    string
	Examples []example
}

var (
	h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	h2Re = regexp.MustCompile(`(?m)^##\s+(.+)$`)
)

// parseDoc pulls the title, the first paragraph of "## Short description"
// and the comment/command pairs of the first fenced block under
// "## Quick examples".
func parseDoc(md string) doc {
	var d doc
	if m := h1Re.FindStringSubmatch(md); m != nil {
		d.Title = strings.TrimSpace(m[1])
	}

	sections := map[string]string{}
	locs := h2Re.FindAllStringSubmatchIndex(md, -1)
	for i, loc := range locs {
		end := len(md)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		name := strings.ToLower(strings.TrimSpace(md[loc[2]:loc[3]]))
		sections[name] = md[loc[1]:end]
	}

	d.Short = firstParagraph(sections["short description"])
	if d.Short == "" && d.Title != "" {
		d.Short = d.Title + "."
	}
	d.Examples = examples(sections["quick examples"])
	return d
}

func firstParagraph(s string) string {
	var parts []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, ln)
	}
	return strings.Join(parts, " ")
}

func examples(s string) []example {
	const fence = "```"
	start := strings.Index(s, fence)
	if start < 0 {
		return nil
	}
	s = s[start+len(fence):]
	// Skip the info string, e.g. ```sh.
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	}
	end := strings.Index(s, fence)
	if end < 0 {
		return nil
	}

	var exs []example
	desc := ""
	for _, ln := range strings.Split(s[:end], "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
		case strings.HasPrefix(ln, "#"):
			desc = strings.TrimSpace(strings.TrimLeft(ln, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{Desc: desc, Cmd: strings.Join(strings.Fields(ln), " ")})
			desc = ""
		}
	}
	return exs
}

// invocation is how cmd is typed on the command line.
func invocation(cmd string) string {
	if cmd == rootDoc {
		return "famo"
	}
	return "famo " + cmd
}

func buildTLDR(cmd string, d doc) string {
	var b strings.Builder
	b.WriteString("# famo-" + cmd + "\n\n")
	if d.Short != "" {
		b.WriteString("> " + d.Short + "\n")
	} else {
		b.WriteString("> " + invocation(cmd) + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/famo.\n\n")

	exs := d.Examples
	if len(exs) == 0 {
		exs = []example{{Desc: "Show help for the command", Cmd: invocation(cmd) + " --help"}}
	}
	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.Desc + ":\n\n")
		b.WriteString("`" + ex.Cmd + "`\n")
	}
	return b.String()
}
