package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mgomes/logo/logo"
)

const indentUnit = "  "

type fmtMode int

const (
	fmtPrint fmtMode = iota
	fmtWrite
	fmtCheck
)

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("logo fmt: path required")
	}

	mode := fmtPrint
	switch {
	case *check:
		mode = fmtCheck
	case *write:
		mode = fmtWrite
	}

	files, err := collectLogoFiles(fs.Args())
	if err != nil {
		return err
	}

	var stale []string
	for _, path := range files {
		changed, err := formatFile(path, mode, os.Stdout)
		if err != nil {
			return err
		}
		if changed {
			stale = append(stale, path)
		}
	}

	if mode == fmtCheck && len(stale) > 0 {
		for _, path := range stale {
			fmt.Println(path)
		}
		return fmt.Errorf("logo fmt: %d file(s) need formatting", len(stale))
	}
	return nil
}

// formatFile formats one file according to mode and reports whether its
// contents differ from the formatted form.
func formatFile(path string, mode fmtMode, stdout io.Writer) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	formatted := formatLogoSource(string(data))
	changed := formatted != string(data)

	switch mode {
	case fmtPrint:
		if _, err := io.WriteString(stdout, formatted); err != nil {
			return changed, err
		}
	case fmtWrite:
		if !changed {
			break
		}
		info, err := os.Stat(path)
		if err != nil {
			return changed, fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return changed, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return changed, nil
}

// collectLogoFiles expands targets into the sorted, de-duplicated absolute
// paths of every .logo file they name or contain.
func collectLogoFiles(targets []string) ([]string, error) {
	var files []string
	for _, target := range targets {
		err := filepath.WalkDir(target, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || filepath.Ext(path) != ".logo" {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			files = append(files, abs)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("logo fmt: %w", err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// formatLogoSource re-indents each line by the depth of the brackets and
// procedure bodies open before it. Lines starting with ']' or 'end' are
// dedented to match their opener. Comments are kept as written.
func formatLogoSource(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	depth := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = ""
			continue
		}

		tokens, _ := logo.Tokenize(trimmed)
		leadingClosers := 0
		for _, tok := range tokens {
			if tok.Type.Nesting() >= 0 {
				break
			}
			leadingClosers++
		}
		lines[i] = strings.Repeat(indentUnit, max(depth-leadingClosers, 0)) + trimmed

		for _, tok := range tokens {
			depth = max(depth+tok.Type.Nesting(), 0)
		}
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n"
}
