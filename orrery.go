// Package orrery is the top-level facade over the language frontend:
// tokenizing, parsing, and two-pass semantic analysis live in the
// token, syntax, and resolve packages respectively; this package wires
// a default filesystem-backed resolve.SrcFile onto a resolve.Project
// so callers with source files on disk don't have to write their own.
package orrery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/orrery-lang/orrery/resolve"
	"github.com/orrery-lang/orrery/syntax"
	"github.com/pkg/errors"
)

// DirSrcFile loads imported sources from beneath Root on the local
// filesystem, implementing resolve.SrcFile (spec.md §5 "External
// Interfaces"). It refuses to read a path that would land outside
// Root once cleaned, since an import path comes from source text an
// attacker-controlled file might contain.
type DirSrcFile struct {
	Root string
}

// Read implements resolve.SrcFile.
func (d DirSrcFile) Read(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %q", path)
	}
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return "", errors.Wrapf(err, "resolving root %q", d.Root)
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", errors.Errorf("import path %q escapes project root %q", path, d.Root)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return "", errors.Wrapf(err, "reading %q", path)
	}
	return string(b), nil
}

// NewFileProject creates a Project that resolves relative imports
// against files on disk beneath root, in addition to whatever other
// Options the caller supplies.
func NewFileProject(root string, opts ...resolve.Option) *resolve.Project {
	allOpts := append([]resolve.Option{resolve.WithSrcFile(DirSrcFile{Root: root})}, opts...)
	return resolve.NewProject(allOpts...)
}

// ParseFile loads and resolves the file at path under root, the
// one-call entry point for a caller that just wants a single file's
// result without managing a Project across multiple files itself.
func ParseFile(root, path string, opts ...resolve.Option) (*resolve.ParsedSrc, error) {
	proj := NewFileProject(root, opts...)
	return proj.Load(path)
}

// ParseString resolves in-memory source text under name, with no
// filesystem access at all — the entry point for embedders (a REPL, a
// test, a playground) that already have the text in hand.
func ParseString(name, text string, opts ...resolve.Option) (*resolve.ParsedSrc, []syntax.Diagnostic) {
	proj := resolve.NewProject(opts...)
	return proj.Parse(name, text, filepath.Dir(name))
}
