package resolve

import (
	"log/slog"
	"path/filepath"

	"github.com/orrery-lang/orrery/syntax"
	"github.com/pkg/errors"
	deadlock "github.com/sasha-s/go-deadlock"
)

// SrcFile is the file-system collaborator a Project asks to load an
// imported path (spec.md §5 "External Interfaces"). Kept as an
// interface, not a concrete path-joining helper, so an embedder can
// serve sources from anywhere — disk, a bundle, an in-memory test
// fixture.
type SrcFile interface {
	// Read returns the contents of the source named by a path already
	// resolved relative to searchDir (see ResolveImportPath).
	Read(path string) (text string, err error)
}

// cacheState is what Project.cache stores per parsed-file path. A file
// is either being parsed right now (inProgress, used to detect import
// cycles without deadlocking), fully parsed (done), or not yet seen.
type cacheState struct {
	inProgress bool
	src        *ParsedSrc
}

// Project owns every source parsed during one compilation: the shared
// root Namespace entities resolve against and the parsed-file cache
// that makes cyclic and diamond imports safe. Diagnostics are not
// collected here; each file's are returned on its ParsedSrc.
//
// The parsed-file cache is guarded by a deadlock-detecting mutex
// rather than a plain sync.Mutex: cross-file import resolution
// recurses back into Project.Load while already holding state about
// the caller's own in-progress file, which is exactly the shape of bug
// go-deadlock is meant to catch early in development rather than as a
// silent hang in production.
type Project struct {
	mu    deadlock.Mutex
	cache map[string]*cacheState

	root *Namespace

	logger *slog.Logger

	debugTickLimit int
	recursionLimit int

	srcFile SrcFile
}

// Option configures a Project, following the functional-options shape
// used throughout this codebase's ambient configuration (mirrors
// log.Make(w, opts...) in the broader example corpus).
type Option func(*Project)

// WithLogger overrides the Project's slog.Logger. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Project) { p.logger = l }
}

// WithDebugTickLimit overrides the liveness-check threshold every
// Stream created under this Project uses (spec.md §9 Open Question
// iii). The default is 100000. The value is threaded down to
// syntax.ParseFile as a syntax.WithDebugTickLimit option each time
// parseAndResolve parses a file, since syntax cannot import resolve to
// read a Project field directly.
func WithDebugTickLimit(n int) Option {
	return func(p *Project) { p.debugTickLimit = n }
}

// WithRecursionLimit bounds the parser's expression-nesting depth
// (spec.md §5 design note on enforcing a depth limit against stack
// overflow on adversarial input). The default is 256. Like
// WithDebugTickLimit, the value is threaded to syntax.ParseFile as a
// syntax.WithMaxExprDepth option rather than read back from syntax,
// since syntax must never import resolve.
func WithRecursionLimit(n int) Option {
	return func(p *Project) { p.recursionLimit = n }
}

// WithSrcFile supplies the collaborator Project.Load uses to read
// imported files from outside the in-memory sources handed to
// Project.Parse directly.
func WithSrcFile(f SrcFile) Option {
	return func(p *Project) { p.srcFile = f }
}

// NewProject creates an empty Project ready to parse and resolve files.
func NewProject(opts ...Option) *Project {
	p := &Project{
		cache:          make(map[string]*cacheState),
		root:           NewNamespace(true, nil, nil),
		logger:         slog.Default(),
		debugTickLimit: 100_000,
		recursionLimit: 256,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the project-wide global namespace that every file's
// top-level scope is nested under.
func (p *Project) Root() *Namespace { return p.root }

// RecursionLimit returns the configured expression-nesting bound.
func (p *Project) RecursionLimit() int { return p.recursionLimit }

// ParsedSrc is the semantic-analysis result of one source file: its
// AST plus the set of entities it chose to export (spec.md §4.5,
// grounded on AST.cpp's ExportExpr/ImportExpr pair and the
// SrcFile::from + UnitParser::parse collaboration they describe).
type ParsedSrc struct {
	File     *syntax.File
	Scope    *Namespace
	exported map[string]Entity

	Diagnostics []syntax.Diagnostic
}

// addExported records name as visible to importers of this file. A
// second export under the same name is a caller bug (the resolver
// checks for this before calling addExported) and panics rather than
// silently shadowing, since ParsedSrc.exported has no "last one wins"
// semantics to fall back on.
func (ps *ParsedSrc) addExported(name string, e Entity) {
	if ps.exported == nil {
		ps.exported = make(map[string]Entity)
	}
	if _, dup := ps.exported[name]; dup {
		panic(errors.Errorf("addExported: %q already exported", name))
	}
	ps.exported[name] = e
}

// GetExported returns the entity name exports from this file, if any.
func (ps *ParsedSrc) GetExported(name string) (Entity, bool) {
	e, ok := ps.exported[name]
	return e, ok
}

// AllExported returns every entity this file exports, keyed by name.
func (ps *ParsedSrc) AllExported() map[string]Entity {
	out := make(map[string]Entity, len(ps.exported))
	for k, v := range ps.exported {
		out[k] = v
	}
	return out
}

// ResolveImportPath joins an import's `from "path"` literal against
// the importing file's search directory the way AST.cpp's ImportExpr
// does: relative to the file doing the importing, not the process's
// working directory.
func ResolveImportPath(searchDir, from string) string {
	if filepath.IsAbs(from) {
		return filepath.Clean(from)
	}
	return filepath.Clean(filepath.Join(searchDir, from))
}

// Load parses and resolves the file at path (first consulting the
// cache), returning its ParsedSrc. A path currently mid-parse (an
// import cycle) neither deadlocks nor recurses: Load returns a nil
// error and an empty, non-nil ParsedSrc for it. Exports the in-progress
// file has already made are not included, since its own ParsedSrc is
// only cached once its parse finishes.
func (p *Project) Load(path string) (*ParsedSrc, error) {
	p.mu.Lock()
	if st, ok := p.cache[path]; ok {
		defer func() {}()
		if st.inProgress {
			p.mu.Unlock()
			// Cyclic import: st.src is nil until the in-progress
			// parse has finished, so the importer closing the cycle
			// sees an empty, but non-nil, ParsedSrc.
			if st.src == nil {
				return &ParsedSrc{exported: make(map[string]Entity)}, nil
			}
			return st.src, nil
		}
		p.mu.Unlock()
		return st.src, nil
	}
	st := &cacheState{inProgress: true}
	p.cache[path] = st
	p.mu.Unlock()

	text, err := p.readSrc(path)
	if err != nil {
		p.mu.Lock()
		delete(p.cache, path)
		p.mu.Unlock()
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	src := syntax.NewSource(path, text, filepath.Dir(path))
	ps, diags := p.parseAndResolve(src)

	p.mu.Lock()
	st.src = ps
	st.inProgress = false
	p.mu.Unlock()

	if len(diags) > 0 {
		p.logger.Debug("parsed with diagnostics", "path", path, "count", len(diags))
	}
	return ps, nil
}

func (p *Project) readSrc(path string) (string, error) {
	if p.srcFile == nil {
		return "", errors.Errorf("no SrcFile configured to load %q", path)
	}
	return p.srcFile.Read(path)
}

// Parse resolves already-in-memory source text without touching the
// SrcFile collaborator or the path cache, for embedders that already
// have file contents in hand (e.g. a REPL, or a test fixture).
func (p *Project) Parse(name, text, searchDir string) (*ParsedSrc, []syntax.Diagnostic) {
	src := syntax.NewSource(name, text, searchDir)
	return p.parseAndResolve(src)
}
