package syntax

import (
	"fmt"
	"runtime"

	"github.com/orrery-lang/orrery/token"
	"github.com/pkg/errors"
)

// ErrInternal tags errors produced by internal-consistency failures
// (spec.md §7 "Internal: debugTick liveness violation — aborts
// compilation"), as opposed to ordinary recoverable compiler
// diagnostics. Wrapped with github.com/pkg/errors so a panic recovered
// at the top of ParseFile can report a stack trace.
var ErrInternal = errors.New("internal compiler error")

// defaultDebugTickLimit bounds how many times the same (offset,
// call-site) pair may be observed during one parse before Stream
// concludes the parser is stuck in an infinite loop and aborts. This is
// a tuning parameter (spec.md §9, Open Question iii); callers needing a
// different bound set it with SetDebugTickLimit, which ParseFile applies
// for the syntax.WithDebugTickLimit option (resolve.Project passes its
// own configured limit down that way).
const defaultDebugTickLimit = 100_000

// defaultMaxExprDepth bounds nested-expression recursion (spec.md §5:
// "Recursion depth is bounded by source bracket nesting; implementations
// should... enforce a depth limit with a clean error"). Adversarial
// input with thousands of nested parens or unary operators would
// otherwise recurse the Go call stack to a crash instead of a
// reportable parse error.
const defaultMaxExprDepth = 256

type tickKey struct {
	offset int
	pc     uintptr
}

// Stream is a cursor over a Source with speculative rollback, bounded
// lookahead, and a last-token memo (spec.md §4.1).
type Stream struct {
	src    *Source
	offset int

	lastToken    token.Token
	hasLastToken bool

	messages []Diagnostic
	frames   []*Frame

	tickCounts map[tickKey]int
	tickLimit  int

	exprDepth int
	maxDepth  int
}

// NewStream creates a Stream positioned at the start of src.
func NewStream(src *Source) *Stream {
	return &Stream{
		src:        src,
		tickCounts: make(map[tickKey]int),
		tickLimit:  defaultDebugTickLimit,
		maxDepth:   defaultMaxExprDepth,
	}
}

// SetDebugTickLimit overrides the liveness-check threshold (spec.md §9
// Open Question iii).
func (s *Stream) SetDebugTickLimit(n int) { s.tickLimit = n }

// SetMaxExprDepth overrides the expression-nesting bound enforced by
// EnterExpr (spec.md §5).
func (s *Stream) SetMaxExprDepth(n int) { s.maxDepth = n }

// EnterExpr records one more level of expression-parsing recursion,
// returning a ParseError instead of letting a pathologically nested
// input (deeply parenthesized, deeply negated, or a long right-leaning
// binary chain) recurse the Go call stack past its limit. Pair every
// call with a deferred ExitExpr.
func (s *Stream) EnterExpr() *ParseError {
	s.exprDepth++
	if s.exprDepth > s.maxDepth {
		r := NewRange(s.src, s.offset, s.offset)
		return newError(r, "Expression nested too deeply (limit %d)", s.maxDepth)
	}
	return nil
}

// ExitExpr undoes one EnterExpr.
func (s *Stream) ExitExpr() { s.exprDepth-- }

// Source returns the Source this Stream reads from.
func (s *Stream) Source() *Source { return s.src }

// Offset returns the current byte offset.
func (s *Stream) Offset() int { return s.offset }

// EOF reports whether the cursor is at or past the end of the source.
func (s *Stream) EOF() bool { return s.offset >= s.src.Len() }

// Peek returns the byte at the current offset without consuming it, or
// 0 at EOF.
func (s *Stream) Peek() byte { return s.src.At(s.offset) }

// PeekString returns the next n bytes without consuming them, or fewer
// if EOF is reached first.
func (s *Stream) PeekString(n int) string {
	return s.src.Slice(s.offset, s.offset+n)
}

// Next consumes and returns the byte at the current offset, advancing
// by one; returns 0 at EOF without advancing further.
func (s *Stream) Next() byte {
	if s.EOF() {
		return 0
	}
	c := s.src.At(s.offset)
	s.offset++
	return c
}

// Navigate seeks the cursor to offset directly. Used only by rollback.
func (s *Stream) Navigate(offset int) { s.offset = offset }

// LastToken returns the most recently pulled token and whether one has
// been pulled yet. Used to anchor "expected X, found EOF"-style errors
// at the end of the last real token instead of at EOF itself.
func (s *Stream) LastToken() (token.Token, bool) { return s.lastToken, s.hasLastToken }

// SetLastToken records tk as the last-token memo.
func (s *Stream) SetLastToken(tk token.Token) {
	s.lastToken = tk
	s.hasLastToken = true
}

// DebugTick is a liveness check: pulling the same (offset, call-site)
// pair too many times within one parse means a production is looping
// without making progress, which is a parser bug, not a user error. It
// panics with an ErrInternal-wrapped error when the threshold is
// exceeded; recover this only at the top of ParseFile.
func (s *Stream) DebugTick() {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	key := tickKey{offset: s.offset, pc: pc}
	s.tickCounts[key]++
	if s.tickCounts[key] > s.tickLimit {
		name := runtime.FuncForPC(pc).Name()
		panic(errors.Wrapf(ErrInternal,
			"debugTick: offset %d revisited more than %d times at %s (parser stuck?)",
			s.offset, s.tickLimit, name))
	}
}

// Messages returns the diagnostics currently committed (i.e. not
// discarded by an open or dropped rollback frame).
func (s *Stream) Messages() []Diagnostic {
	out := make([]Diagnostic, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Stream) record(sev Severity, r Range, msg string) {
	s.messages = append(s.messages, Diagnostic{Severity: sev, Range: r, Message: msg})
}

// Error buffers an error diagnostic at r. If called inside an open
// rollback frame that is ultimately dropped (not committed), the
// message never surfaces.
func (s *Stream) Error(r Range, format string, args ...any) {
	s.record(SeverityError, r, fmt.Sprintf(format, args...))
}

// Warn buffers a warning diagnostic at r.
func (s *Stream) Warn(r Range, format string, args ...any) {
	s.record(SeverityWarn, r, fmt.Sprintf(format, args...))
}

// Log buffers an informational diagnostic at r.
func (s *Stream) Log(r Range, format string, args ...any) {
	s.record(SeverityLog, r, fmt.Sprintf(format, args...))
}

// ErrorAtLastToken buffers an error anchored at the end of the
// last-token memo (or at the stream's current offset if no token has
// been pulled yet), which is how "expected X, found EOF" errors end up
// pointing at the right place (spec.md §4.3).
func (s *Stream) ErrorAtLastToken(format string, args ...any) {
	r := s.eofRange()
	s.Error(r, format, args...)
}

func (s *Stream) eofRange() Range {
	if tk, ok := s.LastToken(); ok {
		return NewRange(s.src, tk.End, tk.End)
	}
	return NewRange(s.src, s.offset, s.offset)
}

// Frame is a speculative-parse checkpoint (spec.md §4.1 "Rollback
// frame"). Open one at the start of any production that might need to
// back out; always pair it with `defer frame.Close()` so that any
// return path without an explicit Commit restores the stream.
type Frame struct {
	stream    *Stream
	offset    int
	msgStart  int
	lastToken token.Token
	hasLast   bool
	committed bool
	closed    bool
}

// Open begins a new rollback frame at the stream's current position.
// Frames nest strictly: the frame returned must be closed (via Commit
// or Close) before its parent is closed.
func (s *Stream) Open() *Frame {
	f := &Frame{stream: s, offset: s.offset, msgStart: len(s.messages), lastToken: s.lastToken, hasLast: s.hasLastToken}
	s.frames = append(s.frames, f)
	return f
}

// Commit finalizes the frame: its buffered diagnostics are kept
// (promoted to the parent scope, which for a flat message buffer means
// simply not discarding them) and the stream position is left wherever
// parsing advanced it to.
func (f *Frame) Commit() {
	if f.closed {
		return
	}
	f.committed = true
	f.pop()
}

// ClearMessages discards diagnostics buffered since the frame was
// opened but keeps the current stream position — used by speculative
// lookahead (Token.Peek) that wants to try a parse, inspect whether it
// succeeded, and suppress any errors it generated either way, while
// still relying on Close (not Commit) to roll the cursor back.
func (f *Frame) ClearMessages() {
	f.stream.messages = f.stream.messages[:f.msgStart]
}

// Close is the implicit-drop fallback: if the frame was not committed,
// the stream's cursor and last-token memo are restored to what they
// were at Open, and any diagnostics buffered since are discarded. Safe
// to call more than once and safe to call after Commit (no-op then).
// Intended to be deferred immediately after Open.
func (f *Frame) Close() {
	if f.closed {
		return
	}
	if !f.committed {
		f.stream.offset = f.offset
		f.stream.messages = f.stream.messages[:f.msgStart]
		f.stream.lastToken, f.stream.hasLastToken = f.lastToken, f.hasLast
	}
	f.pop()
}

func (f *Frame) pop() {
	f.closed = true
	s := f.stream
	if n := len(s.frames); n > 0 && s.frames[n-1] == f {
		s.frames = s.frames[:n-1]
	}
}
