package syntax

import "fmt"

// ParseError is a recoverable parse failure: an expected-X-found-Y
// style message anchored at a Range (spec.md §7 "Parse error"). Unlike
// Diagnostic, a ParseError is threaded as an explicit return value
// (Go's usual error-handling idiom) rather than left in the Stream's
// buffered-diagnostic list — it is the one thing a rollback frame must
// not silently swallow on its way back up when there is truly no
// alternative production left to try.
type ParseError struct {
	Range   Range
	Message string
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil parse error>"
	}
	return fmt.Sprintf("%s: %s", e.Range, e.Message)
}

func newError(r Range, format string, args ...any) *ParseError {
	return &ParseError{Range: r, Message: fmt.Sprintf(format, args...)}
}

// expectedError anchors a "expected X, found Y"-style message at the
// end of the stream's last-token memo when one exists (so that
// "expected X, found end-of-file" blames the end of real source text
// rather than some indeterminate later offset), falling back to the
// stream's current offset otherwise.
func expectedError(s *Stream, format string, args ...any) *ParseError {
	return newError(s.eofRange(), format, args...)
}
