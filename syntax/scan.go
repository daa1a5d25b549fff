package syntax

import (
	"strconv"

	"github.com/orrery-lang/orrery/token"
)

// SkipToNext alternately consumes whitespace and comments until neither
// remains (spec.md §4.2). Comments are `// … newline` and `/* … */`,
// not nested — mirroring the original tokenizer's note that you can't
// write this as `for stream.next() != '*' || stream.next() != '/'`
// because that double-advance skips over the second `*` of `**/`.
func SkipToNext(s *Stream) {
	for {
		s.DebugTick()
		for isWhitespace(s.Peek()) {
			s.Next()
		}
		switch {
		case s.PeekString(2) == "//":
			for !s.EOF() && s.Next() != '\n' {
			}
		case s.PeekString(2) == "/*":
			s.Next()
			s.Next()
			for {
				if s.EOF() {
					break
				}
				if s.Next() == '*' && s.Peek() == '/' {
					s.Next()
					break
				}
			}
		default:
			return
		}
	}
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// PullToken is the canonical tokenizer (spec.md §4.2), applied after
// SkipToNext. It opens its own rollback frame purely to make failure
// paths free of side effects on the stream's last-token memo; on
// success it always commits and records the last-token memo.
func PullToken(s *Stream) (token.Token, *ParseError) {
	SkipToNext(s)

	fr := s.Open()
	defer fr.Close()

	s.DebugTick()
	if s.EOF() {
		return token.Token{}, expectedError(s, "Expected token, found end-of-file")
	}

	start := s.Offset()

	// String literal.
	if s.Peek() == '"' {
		s.Next()
		var lit []byte
		for {
			s.DebugTick()
			if s.EOF() {
				return token.Token{}, newError(NewRange(s.src, start, s.Offset()), "Unterminated string literal")
			}
			c := s.Next()
			if c == '"' {
				break
			}
			if c != '\\' {
				lit = append(lit, c)
				continue
			}
			if s.EOF() {
				return token.Token{}, newError(NewRange(s.src, start, s.Offset()), "Expected escaped character, found end-of-file")
			}
			escOffset := s.Offset()
			esc := s.Next()
			switch esc {
			case 'n':
				lit = append(lit, '\n')
			case 'r':
				lit = append(lit, '\r')
			case 't':
				lit = append(lit, '\t')
			case '"':
				lit = append(lit, '"')
			case '\'':
				lit = append(lit, '\'')
			case '\\':
				lit = append(lit, '\\')
			case '{':
				// Reserved for the unimplemented string-interpolation
				// feature (spec.md §1 Non-goals); today it just means a
				// literal '{'.
				lit = append(lit, '{')
			default:
				s.Warn(NewRange(s.src, escOffset-1, escOffset+1), "Unknown escape sequence '\\%c'", esc)
				lit = append(lit, esc)
			}
		}
		tk := token.Token{
			Kind: token.Literal, LitKind: token.String, Text: string(lit),
			Raw: s.src.Slice(start, s.Offset()), Start: start, End: s.Offset(),
		}
		return finishToken(s, fr, tk)
	}

	// Number literal. Hex is explicitly unsupported (spec.md §1, §9
	// Open Question ii): a leading zero followed by 'x' just lexes as
	// Int(0) followed by an identifier, which the parser then rejects.
	if isDigit(s.Peek()) {
		foundDot := false
		for {
			s.DebugTick()
			c := s.Peek()
			if isDigit(c) {
				s.Next()
				continue
			}
			if c == '.' && !foundDot {
				foundDot = true
				s.Next()
				continue
			}
			break
		}
		raw := s.src.Slice(start, s.Offset())
		if foundDot {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return token.Token{}, newError(NewRange(s.src, start, s.Offset()), "Invalid float literal %q", raw)
			}
			tk := token.Token{Kind: token.Literal, LitKind: token.Float, FloatVal: f, Raw: raw, Start: start, End: s.Offset()}
			return finishToken(s, fr, tk)
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return token.Token{}, newError(NewRange(s.src, start, s.Offset()), "Invalid integer literal %q", raw)
		}
		tk := token.Token{Kind: token.Literal, LitKind: token.Int, IntVal: n, Raw: raw, Start: start, End: s.Offset()}
		return finishToken(s, fr, tk)
	}

	// Identifier / keyword: maximal run of isIdentCh.
	if token.IsIdentChar(s.Peek()) {
		for token.IsIdentChar(s.Peek()) {
			s.Next()
		}
		raw := s.src.Slice(start, s.Offset())

		if len(raw) > 0 && isDigit(raw[0]) {
			return token.Token{}, newError(NewRange(s.src, start, s.Offset()), "Identifier %q may not begin with a digit", raw)
		}

		switch raw {
		case "true":
			return finishToken(s, fr, token.Token{Kind: token.Literal, LitKind: token.Bool, BoolVal: true, Raw: raw, Start: start, End: s.Offset()})
		case "false":
			return finishToken(s, fr, token.Token{Kind: token.Literal, LitKind: token.Bool, BoolVal: false, Raw: raw, Start: start, End: s.Offset()})
		case "void":
			return finishToken(s, fr, token.Token{Kind: token.Literal, LitKind: token.Void, Raw: raw, Start: start, End: s.Offset()})
		}
		if kw, ok := token.LookupKeyword(raw); ok {
			return finishToken(s, fr, token.Token{Kind: token.KeywordKind, KeywordVal: kw, Raw: raw, Start: start, End: s.Offset()})
		}
		return finishToken(s, fr, token.Token{Kind: token.Identifier, Text: raw, Raw: raw, Start: start, End: s.Offset()})
	}

	// Operator: maximal run of operator-table characters.
	if token.IsOpChar(s.Peek()) {
		for token.IsOpChar(s.Peek()) {
			s.Next()
		}
		raw := s.src.Slice(start, s.Offset())
		if op, ok := token.LookupOp(raw); ok {
			return finishToken(s, fr, token.Token{Kind: token.Operator, OpVal: op, Raw: raw, Start: start, End: s.Offset()})
		}
		// A lone character that is both an operator char and punctuation
		// (':') and forms no operator on its own is punctuation.
		if len(raw) == 1 && token.IsPunctChar(raw[0]) {
			return finishToken(s, fr, token.Token{Kind: token.Punct, PunctVal: raw[0], Raw: raw, Start: start, End: s.Offset()})
		}
		return token.Token{}, newError(NewRange(s.src, start, s.Offset()), "Invalid operator %q", raw)
	}

	// Punctuation: a single character, not a maximal run.
	if token.IsPunctChar(s.Peek()) {
		c := s.Next()
		return finishToken(s, fr, token.Token{Kind: token.Punct, PunctVal: c, Raw: string(c), Start: start, End: s.Offset()})
	}

	c := s.Next()
	return token.Token{}, newError(NewRange(s.src, start, s.Offset()), "Invalid character %q", string(c))
}

func finishToken(s *Stream, fr *Frame, tk token.Token) (token.Token, *ParseError) {
	fr.Commit()
	s.SetLastToken(tk)
	return tk, nil
}

// PeekAt returns the byte n bytes ahead of the current offset (0 means
// the current byte, i.e. equivalent to Peek), without consuming.
func (s *Stream) PeekAt(n int) byte { return s.src.At(s.offset + n) }

// PeekToken returns the (n+1)-th upcoming token without consuming any
// of them, or ok=false at EOF. Implemented via rollback exactly as the
// original Token::peek: pull n+1 tokens speculatively, discard any
// diagnostics they produced (a lookahead must never spam errors), then
// restore the cursor via the frame's implicit drop.
func PeekToken(s *Stream, n int) (token.Token, bool) {
	fr := s.Open()
	defer fr.Close()

	var tk token.Token
	for i := 0; i <= n; i++ {
		t, err := PullToken(s)
		if err != nil {
			fr.ClearMessages()
			return token.Token{}, false
		}
		tk = t
	}
	fr.ClearMessages()
	return tk, true
}

// DrawKeyword consumes the next token if it is the keyword kw, else
// leaves the stream unchanged (spec.md §4.2 "Token::draw").
func DrawKeyword(s *Stream, kw token.Keyword) bool {
	fr := s.Open()
	defer fr.Close()
	tk, err := PullToken(s)
	if err != nil || tk.Kind != token.KeywordKind || tk.KeywordVal != kw {
		fr.ClearMessages()
		return false
	}
	fr.Commit()
	return true
}

// DrawOp consumes the next token if it is the operator op.
func DrawOp(s *Stream, op token.Op) bool {
	fr := s.Open()
	defer fr.Close()
	tk, err := PullToken(s)
	if err != nil || tk.Kind != token.Operator || tk.OpVal != op {
		fr.ClearMessages()
		return false
	}
	fr.Commit()
	return true
}

// DrawPunct consumes the next token if it is the punctuation byte c.
func DrawPunct(s *Stream, c byte) bool {
	fr := s.Open()
	defer fr.Close()
	tk, err := PullToken(s)
	if err != nil || tk.Kind != token.Punct || tk.PunctVal != c {
		fr.ClearMessages()
		return false
	}
	fr.Commit()
	return true
}

// CheckPunct reports whether the next token is the punctuation byte c,
// without consuming it.
func CheckPunct(s *Stream, c byte) bool {
	tk, ok := PeekToken(s, 0)
	return ok && tk.Kind == token.Punct && tk.PunctVal == c
}

// CheckKeyword reports whether the next token is the keyword kw,
// without consuming it.
func CheckKeyword(s *Stream, kw token.Keyword) bool {
	tk, ok := PeekToken(s, 0)
	return ok && tk.Kind == token.KeywordKind && tk.KeywordVal == kw
}

// AtEOF reports whether there is no more token to pull (skipping
// whitespace/comments first).
func AtEOF(s *Stream) bool {
	_, ok := PeekToken(s, 0)
	return !ok
}

// ExpectPunct consumes the next token, requiring it to be punctuation c.
func ExpectPunct(s *Stream, c byte) *ParseError {
	tk, err := PullToken(s)
	if err != nil {
		return err
	}
	if tk.Kind != token.Punct || tk.PunctVal != c {
		return newError(NewRange(s.src, tk.Start, tk.End), "Expected %q, found %s", string(c), tk.String())
	}
	return nil
}

// ExpectKeyword consumes the next token, requiring it to be keyword kw.
func ExpectKeyword(s *Stream, kw token.Keyword) *ParseError {
	tk, err := PullToken(s)
	if err != nil {
		return err
	}
	if tk.Kind != token.KeywordKind || tk.KeywordVal != kw {
		return newError(NewRange(s.src, tk.Start, tk.End), "Expected keyword %q, found %s", kw.String(), tk.String())
	}
	return nil
}

// ExpectOp consumes the next token, requiring it to be operator op.
func ExpectOp(s *Stream, op token.Op) *ParseError {
	tk, err := PullToken(s)
	if err != nil {
		return err
	}
	if tk.Kind != token.Operator || tk.OpVal != op {
		return newError(NewRange(s.src, tk.Start, tk.End), "Expected operator %q, found %s", op.String(), tk.String())
	}
	return nil
}

// ExpectIdentifier consumes the next token, requiring it to be an
// identifier, and returns its name.
func ExpectIdentifier(s *Stream) (string, *ParseError) {
	tk, err := PullToken(s)
	if err != nil {
		return "", err
	}
	if tk.Kind != token.Identifier {
		return "", newError(NewRange(s.src, tk.Start, tk.End), "Expected identifier, found %s", tk.String())
	}
	return tk.Text, nil
}

// ExpectStringLiteral consumes the next token, requiring it to be a
// string literal, and returns its contents.
func ExpectStringLiteral(s *Stream) (string, *ParseError) {
	tk, err := PullToken(s)
	if err != nil {
		return "", err
	}
	if tk.Kind != token.Literal || tk.LitKind != token.String {
		return "", newError(NewRange(s.src, tk.Start, tk.End), "Expected string literal, found %s", tk.String())
	}
	return tk.Text, nil
}

// PullSemicolons expects at least one `;`, unless the previously
// consumed token was `}`, in which case semicolons are optional; either
// way all consecutive `;` are then consumed (spec.md §4.2). On failure
// the stream is left where it was.
func PullSemicolons(s *Stream) *ParseError {
	last, ok := s.LastToken()
	afterBrace := ok && last.Kind == token.Punct && last.PunctVal == '}'

	if !afterBrace {
		fr := s.Open()
		if err := ExpectPunct(s, ';'); err != nil {
			fr.Close()
			return err
		}
		fr.Commit()
	}
	for DrawPunct(s, ';') {
	}
	return nil
}

// PullSeparator implements the trailing-separator list-item protocol
// (spec.md §4.2): returns true when the list has ended, either because
// closer already follows (empty list, or a trailing separator was just
// consumed) or because closer follows immediately after consuming sep.
func PullSeparator(s *Stream, sep byte, closer byte) (bool, *ParseError) {
	if CheckPunct(s, closer) {
		return true, nil
	}
	if err := ExpectPunct(s, sep); err != nil {
		return false, err
	}
	return CheckPunct(s, closer), nil
}
