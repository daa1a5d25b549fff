// Package token defines the lexical atoms of the language: keywords,
// operators, punctuation, and literals, plus the tables that give each
// operator its spelling, precedence, and associativity.
//
// The package is intentionally leaf-level: it has no dependency on the
// scanner, the AST, or the source-position model, so it can be imported
// by any layer that needs to talk about token kinds without pulling in
// the rest of the frontend.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant a Token belongs to.
type Kind uint8

const (
	// Invalid is the zero value; never produced by a successful pull.
	Invalid Kind = iota
	KeywordKind
	Identifier
	Literal
	Operator
	Punct
	EOF
)

func (k Kind) String() string {
	switch k {
	case KeywordKind:
		return "keyword"
	case Identifier:
		return "identifier"
	case Literal:
		return "literal"
	case Operator:
		return "operator"
	case Punct:
		return "punctuation"
	case EOF:
		return "end-of-file"
	default:
		return "invalid"
	}
}

// LiteralKind tags the variant of a Literal token's payload.
type LiteralKind uint8

const (
	Void LiteralKind = iota
	Bool
	Int
	Float
	String
)

func (k LiteralKind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "invalid"
	}
}

// Token is a tagged variant over {Keyword, Identifier, Literal, Operator,
// Punct}. Exactly one of the typed fields below is meaningful, selected
// by Kind:
//
//	Kind == KeywordKind -> KeywordVal
//	Kind == Identifier -> Text
//	Kind == Operator   -> OpVal
//	Kind == Punct      -> PunctVal
//	Kind == Literal    -> LitKind plus one of BoolVal/IntVal/FloatVal/Text
//
// Tokens are ephemeral: produced on demand by the scanner and dropped,
// never retained past the production that consumed them (the AST keeps
// only the raw text and a Range, not the Token itself).
type Token struct {
	Kind Kind

	KeywordVal Keyword
	OpVal      Op
	PunctVal   byte

	LitKind LiteralKind
	BoolVal bool
	IntVal  uint64
	FloatVal float64
	Text     string // identifier name, or string-literal contents

	// Raw is the exact source slice the token was lexed from, used for
	// diagnostics and for re-tokenizing round-trip checks.
	Raw string

	// Start/End are byte offsets into the owning Source. The scanner
	// attaches these; higher layers turn them into a Range once they
	// have a Source to resolve against.
	Start, End int
}

// String renders the token the way the original source would have
// spelled it (debug=false) or with a tag identifying its kind
// (debug=true).
func (t Token) String() string { return t.toString(false) }

// DebugString is String with kind tags, e.g. `identifier("x")`.
func (t Token) DebugString() string { return t.toString(true) }

func (t Token) toString(debug bool) string {
	switch t.Kind {
	case KeywordKind:
		if debug {
			return fmt.Sprintf("keyword(%s)", t.KeywordVal)
		}
		return t.KeywordVal.String()
	case Identifier:
		if debug {
			return fmt.Sprintf("identifier(%q)", t.Text)
		}
		return t.Text
	case Operator:
		if debug {
			return fmt.Sprintf("op(%s)", t.OpVal)
		}
		return t.OpVal.String()
	case Punct:
		if debug {
			return fmt.Sprintf("punct(%q)", string(t.PunctVal))
		}
		return string(t.PunctVal)
	case Literal:
		return literalString(t, debug)
	case EOF:
		return "end-of-file"
	default:
		return "invalid token"
	}
}

func literalString(t Token, debug bool) string {
	switch t.LitKind {
	case Void:
		return "void"
	case Bool:
		s := "false"
		if t.BoolVal {
			s = "true"
		}
		if debug {
			return fmt.Sprintf("bool(%s)", s)
		}
		return s
	case String:
		if debug {
			return fmt.Sprintf("string(%q)", t.Text)
		}
		esc := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
		return `"` + esc.Replace(t.Text) + `"`
	case Int:
		if debug {
			return fmt.Sprintf("int(%d)", t.IntVal)
		}
		return fmt.Sprintf("%d", t.IntVal)
	case Float:
		if debug {
			return fmt.Sprintf("float(%g)", t.FloatVal)
		}
		s := strconv.FormatFloat(t.FloatVal, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += "."
		}
		return s
	default:
		return "invalid literal"
	}
}

// Equal reports whether two tokens have the same kind and payload,
// ignoring source position.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KeywordKind:
		return t.KeywordVal == o.KeywordVal
	case Identifier:
		return t.Text == o.Text
	case Operator:
		return t.OpVal == o.OpVal
	case Punct:
		return t.PunctVal == o.PunctVal
	case Literal:
		if t.LitKind != o.LitKind {
			return false
		}
		switch t.LitKind {
		case Bool:
			return t.BoolVal == o.BoolVal
		case Int:
			return t.IntVal == o.IntVal
		case Float:
			return t.FloatVal == o.FloatVal
		case String:
			return t.Text == o.Text
		default:
			return true
		}
	default:
		return true
	}
}
