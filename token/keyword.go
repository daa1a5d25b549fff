package token

// Keyword is the closed enumeration of reserved spellings (spec.md §3).
// Keyword spellings may never be used as identifiers.
type Keyword uint8

const (
	For Keyword = iota
	While
	In
	If
	Else
	Try
	Fun
	Return
	Break
	Continue
	From
	Struct
	Decl
	Enum
	Extends
	Required
	Get
	Set
	Depends
	New
	Const
	Let
	Using
	Export
	Import
	Extern
	As
	Is
	Typeof
	True
	False
	Null

	numKeywords
)

var keywordSpellings = [numKeywords]string{
	For:      "for",
	While:    "while",
	In:       "in",
	If:       "if",
	Else:     "else",
	Try:      "try",
	Fun:      "fun",
	Return:   "return",
	Break:    "break",
	Continue: "continue",
	From:     "from",
	Struct:   "struct",
	Decl:     "decl",
	Enum:     "enum",
	Extends:  "extends",
	Required: "required",
	Get:      "get",
	Set:      "set",
	Depends:  "depends",
	New:      "new",
	Const:    "const",
	Let:      "let",
	Using:    "using",
	Export:   "export",
	Import:   "import",
	Extern:   "extern",
	As:       "as",
	Is:       "is",
	Typeof:   "typeof",
	True:     "true",
	False:    "false",
	Null:     "null",
}

// literalKeywordSpellings lex to a Literal token rather than a Keyword
// token: true/false become Bool literals and void a Void literal. void
// has no Keyword entry at all, matching the original Token.cpp which
// special-cases "void" before ever consulting the keyword table. null
// is not in this set: it lexes as the Null keyword.
var literalKeywordSpellings = map[string]bool{
	"true":  true,
	"false": true,
	"void":  true,
}

func (k Keyword) String() string {
	if k >= numKeywords {
		return "<invalid keyword>"
	}
	return keywordSpellings[k]
}

var keywordBySpelling = func() map[string]Keyword {
	m := make(map[string]Keyword, numKeywords)
	for k := Keyword(0); k < numKeywords; k++ {
		m[keywordSpellings[k]] = k
	}
	return m
}()

// LookupKeyword returns the Keyword matching spelling, if any. "true",
// "false", and "void" are never returned here since the scanner turns
// those into Literal tokens before consulting this table.
func LookupKeyword(spelling string) (Keyword, bool) {
	if literalKeywordSpellings[spelling] {
		return 0, false
	}
	k, ok := keywordBySpelling[spelling]
	return k, ok
}

// IsReservedSpelling reports whether spelling names a keyword or one of
// the literal spellings (true/false/void), any of which an identifier
// may not equal.
func IsReservedSpelling(spelling string) bool {
	if literalKeywordSpellings[spelling] {
		return true
	}
	_, ok := keywordBySpelling[spelling]
	return ok
}
