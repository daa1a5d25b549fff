package token

import "testing"

func TestLookupKeywordRoundTrip(t *testing.T) {
	for k := Keyword(0); k < numKeywords; k++ {
		spelling := k.String()
		got, ok := LookupKeyword(spelling)
		if literalKeywordSpellings[spelling] {
			if ok {
				t.Errorf("LookupKeyword(%q) = %v, true; want not found (lexes as a literal)", spelling, got)
			}
			continue
		}
		if !ok || got != k {
			t.Errorf("LookupKeyword(%q) = %v, %v; want %v, true", spelling, got, ok, k)
		}
	}
}

func TestIsReservedSpelling(t *testing.T) {
	for _, s := range []string{"for", "fun", "true", "false", "void", "decl"} {
		if !IsReservedSpelling(s) {
			t.Errorf("IsReservedSpelling(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"foo", "x", "myFun", "truex"} {
		if IsReservedSpelling(s) {
			t.Errorf("IsReservedSpelling(%q) = true, want false", s)
		}
	}
}

func TestLookupKeywordUnknown(t *testing.T) {
	if _, ok := LookupKeyword("notakeyword"); ok {
		t.Errorf("LookupKeyword(%q) found, want not found", "notakeyword")
	}
}
