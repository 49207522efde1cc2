package format

import (
	"strconv"
	"strings"

	"github.com/freeeve/machparse/token"
)

// isBareIdent reports whether s has the shape of an identifier that never
// needs quoting: lowercase, starting with a letter/underscore, followed by
// letters/digits/underscore/$.
func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	c0 := s[0]
	if !(c0 == '_' || (c0 >= 'a' && c0 <= 'z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

// quoteIdent renders name as a SQL identifier: bare when it is already
// lowercase, matches the bare-identifier shape, and isn't a keyword;
// double-quoted (with embedded quotes doubled) otherwise. quoted
// indicates the source always used double-quote syntax, which forces
// quoting even when it wouldn't otherwise be required (case-sensitive
// identifiers must round-trip verbatim).
func quoteIdent(name string, quoted bool) string {
	if !quoted && isBareIdent(name) && !token.IsKeyword(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteStringConstant renders s as a standard-quoted, dollar-quoted, or
// tagged-dollar-quoted string literal, preferring the first form that
// can represent s without escaping: '...' when s has neither a quote
// nor a backslash, else $$...$$, else $_N$...$_N$ for the smallest N
// whose tag does not occur in s.
func quoteStringConstant(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return "'" + s + "'"
	}
	if !strings.Contains(s, "$$") {
		return "$$" + s + "$$"
	}
	for n := 1; ; n++ {
		tag := "$_" + strconv.Itoa(n) + "$"
		if !strings.Contains(s, tag) {
			return tag + s + tag
		}
	}
}
