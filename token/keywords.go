package token

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keywords maps the lowercase keyword spelling to its token and its
// PostgreSQL keyword class (the class decides whether the word may be
// used bare as a column/table alias -- see Parser.canStartAlias).
var keywords map[string]Token
var classes map[Token]KeywordClass

// caseFold performs PostgreSQL-style identifier case folding. PostgreSQL
// itself folds ASCII case using a plain byte-wise tolower, but this lexer
// also accepts UIDENT/UESCAPE-derived identifiers that may legitimately
// contain non-ASCII letters, so folding goes through a real Unicode
// lowerer rather than a hand-rolled ASCII-only one.
var caseFold = cases.Lower(language.Und)

func init() {
	classes = map[Token]KeywordClass{
		SELECT: Reserved, FROM: Reserved, WHERE: Reserved, AND: Reserved, OR: Reserved,
		NOT: Reserved, IN: Reserved, LIKE: TypeFuncName, ILIKE: TypeFuncName,
		SIMILAR: TypeFuncName, BETWEEN: TypeFuncName, IS: TypeFuncName,
		NULL: Reserved, TRUE: Reserved, FALSE: Reserved, UNKNOWN: Unreserved,
		AS: Reserved, ALL: Reserved, DISTINCT: Reserved, ON: Reserved, USING: Reserved,
		JOIN: Reserved, INNER: TypeFuncName, LEFT: TypeFuncName, RIGHT: TypeFuncName,
		FULL: TypeFuncName, OUTER: TypeFuncName, CROSS: TypeFuncName, NATURAL: TypeFuncName,
		LATERAL: Reserved, ORDER: Reserved, BY: Reserved, ASC: Reserved, DESC: Reserved,
		NULLS: Unreserved, FIRST: Unreserved, LAST: Unreserved, GROUP: Reserved,
		HAVING: Reserved, WINDOW: Reserved, PARTITION: Unreserved, OVER: Unreserved,
		FILTER: Unreserved, WITHIN: Unreserved, GROUPING: ColName, SETS: Unreserved,
		CUBE: Unreserved, ROLLUP: Unreserved, ROWS: Unreserved, RANGE: Unreserved,
		GROUPS: Unreserved, UNBOUNDED: Unreserved, PRECEDING: Unreserved,
		FOLLOWING: Unreserved, CURRENT: Unreserved, ROW: ColName, LIMIT: Reserved,
		OFFSET: Reserved, FETCH: Reserved, NEXT: Unreserved, ONLY: Reserved,
		TIES: Unreserved, WITH: Reserved, RECURSIVE: Reserved, UNION: Reserved,
		INTERSECT: Reserved, EXCEPT: Reserved, VALUES: Reserved, VALUE: Unreserved,
		INSERT: Unreserved, INTO: Reserved, DEFAULT: Reserved, OVERRIDING: Unreserved,
		CONFLICT: Unreserved, CONSTRAINT: Reserved, DO: Reserved, NOTHING: Unreserved,
		UPDATE: Unreserved, SET: Unreserved, RETURNING: Reserved, DELETE: Unreserved,
		CASE: Reserved, WHEN: Reserved, THEN: Reserved, ELSE: Reserved, END: Reserved,
		CAST: ColName, COLLATE: Reserved, INTERVAL: ColName, EXTRACT: ColName,
		TRIM: ColName, LEADING: Reserved, TRAILING: Reserved, BOTH: Reserved,
		SUBSTRING: ColName, POSITION: ColName, ARRAY: Reserved, EXISTS: ColName,
		ANY: Reserved, SOME: Reserved, SYMMETRIC: Reserved, ASYMMETRIC: Reserved,
		ESCAPE: Unreserved, DOCUMENT: Unreserved, OF: Unreserved, FOR: Reserved,
		SHARE: Unreserved, KEY: Unreserved, NOWAIT: Unreserved, SKIP: Unreserved,
		LOCKED: Unreserved, MATERIALIZED: Unreserved, ZONE: Unreserved,
		TIME: ColName, TIMESTAMP: ColName, VARYING: Unreserved, WITHOUT: Unreserved,
		AT: Unreserved, XMLELEMENT: ColName, XMLFOREST: ColName, XMLPARSE: ColName,
		XMLROOT: ColName, XMLPI: ColName, XMLSERIALIZE: ColName, XMLTABLE: ColName,
		NAME: Unreserved, CONTENT: Unreserved, COLUMNS: Unreserved, PATH: Unreserved,
		TABLESAMPLE: TypeFuncName, REPEATABLE: Unreserved, ORDINALITY: Unreserved,
	}

	keywords = make(map[string]Token, len(classes))
	for tok := keywordBeg + 1; tok < keywordEnd; tok++ {
		if name := tokenNames[tok]; name != "" {
			keywords[caseFold.String(name)] = tok
		}
	}
}

// ClassOf returns the keyword class for a keyword token, or Unreserved
// for non-keyword tokens (callers should check IsKeyword first).
func ClassOf(t Token) KeywordClass {
	if c, ok := classes[t]; ok {
		return c
	}
	return Unreserved
}

// LookupIdent returns the token type for an identifier: the keyword
// token if ident (case-insensitively) names one, else IDENT.
func LookupIdent(ident string) Token {
	if isLowercaseASCII(ident) {
		if tok, ok := keywords[ident]; ok {
			return tok
		}
		return IDENT
	}
	if tok, ok := keywords[caseFold.String(ident)]; ok {
		return tok
	}
	return IDENT
}

func isLowercaseASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			return false
		}
	}
	return true
}

// IsKeyword returns true if the identifier is a SQL keyword.
func IsKeyword(ident string) bool {
	return LookupIdent(ident) != IDENT
}
