package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freeeve/machparse/token"
)

// assertToken compares got against the expected type/value pair,
// reporting both mismatches (if any) against the base assert.T.
func assertToken(t *testing.T, i int, exp, got token.Item) {
	t.Helper()
	assert.Equalf(t, exp.Type, got.Type, "token %d: type", i)
	assert.Equalf(t, exp.Value, got.Value, "token %d: value", i)
}

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Item
	}{
		{
			input: "SELECT * FROM users",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.OP, Value: "*"},
				{Type: token.FROM, Value: "FROM"},
				{Type: token.IDENT, Value: "users"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			input: "SELECT id, name FROM users WHERE id = 1",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.IDENT, Value: "id"},
				{Type: token.COMMA, Value: ","},
				{Type: token.IDENT, Value: "name"},
				{Type: token.FROM, Value: "FROM"},
				{Type: token.IDENT, Value: "users"},
				{Type: token.WHERE, Value: "WHERE"},
				{Type: token.IDENT, Value: "id"},
				{Type: token.OP, Value: "="},
				{Type: token.INT, Value: "1"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			input: "a >= b AND c <= d",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.OP, Value: ">="},
				{Type: token.IDENT, Value: "b"},
				{Type: token.AND, Value: "AND"},
				{Type: token.IDENT, Value: "c"},
				{Type: token.OP, Value: "<="},
				{Type: token.IDENT, Value: "d"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			input: "a <> b OR a != c",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.OP, Value: "<>"},
				{Type: token.IDENT, Value: "b"},
				{Type: token.OR, Value: "OR"},
				{Type: token.IDENT, Value: "a"},
				{Type: token.OP, Value: "!="},
				{Type: token.IDENT, Value: "c"},
				{Type: token.EOF, Value: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			for i, exp := range tt.expected {
				got := l.Next()
				assertToken(t, i, exp, got)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{"123", token.Item{Type: token.INT, Value: "123"}},
		{"123.456", token.Item{Type: token.FLOAT, Value: "123.456"}},
		{".456", token.Item{Type: token.FLOAT, Value: ".456"}},
		{"1e10", token.Item{Type: token.FLOAT, Value: "1e10"}},
		{"1E10", token.Item{Type: token.FLOAT, Value: "1E10"}},
		{"1.5e+10", token.Item{Type: token.FLOAT, Value: "1.5e+10"}},
		{"1.5e-10", token.Item{Type: token.FLOAT, Value: "1.5e-10"}},
		{"0x1A2B", token.Item{Type: token.INT, Value: "0x1A2B"}},
		{"0X1a2b", token.Item{Type: token.INT, Value: "0X1a2b"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			got := l.Next()
			assertToken(t, 0, tt.expected, got)
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{"'hello'", token.Item{Type: token.STRING, Value: "hello"}},
		{"'hello world'", token.Item{Type: token.STRING, Value: "hello world"}},
		{"'it''s'", token.Item{Type: token.STRING, Value: "it's"}},
		{"'line1\nline2'", token.Item{Type: token.STRING, Value: "line1\nline2"}},
		{`E'escaped\nchar'`, token.Item{Type: token.STRING, Value: "escaped\nchar"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			got := l.Next()
			assertToken(t, 0, tt.expected, got)
		})
	}
}

func TestLexerConcatenatedStrings(t *testing.T) {
	// Two string constants separated only by whitespace containing a
	// newline fold into a single STRING token.
	l := New("'hello'\n'world'")
	got := l.Next()
	if got.Type != token.STRING || got.Value != "helloworld" {
		t.Errorf("expected concatenated STRING %q, got %v %q", "helloworld", got.Type, got.Value)
	}

	// Without an intervening newline, they stay separate.
	l = New("'hello' 'world'")
	first := l.Next()
	second := l.Next()
	if first.Value != "hello" || second.Value != "world" {
		t.Errorf("expected separate strings, got %q and %q", first.Value, second.Value)
	}
}

func TestLexerQuotedIdentifiers(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{`"column"`, token.Item{Type: token.QIDENT, Value: "column"}},
		{`"Column Name"`, token.Item{Type: token.QIDENT, Value: "Column Name"}},
		{`"escaped""quote"`, token.Item{Type: token.QIDENT, Value: `escaped"quote`}},
		{`""`, token.Item{Type: token.QIDENT, Value: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			got := l.Next()
			assertToken(t, 0, tt.expected, got)
		})
	}
}

// Backtick is not an identifier-quoting character in PostgreSQL; it's just
// another character in the operator-character set.
func TestLexerBacktickIsOperator(t *testing.T) {
	l := New("`column`")
	tok := l.Next()
	if tok.Type != token.OP || tok.Value != "`" {
		t.Errorf("expected OP %q, got %v %q", "`", tok.Type, tok.Value)
	}
	ident := l.Next()
	if ident.Type != token.IDENT || ident.Value != "column" {
		t.Errorf("expected IDENT %q, got %v %q", "column", ident.Type, ident.Value)
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Item
	}{
		{
			input: "a || b",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.OP, Value: "||"},
				{Type: token.IDENT, Value: "b"},
			},
		},
		{
			input: "a | b & c",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.OP, Value: "|"},
				{Type: token.IDENT, Value: "b"},
				{Type: token.OP, Value: "&"},
				{Type: token.IDENT, Value: "c"},
			},
		},
		{
			input: "a << 2 >> 1",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.OP, Value: "<<"},
				{Type: token.INT, Value: "2"},
				{Type: token.OP, Value: ">>"},
				{Type: token.INT, Value: "1"},
			},
		},
		{
			input: "jsondata->>'key'",
			expected: []token.Item{
				{Type: token.IDENT, Value: "jsondata"},
				{Type: token.OP, Value: "->>"},
				{Type: token.STRING, Value: "key"},
			},
		},
		{
			input: "jsondata->'key'",
			expected: []token.Item{
				{Type: token.IDENT, Value: "jsondata"},
				{Type: token.OP, Value: "->"},
				{Type: token.STRING, Value: "key"},
			},
		},
		{
			input: "jsondata#>'{a,b}'",
			expected: []token.Item{
				{Type: token.IDENT, Value: "jsondata"},
				{Type: token.OP, Value: "#>"},
				{Type: token.STRING, Value: "{a,b}"},
			},
		},
		{
			input: "a @@ b",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.OP, Value: "@@"},
				{Type: token.IDENT, Value: "b"},
			},
		},
		{
			input: "a::int",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.DCOLON, Value: "::"},
				{Type: token.IDENT, Value: "int"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			for i, exp := range tt.expected {
				got := l.Next()
				assertToken(t, i, exp, got)
			}
		})
	}
}

// PostgreSQL's rule trims a trailing run of +/- from a multi-character
// operator unless the run also contains one of the "always special"
// characters, so that "a+-b" lexes as three tokens rather than one.
func TestLexerOperatorTrailingPlusMinus(t *testing.T) {
	l := New("a+-b")
	tests := []token.Item{
		{Type: token.IDENT, Value: "a"},
		{Type: token.OP, Value: "+"},
		{Type: token.OP, Value: "-"},
		{Type: token.IDENT, Value: "b"},
	}
	for i, exp := range tests {
		got := l.Next()
		if got.Type != exp.Type || got.Value != exp.Value {
			t.Errorf("token %d: expected %v %q, got %v %q", i, exp.Type, exp.Value, got.Type, got.Value)
		}
	}
}

func TestLexerParameters(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{"$1", token.Item{Type: token.PARAM, Value: "$1"}},
		{"$123", token.Item{Type: token.PARAM, Value: "$123"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			got := l.Next()
			assertToken(t, 0, tt.expected, got)
		})
	}
}

func TestLexerCommentsAreSkipped(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Item
	}{
		{
			input: "SELECT -- comment\n1",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.INT, Value: "1"},
			},
		},
		{
			input: "SELECT /* comment */ 1",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.INT, Value: "1"},
			},
		},
		{
			input: "SELECT /* multi\nline\ncomment */ 1",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.INT, Value: "1"},
			},
		},
		{
			input: "SELECT /* nested /* comment */ still */ 1",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.INT, Value: "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			for i, exp := range tt.expected {
				got := l.Next()
				assertToken(t, i, exp, got)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	input := "SELECT\n  id\nFROM t"
	l := New(input)

	expected := []struct {
		tok  token.Token
		line int
		col  int
	}{
		{token.SELECT, 1, 1},
		{token.IDENT, 2, 3},
		{token.FROM, 3, 1},
		{token.IDENT, 3, 6},
	}

	for _, exp := range expected {
		got := l.Next()
		if got.Type != exp.tok {
			t.Errorf("expected token %v, got %v", exp.tok, got.Type)
		}
		if got.Pos.Line != exp.line {
			t.Errorf("token %v: expected line %d, got %d", got.Type, exp.line, got.Pos.Line)
		}
		if got.Pos.Column != exp.col {
			t.Errorf("token %v: expected column %d, got %d", got.Type, exp.col, got.Pos.Column)
		}
	}
}

func TestLexerPeek(t *testing.T) {
	l := New("SELECT FROM")

	// Peek should return SELECT
	peek1 := l.Peek()
	if peek1.Type != token.SELECT {
		t.Errorf("expected SELECT, got %v", peek1.Type)
	}

	// Peek again should return the same token
	peek2 := l.Peek()
	if peek2.Type != token.SELECT {
		t.Errorf("expected SELECT, got %v", peek2.Type)
	}

	// Next should return SELECT
	next1 := l.Next()
	if next1.Type != token.SELECT {
		t.Errorf("expected SELECT, got %v", next1.Type)
	}

	// Next should return FROM
	next2 := l.Next()
	if next2.Type != token.FROM {
		t.Errorf("expected FROM, got %v", next2.Type)
	}
}

func TestLexerDollarQuotedStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{"$$hello$$", token.Item{Type: token.DOLLARSTRING, Value: "hello"}},
		{"$$hello world$$", token.Item{Type: token.DOLLARSTRING, Value: "hello world"}},
		{"$tag$content$tag$", token.Item{Type: token.DOLLARSTRING, Value: "content"}},
		{"$$multi\nline$$", token.Item{Type: token.DOLLARSTRING, Value: "multi\nline"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			got := l.Next()
			assertToken(t, 0, tt.expected, got)
		})
	}
}

func TestLexerTypedStringLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{"B'0101'", token.Item{Type: token.BSTRING, Value: "0101"}},
		{"X'FF'", token.Item{Type: token.XSTRING, Value: "FF"}},
		{`U&'d\0061ta'`, token.Item{Type: token.USTRING, Value: `d\0061ta`}},
		{`U&"d\0061ta"`, token.Item{Type: token.UIDENT, Value: `d\0061ta`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			got := l.Next()
			assertToken(t, 0, tt.expected, got)
		})
	}
}

func TestLexerKeywords(t *testing.T) {
	keywords := []string{
		"SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "IN", "LIKE", "BETWEEN",
		"IS", "NULL", "TRUE", "FALSE", "AS", "JOIN", "INNER", "LEFT", "RIGHT",
		"FULL", "OUTER", "CROSS", "ON", "ORDER", "BY", "ASC", "DESC", "GROUP",
		"HAVING", "LIMIT", "OFFSET", "UNION", "INTERSECT", "EXCEPT", "INSERT",
		"INTO", "VALUES", "UPDATE", "SET", "DELETE", "EXISTS", "KEY",
		"CONSTRAINT", "CASE", "WHEN", "THEN", "ELSE", "END", "CAST",
		"DISTINCT", "ALL",
	}

	for _, kw := range keywords {
		t.Run(kw, func(t *testing.T) {
			l := New(kw)
			got := l.Next()
			if !got.Type.IsKeyword() {
				t.Errorf("%s should be a keyword, got %v", kw, got.Type)
			}
		})
	}
}

func TestLexerIdentifierIsCaseFolded(t *testing.T) {
	l := New("UsErS")
	got := l.Next()
	if got.Type != token.IDENT {
		t.Fatalf("expected IDENT, got %v", got.Type)
	}
	// scanIdentifier lowercases an unquoted identifier that LookupIdent
	// does not recognize as a keyword.
	if got.Value != "users" {
		t.Errorf("expected case-folded %q, got %q", "users", got.Value)
	}
}

func BenchmarkLexer(b *testing.B) {
	input := `SELECT u.id, u.name, COUNT(o.id) as order_count
FROM users u
LEFT JOIN orders o ON u.id = o.user_id
WHERE u.status = 'active'
  AND u.created_at BETWEEN '2024-01-01' AND '2024-12-31'
GROUP BY u.id, u.name
HAVING COUNT(o.id) > 5
ORDER BY order_count DESC
LIMIT 100`

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l := New(input)
		for {
			tok := l.Next()
			if tok.Type == token.EOF {
				break
			}
		}
	}
}
