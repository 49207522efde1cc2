// Package lexer provides a lexical scanner for PostgreSQL SQL text.
package lexer

import (
	"strings"
	"sync"

	"github.com/freeeve/machparse/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	start   int        // start position of current token
	pos     int        // current position in input
	line    int        // current line number (1-indexed)
	linePos int        // position of current line start
	item    token.Item // most recently scanned item
	peeked  bool       // whether item contains a peeked token
}

var lexerPool = sync.Pool{
	New: func() any { return &Lexer{} },
}

// New creates a new Lexer for the input string.
func New(input string) *Lexer {
	return &Lexer{
		input:   input,
		line:    1,
		linePos: 0,
	}
}

// Get returns a Lexer from the pool, initialized with the input.
func Get(input string) *Lexer {
	l := lexerPool.Get().(*Lexer)
	l.Reset(input)
	return l
}

// Put returns the Lexer to the pool.
func Put(l *Lexer) {
	lexerPool.Put(l)
}

// Reset resets the lexer to scan new input.
func (l *Lexer) Reset(input string) {
	l.input = input
	l.start = 0
	l.pos = 0
	l.line = 1
	l.linePos = 0
	l.item = token.Item{}
	l.peeked = false
}

// Next returns the next token.
func (l *Lexer) Next() token.Item {
	if l.peeked {
		l.peeked = false
		return l.item
	}
	l.item = l.scanConcatenated()
	return l.item
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Item {
	if !l.peeked {
		l.item = l.scanConcatenated()
		l.peeked = true
	}
	return l.item
}

// scanConcatenated scans one token, then -- per PostgreSQL's rule that two
// string constants separated only by whitespace containing a newline are a
// single constant -- folds in any directly-following string literals.
func (l *Lexer) scanConcatenated() token.Item {
	it := l.scan()
	if it.Type != token.STRING {
		return it
	}
	for {
		save := l.pos
		saveLine, saveLinePos := l.line, l.linePos
		if !l.skipWhitespaceWithNewline() {
			l.pos, l.line, l.linePos = save, saveLine, saveLinePos
			return it
		}
		if l.pos >= len(l.input) || l.input[l.pos] != '\'' && !l.atExtendedString() {
			l.pos, l.line, l.linePos = save, saveLine, saveLinePos
			return it
		}
		next := l.scan()
		if next.Type != token.STRING {
			l.pos, l.line, l.linePos = save, saveLine, saveLinePos
			return it
		}
		it.Value += next.Value
	}
}

// atExtendedString reports whether the lexer is positioned at E'...' (case
// insensitive), used only by the string-concatenation lookahead.
func (l *Lexer) atExtendedString() bool {
	if l.pos+1 >= len(l.input) {
		return false
	}
	c := l.input[l.pos]
	return (c == 'e' || c == 'E') && l.input[l.pos+1] == '\''
}

// skipWhitespaceWithNewline skips whitespace and comments, and reports
// whether a newline was seen along the way.
func (l *Lexer) skipWhitespaceWithNewline() bool {
	sawNewline := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '\n':
			l.pos++
			l.line++
			l.linePos = l.pos
			sawNewline = true
		case ch == '-' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '-':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			l.pos += 2
			for l.pos < len(l.input) {
				if l.input[l.pos] == '*' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
					l.pos += 2
					break
				}
				if l.input[l.pos] == '\n' {
					l.line++
					l.linePos = l.pos + 1
					sawNewline = true
				}
				l.pos++
			}
		default:
			return sawNewline
		}
	}
	return sawNewline
}

// operatorChars is PostgreSQL's set of characters that may appear in a
// multi-character operator (production Op in gram.y).
const operatorChars = "+-*/<>=~!@#%^&|`?"

// scan performs the actual lexical analysis.
func (l *Lexer) scan() token.Item {
	l.skipWhitespace()
	l.start = l.pos

	if l.pos >= len(l.input) {
		return l.makeItem(token.EOF, "")
	}

	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return l.makeItem(token.LPAREN, "(")
	case ')':
		l.pos++
		return l.makeItem(token.RPAREN, ")")
	case '[':
		l.pos++
		return l.makeItem(token.LBRACKET, "[")
	case ']':
		l.pos++
		return l.makeItem(token.RBRACKET, "]")
	case ',':
		l.pos++
		return l.makeItem(token.COMMA, ",")
	case ';':
		l.pos++
		return l.makeItem(token.SEMICOLON, ";")
	case '.':
		if l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
			return l.scanNumber()
		}
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == '.' {
			l.pos += 2
			return l.makeItem(token.DOTDOT, "..")
		}
		l.pos++
		return l.makeItem(token.DOT, ".")
	case ':':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == ':' {
			l.pos++
			return l.makeItem(token.DCOLON, "::")
		}
		return l.makeItem(token.COLON, ":")
	case '\'':
		return l.scanString('\'', false)
	case '"':
		return l.scanQuotedIdentifier()
	case '$':
		return l.scanDollar()
	}

	if (ch == 'e' || ch == 'E') && l.pos+1 < len(l.input) && l.input[l.pos+1] == '\'' {
		l.pos++
		return l.scanString('\'', true)
	}
	if (ch == 'b' || ch == 'B') && l.pos+1 < len(l.input) && l.input[l.pos+1] == '\'' {
		return l.scanTypedBitString(token.BSTRING)
	}
	if (ch == 'x' || ch == 'X') && l.pos+1 < len(l.input) && l.input[l.pos+1] == '\'' {
		return l.scanTypedBitString(token.XSTRING)
	}
	if (ch == 'u' || ch == 'U') && l.pos+1 < len(l.input) && l.input[l.pos+1] == '&' &&
		l.pos+2 < len(l.input) && (l.input[l.pos+2] == '\'' || l.input[l.pos+2] == '"') {
		return l.scanUnicodeEscape()
	}

	if isIdentStart(ch) {
		return l.scanIdentifier()
	}
	if isDigit(ch) {
		return l.scanNumber()
	}
	if strings.IndexByte(operatorChars, ch) >= 0 {
		return l.scanOperator()
	}

	l.pos++
	return l.makeItem(token.ILLEGAL, string(ch))
}

func (l *Lexer) makeItem(typ token.Token, val string) token.Item {
	return token.Item{
		Type:  typ,
		Value: val,
		Pos: token.Pos{
			Offset: l.start,
			Line:   l.line,
			Column: l.start - l.linePos + 1,
		},
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '\n':
			l.pos++
			l.line++
			l.linePos = l.pos
		case ch == '-' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '-':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			l.pos += 2
			depth := 1
			for l.pos < len(l.input) && depth > 0 {
				if l.input[l.pos] == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*' {
					depth++
					l.pos += 2
					continue
				}
				if l.input[l.pos] == '*' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
					depth--
					l.pos += 2
					continue
				}
				if l.input[l.pos] == '\n' {
					l.line++
					l.linePos = l.pos + 1
				}
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanIdentifier() token.Item {
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	val := l.input[l.start:l.pos]
	tok := token.LookupIdent(val)
	if tok == token.IDENT {
		val = strings.ToLower(val)
	}
	return l.makeItem(tok, val)
}

func (l *Lexer) scanNumber() token.Item {
	tok := token.INT

	if l.pos+1 < len(l.input) && l.input[l.pos] == '0' &&
		(l.input[l.pos+1] == 'x' || l.input[l.pos+1] == 'X') {
		l.pos += 2
		for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
			l.pos++
		}
		return l.makeItem(token.INT, l.input[l.start:l.pos])
	}

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == '.' {
			return l.makeItem(tok, l.input[l.start:l.pos])
		}
		tok = token.FLOAT
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}

	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			tok = token.FLOAT
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}

	return l.makeItem(tok, l.input[l.start:l.pos])
}

// scanString scans a standard string constant 'like this'', or, when
// extended is set, an E'extended string' that interprets backslash escapes
// the way the standard form does not.
func (l *Lexer) scanString(quote byte, extended bool) token.Item {
	l.pos++ // skip opening quote
	var buf []byte
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == quote {
				buf = append(buf, quote)
				l.pos += 2
				continue
			}
			l.pos++
			if buf == nil {
				return l.makeItem(token.STRING, l.input[l.start+offsetForQuote(extended):l.pos-1])
			}
			return l.makeItem(token.STRING, string(buf))
		}
		if extended && ch == '\\' && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			switch next {
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case 'r':
				buf = append(buf, '\r')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '\\':
				buf = append(buf, '\\')
			case '\'':
				buf = append(buf, '\'')
			case '"':
				buf = append(buf, '"')
			default:
				buf = append(buf, '\\', next)
			}
			l.pos += 2
			continue
		}
		if ch == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		buf = append(buf, ch)
		l.pos++
	}
	return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
}

func offsetForQuote(extended bool) int {
	if extended {
		return 2 // skip leading E and opening quote
	}
	return 1
}

// scanTypedBitString scans B'...' or X'...' literals; their contents are
// never escape-processed.
func (l *Lexer) scanTypedBitString(kind token.Token) token.Item {
	l.pos++ // skip B/X marker
	l.pos++ // skip opening quote
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\'' {
			val := l.input[l.start+2 : l.pos]
			l.pos++
			return l.makeItem(kind, val)
		}
		if ch == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		l.pos++
	}
	return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
}

// scanUnicodeEscape scans U&'...' or U&"..." forms. The trailing
// UESCAPE 'c' clause, if present, is left for the parser to consume as a
// following string literal; the lexer records the raw body verbatim.
func (l *Lexer) scanUnicodeEscape() token.Item {
	l.pos += 2 // skip U&
	quote := l.input[l.pos]
	kind := token.USTRING
	if quote == '"' {
		kind = token.UIDENT
	}
	l.pos++ // skip opening quote
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == quote {
				l.pos += 2
				continue
			}
			val := l.input[l.start+3 : l.pos]
			l.pos++
			return l.makeItem(kind, val)
		}
		if ch == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		l.pos++
	}
	return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
}

func (l *Lexer) scanQuotedIdentifier() token.Item {
	l.pos++ // skip opening "
	var buf []byte
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '"' {
				buf = append(buf, '"')
				l.pos += 2
				continue
			}
			l.pos++
			if buf == nil {
				return l.makeItem(token.QIDENT, l.input[l.start+1:l.pos-1])
			}
			return l.makeItem(token.QIDENT, string(buf))
		}
		if ch == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		buf = append(buf, ch)
		l.pos++
	}
	return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
}

func (l *Lexer) scanDollar() token.Item {
	l.pos++
	if l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		return l.makeItem(token.PARAM, l.input[l.start:l.pos])
	}
	if l.pos < len(l.input) {
		tag := ""
		if l.input[l.pos] == '$' {
			l.pos++
		} else if isIdentStart(l.input[l.pos]) {
			tagStart := l.pos
			for l.pos < len(l.input) && isTagChar(l.input[l.pos]) {
				l.pos++
			}
			if l.pos < len(l.input) && l.input[l.pos] == '$' {
				tag = l.input[tagStart:l.pos]
				l.pos++
			} else {
				l.pos = l.start + 1
				return l.makeItem(token.ILLEGAL, "$")
			}
		} else {
			return l.makeItem(token.ILLEGAL, "$")
		}
		return l.scanDollarQuotedStringContent(tag)
	}
	return l.makeItem(token.ILLEGAL, "$")
}

func (l *Lexer) scanDollarQuotedStringContent(tag string) token.Item {
	contentStart := l.pos
	endDelim := "$" + tag + "$"

	for l.pos < len(l.input) {
		if l.input[l.pos] == '$' {
			if l.pos+len(endDelim) <= len(l.input) &&
				l.input[l.pos:l.pos+len(endDelim)] == endDelim {
				content := l.input[contentStart:l.pos]
				l.pos += len(endDelim)
				return l.makeItem(token.DOLLARSTRING, content)
			}
		}
		if l.input[l.pos] == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		l.pos++
	}
	return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
}

// scanOperator consumes the maximal run of operator characters starting at
// the current position, then trims a trailing run of +/- unless the
// operator also contains one of ~!@#%^&|`? -- PostgreSQL's rule for keeping
// "a+-b" from lexing as a single operator while still allowing "!=" and
// "=>"-style multi-char operators to end in neither + nor -.
func (l *Lexer) scanOperator() token.Item {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if strings.IndexByte(operatorChars, ch) < 0 {
			break
		}
		// Never extend an operator run across a comment start.
		if ch == '-' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '-' {
			break
		}
		if ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*' {
			break
		}
		l.pos++
	}
	end := l.pos
	for end > l.start+1 {
		c := l.input[end-1]
		if c != '+' && c != '-' {
			break
		}
		if strings.ContainsAny(l.input[l.start:end], "~!@#%^&|`?") {
			break
		}
		end--
	}
	l.pos = end
	return l.makeItem(token.OP, l.input[l.start:l.pos])
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}

func isTagChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
