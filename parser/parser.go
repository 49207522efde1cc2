// Package parser provides a recursive descent SQL parser. It tokenizes
// its input eagerly into a buffer up front, then walks that buffer with
// arbitrary lookahead -- unlike the lexer it sits on, which only offers
// one token of lookahead via Next/Peek.
package parser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/errs"
	"github.com/freeeve/machparse/lexer"
	"github.com/freeeve/machparse/token"
)

// Mode selects which operator precedence table governs expression
// parsing. Pre95 mirrors PostgreSQL's grammar before the 9.5 operator
// precedence fix, where NOT bound tighter relative to comparison and
// the pattern-matching operators sat at IS's level rather than their
// own. Current matches present-day PostgreSQL.
type Mode int

const (
	Current Mode = iota
	Pre95
)

// Precedence levels, lowest to highest, matching PostgreSQL's
// documented expression precedence ladder.
const (
	precOr = (iota + 1) * 10
	precAnd
	precNot
	precIs
	precComparison
	precPattern
	precOverlaps
	precBetween
	precIn
	precPostfixOp
	precGenericOp
	_ // gap so ADD lands on 130 as documented
	precAdd
	precMul
	precExp
	precAtTimeZone
	precCollate
	precUnaryMinus
	precTypecast
)

// precAtom is not a real operator level; it is the "nothing binds
// looser than a primary expression" floor passed to parseExpr when a
// caller wants just one primary/postfix term.
const precAtom = 666

// Parser parses PostgreSQL SQL text into an AST rooted at a Statement.
// Construction tokenizes the entire input; parsing itself is pure
// index arithmetic over that buffer, which is what lets the grammar
// backtrack a tentative parenthesized-list or parenthesized-select parse
// cheaply.
type Parser struct {
	tokens []token.Item
	pos    int
	mode   Mode

	// logger is nil by default, keeping the parser silent. Callers that
	// want entry/exit tracing of major productions set it with
	// SetLogger, mirroring how vippsas/sqlcode threads a
	// logrus.FieldLogger through its own tooling.
	logger logrus.FieldLogger
}

// SetLogger installs a logger for debug-level tracing of major parser
// productions. It is purely a diagnostic aid, never load-bearing for
// correctness; passing nil restores silence.
func (p *Parser) SetLogger(logger logrus.FieldLogger) *Parser {
	p.logger = logger
	return p
}

func (p *Parser) logDebug(fields logrus.Fields, msg string) {
	if p.logger == nil {
		return
	}
	p.logger.WithFields(fields).Debug(msg)
}

// New creates a Parser for src using the current (post-9.5) precedence
// table.
func New(src string) *Parser { return NewWithMode(src, Current) }

// NewWithMode creates a Parser for src using the given precedence mode.
func NewWithMode(src string, mode Mode) *Parser {
	p := &Parser{mode: mode}
	lx := lexer.New(src)
	for {
		it := lx.Next()
		if it.Type == token.COMMENT {
			continue
		}
		p.tokens = append(p.tokens, it)
		if it.Type == token.EOF {
			break
		}
	}
	return p
}

// Parse parses one SQL statement from src, using the current precedence
// table.
func Parse(src string) (ast.Statement, error) {
	return New(src).ParseStatement()
}

// ParseWithMode parses one SQL statement from src under the given
// precedence mode.
func ParseWithMode(src string, mode Mode) (ast.Statement, error) {
	return NewWithMode(src, mode).ParseStatement()
}

func (p *Parser) cur() token.Item { return p.tokens[p.pos] }

func (p *Parser) at(offset int) token.Item {
	idx := p.pos + offset
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Item {
	it := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return it
}

func (p *Parser) atEOF() bool { return p.cur().Type == token.EOF }

// mark/reset give the grammar's tentative-parse paths (a parenthesized
// GROUP BY list vs a plain parenthesized expression, a parenthesized FROM
// item, a subselect vs a row on the right of a multi-column SET) a cheap
// way to backtrack.
func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(mark int) { p.pos = mark }

func (p *Parser) errPos() errs.Position {
	it := p.cur()
	return errs.Position{Offset: it.Pos.Offset, Line: it.Pos.Line, Column: it.Pos.Column}
}

func (p *Parser) errf(format string, args ...any) error {
	return errs.NewSyntaxError(p.errPos(), fmt.Sprintf(format, args...))
}

func (p *Parser) errExpected(want string) error {
	got := p.cur()
	gotDesc := got.Value
	if gotDesc == "" {
		gotDesc = got.Type.String()
	}
	return errs.NewSyntaxError(p.errPos(), "unexpected token").WithExpectedGot(want, gotDesc)
}

// expect consumes the current token if it matches t, else raises a
// syntax error naming t as what was expected.
func (p *Parser) expect(t token.Token) (token.Item, error) {
	if p.cur().Type != t {
		return token.Item{}, p.errExpected(t.String())
	}
	return p.advance(), nil
}

func (p *Parser) is(t token.Token) bool { return p.cur().Type == t }

func (p *Parser) accept(t token.Token) bool {
	if p.is(t) {
		p.advance()
		return true
	}
	return false
}

// identWord reports whether the current token spells word as a bare
// (unquoted) identifier, case-insensitively. The token vocabulary has
// no dedicated keyword for TO or the YES/NO/STANDALONE words XMLROOT
// needs, so those are recognized this way instead of via token.Token.
func (p *Parser) identWord(word string) bool {
	it := p.cur()
	return it.Type == token.IDENT && eqFold(it.Value, word)
}

func (p *Parser) acceptIdentWord(word string) bool {
	if p.identWord(word) {
		p.advance()
		return true
	}
	return false
}

func eqFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ParseStatement parses exactly one statement, optionally followed by a
// trailing semicolon, and requires the rest of the input be empty.
func (p *Parser) ParseStatement() (ast.Statement, error) {
	p.logDebug(logrus.Fields{"tokens": len(p.tokens), "pos": p.pos}, "parseStatement")
	stmt, err := p.parseStatement()
	if err != nil {
		p.logDebug(logrus.Fields{"error": err}, "parseStatement failed")
		return nil, err
	}
	p.accept(token.SEMICOLON)
	if !p.atEOF() {
		err := p.errf("unexpected trailing input after statement")
		p.logDebug(logrus.Fields{"error": err}, "trailing input after statement")
		return nil, err
	}
	p.logDebug(logrus.Fields{"type": fmt.Sprintf("%T", stmt)}, "parseStatement succeeded")
	return stmt, nil
}

// ParseSelectStatement implements ast.SetOpSelectParser, letting
// Select/SetOpSelect/Values' Union/Intersect/Except combinators parse a
// raw SQL fragment for the right-hand operand.
func (p *Parser) ParseSelectStatement(src string) (ast.Statement, error) {
	sub := NewWithMode(src, p.mode)
	stmt, err := sub.parseStatement()
	if err != nil {
		return nil, err
	}
	sub.accept(token.SEMICOLON)
	if !sub.atEOF() {
		return nil, sub.errf("unexpected trailing input in set-operation fragment")
	}
	return stmt, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	with, err := p.parseOptionalWithClause()
	if err != nil {
		return nil, err
	}
	switch p.cur().Type {
	case token.SELECT, token.VALUES, token.LPAREN:
		left, err := p.parseSelectOperand(with)
		if err != nil {
			return nil, err
		}
		combined, err := p.parseSetOpTail(left, precSelectBase)
		if err != nil {
			return nil, err
		}
		return p.parseOptionalTailClauses(combined)
	case token.INSERT:
		return p.parseInsert(with)
	case token.UPDATE:
		return p.parseUpdate(with)
	case token.DELETE:
		return p.parseDelete(with)
	default:
		return nil, p.errf("expected SELECT, VALUES, INSERT, UPDATE, or DELETE, got %s", p.cur().Type)
	}
}

// set-operation precedence: UNION and EXCEPT bind looser than
// INTERSECT, which binds looser than a bare select/values operand;
// all three are left-associative.
const (
	precUnionExcept = 1
	precIntersect   = 2
	precSelectBase  = 3
)

func (p *Parser) parseSetOpTail(left ast.SelectCommon, minPrec int) (ast.SelectCommon, error) {
	for {
		var op string
		var opPrec int
		switch p.cur().Type {
		case token.UNION:
			op, opPrec = "union", precUnionExcept
		case token.EXCEPT:
			op, opPrec = "except", precUnionExcept
		case token.INTERSECT:
			op, opPrec = "intersect", precIntersect
		default:
			return left, nil
		}
		if opPrec < minPrec {
			return left, nil
		}
		p.advance()
		all := p.accept(token.ALL)
		if !all {
			p.accept(token.DISTINCT)
		}
		right, err := p.parseSelectOperand(nil)
		if err != nil {
			return nil, err
		}
		right, err = p.parseSetOpTail(right, opPrec+1)
		if err != nil {
			return nil, err
		}
		combined := &ast.SetOpSelect{Op: op, All: all, Left: left, Right: right}
		ast.Attach(left, combined)
		ast.Attach(right, combined)
		left = combined
	}
}

// parseSelectOperand parses one operand of a (possible) set operation:
// a bare SELECT, a bare VALUES, or a parenthesized statement. with is
// attached to the operand when it is a bare SELECT/VALUES; PostgreSQL
// disallows a WITH clause directly in front of a parenthesized operand
// here (it would have been consumed as that operand's own WITH).
func (p *Parser) parseSelectOperand(with *ast.WithClause) (ast.SelectCommon, error) {
	switch p.cur().Type {
	case token.SELECT:
		return p.parseSimpleSelect(with)
	case token.VALUES:
		return p.parseValues(with)
	case token.LPAREN:
		return p.parseParenSelect()
	default:
		return nil, p.errExpected("SELECT, VALUES, or (")
	}
}

func (p *Parser) parseParenSelect() (ast.SelectCommon, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	with, err := p.parseOptionalWithClause()
	if err != nil {
		return nil, err
	}
	inner, err := p.parseSelectOperand(with)
	if err != nil {
		return nil, err
	}
	inner, err = p.parseSetOpTail(inner, precSelectBase)
	if err != nil {
		return nil, err
	}
	innerStmt, err := p.parseOptionalTailClauses(inner)
	if err != nil {
		return nil, err
	}
	inner, _ = innerStmt.(ast.SelectCommon)
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseOptionalTailClauses parses ORDER BY/LIMIT/OFFSET/locking and
// attaches them to whichever SelectCommon concrete type node holds --
// these clauses bind to the outermost result of a set-operation chain,
// never to one of its interior operands.
func (p *Parser) parseOptionalTailClauses(node ast.SelectCommon) (ast.Statement, error) {
	orderBy, err := p.parseOptionalOrderBy()
	if err != nil {
		return nil, err
	}
	limit, limitWithTies, offset, err := p.parseOptionalLimitOffset()
	if err != nil {
		return nil, err
	}
	locking, err := p.parseOptionalLocking()
	if err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case *ast.Select:
		if orderBy != nil {
			n.OrderBy = orderBy
			ast.Attach(orderBy, n)
		}
		if limit != nil {
			n.Limit = limit
			n.LimitWithTies = limitWithTies
			ast.Attach(limit, n)
		}
		if offset != nil {
			n.Offset = offset
			ast.Attach(offset, n)
		}
		n.Locking = locking
	case *ast.Values:
		if orderBy != nil {
			n.OrderBy = orderBy
			ast.Attach(orderBy, n)
		}
		if limit != nil {
			n.Limit = limit
			n.LimitWithTies = limitWithTies
			ast.Attach(limit, n)
		}
		if offset != nil {
			n.Offset = offset
			ast.Attach(offset, n)
		}
	case *ast.SetOpSelect:
		if orderBy != nil {
			n.OrderBy = orderBy
			ast.Attach(orderBy, n)
		}
		if limit != nil {
			n.Limit = limit
			ast.Attach(limit, n)
		}
		if offset != nil {
			n.Offset = offset
			ast.Attach(offset, n)
		}
		n.Locking = locking
	}
	return node, nil
}
