package parser

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/token"
)

// parseExpr is the entry point of the precedence-climbing scalar
// expression grammar: it parses a unary/primary term, then repeatedly
// folds in any trailing infix operator whose precedence is at or above
// minPrec. Pre95 mode reorders a handful of bindings relative to
// Current (see Mode's doc comment); that reordering happens inside the
// level lookups below rather than via a second constant table, since
// only a few levels actually move.
func (p *Parser) parseExpr(minPrec int) (ast.ScalarExpr, error) {
	p.logDebug(logrus.Fields{"pos": p.pos, "token": p.cur().Value, "minPrec": minPrec}, "parseExpr")
	left, err := p.parseUnaryExpr(minPrec)
	if err != nil {
		return nil, err
	}
	return p.parseInfix(left, minPrec)
}

func (p *Parser) notPrec() int {
	if p.mode == Pre95 {
		return precComparison
	}
	return precNot
}

func (p *Parser) patternPrec() int {
	if p.mode == Pre95 {
		return precIs
	}
	return precPattern
}

// parseUnaryExpr parses a unary-prefix operator application or falls
// through to a primary expression with its postfix indirection chain.
func (p *Parser) parseUnaryExpr(minPrec int) (ast.ScalarExpr, error) {
	switch {
	case p.is(token.NOT):
		prec := p.notPrec()
		if prec < minPrec {
			break
		}
		start := p.cur().Pos
		p.advance()
		operand, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		e := ast.NewLogicalExpression("not", operand)
		e.StartPos, e.EndPos = start, p.at(-1).Pos
		return e, nil
	case p.cur().Is(token.OP, "-") && precUnaryMinus >= minPrec:
		start := p.cur().Pos
		p.advance()
		operand, err := p.parseExpr(precUnaryMinus)
		if err != nil {
			return nil, err
		}
		e := ast.NewOperatorExpression("-", nil, operand)
		e.StartPos, e.EndPos = start, p.at(-1).Pos
		return e, nil
	case p.cur().Is(token.OP, "+") && precUnaryMinus >= minPrec:
		start := p.cur().Pos
		p.advance()
		operand, err := p.parseExpr(precUnaryMinus)
		if err != nil {
			return nil, err
		}
		e := ast.NewOperatorExpression("+", nil, operand)
		e.StartPos, e.EndPos = start, p.at(-1).Pos
		return e, nil
	case p.is(token.OP) && isGenericOpStart(p.cur().Value) && precGenericOp >= minPrec:
		start := p.cur().Pos
		op := p.advance().Value
		operand, err := p.parseExpr(precGenericOp)
		if err != nil {
			return nil, err
		}
		e := ast.NewOperatorExpression(op, nil, operand)
		e.StartPos, e.EndPos = start, p.at(-1).Pos
		return e, nil
	}
	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return p.parseIndirectionChain(expr)
}

// isGenericOpStart reports whether an OP token standing where a unary
// prefix operator could appear should be treated as one, rather than as
// something that can only ever be a binary/postfix form. "-"/"+" are
// handled separately above since they also drive numeric literal
// folding elsewhere; every other operator symbol in prefix position is
// a generic unary operator application.
func isGenericOpStart(op string) bool {
	return op != "" && op != "-" && op != "+"
}

// parseInfix folds in trailing binary/postfix operators, left to right,
// stopping at the first operator whose precedence is below minPrec.
func (p *Parser) parseInfix(left ast.ScalarExpr, minPrec int) (ast.ScalarExpr, error) {
	for {
		switch p.cur().Type {
		case token.AND:
			if precAnd < minPrec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpr(precAnd + 1)
			if err != nil {
				return nil, err
			}
			left = p.combineLogicalInfix(left, "and", right)
		case token.OR:
			if precOr < minPrec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpr(precOr + 1)
			if err != nil {
				return nil, err
			}
			left = p.combineLogicalInfix(left, "or", right)
		case token.IS:
			if precIs < minPrec {
				return left, nil
			}
			e, err := p.parseIsExpr(left)
			if err != nil {
				return nil, err
			}
			left = e
		case token.NOT:
			e, ok, err := p.parseNotModifiedPredicate(left, minPrec)
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			left = e
		case token.BETWEEN:
			if precBetween < minPrec {
				return left, nil
			}
			e, err := p.parseBetweenTail(left, false)
			if err != nil {
				return nil, err
			}
			left = e
		case token.IN:
			if precIn < minPrec {
				return left, nil
			}
			e, err := p.parseInTail(left, false)
			if err != nil {
				return nil, err
			}
			left = e
		case token.LIKE, token.ILIKE:
			if p.patternPrec() < minPrec {
				return left, nil
			}
			e, err := p.parsePatternTail(left, false)
			if err != nil {
				return nil, err
			}
			left = e
		case token.SIMILAR:
			if p.patternPrec() < minPrec {
				return left, nil
			}
			e, err := p.parseSimilarTail(left, false)
			if err != nil {
				return nil, err
			}
			left = e
		case token.COLLATE:
			if precCollate < minPrec {
				return left, nil
			}
			start := p.cur().Pos
			p.advance()
			name, err := p.parseQualifiedName()
			if err != nil {
				return nil, err
			}
			e := &ast.CollateExpression{StartPos: left.Pos(), EndPos: p.at(-1).Pos, Expr: left, Collation: name}
			ast.Attach(left, e)
			ast.Attach(name, e)
			left = e
		case token.AT:
			if precAtTimeZone < minPrec {
				return left, nil
			}
			start := p.cur().Pos
			p.advance()
			if _, err := p.expect(token.TIME); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.ZONE); err != nil {
				return nil, err
			}
			zone, err := p.parseExpr(precAtTimeZone + 1)
			if err != nil {
				return nil, err
			}
			e := ast.NewOperatorExpression("at time zone", left, zone)
			e.StartPos, e.EndPos = left.Pos(), p.at(-1).Pos
			left = e
		case token.DCOLON:
			if precTypecast < minPrec {
				return left, nil
			}
			p.advance()
			typ, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			e := &ast.TypecastExpression{StartPos: left.Pos(), EndPos: p.at(-1).Pos, Expr: left, Type: typ, Explicit: false}
			ast.Attach(e.Expr, e)
			ast.Attach(typ, e)
			left = e
		case token.OP:
			e, ok, err := p.parseOperatorInfix(left, minPrec)
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			left = e
		case token.IDENT:
			if !p.identWord("overlaps") {
				return left, nil
			}
			if precOverlaps < minPrec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpr(precOverlaps + 1)
			if err != nil {
				return nil, err
			}
			e := ast.NewOperatorExpression("overlaps", left, right)
			e.StartPos, e.EndPos = left.Pos(), p.at(-1).Pos
			left = e
		default:
			return left, nil
		}
	}
}

func (p *Parser) combineLogicalInfix(left ast.ScalarExpr, op string, right ast.ScalarExpr) ast.ScalarExpr {
	if l, ok := left.(*ast.LogicalExpression); ok && l.Op == op {
		l.Append(right)
		l.EndPos = p.at(-1).Pos
		return l
	}
	e := ast.NewLogicalExpression(op, left, right)
	e.StartPos, e.EndPos = left.Pos(), p.at(-1).Pos
	return e
}

// parseIsExpr parses the IS-prefixed tail: NULL/TRUE/FALSE/UNKNOWN/
// DOCUMENT, DISTINCT FROM, or OF (type, ...), each with an optional
// leading NOT.
func (p *Parser) parseIsExpr(left ast.ScalarExpr) (ast.ScalarExpr, error) {
	p.advance() // IS
	not := p.accept(token.NOT)
	e := &ast.IsOfExpression{StartPos: left.Pos(), Expr: left, Not: not}
	switch {
	case p.accept(token.NULL):
		e.Predicate = "null"
	case p.accept(token.TRUE):
		e.Predicate = "true"
	case p.accept(token.FALSE):
		e.Predicate = "false"
	case p.accept(token.UNKNOWN):
		e.Predicate = "unknown"
	case p.accept(token.DOCUMENT):
		e.Predicate = "document"
	case p.accept(token.DISTINCT):
		if _, err := p.expect(token.FROM); err != nil {
			return nil, err
		}
		other, err := p.parseExpr(precComparison + 1)
		if err != nil {
			return nil, err
		}
		e.Predicate = "distinct from"
		e.DistinctFrom = other
		ast.Attach(other, e)
	case p.accept(token.OF):
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		for {
			typ, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			e.OfTypes = append(e.OfTypes, typ)
			ast.Attach(typ, e)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		e.Predicate = "of"
	default:
		return nil, p.errExpected("NULL, TRUE, FALSE, UNKNOWN, DOCUMENT, DISTINCT FROM, or OF")
	}
	ast.Attach(left, e)
	e.EndPos = p.at(-1).Pos
	return e, nil
}

// parseNotModifiedPredicate handles the `NOT BETWEEN/IN/LIKE/ILIKE/
// SIMILAR TO` negated predicates, which share BETWEEN/IN/pattern's own
// precedence level rather than binding at NOT's.
func (p *Parser) parseNotModifiedPredicate(left ast.ScalarExpr, minPrec int) (ast.ScalarExpr, bool, error) {
	switch p.at(1).Type {
	case token.BETWEEN:
		if precBetween < minPrec {
			return nil, false, nil
		}
		p.advance()
		e, err := p.parseBetweenTail(left, true)
		return e, err == nil, err
	case token.IN:
		if precIn < minPrec {
			return nil, false, nil
		}
		p.advance()
		e, err := p.parseInTail(left, true)
		return e, err == nil, err
	case token.LIKE, token.ILIKE:
		if p.patternPrec() < minPrec {
			return nil, false, nil
		}
		p.advance()
		e, err := p.parsePatternTail(left, true)
		return e, err == nil, err
	case token.SIMILAR:
		if p.patternPrec() < minPrec {
			return nil, false, nil
		}
		p.advance()
		e, err := p.parseSimilarTail(left, true)
		return e, err == nil, err
	}
	return nil, false, nil
}

func (p *Parser) parseBetweenTail(left ast.ScalarExpr, not bool) (ast.ScalarExpr, error) {
	p.advance() // BETWEEN
	symmetric := false
	switch {
	case p.accept(token.SYMMETRIC):
		symmetric = true
	case p.accept(token.ASYMMETRIC):
	}
	low, err := p.parseExpr(precBetween + 1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AND); err != nil {
		return nil, err
	}
	high, err := p.parseExpr(precBetween + 1)
	if err != nil {
		return nil, err
	}
	e := &ast.BetweenExpression{
		StartPos: left.Pos(), EndPos: p.at(-1).Pos,
		Expr: left, Not: not, Symmetric: symmetric, Low: low, High: high,
	}
	ast.Attach(left, e)
	ast.Attach(low, e)
	ast.Attach(high, e)
	return e, nil
}

func (p *Parser) parseInTail(left ast.ScalarExpr, not bool) (ast.ScalarExpr, error) {
	p.advance() // IN
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	e := &ast.InExpression{StartPos: left.Pos(), Expr: left, Not: not}
	if looksLikeSelectStart(p.cur().Type) {
		sub, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		e.Subselect = sub
		ast.Attach(sub, e)
	} else {
		list := ast.NewExpressionList()
		list.SetParser(p)
		for {
			item, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			list.Append(item)
			if !p.accept(token.COMMA) {
				break
			}
		}
		e.List = list
		ast.Attach(list, e)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	ast.Attach(left, e)
	e.EndPos = p.at(-1).Pos
	return e, nil
}

func (p *Parser) parsePatternTail(left ast.ScalarExpr, not bool) (ast.ScalarExpr, error) {
	op := "like"
	if p.is(token.ILIKE) {
		op = "ilike"
	}
	p.advance()
	pattern, err := p.parseExpr(p.patternPrec() + 1)
	if err != nil {
		return nil, err
	}
	e := &ast.PatternMatchingExpression{StartPos: left.Pos(), Expr: left, Op: op, Not: not, Pattern: pattern}
	ast.Attach(left, e)
	ast.Attach(pattern, e)
	if p.accept(token.ESCAPE) {
		esc, err := p.parseExpr(p.patternPrec() + 1)
		if err != nil {
			return nil, err
		}
		e.Escape = esc
		ast.Attach(esc, e)
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

func (p *Parser) parseSimilarTail(left ast.ScalarExpr, not bool) (ast.ScalarExpr, error) {
	p.advance() // SIMILAR
	if !p.acceptIdentWord("to") {
		return nil, p.errExpected("TO")
	}
	pattern, err := p.parseExpr(p.patternPrec() + 1)
	if err != nil {
		return nil, err
	}
	e := &ast.PatternMatchingExpression{StartPos: left.Pos(), Expr: left, Op: "similar to", Not: not, Pattern: pattern}
	ast.Attach(left, e)
	ast.Attach(pattern, e)
	if p.accept(token.ESCAPE) {
		esc, err := p.parseExpr(p.patternPrec() + 1)
		if err != nil {
			return nil, err
		}
		e.Escape = esc
		ast.Attach(esc, e)
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

var comparisonOps = map[string]bool{
	"=": true, "<": true, ">": true, "<=": true, ">=": true, "<>": true, "!=": true,
}

// binaryOpPrec returns the binding precedence of an infix operator
// symbol: +/- and the multiplicative/exponent operators each sit above
// the generic "any other operator" bucket, per PostgreSQL's documented
// precedence table.
func binaryOpPrec(op string) int {
	switch op {
	case "+", "-":
		return precAdd
	case "*", "/", "%":
		return precMul
	case "^":
		return precExp
	default:
		return precGenericOp
	}
}

// parseOperatorInfix handles an OP token in infix position: a
// comparison operator (possibly decorated with a trailing ANY/ALL/SOME
// subselect), an arithmetic operator at its own precedence level, or
// else a generic binary operator at precGenericOp.
func (p *Parser) parseOperatorInfix(left ast.ScalarExpr, minPrec int) (ast.ScalarExpr, bool, error) {
	op := p.cur().Value
	if comparisonOps[op] {
		if precComparison < minPrec {
			return nil, false, nil
		}
		e, err := p.parseComparisonTail(left, op)
		return e, err == nil, err
	}
	prec := binaryOpPrec(op)
	if prec < minPrec {
		return nil, false, nil
	}
	start := p.cur().Pos
	p.advance()
	right, err := p.parseExpr(prec + 1)
	if err != nil {
		return nil, false, err
	}
	e := ast.NewOperatorExpression(op, left, right)
	e.StartPos, e.EndPos = left.Pos(), start
	return e, true, nil
}

// parseComparisonTail parses a comparison operator's right-hand side,
// which may be a plain scalar or an ANY/ALL/SOME-decorated subselect.
func (p *Parser) parseComparisonTail(left ast.ScalarExpr, op string) (ast.ScalarExpr, error) {
	p.advance()
	if p.is(token.ANY) || p.is(token.ALL) || p.is(token.SOME) {
		kind := strings.ToLower(p.cur().Value)
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		right, err := p.parseSubselectOrExpr(kind)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		e := ast.NewOperatorExpression(op, left, right)
		e.StartPos, e.EndPos = left.Pos(), p.at(-1).Pos
		return e, nil
	}
	right, err := p.parseExpr(precComparison + 1)
	if err != nil {
		return nil, err
	}
	e := ast.NewOperatorExpression(op, left, right)
	e.StartPos, e.EndPos = left.Pos(), p.at(-1).Pos
	return e, nil
}

// parseSubselectOrExpr parses the parenthesized body of `op ANY(...)`:
// either a subquery or a plain array-valued expression, wrapped as a
// SubselectExpression tagged with kind either way so the printer always
// reprints the decoration.
func (p *Parser) parseSubselectOrExpr(kind string) (ast.ScalarExpr, error) {
	start := p.cur().Pos
	if looksLikeSelectStart(p.cur().Type) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		se := &ast.SubselectExpression{StartPos: start, Op: kind, Query: stmt}
		ast.Attach(stmt, se)
		se.EndPos = p.at(-1).Pos
		return se, nil
	}
	return p.parseExpr(precOr)
}

// parsePrimaryExpr parses one primary (atomic) scalar expression term:
// a literal, parameter, identifier-led reference/call, parenthesized
// expression, or keyword-introduced special form.
func (p *Parser) parsePrimaryExpr() (ast.ScalarExpr, error) {
	it := p.cur()
	switch it.Type {
	case token.INT:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstInt, Value: it.Value}, nil
	case token.FLOAT:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstFloat, Value: it.Value}, nil
	case token.STRING, token.DOLLARSTRING:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstString, Value: it.Value}, nil
	case token.NSTRING:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstNString, Value: it.Value}, nil
	case token.BSTRING:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstBString, Value: it.Value}, nil
	case token.XSTRING:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstXString, Value: it.Value}, nil
	case token.USTRING:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstString, Value: it.Value}, nil
	case token.TRUE:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstBool, Value: "true"}, nil
	case token.FALSE:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstBool, Value: "false"}, nil
	case token.NULL:
		p.advance()
		return &ast.Constant{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ConstNull}, nil
	case token.PARAM:
		p.advance()
		idx, _ := strconv.Atoi(strings.TrimPrefix(it.Value, "$"))
		return &ast.Parameter{StartPos: it.Pos, EndPos: it.Pos, Kind: ast.ParamPositional, Index: idx}, nil
	case token.COLON:
		p.advance()
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return &ast.Parameter{StartPos: it.Pos, EndPos: p.at(-1).Pos, Kind: ast.ParamNamed, Name: name.Name}, nil
	case token.OP:
		if it.Value == "*" {
			p.advance()
			return &ast.Star{StartPos: it.Pos, EndPos: it.Pos}, nil
		}
		return nil, p.errExpected("expression")
	case token.LPAREN:
		return p.parseParenExprOrRow()
	case token.ROW:
		return p.parseRowExpr()
	case token.CASE:
		return p.parseCaseExpr()
	case token.CAST:
		return p.parseCastExpr()
	case token.EXISTS:
		return p.parseExistsExpr()
	case token.ARRAY:
		return p.parseArrayExpr()
	case token.INTERVAL:
		return p.parseIntervalLiteral()
	case token.EXTRACT:
		return p.parseExtractExpr()
	case token.TRIM:
		return p.parseTrimExpr()
	case token.SUBSTRING:
		return p.parseSubstringExpr()
	case token.POSITION:
		return p.parsePositionExpr()
	case token.GROUPING:
		return p.parseGroupingExpr()
	case token.XMLELEMENT:
		return p.parseXmlElementExpr()
	case token.XMLFOREST:
		return p.parseXmlForestExpr()
	case token.XMLPARSE:
		return p.parseXmlParseExpr()
	case token.XMLPI:
		return p.parseXmlPiExpr()
	case token.XMLROOT:
		return p.parseXmlRootExpr()
	case token.XMLSERIALIZE:
		return p.parseXmlSerializeExpr()
	case token.DEFAULT:
		p.advance()
		return &ast.SetToDefault{StartPos: it.Pos, EndPos: it.Pos}, nil
	case token.TIME, token.TIMESTAMP:
		return p.parseTypeLiteral()
	case token.ANY, token.ALL, token.SOME:
		// A bare ANY/ALL/SOME only ever appears decorating a comparison
		// operator's right-hand side, handled in parseComparisonTail; it
		// is never a primary expression on its own.
		return nil, p.errExpected("expression")
	default:
		return p.parseIdentifierLed()
	}
}

// parseIdentifierLed parses anything that starts with a (possibly
// qualified, possibly keyword-spelled) identifier: a bare column
// reference, a qualified column reference ending in a name or a star,
// or a function call/expression when a ( immediately follows the name.
func (p *Parser) parseIdentifierLed() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	parts := []*ast.Identifier{first}
	for p.is(token.DOT) {
		if p.at(1).Is(token.OP, "*") {
			p.advance()
			p.advance()
			cr := &ast.ColumnReference{
				StartPos: start, EndPos: p.at(-1).Pos,
				Qualifiers: parts, Star: &ast.Star{StartPos: p.at(-1).Pos, EndPos: p.at(-1).Pos},
			}
			for _, q := range parts {
				ast.Attach(q, cr)
			}
			ast.Attach(cr.Star, cr)
			return cr, nil
		}
		p.advance()
		next, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if p.is(token.LPAREN) {
		name := partsToQualifiedName(parts)
		name.StartPos = start
		return p.parseFunctionCallOrExpression(start, name)
	}
	qualifiers := parts[:len(parts)-1]
	name := parts[len(parts)-1]
	cr := &ast.ColumnReference{StartPos: start, EndPos: p.at(-1).Pos, Qualifiers: qualifiers, Name: name}
	for _, q := range qualifiers {
		ast.Attach(q, cr)
	}
	ast.Attach(name, cr)
	return cr, nil
}

func partsToQualifiedName(parts []*ast.Identifier) *ast.QualifiedName {
	q := &ast.QualifiedName{}
	switch len(parts) {
	case 1:
		q.Relation = parts[0]
	case 2:
		q.Schema, q.Relation = parts[0], parts[1]
	default:
		q.Catalog, q.Schema, q.Relation = parts[0], parts[1], parts[len(parts)-1]
	}
	ast.Attach(q.Catalog, q)
	ast.Attach(q.Schema, q)
	ast.Attach(q.Relation, q)
	return q
}

// parseIndirectionChain parses zero or more trailing `.field`/`[i]`/
// `[i:j]` postfix operations, centralizing indirection handling in one
// place instead of duplicating it across every primary-expression form.
func (p *Parser) parseIndirectionChain(expr ast.ScalarExpr) (ast.ScalarExpr, error) {
	var ops []ast.IndirectionOp
	for {
		switch {
		case p.is(token.DOT):
			if p.at(1).Is(token.OP, "*") {
				p.advance()
				p.advance()
				ops = append(ops, ast.IndirectionOp{Star: true})
				continue
			}
			p.advance()
			field, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			ops = append(ops, ast.IndirectionOp{Field: field})
		case p.is(token.LBRACKET):
			p.advance()
			var lower, upper ast.ScalarExpr
			var err error
			if !p.is(token.COLON) {
				lower, err = p.parseExpr(precOr)
				if err != nil {
					return nil, err
				}
			}
			slice := false
			if p.accept(token.COLON) {
				slice = true
				if !p.is(token.RBRACKET) {
					upper, err = p.parseExpr(precOr)
					if err != nil {
						return nil, err
					}
				}
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			ops = append(ops, ast.IndirectionOp{Lower: lower, Upper: upper, Slice: slice})
		default:
			if len(ops) == 0 {
				return expr, nil
			}
			ind := &ast.Indirection{StartPos: expr.Pos(), EndPos: p.at(-1).Pos, Expr: expr, Ops: ops}
			ast.Attach(expr, ind)
			for _, op := range ops {
				ast.Attach(op.Field, ind)
				ast.Attach(op.Lower, ind)
				ast.Attach(op.Upper, ind)
			}
			return ind, nil
		}
	}
}

// parseParenExprOrRow disambiguates `(expr)`, `(expr, ...)` (an
// implicit row constructor), and `(subquery)` -- all share the same `(`
// lead-in, so this tries the subquery interpretation first via a
// lookahead check, then falls back to an expression/row-list parse.
func (p *Parser) parseParenExprOrRow() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	if looksLikeSelectStart(p.at(1).Type) {
		p.advance()
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		se := &ast.SubselectExpression{StartPos: start, Query: stmt}
		ast.Attach(stmt, se)
		se.EndPos = p.at(-1).Pos
		return se, nil
	}
	p.advance()
	first, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if p.accept(token.COMMA) {
		fields := ast.NewExpressionList()
		fields.SetParser(p)
		fields.Append(first)
		for {
			e, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			fields.Append(e)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		row := &ast.RowExpression{StartPos: start, EndPos: p.at(-1).Pos, Fields: fields, Explicit: false}
		ast.Attach(fields, row)
		return row, nil
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return first, nil
}

func (p *Parser) parseRowExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // ROW
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	fields := ast.NewExpressionList()
	fields.SetParser(p)
	if !p.is(token.RPAREN) {
		for {
			e, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			fields.Append(e)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	row := &ast.RowExpression{StartPos: start, EndPos: p.at(-1).Pos, Fields: fields, Explicit: true}
	ast.Attach(fields, row)
	return row, nil
}

func (p *Parser) parseCaseExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // CASE
	e := &ast.CaseExpression{StartPos: start}
	if !p.is(token.WHEN) {
		arg, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		e.Arg = arg
		ast.Attach(arg, e)
	}
	for p.accept(token.WHEN) {
		whenStart := p.at(-1).Pos
		when, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		then, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		w := &ast.WhenExpression{StartPos: whenStart, EndPos: p.at(-1).Pos, When: when, Then: then}
		ast.Attach(when, w)
		ast.Attach(then, w)
		e.AddWhen(w)
	}
	if len(e.Whens) == 0 {
		return nil, p.errExpected("WHEN")
	}
	if p.accept(token.ELSE) {
		els, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		e.Else = els
		ast.Attach(els, e)
	}
	if _, err := p.expect(token.END); err != nil {
		return nil, err
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

func (p *Parser) parseCastExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // CAST
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e := &ast.TypecastExpression{StartPos: start, EndPos: p.at(-1).Pos, Expr: expr, Type: typ, Explicit: true}
	ast.Attach(expr, e)
	ast.Attach(typ, e)
	return e, nil
}

// parseTypeName parses a SQL type reference: a qualified name or one of
// the multi-word built-in spellings (TIME/TIMESTAMP WITH/WITHOUT TIME
// ZONE, VARCHAR-style typmods, SETOF prefix), plus any trailing typmod
// list and array-bound suffix.
func (p *Parser) parseTypeName() (*ast.TypeName, error) {
	start := p.cur().Pos
	setOf := p.acceptIdentWord("setof")
	var name *ast.QualifiedName
	var withTZ, withoutTZ bool
	var modifiers []ast.ScalarExpr
	switch {
	case p.is(token.TIME) || p.is(token.TIMESTAMP):
		word := p.advance().Value
		id := ast.NewIdentifier(strings.ToLower(word), false)
		name = ast.NewQualifiedName(id)
		if p.is(token.LPAREN) {
			mods, err := p.parseTypmodList()
			if err != nil {
				return nil, err
			}
			modifiers = mods
		}
		switch {
		case p.accept(token.WITH):
			if _, err := p.expect(token.TIME); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.ZONE); err != nil {
				return nil, err
			}
			withTZ = true
		case p.accept(token.WITHOUT):
			if _, err := p.expect(token.TIME); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.ZONE); err != nil {
				return nil, err
			}
			withoutTZ = true
		}
	default:
		var err error
		name, err = p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		if p.is(token.LPAREN) {
			mods, err := p.parseTypmodList()
			if err != nil {
				return nil, err
			}
			modifiers = mods
		}
		p.accept(token.VARYING)
	}
	arrayBounds := 0
	for p.accept(token.LBRACKET) {
		if p.is(token.INT) {
			p.advance()
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		arrayBounds++
	}
	t := &ast.TypeName{
		StartPos: start, EndPos: p.at(-1).Pos,
		Name: name, Modifiers: modifiers, ArrayBounds: arrayBounds,
		SetOf: setOf, WithTimeZone: withTZ, WithoutTimeZone: withoutTZ,
	}
	ast.Attach(name, t)
	for _, m := range modifiers {
		ast.Attach(m, t)
	}
	return t, nil
}

func (p *Parser) parseTypmodList() ([]ast.ScalarExpr, error) {
	p.advance() // (
	var mods []ast.ScalarExpr
	for {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		mods = append(mods, e)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return mods, nil
}

// parseTypeLiteral parses a bare `TIME '12:00'`/`TIMESTAMP '...'`
// generalized-literal form: a type name immediately followed by a
// string, which PostgreSQL accepts as shorthand for `'...'::type`.
func (p *Parser) parseTypeLiteral() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	lit := p.cur()
	if lit.Type != token.STRING {
		return nil, p.errExpected("string literal")
	}
	p.advance()
	expr := &ast.Constant{StartPos: lit.Pos, EndPos: lit.Pos, Kind: ast.ConstString, Value: lit.Value}
	e := &ast.TypecastExpression{StartPos: start, EndPos: p.at(-1).Pos, Expr: expr, Type: typ, Explicit: false}
	ast.Attach(expr, e)
	ast.Attach(typ, e)
	return e, nil
}

func (p *Parser) parseExistsExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // EXISTS
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e := &ast.SubselectExpression{StartPos: start, EndPos: p.at(-1).Pos, Op: "exists", Query: stmt}
	ast.Attach(stmt, e)
	return e, nil
}

// parseArrayExpr parses `ARRAY[...]` (possibly multi-dimensional via
// nested brackets) or `ARRAY(subquery)`.
func (p *Parser) parseArrayExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // ARRAY
	if p.is(token.LPAREN) {
		p.advance()
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		e := &ast.ArrayExpression{StartPos: start, EndPos: p.at(-1).Pos, Subquery: stmt}
		ast.Attach(stmt, e)
		return e, nil
	}
	elems, err := p.parseArrayLiteralBody()
	if err != nil {
		return nil, err
	}
	e := &ast.ArrayExpression{StartPos: start, EndPos: p.at(-1).Pos, Elements: elems}
	for _, el := range elems {
		ast.Attach(el, e)
	}
	return e, nil
}

// parseArrayLiteralBody parses the `[...]` body shared by ARRAY[...]
// and a nested array-of-arrays literal; each element is either a plain
// expression or another bracketed sub-array.
func (p *Parser) parseArrayLiteralBody() ([]ast.ScalarExpr, error) {
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	var elems []ast.ScalarExpr
	if !p.is(token.RBRACKET) {
		for {
			el, err := p.parseArrayElement()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *Parser) parseArrayElement() (ast.ScalarExpr, error) {
	if p.is(token.LBRACKET) {
		start := p.cur().Pos
		elems, err := p.parseArrayLiteralBody()
		if err != nil {
			return nil, err
		}
		e := &ast.ArrayExpression{StartPos: start, EndPos: p.at(-1).Pos, Elements: elems}
		for _, el := range elems {
			ast.Attach(el, e)
		}
		return e, nil
	}
	return p.parseExpr(precOr)
}

// intervalUnits lists the interval unit words (singular and plural),
// none of which have a dedicated token.
var intervalUnits = []string{
	"year", "years", "month", "months", "day", "days",
	"hour", "hours", "minute", "minutes", "second", "seconds",
	"week", "weeks", "decade", "decades", "century", "centuries",
	"millennium", "millennia", "microsecond", "microseconds",
	"millisecond", "milliseconds",
}

func (p *Parser) acceptIntervalUnit() (string, bool) {
	for _, u := range intervalUnits {
		if p.identWord(u) {
			p.advance()
			return strings.ToLower(u), true
		}
	}
	return "", false
}

// parseIntervalLiteral parses `INTERVAL 'text' [field_range]`,
// collapsing it into a TypecastExpression of a string constant to an
// INTERVAL TypeName -- PostgreSQL's own grammar treats this as a
// generalized type literal too.
func (p *Parser) parseIntervalLiteral() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // INTERVAL
	lit := p.cur()
	if lit.Type != token.STRING {
		return nil, p.errExpected("string literal")
	}
	p.advance()
	expr := &ast.Constant{StartPos: lit.Pos, EndPos: lit.Pos, Kind: ast.ConstString, Value: lit.Value}
	startUnit, endUnit, precision, err := p.parseOptionalIntervalRange()
	if err != nil {
		return nil, err
	}
	id := ast.NewIdentifier("interval", false)
	name := ast.NewQualifiedName(id)
	typ := &ast.TypeName{StartPos: start, EndPos: p.at(-1).Pos, Name: name}
	if startUnit != "" {
		mod := &ast.Constant{Kind: ast.ConstString, Value: startUnit}
		typ.Modifiers = append(typ.Modifiers, mod)
		ast.Attach(mod, typ)
	}
	if endUnit != "" {
		mod := &ast.Constant{Kind: ast.ConstString, Value: endUnit}
		typ.Modifiers = append(typ.Modifiers, mod)
		ast.Attach(mod, typ)
	}
	if precision != nil {
		mod := &ast.Constant{Kind: ast.ConstInt, Value: strconv.Itoa(*precision)}
		typ.Modifiers = append(typ.Modifiers, mod)
		ast.Attach(mod, typ)
	}
	ast.Attach(name, typ)
	e := &ast.TypecastExpression{StartPos: start, EndPos: p.at(-1).Pos, Expr: expr, Type: typ, Explicit: false}
	ast.Attach(expr, e)
	ast.Attach(typ, e)
	return e, nil
}

func (p *Parser) parseOptionalIntervalRange() (startUnit, endUnit string, precision *int, err error) {
	u, ok := p.acceptIntervalUnit()
	if !ok {
		return "", "", nil, nil
	}
	startUnit = u
	if p.accept(token.LPAREN) {
		it := p.cur()
		if it.Type != token.INT {
			return "", "", nil, p.errExpected("integer")
		}
		p.advance()
		n, _ := strconv.Atoi(it.Value)
		precision = &n
		if _, e := p.expect(token.RPAREN); e != nil {
			return "", "", nil, e
		}
		return startUnit, "", precision, nil
	}
	if p.acceptIdentWord("to") {
		u2, ok := p.acceptIntervalUnit()
		if !ok {
			return "", "", nil, p.errExpected("interval unit")
		}
		endUnit = u2
		if endUnit == "second" && p.accept(token.LPAREN) {
			it := p.cur()
			if it.Type != token.INT {
				return "", "", nil, p.errExpected("integer")
			}
			p.advance()
			n, _ := strconv.Atoi(it.Value)
			precision = &n
			if _, e := p.expect(token.RPAREN); e != nil {
				return "", "", nil, e
			}
		}
	}
	return startUnit, endUnit, precision, nil
}

// parseExtractExpr parses `EXTRACT(field FROM source)`. There is no
// dedicated AST node for it, so it is represented as a plain two-
// argument FunctionCall named "extract" with the field reconstructed as
// a string constant; this is a deliberate, documented simplification.
func (p *Parser) parseExtractExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // EXTRACT
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	field, err := p.extractFieldWord()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	source, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	args := ast.NewExpressionList()
	args.SetParser(p)
	args.Append(&ast.Constant{Kind: ast.ConstString, Value: field})
	args.Append(source)
	name := ast.NewQualifiedName(ast.NewIdentifier("extract", false))
	call := &ast.FunctionCall{StartPos: start, EndPos: p.at(-1).Pos, Name: name, Args: args}
	ast.Attach(name, call)
	ast.Attach(args, call)
	return call, nil
}

func (p *Parser) extractFieldWord() (string, error) {
	it := p.cur()
	if it.Type == token.IDENT || it.Type.IsKeyword() {
		p.advance()
		return strings.ToLower(it.Value), nil
	}
	return "", p.errExpected("extract field")
}

// parseTrimExpr parses `TRIM([LEADING|TRAILING|BOTH] [chars] FROM
// source)` or the argument-list form `TRIM(source [, chars])`,
// collapsing either spelling into a plain "trim"/"ltrim"/"rtrim"
// FunctionCall -- there is no dedicated AST node for the keyword form.
func (p *Parser) parseTrimExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // TRIM
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	name := "trim"
	switch {
	case p.accept(token.LEADING):
		name = "ltrim"
	case p.accept(token.TRAILING):
		name = "rtrim"
	case p.accept(token.BOTH):
		name = "trim"
	}
	var first ast.ScalarExpr
	var err error
	var chars ast.ScalarExpr
	if !p.is(token.FROM) {
		first, err = p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
	}
	if p.accept(token.FROM) {
		chars = first
		first, err = p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
	}
	args := ast.NewExpressionList()
	args.SetParser(p)
	args.Append(first)
	if chars != nil {
		args.Append(chars)
	}
	for p.accept(token.COMMA) {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		args.Append(e)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	qn := ast.NewQualifiedName(ast.NewIdentifier(name, false))
	call := &ast.FunctionCall{StartPos: start, EndPos: p.at(-1).Pos, Name: qn, Args: args}
	ast.Attach(qn, call)
	ast.Attach(args, call)
	return call, nil
}

// parseSubstringExpr parses `SUBSTRING(source FROM start FOR len)` (any
// subset of FROM/FOR) or the plain argument-list form, collapsing
// either into a "substring" FunctionCall.
func (p *Parser) parseSubstringExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // SUBSTRING
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	args := ast.NewExpressionList()
	args.SetParser(p)
	source, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	args.Append(source)
	if p.accept(token.FROM) {
		from, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		args.Append(from)
	}
	if p.accept(token.FOR) {
		forLen, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		args.Append(forLen)
	}
	for p.accept(token.COMMA) {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		args.Append(e)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	qn := ast.NewQualifiedName(ast.NewIdentifier("substring", false))
	call := &ast.FunctionCall{StartPos: start, EndPos: p.at(-1).Pos, Name: qn, Args: args}
	ast.Attach(qn, call)
	ast.Attach(args, call)
	return call, nil
}

// parsePositionExpr parses `POSITION(substring IN source)`, collapsing
// it into a "position" FunctionCall.
func (p *Parser) parsePositionExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // POSITION
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	substr, err := p.parseExpr(precIn + 1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	source, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	args := ast.NewExpressionList()
	args.SetParser(p)
	args.Append(substr)
	args.Append(source)
	qn := ast.NewQualifiedName(ast.NewIdentifier("position", false))
	call := &ast.FunctionCall{StartPos: start, EndPos: p.at(-1).Pos, Name: qn, Args: args}
	ast.Attach(qn, call)
	ast.Attach(args, call)
	return call, nil
}

func (p *Parser) parseGroupingExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // GROUPING
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseExpressionListOrEmpty()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e := &ast.GroupingExpression{StartPos: start, EndPos: p.at(-1).Pos, Args: args}
	ast.Attach(args, e)
	return e, nil
}

// parseXmlElementExpr parses `XMLELEMENT(NAME name [, XMLATTRIBUTES(...)]
// [, content, ...])`.
func (p *Parser) parseXmlElementExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // XMLELEMENT
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.NAME); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	e := &ast.XmlElement{StartPos: start, Name: name}
	ast.Attach(name, e)
	for p.accept(token.COMMA) {
		if p.acceptIdentWord("xmlattributes") {
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			for {
				ns, err := p.parseXmlNamespaceEntry()
				if err != nil {
					return nil, err
				}
				e.Attributes = append(e.Attributes, ns)
				ast.Attach(ns, e)
				if !p.accept(token.COMMA) {
					break
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			continue
		}
		c, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		if e.Content == nil {
			e.Content = ast.NewExpressionList()
			e.Content.SetParser(p)
			ast.Attach(e.Content, e)
		}
		e.Content.Append(c)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

func (p *Parser) parseXmlForestExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // XMLFOREST
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	e := &ast.XmlForest{StartPos: start}
	for {
		ns, err := p.parseXmlNamespaceEntry()
		if err != nil {
			return nil, err
		}
		e.Content = append(e.Content, ns)
		ast.Attach(ns, e)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

func (p *Parser) parseDocOrContent() (string, error) {
	switch {
	case p.accept(token.DOCUMENT):
		return "document", nil
	case p.accept(token.CONTENT):
		return "content", nil
	default:
		return "", p.errExpected("DOCUMENT or CONTENT")
	}
}

// parseXmlParseExpr parses `XMLPARSE(DOCUMENT|CONTENT expr [PRESERVE|
// STRIP WHITESPACE])`.
func (p *Parser) parseXmlParseExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // XMLPARSE
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	docOrContent, err := p.parseDocOrContent()
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	e := &ast.XmlParse{StartPos: start, DocOrContent: docOrContent, Expr: expr}
	ast.Attach(expr, e)
	switch {
	case p.acceptIdentWord("preserve"):
		if !p.acceptIdentWord("whitespace") {
			return nil, p.errExpected("WHITESPACE")
		}
		t := true
		e.Preserve = &t
	case p.acceptIdentWord("strip"):
		if !p.acceptIdentWord("whitespace") {
			return nil, p.errExpected("WHITESPACE")
		}
		f := false
		e.Preserve = &f
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

func (p *Parser) parseXmlPiExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // XMLPI
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.NAME); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	e := &ast.XmlPi{StartPos: start, Name: name}
	ast.Attach(name, e)
	if p.accept(token.COMMA) {
		content, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		e.Content = content
		ast.Attach(content, e)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

// parseXmlRootExpr parses `XMLROOT(expr, VERSION version [, STANDALONE
// yes|no|no value])`. VERSION/STANDALONE/YES/NO have no dedicated
// tokens, so they are matched as bare identifier words.
func (p *Parser) parseXmlRootExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // XMLROOT
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	if !p.acceptIdentWord("version") {
		return nil, p.errExpected("VERSION")
	}
	var version ast.ScalarExpr
	if p.accept(token.NULL) {
		version = &ast.Constant{Kind: ast.ConstNull}
	} else {
		version, err = p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
	}
	e := &ast.XmlRoot{StartPos: start, Expr: expr, Version: version}
	ast.Attach(expr, e)
	ast.Attach(version, e)
	if p.accept(token.COMMA) {
		if !p.acceptIdentWord("standalone") {
			return nil, p.errExpected("STANDALONE")
		}
		switch {
		case p.acceptIdentWord("yes"):
			e.Standalone = "yes"
		case p.acceptIdentWord("no"):
			if p.accept(token.VALUE) {
				e.Standalone = "no value"
			} else {
				e.Standalone = "no"
			}
		default:
			return nil, p.errExpected("YES, NO, or NO VALUE")
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e.EndPos = p.at(-1).Pos
	return e, nil
}

func (p *Parser) parseXmlSerializeExpr() (ast.ScalarExpr, error) {
	start := p.cur().Pos
	p.advance() // XMLSERIALIZE
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	docOrContent, err := p.parseDocOrContent()
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	e := &ast.XmlSerialize{StartPos: start, EndPos: p.at(-1).Pos, DocOrContent: docOrContent, Expr: expr, Type: typ}
	ast.Attach(expr, e)
	ast.Attach(typ, e)
	return e, nil
}

// parseFunctionCallOrExpression parses the body of a function call
// headed by name, producing a *ast.FunctionExpression when any
// aggregate/window decoration is present (DISTINCT, ORDER BY, WITHIN
// GROUP, FILTER, OVER) and a plain *ast.FunctionCall otherwise.
func (p *Parser) parseFunctionCallOrExpression(start token.Pos, name *ast.QualifiedName) (ast.ScalarExpr, error) {
	p.advance() // (
	if p.is(token.RPAREN) {
		p.advance()
		return p.parseFunctionTailWithArgs(start, name, ast.NewExpressionList(), nil, nil, false)
	}
	if p.cur().Is(token.OP, "*") {
		p.advance()
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		starArgs := ast.NewExpressionList()
		starArgs.SetParser(p)
		starArgs.Append(&ast.Star{})
		return p.parseFunctionTailWithArgs(start, name, starArgs, nil, nil, false)
	}
	distinct := false
	switch {
	case p.accept(token.DISTINCT):
		distinct = true
	case p.accept(token.ALL):
	}
	args := ast.NewExpressionList()
	args.SetParser(p)
	var variadic ast.ScalarExpr
	for {
		if p.acceptIdentWord("variadic") {
			v, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			variadic = v
			break
		}
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		args.Append(e)
		if !p.accept(token.COMMA) {
			break
		}
	}
	var order *ast.OrderByList
	if p.accept(token.ORDER) {
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		order = ast.NewOrderByList()
		order.SetParser(p)
		for {
			el, err := p.parseOrderByElement()
			if err != nil {
				return nil, err
			}
			order.Append(el)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return p.parseFunctionTailWithArgs(start, name, args, variadic, order, distinct)
}

func (p *Parser) parseFunctionTailWithArgs(
	start token.Pos, name *ast.QualifiedName, args *ast.ExpressionList,
	variadic ast.ScalarExpr, order *ast.OrderByList, distinct bool,
) (ast.ScalarExpr, error) {
	var withinGroup *ast.OrderByList
	var filter ast.ScalarExpr
	var over *ast.WindowDefinition
	hasDecoration := distinct || order != nil || variadic != nil

	if p.accept(token.WITHIN) {
		if _, err := p.expect(token.GROUP); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ORDER); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		withinGroup = ast.NewOrderByList()
		withinGroup.SetParser(p)
		for {
			el, err := p.parseOrderByElement()
			if err != nil {
				return nil, err
			}
			withinGroup.Append(el)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		hasDecoration = true
	}
	if p.accept(token.FILTER) {
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.WHERE); err != nil {
			return nil, err
		}
		f, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		filter = f
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		hasDecoration = true
	}
	if p.accept(token.OVER) {
		if p.is(token.LPAREN) {
			wd, err := p.parseWindowSpec()
			if err != nil {
				return nil, err
			}
			over = wd
		} else {
			refName, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			over = &ast.WindowDefinition{OverName: refName}
			ast.Attach(refName, over)
		}
		hasDecoration = true
	}

	if !hasDecoration {
		call := &ast.FunctionCall{StartPos: start, EndPos: p.at(-1).Pos, Name: name, Args: args}
		if args != nil && args.Len() == 1 {
			if _, isStar := args.Items[0].(*ast.Star); isStar {
				call.StarArg = true
				call.Args = ast.NewExpressionList()
				call.Args.SetParser(p)
			}
		}
		ast.Attach(name, call)
		ast.Attach(call.Args, call)
		return call, nil
	}
	fe := &ast.FunctionExpression{
		StartPos: start, EndPos: p.at(-1).Pos, Name: name, Distinct: distinct,
		Args: args, VariadicArg: variadic, Order: order, WithinGroup: withinGroup,
		Filter: filter, Over: over,
	}
	ast.Attach(name, fe)
	ast.Attach(args, fe)
	ast.Attach(variadic, fe)
	ast.Attach(order, fe)
	ast.Attach(withinGroup, fe)
	ast.Attach(filter, fe)
	ast.Attach(over, fe)
	return fe, nil
}

// parseFunctionCallTail parses the `(...)` body of a FROM-clause set-
// returning function call: a plain argument list, with WITH ORDINALITY
// and aliasing handled by the caller. Aggregate/window decorations
// never apply here, so this is simpler than parseFunctionCallOrExpression.
func (p *Parser) parseFunctionCallTail(start token.Pos, name *ast.QualifiedName) (*ast.FunctionCall, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	args := ast.NewExpressionList()
	args.SetParser(p)
	starArg := false
	if p.cur().Is(token.OP, "*") {
		p.advance()
		starArg = true
	} else if !p.is(token.RPAREN) {
		for {
			e, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			args.Append(e)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	call := &ast.FunctionCall{StartPos: start, EndPos: p.at(-1).Pos, Name: name, Args: args, StarArg: starArg}
	ast.Attach(name, call)
	ast.Attach(args, call)
	return call, nil
}

// parseOperatorSymbol parses the operator-name argument of ORDER BY
// ... USING: either a bare OP token's text, or a schema-qualified
// OPERATOR(schema.op) form.
func (p *Parser) parseOperatorSymbol() (string, error) {
	if p.acceptIdentWord("operator") {
		if _, err := p.expect(token.LPAREN); err != nil {
			return "", err
		}
		var parts []string
		for {
			id, err := p.parseIdentifier()
			if err != nil {
				return "", err
			}
			parts = append(parts, id.Name)
			if !p.accept(token.DOT) {
				break
			}
		}
		if !p.is(token.OP) {
			return "", p.errExpected("operator")
		}
		op := p.advance().Value
		if _, err := p.expect(token.RPAREN); err != nil {
			return "", err
		}
		parts = append(parts, op)
		return strings.Join(parts, "."), nil
	}
	if !p.is(token.OP) {
		return "", p.errExpected("operator")
	}
	return p.advance().Value, nil
}
