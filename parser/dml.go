package parser

import (
	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/token"
)

// parseInsert parses `INSERT INTO target [(cols)] { DEFAULT VALUES |
// VALUES (...), ... | select } [ON CONFLICT ...] [RETURNING ...]`.
func (p *Parser) parseInsert(with *ast.WithClause) (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // INSERT
	if _, err := p.expect(token.INTO); err != nil {
		return nil, err
	}
	stmt := &ast.Insert{StartPos: start, With: with}
	ast.Attach(with, stmt)

	target, err := p.parseInsertTarget()
	if err != nil {
		return nil, err
	}
	stmt.Target = target
	ast.Attach(target, stmt)

	if p.accept(token.LPAREN) {
		cols := ast.NewInsertTargetList()
		cols.SetParser(p)
		for {
			el, err := p.parseSetTargetElement()
			if err != nil {
				return nil, err
			}
			cols.Append(el)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		stmt.Columns = cols
		ast.Attach(cols, stmt)
	}

	switch {
	case p.is(token.DEFAULT):
		p.advance()
		if _, err := p.expect(token.VALUES); err != nil {
			return nil, err
		}
		stmt.DefaultValues = true
	case p.accept(token.OVERRIDING):
		if p.acceptIdentWord("system") {
			stmt.Overriding = "system"
		} else if p.acceptIdentWord("user") {
			stmt.Overriding = "user"
		} else {
			return nil, p.errExpected("SYSTEM or USER")
		}
		if _, err := p.expect(token.VALUE); err != nil {
			return nil, err
		}
		src, err := p.parseInsertSource()
		if err != nil {
			return nil, err
		}
		stmt.Source = src
		ast.Attach(src, stmt)
	default:
		src, err := p.parseInsertSource()
		if err != nil {
			return nil, err
		}
		stmt.Source = src
		ast.Attach(src, stmt)
	}

	if p.is(token.ON) && p.at(1).Type == token.CONFLICT {
		p.advance()
		oc, err := p.parseOnConflict()
		if err != nil {
			return nil, err
		}
		stmt.OnConflict = oc
		ast.Attach(oc, stmt)
	}

	if p.accept(token.RETURNING) {
		ret, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		stmt.Returning = ret
		ast.Attach(ret, stmt)
	}

	stmt.EndPos = p.at(-1).Pos
	return stmt, nil
}

func (p *Parser) parseInsertSource() (ast.Statement, error) {
	with, err := p.parseOptionalWithClause()
	if err != nil {
		return nil, err
	}
	left, err := p.parseSelectOperand(with)
	if err != nil {
		return nil, err
	}
	combined, err := p.parseSetOpTail(left, precSelectBase)
	if err != nil {
		return nil, err
	}
	return p.parseOptionalTailClauses(combined)
}

func (p *Parser) parseInsertTarget() (*ast.InsertTarget, error) {
	start := p.cur().Pos
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	t := &ast.InsertTarget{StartPos: start, Name: name}
	ast.Attach(name, t)
	if p.accept(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		t.Alias = alias
		ast.Attach(alias, t)
	} else if p.canStartAlias() {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		t.Alias = alias
		ast.Attach(alias, t)
	}
	t.EndPos = p.at(-1).Pos
	return t, nil
}

func (p *Parser) parseSetTargetElement() (*ast.SetTargetElement, error) {
	col, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	el := ast.NewSetTargetElement(col)
	el.StartPos = col.Pos()
	for p.is(token.LBRACKET) || p.is(token.DOT) {
		if p.accept(token.DOT) {
			field, err := p.parseExpr(precAtom)
			if err != nil {
				return nil, err
			}
			el.Indirection = append(el.Indirection, field)
		} else {
			p.advance()
			idx, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			el.Indirection = append(el.Indirection, idx)
		}
	}
	el.EndPos = p.at(-1).Pos
	return el, nil
}

func (p *Parser) parseOnConflict() (*ast.OnConflictClause, error) {
	start := p.cur().Pos
	p.advance() // CONFLICT
	oc := &ast.OnConflictClause{StartPos: start}
	if p.accept(token.ON) {
		if _, err := p.expect(token.CONSTRAINT); err != nil {
			return nil, err
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		oc.ConstraintName = name
		ast.Attach(name, oc)
	} else if p.accept(token.LPAREN) {
		for {
			ie, err := p.parseIndexElement()
			if err != nil {
				return nil, err
			}
			oc.IndexElements = append(oc.IndexElements, ie)
			ast.Attach(ie, oc)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		if p.accept(token.WHERE) {
			w, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			oc.IndexWhere = w
			ast.Attach(w, oc)
		}
	}
	if _, err := p.expect(token.DO); err != nil {
		return nil, err
	}
	if p.accept(token.NOTHING) {
		oc.DoNothing = true
		oc.EndPos = p.at(-1).Pos
		return oc, nil
	}
	if _, err := p.expect(token.UPDATE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SET); err != nil {
		return nil, err
	}
	set, setMulti, err := p.parseSetList()
	if err != nil {
		return nil, err
	}
	oc.Set = set
	oc.SetMulti = setMulti
	for _, s := range set {
		ast.Attach(s, oc)
	}
	for _, m := range setMulti {
		ast.Attach(m, oc)
	}
	if p.accept(token.WHERE) {
		w, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		oc.Where = w
		ast.Attach(w, oc)
	}
	oc.EndPos = p.at(-1).Pos
	return oc, nil
}

func (p *Parser) parseIndexElement() (*ast.IndexElement, error) {
	var expr ast.ScalarExpr
	var err error
	if p.accept(token.LPAREN) {
		expr, err = p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	} else {
		expr, err = p.parseExpr(precPostfixOp)
		if err != nil {
			return nil, err
		}
	}
	ie := ast.NewIndexElement(expr)
	if p.cur().Type == token.IDENT {
		opclass, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		ie.OpClass = opclass
		ast.Attach(opclass, ie)
	}
	switch {
	case p.accept(token.ASC):
	case p.accept(token.DESC):
		ie.Desc = true
	}
	if p.accept(token.NULLS) {
		switch {
		case p.accept(token.FIRST):
			t := true
			ie.NullsFirst = &t
		case p.accept(token.LAST):
			f := false
			ie.NullsFirst = &f
		default:
			return nil, p.errExpected("FIRST or LAST")
		}
	}
	return ie, nil
}

// parseSetList parses an UPDATE/ON-CONFLICT-DO-UPDATE SET list, a mix
// of plain `col = expr` assignments and `(cols) = (exprs|subselect)`
// multi-column assignments.
func (p *Parser) parseSetList() ([]*ast.SetClause, []*ast.MultiAssign, error) {
	var set []*ast.SetClause
	var setMulti []*ast.MultiAssign
	for {
		start := p.cur().Pos
		if p.is(token.LPAREN) {
			p.advance()
			targets := ast.NewInsertTargetList()
			targets.SetParser(p)
			for {
				el, err := p.parseSetTargetElement()
				if err != nil {
					return nil, nil, err
				}
				targets.Append(el)
				if !p.accept(token.COMMA) {
					break
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, nil, err
			}
			if _, err := p.expect(token.OP); err != nil {
				return nil, nil, err
			}
			var src ast.ScalarExpr
			var err error
			if p.is(token.LPAREN) {
				src, err = p.parseRowOrSubselectValue()
			} else {
				src, err = p.parseExpr(precOr)
			}
			if err != nil {
				return nil, nil, err
			}
			ma := &ast.MultiAssign{StartPos: start, Targets: targets, Source: src}
			ast.Attach(targets, ma)
			ast.Attach(src, ma)
			ma.EndPos = p.at(-1).Pos
			setMulti = append(setMulti, ma)
		} else {
			target, err := p.parseSetTargetElement()
			if err != nil {
				return nil, nil, err
			}
			if _, err := p.expect(token.OP); err != nil {
				return nil, nil, err
			}
			var value ast.ScalarExpr
			if p.accept(token.DEFAULT) {
				value = &ast.SetToDefault{}
			} else {
				value, err = p.parseExpr(precOr)
				if err != nil {
					return nil, nil, err
				}
			}
			sc := &ast.SetClause{StartPos: start, Target: target, Value: value}
			ast.Attach(target, sc)
			ast.Attach(value, sc)
			sc.EndPos = p.at(-1).Pos
			set = append(set, sc)
		}
		if !p.accept(token.COMMA) {
			break
		}
	}
	return set, setMulti, nil
}

// parseRowOrSubselectValue parses the right-hand side of a multi-column
// SET assignment: either a parenthesized expression list (a row
// constructor) or a parenthesized subselect.
func (p *Parser) parseRowOrSubselectValue() (ast.ScalarExpr, error) {
	mark := p.mark()
	start := p.cur().Pos
	p.advance() // LPAREN
	if looksLikeSelectStart(p.cur().Type) {
		with, err := p.parseOptionalWithClause()
		if err == nil {
			var inner ast.SelectCommon
			inner, err = p.parseSelectOperand(with)
			if err == nil {
				inner, err = p.parseSetOpTail(inner, precSelectBase)
				if err == nil {
					var innerStmt ast.Statement
					innerStmt, err = p.parseOptionalTailClauses(inner)
					if err == nil && p.is(token.RPAREN) {
						p.advance()
						sub := &ast.SubselectExpression{StartPos: start, Query: innerStmt, EndPos: p.at(-1).Pos}
						ast.Attach(innerStmt, sub)
						return sub, nil
					}
				}
			}
		}
		p.reset(mark)
	}
	p.advance() // LPAREN
	row := ast.NewExpressionList()
	row.SetParser(p)
	for {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		row.Append(e)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	re := &ast.RowExpression{StartPos: start, Fields: row, EndPos: p.at(-1).Pos}
	ast.Attach(row, re)
	return re, nil
}

// parseUpdate parses `UPDATE target SET ... [FROM ...] [WHERE ...]
// [RETURNING ...]`.
func (p *Parser) parseUpdate(with *ast.WithClause) (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // UPDATE
	stmt := &ast.Update{StartPos: start, With: with}
	ast.Attach(with, stmt)

	target, err := p.parseUpdateOrDeleteTarget()
	if err != nil {
		return nil, err
	}
	stmt.Target = target
	ast.Attach(target, stmt)

	if _, err := p.expect(token.SET); err != nil {
		return nil, err
	}
	set, setMulti, err := p.parseSetList()
	if err != nil {
		return nil, err
	}
	stmt.Set = set
	stmt.SetMulti = setMulti
	for _, s := range set {
		ast.Attach(s, stmt)
	}
	for _, m := range setMulti {
		ast.Attach(m, stmt)
	}

	if p.accept(token.FROM) {
		from, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		stmt.From = from
		ast.Attach(from, stmt)
	}

	if p.accept(token.WHERE) {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		w := ast.NewWhereOrHavingClause(e)
		stmt.Where = w
		ast.Attach(w, stmt)
	}

	if p.accept(token.RETURNING) {
		ret, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		stmt.Returning = ret
		ast.Attach(ret, stmt)
	}

	stmt.EndPos = p.at(-1).Pos
	return stmt, nil
}

// parseDelete parses `DELETE FROM target [USING ...] [WHERE ...]
// [RETURNING ...]`.
func (p *Parser) parseDelete(with *ast.WithClause) (ast.Statement, error) {
	start := p.cur().Pos
	p.advance() // DELETE
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	stmt := &ast.Delete{StartPos: start, With: with}
	ast.Attach(with, stmt)

	target, err := p.parseUpdateOrDeleteTarget()
	if err != nil {
		return nil, err
	}
	stmt.Target = target
	ast.Attach(target, stmt)

	if p.accept(token.USING) {
		using, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		stmt.Using = using
		ast.Attach(using, stmt)
	}

	if p.accept(token.WHERE) {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		w := ast.NewWhereOrHavingClause(e)
		stmt.Where = w
		ast.Attach(w, stmt)
	}

	if p.accept(token.RETURNING) {
		ret, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		stmt.Returning = ret
		ast.Attach(ret, stmt)
	}

	stmt.EndPos = p.at(-1).Pos
	return stmt, nil
}

func (p *Parser) parseUpdateOrDeleteTarget() (*ast.UpdateOrDeleteTarget, error) {
	start := p.cur().Pos
	only := p.accept(token.ONLY)
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	t := &ast.UpdateOrDeleteTarget{StartPos: start, Only: only, Name: name}
	ast.Attach(name, t)
	if p.cur().Is(token.OP, "*") {
		p.advance()
		t.Star = true
	}
	if p.accept(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		t.Alias = alias
		ast.Attach(alias, t)
	} else if p.canStartAlias() {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		t.Alias = alias
		ast.Attach(alias, t)
	}
	t.EndPos = p.at(-1).Pos
	return t, nil
}
