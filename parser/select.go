package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/token"
)

// parseOptionalWithClause parses a leading `WITH [RECURSIVE] cte, ...`
// prefix, or returns nil if the current token isn't WITH.
func (p *Parser) parseOptionalWithClause() (*ast.WithClause, error) {
	if !p.is(token.WITH) {
		return nil, nil
	}
	start := p.cur().Pos
	p.advance()
	w := &ast.WithClause{StartPos: start, Recursive: p.accept(token.RECURSIVE)}
	for {
		cte, err := p.parseCTE()
		if err != nil {
			return nil, err
		}
		w.Append(cte)
		if !p.accept(token.COMMA) {
			break
		}
	}
	w.EndPos = p.at(-1).Pos
	return w, nil
}

func (p *Parser) parseCTE() (*ast.CommonTableExpression, error) {
	start := p.cur().Pos
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	cte := &ast.CommonTableExpression{StartPos: start, Name: name}
	ast.Attach(name, cte)
	if p.accept(token.LPAREN) {
		for {
			col, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			ast.Attach(col, cte)
			cte.ColumnAliases = append(cte.ColumnAliases, col)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	if p.is(token.MATERIALIZED) {
		p.advance()
		t := true
		cte.Materialized = &t
	} else if p.is(token.NOT) && p.at(1).Type == token.MATERIALIZED {
		p.advance()
		p.advance()
		f := false
		cte.Materialized = &f
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	query, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	cte.Query = query
	ast.Attach(query, cte)
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	cte.EndPos = p.at(-1).Pos
	return cte, nil
}

// parseSimpleSelect parses one SELECT clause without any set-operation
// or tail clauses -- those are layered on by its caller.
func (p *Parser) parseSimpleSelect(with *ast.WithClause) (*ast.Select, error) {
	start := p.cur().Pos
	p.logDebug(logrus.Fields{"pos": p.pos, "token": p.cur().Value}, "parseSelect")
	if _, err := p.expect(token.SELECT); err != nil {
		return nil, err
	}
	sel := &ast.Select{StartPos: start, With: with}
	ast.Attach(with, sel)

	if p.accept(token.DISTINCT) {
		sel.Distinct = true
		if p.accept(token.ON) {
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			list := ast.NewExpressionList()
			list.SetParser(p)
			for {
				e, err := p.parseExpr(precOr)
				if err != nil {
					return nil, err
				}
				list.Append(e)
				if !p.accept(token.COMMA) {
					break
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			sel.DistinctOn = list
			ast.Attach(list, sel)
		}
	} else {
		p.accept(token.ALL)
	}

	targets, err := p.parseTargetList()
	if err != nil {
		return nil, err
	}
	sel.Targets = targets
	ast.Attach(targets, sel)

	if p.accept(token.FROM) {
		from, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		sel.From = from
		ast.Attach(from, sel)
	}

	if p.accept(token.WHERE) {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		w := ast.NewWhereOrHavingClause(e)
		sel.Where = w
		ast.Attach(w, sel)
	}

	if p.accept(token.GROUP) {
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		p.accept(token.ALL)
		list, err := p.parseGroupByList()
		if err != nil {
			return nil, err
		}
		sel.GroupBy = list
		ast.Attach(list, sel)
	}

	if p.accept(token.HAVING) {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		h := ast.NewWhereOrHavingClause(e)
		sel.Having = h
		ast.Attach(h, sel)
	}

	if p.accept(token.WINDOW) {
		for {
			wd, err := p.parseNamedWindowDefinition()
			if err != nil {
				return nil, err
			}
			sel.Windows = append(sel.Windows, wd)
			ast.Attach(wd, sel)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}

	sel.EndPos = p.at(-1).Pos
	return sel, nil
}

func (p *Parser) parseTargetList() (*ast.TargetList, error) {
	list := ast.NewTargetList()
	list.SetParser(p)
	for {
		t, err := p.parseResTarget()
		if err != nil {
			return nil, err
		}
		list.Append(t)
		if !p.accept(token.COMMA) {
			break
		}
	}
	list.EndPos = p.at(-1).Pos
	return list, nil
}

// parseResTarget parses one SELECT/RETURNING target-list entry: a bare
// `*`, `tbl.*`, or `expr [[AS] alias]`.
func (p *Parser) parseResTarget() (*ast.ResTarget, error) {
	start := p.cur().Pos
	e, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	t := &ast.ResTarget{StartPos: start, Expr: e}
	ast.Attach(e, t)
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

// canStartAlias reports whether the current token can begin a bare
// (AS-less) alias: an identifier, or an unreserved/column-name-class
// keyword used as a plain name.
func (p *Parser) canStartAlias() bool {
	it := p.cur()
	if it.Type == token.IDENT || it.Type == token.QIDENT {
		return true
	}
	if !it.Type.IsKeyword() {
		return false
	}
	return token.ClassOf(it.Type) != token.Reserved
}

func (p *Parser) parseIdentifier() (*ast.Identifier, error) {
	it := p.cur()
	switch it.Type {
	case token.IDENT:
		p.advance()
		return ast.NewIdentifier(it.Value, false), nil
	case token.QIDENT:
		p.advance()
		return ast.NewIdentifier(it.Value, true), nil
	default:
		if it.Type.IsKeyword() && token.ClassOf(it.Type) != token.Reserved {
			p.advance()
			return ast.NewIdentifier(it.Value, false), nil
		}
		return nil, p.errExpected("identifier")
	}
}

func (p *Parser) parseQualifiedName() (*ast.QualifiedName, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	parts := []*ast.Identifier{first}
	for p.accept(token.DOT) {
		next, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
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
	return q, nil
}

func (p *Parser) parseGroupByList() (*ast.ExpressionList, error) {
	list := ast.NewExpressionList()
	list.SetParser(p)
	for {
		e, err := p.parseGroupByItem()
		if err != nil {
			return nil, err
		}
		list.Append(e)
		if !p.accept(token.COMMA) {
			break
		}
	}
	return list, nil
}

func (p *Parser) parseGroupByItem() (ast.ScalarExpr, error) {
	switch p.cur().Type {
	case token.CUBE, token.ROLLUP:
		kind := "cube"
		if p.cur().Type == token.ROLLUP {
			kind = "rollup"
		}
		start := p.cur().Pos
		p.advance()
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
		c := &ast.CubeOrRollupClause{StartPos: start, Kind: kind, Args: args}
		ast.Attach(args, c)
		return c, nil
	case token.GROUPING:
		if p.at(1).Type == token.SETS {
			start := p.cur().Pos
			p.advance()
			p.advance()
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			var sets []ast.ScalarExpr
			for {
				item, err := p.parseGroupByItem()
				if err != nil {
					return nil, err
				}
				sets = append(sets, item)
				if !p.accept(token.COMMA) {
					break
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			g := &ast.GroupingSetsClause{StartPos: start, Sets: sets}
			for _, s := range sets {
				ast.Attach(s, g)
			}
			return g, nil
		}
	case token.LPAREN:
		if p.at(1).Type == token.RPAREN {
			start := p.cur().Pos
			p.advance()
			p.advance()
			return &ast.EmptyGroupingSet{StartPos: start, EndPos: p.at(-1).Pos}, nil
		}
		mark := p.mark()
		p.advance()
		list := ast.NewExpressionList()
		list.SetParser(p)
		ok := true
		for {
			e, err := p.parseExpr(precOr)
			if err != nil {
				ok = false
				break
			}
			list.Append(e)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if ok && p.is(token.RPAREN) {
			p.advance()
			return list, nil
		}
		p.reset(mark)
	}
	return p.parseExpr(precOr)
}

func (p *Parser) parseExpressionListOrEmpty() (*ast.ExpressionList, error) {
	list := ast.NewExpressionList()
	list.SetParser(p)
	if p.is(token.RPAREN) {
		return list, nil
	}
	for {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		list.Append(e)
		if !p.accept(token.COMMA) {
			break
		}
	}
	return list, nil
}

// parseValues parses a `VALUES (...), (...), ...` statement.
func (p *Parser) parseValues(with *ast.WithClause) (*ast.Values, error) {
	start := p.cur().Pos
	if _, err := p.expect(token.VALUES); err != nil {
		return nil, err
	}
	v := &ast.Values{StartPos: start, With: with}
	ast.Attach(with, v)
	rows := ast.NewRowList()
	rows.SetParser(p)
	for {
		row, err := p.parseValuesRow()
		if err != nil {
			return nil, err
		}
		rows.Append(row)
		if !p.accept(token.COMMA) {
			break
		}
	}
	v.Rows = rows
	ast.Attach(rows, v)
	v.EndPos = p.at(-1).Pos
	return v, nil
}

func (p *Parser) parseValuesRow() (*ast.ValuesRow, error) {
	start := p.cur().Pos
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	row := ast.NewValuesRow()
	row.SetParser(p)
	row.StartPos = start
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
	row.EndPos = p.at(-1).Pos
	return row, nil
}

// --- FROM clause ---

func (p *Parser) parseFromList() (*ast.FromList, error) {
	list := ast.NewFromList()
	list.SetParser(p)
	for {
		item, err := p.parseJoinedTable()
		if err != nil {
			return nil, err
		}
		list.Append(item)
		if !p.accept(token.COMMA) {
			break
		}
	}
	return list, nil
}

// parseJoinedTable parses one comma-separated FROM-list entry: a table
// primary followed by zero or more JOIN clauses, which are
// left-associative.
func (p *Parser) parseJoinedTable() (ast.RangeItem, error) {
	left, err := p.parseTablePrimary()
	if err != nil {
		return nil, err
	}
	for {
		joinType, natural, ok, err := p.tryJoinKeyword()
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseTablePrimary()
		if err != nil {
			return nil, err
		}
		j := &ast.JoinExpression{Left: left, Right: right, JoinType: joinType, Natural: natural}
		ast.Attach(left, j)
		ast.Attach(right, j)
		if !natural && joinType != "cross" {
			if p.accept(token.ON) {
				cond, err := p.parseExpr(precOr)
				if err != nil {
					return nil, err
				}
				j.On = cond
				ast.Attach(cond, j)
			} else if p.accept(token.USING) {
				if _, err := p.expect(token.LPAREN); err != nil {
					return nil, err
				}
				for {
					id, err := p.parseIdentifier()
					if err != nil {
						return nil, err
					}
					j.Using = append(j.Using, id)
					ast.Attach(id, j)
					if !p.accept(token.COMMA) {
						break
					}
				}
				if _, err := p.expect(token.RPAREN); err != nil {
					return nil, err
				}
			}
		}
		left = j
	}
}

func (p *Parser) tryJoinKeyword() (joinType string, natural bool, ok bool, err error) {
	if p.is(token.COMMA) {
		return "", false, false, nil
	}
	if p.accept(token.NATURAL) {
		natural = true
	}
	switch p.cur().Type {
	case token.JOIN:
		p.advance()
		return "inner", natural, true, nil
	case token.INNER:
		p.advance()
		if _, err := p.expect(token.JOIN); err != nil {
			return "", false, false, err
		}
		return "inner", natural, true, nil
	case token.LEFT:
		p.advance()
		p.accept(token.OUTER)
		if _, err := p.expect(token.JOIN); err != nil {
			return "", false, false, err
		}
		return "left", natural, true, nil
	case token.RIGHT:
		p.advance()
		p.accept(token.OUTER)
		if _, err := p.expect(token.JOIN); err != nil {
			return "", false, false, err
		}
		return "right", natural, true, nil
	case token.FULL:
		p.advance()
		p.accept(token.OUTER)
		if _, err := p.expect(token.JOIN); err != nil {
			return "", false, false, err
		}
		return "full", natural, true, nil
	case token.CROSS:
		p.advance()
		if _, err := p.expect(token.JOIN); err != nil {
			return "", false, false, err
		}
		return "cross", natural, true, nil
	default:
		if natural {
			return "", false, false, p.errExpected("JOIN")
		}
		return "", false, false, nil
	}
}

func (p *Parser) parseTablePrimary() (ast.RangeItem, error) {
	var item ast.RangeItem
	var err error
	switch p.cur().Type {
	case token.LATERAL:
		p.advance()
		item, err = p.parseTablePrimaryNoLateral()
		if err != nil {
			return nil, err
		}
		if sub, ok := item.(*ast.Subselect); ok {
			sub.Lateral = true
		}
	case token.LPAREN:
		mark := p.mark()
		p.advance()
		if looksLikeSelectStart(p.cur().Type) {
			p.reset(mark)
			item, err = p.parseSubselectItem()
		} else {
			inner, ierr := p.parseJoinedTable()
			if ierr != nil {
				return nil, ierr
			}
			if _, rerr := p.expect(token.RPAREN); rerr != nil {
				return nil, rerr
			}
			if j, ok := inner.(*ast.JoinExpression); ok {
				if p.accept(token.AS) {
					alias, aerr := p.parseIdentifier()
					if aerr != nil {
						return nil, aerr
					}
					j.Alias = alias
					ast.Attach(alias, j)
				} else if p.canStartAlias() {
					alias, aerr := p.parseIdentifier()
					if aerr != nil {
						return nil, aerr
					}
					j.Alias = alias
					ast.Attach(alias, j)
				}
			}
			item = inner
		}
	default:
		item, err = p.parseTablePrimaryNoLateral()
	}
	if err != nil {
		return nil, err
	}
	return p.parseTableSampleSuffix(item)
}

func looksLikeSelectStart(t token.Token) bool {
	return t == token.SELECT || t == token.VALUES || t == token.WITH || t == token.LPAREN
}

func (p *Parser) parseTablePrimaryNoLateral() (ast.RangeItem, error) {
	switch p.cur().Type {
	case token.LPAREN:
		return p.parseSubselectItem()
	case token.XMLTABLE:
		return p.parseXmlTable()
	case token.ROWS:
		if p.at(1).Type == token.FROM {
			return p.parseRowsFrom()
		}
	}
	if p.identWord("rows") && p.at(1).Type == token.FROM {
		return p.parseRowsFrom()
	}
	return p.parseRelationOrFunctionCall()
}

func (p *Parser) parseSubselectItem() (ast.RangeItem, error) {
	start := p.cur().Pos
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
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	sub := &ast.Subselect{StartPos: start, Query: innerStmt}
	ast.Attach(innerStmt, sub)
	if p.accept(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		sub.Alias = alias
		ast.Attach(alias, sub)
	} else if p.canStartAlias() {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		sub.Alias = alias
		ast.Attach(alias, sub)
	}
	if sub.Alias != nil && p.accept(token.LPAREN) {
		for {
			col, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			sub.ColumnAliases = append(sub.ColumnAliases, col)
			ast.Attach(col, sub)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	sub.EndPos = p.at(-1).Pos
	return sub, nil
}

// parseRelationOrFunctionCall disambiguates a plain table reference
// from a set-returning function call used as a FROM item: a function
// call always has a parenthesized argument list immediately after its
// (possibly qualified) name.
func (p *Parser) parseRelationOrFunctionCall() (ast.RangeItem, error) {
	start := p.cur().Pos
	only := p.accept(token.ONLY)
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if !only && p.is(token.LPAREN) {
		call, err := p.parseFunctionCallTail(start, name)
		if err != nil {
			return nil, err
		}
		return p.parseRangeFunctionAliasSuffix(call)
	}
	r := &ast.RelationReference{StartPos: start, Name: name, Only: only}
	ast.Attach(name, r)
	// PostgreSQL's "*" after a relation name ("ONLY name*" or
	// "name*") means "include descendant tables"; the lexer hands
	// back a bare "*" as an OP token in this position.
	if p.cur().Is(token.OP, "*") {
		p.advance()
		r.Star = true
	}
	if p.accept(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		r.Alias = alias
		ast.Attach(alias, r)
	} else if p.canStartAlias() {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		r.Alias = alias
		ast.Attach(alias, r)
	}
	if r.Alias != nil && p.accept(token.LPAREN) {
		for {
			col, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			r.ColumnAliases = append(r.ColumnAliases, col)
			ast.Attach(col, r)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	r.EndPos = p.at(-1).Pos
	return r, nil
}

func (p *Parser) parseRangeFunctionAliasSuffix(call *ast.FunctionCall) (ast.RangeItem, error) {
	if p.accept(token.WITH) {
		if _, err := p.expect(token.ORDINALITY); err != nil {
			return nil, err
		}
		call.WithOrdinality = true
	}
	if p.accept(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		call.Alias = alias
		ast.Attach(alias, call)
	} else if p.canStartAlias() {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		call.Alias = alias
		ast.Attach(alias, call)
	}
	if call.Alias != nil && p.accept(token.LPAREN) {
		for {
			col, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			call.ColumnAliases = append(call.ColumnAliases, col)
			ast.Attach(col, call)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	return call, nil
}

func (p *Parser) parseRowsFrom() (ast.RangeItem, error) {
	start := p.cur().Pos
	p.advance() // ROWS
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	rf := &ast.RowsFrom{StartPos: start}
	for {
		elemStart := p.cur().Pos
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		call, err := p.parseFunctionCallTail(elemStart, name)
		if err != nil {
			return nil, err
		}
		elem := &ast.RowsFromElement{StartPos: elemStart, Func: call}
		ast.Attach(call, elem)
		if p.accept(token.AS) {
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			for {
				cd, err := p.parseColumnDefinition()
				if err != nil {
					return nil, err
				}
				elem.ColumnDefs = append(elem.ColumnDefs, cd)
				ast.Attach(cd, elem)
				if !p.accept(token.COMMA) {
					break
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		rf.Elements = append(rf.Elements, elem)
		ast.Attach(elem, rf)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if p.accept(token.WITH) {
		if _, err := p.expect(token.ORDINALITY); err != nil {
			return nil, err
		}
		rf.WithOrdinality = true
	}
	if p.accept(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		rf.Alias = alias
		ast.Attach(alias, rf)
	} else if p.canStartAlias() {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		rf.Alias = alias
		ast.Attach(alias, rf)
	}
	rf.EndPos = p.at(-1).Pos
	return rf, nil
}

// parseXmlTable parses `XMLTABLE([XMLNAMESPACES(...),] row_expr PASSING
// doc_expr COLUMNS col_def, ...) [[AS] alias]`. NAMESPACES and PASSING
// are not reserved enough to have their own token kind, so they are
// matched as bare words the way TO and the XMLROOT YES/NO words are.
func (p *Parser) parseXmlTable() (ast.RangeItem, error) {
	start := p.cur().Pos
	p.advance() // XMLTABLE
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	xt := &ast.XmlTable{StartPos: start}
	if p.acceptIdentWord("xmlnamespaces") {
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		for {
			ns, err := p.parseXmlNamespaceEntry()
			if err != nil {
				return nil, err
			}
			xt.Namespaces = append(xt.Namespaces, ns)
			ast.Attach(ns, xt)
			if !p.accept(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
	rowExpr, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	xt.RowExpr = rowExpr
	ast.Attach(rowExpr, xt)
	if !p.acceptIdentWord("passing") {
		return nil, p.errExpected("PASSING")
	}
	docExpr, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	xt.DocExpr = docExpr
	ast.Attach(docExpr, xt)
	if _, err := p.expect(token.COLUMNS); err != nil {
		return nil, err
	}
	for {
		cd, err := p.parseXmlColumnDefinition()
		if err != nil {
			return nil, err
		}
		xt.Columns = append(xt.Columns, cd)
		ast.Attach(cd, xt)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if p.accept(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		xt.Alias = alias
		ast.Attach(alias, xt)
	} else if p.canStartAlias() {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		xt.Alias = alias
		ast.Attach(alias, xt)
	}
	xt.EndPos = p.at(-1).Pos
	return xt, nil
}

func (p *Parser) parseXmlNamespaceEntry() (*ast.XmlNamespace, error) {
	start := p.cur().Pos
	e, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	ns := &ast.XmlNamespace{StartPos: start, Expr: e}
	ast.Attach(e, ns)
	if p.accept(token.AS) {
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		ns.Name = name
		ast.Attach(name, ns)
	}
	ns.EndPos = p.at(-1).Pos
	return ns, nil
}

func (p *Parser) parseXmlColumnDefinition() (*ast.XmlColumnDefinition, error) {
	start := p.cur().Pos
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	cd := &ast.XmlColumnDefinition{StartPos: start, Name: name}
	ast.Attach(name, cd)
	if p.accept(token.FOR) {
		if _, err := p.expect(token.ORDINALITY); err != nil {
			return nil, err
		}
		cd.ForOrdinality = true
		cd.EndPos = p.at(-1).Pos
		return cd, nil
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	cd.Type = typ
	ast.Attach(typ, cd)
	if p.accept(token.PATH) {
		path, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		cd.Path = path
		ast.Attach(path, cd)
	}
	if p.accept(token.DEFAULT) {
		def, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		cd.Default = def
		ast.Attach(def, cd)
	}
	if p.accept(token.NOT) {
		if _, err := p.expect(token.NULL); err != nil {
			return nil, err
		}
		cd.NotNull = true
	}
	cd.EndPos = p.at(-1).Pos
	return cd, nil
}

func (p *Parser) parseColumnDefinition() (*ast.ColumnDefinition, error) {
	start := p.cur().Pos
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	cd := &ast.ColumnDefinition{StartPos: start, Name: name, Type: typ}
	ast.Attach(name, cd)
	ast.Attach(typ, cd)
	cd.EndPos = p.at(-1).Pos
	return cd, nil
}

func (p *Parser) parseTableSampleSuffix(item ast.RangeItem) (ast.RangeItem, error) {
	if !p.is(token.TABLESAMPLE) {
		return item, nil
	}
	start := p.cur().Pos
	p.advance()
	method, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
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
	ts := &ast.TableSample{StartPos: start, Relation: item, Method: method, Args: args}
	ast.Attach(item, ts)
	ast.Attach(method, ts)
	ast.Attach(args, ts)
	if p.accept(token.REPEATABLE) {
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		rep, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		ts.Repeatable = rep
		ast.Attach(rep, ts)
	}
	ts.EndPos = p.at(-1).Pos
	return ts, nil
}

// --- ORDER BY / LIMIT / OFFSET / locking ---

func (p *Parser) parseOptionalOrderBy() (*ast.OrderByList, error) {
	if !p.accept(token.ORDER) {
		return nil, nil
	}
	if _, err := p.expect(token.BY); err != nil {
		return nil, err
	}
	list := ast.NewOrderByList()
	list.SetParser(p)
	for {
		el, err := p.parseOrderByElement()
		if err != nil {
			return nil, err
		}
		list.Append(el)
		if !p.accept(token.COMMA) {
			break
		}
	}
	return list, nil
}

func (p *Parser) parseOrderByElement() (*ast.OrderByElement, error) {
	start := p.cur().Pos
	e, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	el := &ast.OrderByElement{StartPos: start, Expr: e}
	ast.Attach(e, el)
	switch {
	case p.accept(token.ASC):
	case p.accept(token.DESC):
		el.Desc = true
	case p.accept(token.USING):
		op, err := p.parseOperatorSymbol()
		if err != nil {
			return nil, err
		}
		el.UsingOp = op
	}
	if p.accept(token.NULLS) {
		switch {
		case p.accept(token.FIRST):
			t := true
			el.NullsFirst = &t
		case p.accept(token.LAST):
			f := false
			el.NullsFirst = &f
		default:
			return nil, p.errExpected("FIRST or LAST")
		}
	}
	el.EndPos = p.at(-1).Pos
	return el, nil
}

func (p *Parser) parseOptionalLimitOffset() (limit ast.ScalarExpr, limitWithTies bool, offset ast.ScalarExpr, err error) {
	for i := 0; i < 2; i++ {
		switch {
		case p.is(token.LIMIT):
			p.advance()
			if p.accept(token.ALL) {
				limit = nil
				continue
			}
			limit, err = p.parseExpr(precOr)
			if err != nil {
				return nil, false, nil, err
			}
		case p.is(token.OFFSET):
			p.advance()
			offset, err = p.parseExpr(precOr)
			if err != nil {
				return nil, false, nil, err
			}
			if p.is(token.ROW) || p.is(token.ROWS) {
				p.advance()
			}
		case p.is(token.FETCH):
			p.advance()
			if p.is(token.FIRST) || p.is(token.NEXT) {
				p.advance()
			}
			limit, err = p.parseExpr(precOr)
			if err != nil {
				return nil, false, nil, err
			}
			if p.is(token.ROW) || p.is(token.ROWS) {
				p.advance()
			}
			if p.accept(token.ONLY) {
				// plain count
			} else if p.accept(token.WITH) {
				if _, err = p.expect(token.TIES); err != nil {
					return nil, false, nil, err
				}
				limitWithTies = true
			} else {
				return nil, false, nil, p.errExpected("ONLY or WITH TIES")
			}
		default:
			return limit, limitWithTies, offset, nil
		}
	}
	return limit, limitWithTies, offset, nil
}

func (p *Parser) parseOptionalLocking() ([]*ast.LockingElement, error) {
	var elems []*ast.LockingElement
	for p.is(token.FOR) {
		start := p.cur().Pos
		p.advance()
		var strength string
		switch {
		case p.accept(token.UPDATE):
			strength = "update"
		case p.acceptIdentWord("no"):
			if _, err := p.expect(token.KEY); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.UPDATE); err != nil {
				return nil, err
			}
			strength = "no key update"
		case p.accept(token.KEY):
			if _, err := p.expect(token.SHARE); err != nil {
				return nil, err
			}
			strength = "key share"
		case p.accept(token.SHARE):
			strength = "share"
		default:
			return nil, p.errExpected("UPDATE, SHARE, NO KEY UPDATE, or KEY SHARE")
		}
		le := &ast.LockingElement{StartPos: start, Strength: strength}
		if p.accept(token.OF) {
			for {
				q, err := p.parseQualifiedName()
				if err != nil {
					return nil, err
				}
				le.Of = append(le.Of, q)
				ast.Attach(q, le)
				if !p.accept(token.COMMA) {
					break
				}
			}
		}
		if p.accept(token.NOWAIT) {
			le.NoWait = true
		} else if p.is(token.SKIP) && p.at(1).Type == token.LOCKED {
			p.advance()
			p.advance()
			le.SkipLocked = true
		}
		le.EndPos = p.at(-1).Pos
		elems = append(elems, le)
	}
	return elems, nil
}

// --- Window clauses ---

func (p *Parser) parseNamedWindowDefinition() (*ast.WindowDefinition, error) {
	start := p.cur().Pos
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	wd, err := p.parseWindowSpec()
	if err != nil {
		return nil, err
	}
	wd.StartPos = start
	wd.Name = name
	ast.Attach(name, wd)
	return wd, nil
}

// parseWindowSpec parses the `(...)` body of a window definition or an
// `OVER (...)` clause: [existing_window_name] [PARTITION BY ...]
// [ORDER BY ...] [frame_clause].
func (p *Parser) parseWindowSpec() (*ast.WindowDefinition, error) {
	start := p.cur().Pos
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	wd := &ast.WindowDefinition{StartPos: start}
	if p.cur().Type == token.IDENT && p.at(1).Type != token.PARTITION && p.at(1).Type != token.ORDER &&
		p.at(1).Type != token.RANGE && p.at(1).Type != token.ROWS && p.at(1).Type != token.GROUPS &&
		p.at(1).Type != token.RPAREN {
		// ambiguous with a bare column reference in a malformed spec;
		// PostgreSQL requires an existing window name here to be a bare
		// identifier directly followed by one of the clause keywords or ).
	}
	if p.cur().Type == token.IDENT {
		next := p.at(1).Type
		if next == token.PARTITION || next == token.ORDER || next == token.RPAREN ||
			next == token.RANGE || next == token.ROWS || next == token.GROUPS {
			ref, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			wd.RefName = ref
			ast.Attach(ref, wd)
		}
	}
	if p.accept(token.PARTITION) {
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		list := ast.NewExpressionList()
		list.SetParser(p)
		for {
			e, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			list.Append(e)
			if !p.accept(token.COMMA) {
				break
			}
		}
		wd.PartitionBy = list
		ast.Attach(list, wd)
	}
	ob, err := p.parseOptionalOrderBy()
	if err != nil {
		return nil, err
	}
	wd.OrderBy = ob
	ast.Attach(ob, wd)
	if p.is(token.RANGE) || p.is(token.ROWS) || p.is(token.GROUPS) {
		frame, err := p.parseWindowFrameClause()
		if err != nil {
			return nil, err
		}
		wd.Frame = frame
		ast.Attach(frame, wd)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	wd.EndPos = p.at(-1).Pos
	return wd, nil
}

func (p *Parser) parseWindowFrameClause() (*ast.WindowFrameClause, error) {
	start := p.cur().Pos
	var mode string
	switch {
	case p.accept(token.RANGE):
		mode = "range"
	case p.accept(token.ROWS):
		mode = "rows"
	case p.accept(token.GROUPS):
		mode = "groups"
	default:
		return nil, p.errExpected("RANGE, ROWS, or GROUPS")
	}
	fc := &ast.WindowFrameClause{StartPos: start, Mode: mode}
	if p.accept(token.BETWEEN) {
		start1, err := p.parseWindowFrameBound()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AND); err != nil {
			return nil, err
		}
		end1, err := p.parseWindowFrameBound()
		if err != nil {
			return nil, err
		}
		fc.Start, fc.End = start1, end1
	} else {
		start1, err := p.parseWindowFrameBound()
		if err != nil {
			return nil, err
		}
		fc.Start = start1
	}
	ast.Attach(fc.Start, fc)
	ast.Attach(fc.End, fc)
	if p.acceptIdentWord("exclude") {
		switch {
		case p.accept(token.CURRENT):
			if _, err := p.expect(token.ROW); err != nil {
				return nil, err
			}
			fc.Exclusion = "current row"
		case p.accept(token.GROUP):
			fc.Exclusion = "group"
		case p.accept(token.TIES):
			fc.Exclusion = "ties"
		case p.identWord("no"):
			p.advance()
			if !p.acceptIdentWord("others") {
				return nil, p.errExpected("NO OTHERS")
			}
			fc.Exclusion = "no others"
		default:
			return nil, p.errExpected("CURRENT ROW, GROUP, TIES, or NO OTHERS")
		}
	}
	fc.EndPos = p.at(-1).Pos
	return fc, nil
}

func (p *Parser) parseWindowFrameBound() (*ast.WindowFrameBound, error) {
	start := p.cur().Pos
	switch {
	case p.accept(token.UNBOUNDED):
		switch {
		case p.accept(token.PRECEDING):
			return &ast.WindowFrameBound{StartPos: start, Kind: "unbounded preceding", EndPos: p.at(-1).Pos}, nil
		case p.accept(token.FOLLOWING):
			return &ast.WindowFrameBound{StartPos: start, Kind: "unbounded following", EndPos: p.at(-1).Pos}, nil
		default:
			return nil, p.errExpected("PRECEDING or FOLLOWING")
		}
	case p.accept(token.CURRENT):
		if _, err := p.expect(token.ROW); err != nil {
			return nil, err
		}
		return &ast.WindowFrameBound{StartPos: start, Kind: "current row", EndPos: p.at(-1).Pos}, nil
	default:
		offset, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		b := &ast.WindowFrameBound{StartPos: start, Offset: offset}
		ast.Attach(offset, b)
		switch {
		case p.accept(token.PRECEDING):
			b.Kind = "preceding"
		case p.accept(token.FOLLOWING):
			b.Kind = "following"
		default:
			return nil, p.errExpected("PRECEDING or FOLLOWING")
		}
		b.EndPos = p.at(-1).Pos
		return b, nil
	}
}
