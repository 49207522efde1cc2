package parser

import "github.com/freeeve/machparse/ast"

// var _ ast.FragmentParser = (*Parser)(nil) pins *Parser to the
// element-parseable-list capability interface so a signature drift here
// is caught without needing to compile the whole tree.
var _ ast.FragmentParser = (*Parser)(nil)

// fragmentParser spins up a sub-parser over src sharing this parser's
// precedence mode, runs parse, and rejects anything left over once it
// returns -- the same "parse one thing, then demand EOF" shape
// ParseSelectStatement uses for a set-operation operand.
func fragmentParser[T any](p *Parser, src string, parse func(*Parser) (T, error)) (T, error) {
	sub := NewWithMode(src, p.mode)
	v, err := parse(sub)
	if err != nil {
		var zero T
		return zero, err
	}
	if !sub.atEOF() {
		var zero T
		return zero, sub.errf("unexpected trailing input in fragment")
	}
	return v, nil
}

// ParseScalarExpr parses src as a standalone scalar expression, letting
// ExpressionList.AppendSQL and ValuesRow.AppendSQL build a new element
// from raw SQL.
func (p *Parser) ParseScalarExpr(src string) (ast.ScalarExpr, error) {
	return fragmentParser(p, src, func(sub *Parser) (ast.ScalarExpr, error) {
		return sub.parseExpr(precOr)
	})
}

// ParseRangeItem parses src as one FROM-list entry (a table primary plus
// any trailing JOINs), for FromList.AppendSQL.
func (p *Parser) ParseRangeItem(src string) (ast.RangeItem, error) {
	return fragmentParser(p, src, func(sub *Parser) (ast.RangeItem, error) {
		return sub.parseJoinedTable()
	})
}

// ParseResTarget parses src as one SELECT target-list entry (an
// expression plus an optional alias), for TargetList.AppendSQL.
func (p *Parser) ParseResTarget(src string) (*ast.ResTarget, error) {
	return fragmentParser(p, src, func(sub *Parser) (*ast.ResTarget, error) {
		return sub.parseResTarget()
	})
}

// ParseOrderByElement parses src as one ORDER BY entry (an expression
// plus optional ASC/DESC/NULLS placement), for OrderByList.AppendSQL.
func (p *Parser) ParseOrderByElement(src string) (*ast.OrderByElement, error) {
	return fragmentParser(p, src, func(sub *Parser) (*ast.OrderByElement, error) {
		return sub.parseOrderByElement()
	})
}

// ParseSetTargetElement parses src as one UPDATE SET target (a column,
// optionally subscripted or dotted into a field), for
// InsertTargetList.AppendSQL.
func (p *Parser) ParseSetTargetElement(src string) (*ast.SetTargetElement, error) {
	return fragmentParser(p, src, func(sub *Parser) (*ast.SetTargetElement, error) {
		return sub.parseSetTargetElement()
	})
}

// ParseValuesRow parses src as one parenthesized VALUES row, for
// RowList.AppendSQL.
func (p *Parser) ParseValuesRow(src string) (*ast.ValuesRow, error) {
	return fragmentParser(p, src, func(sub *Parser) (*ast.ValuesRow, error) {
		return sub.parseValuesRow()
	})
}
