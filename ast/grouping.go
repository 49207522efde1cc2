package ast

import "github.com/freeeve/machparse/token"

// EmptyGroupingSet is the bare `()` GROUP BY item denoting the grand
// total (no grouping columns at all).
type EmptyGroupingSet struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
}

func (n *EmptyGroupingSet) Pos() token.Pos                { return n.StartPos }
func (n *EmptyGroupingSet) End() token.Pos                { return n.EndPos }
func (n *EmptyGroupingSet) Dispatch(w Walker) (any, error) { return w.VisitEmptyGroupingSet(n) }
func (*EmptyGroupingSet) scalarExprNode()                  {}
func (n *EmptyGroupingSet) setParent(Node)                 {}

// CubeOrRollupClause is a `CUBE (...)` or `ROLLUP (...)` GROUP BY item.
type CubeOrRollupClause struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Kind     string // "cube" or "rollup"
	Args     *ExpressionList
}

func (n *CubeOrRollupClause) Pos() token.Pos { return n.StartPos }
func (n *CubeOrRollupClause) End() token.Pos { return n.EndPos }
func (n *CubeOrRollupClause) Dispatch(w Walker) (any, error) {
	return w.VisitCubeOrRollupClause(n)
}
func (*CubeOrRollupClause) scalarExprNode() {}

// GroupingSetsClause is a `GROUPING SETS (...)` GROUP BY item; each
// member of Sets is itself a grouping-set-shaped expression (a bare
// expr, an ExpressionList, an EmptyGroupingSet, or a nested
// CubeOrRollupClause).
type GroupingSetsClause struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Sets     []ScalarExpr
}

func (n *GroupingSetsClause) Pos() token.Pos { return n.StartPos }
func (n *GroupingSetsClause) End() token.Pos { return n.EndPos }
func (n *GroupingSetsClause) Dispatch(w Walker) (any, error) {
	return w.VisitGroupingSetsClause(n)
}
func (*GroupingSetsClause) scalarExprNode() {}
