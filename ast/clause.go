package ast

import "github.com/freeeve/machparse/token"

// WithClause is the `WITH [RECURSIVE] cte, ...` prefix shared by
// Select/Values/Insert/Update/Delete.
type WithClause struct {
	base
	StartPos  token.Pos
	EndPos    token.Pos
	Recursive bool
	CTEs      []*CommonTableExpression
}

func (n *WithClause) Pos() token.Pos                { return n.StartPos }
func (n *WithClause) End() token.Pos                { return n.EndPos }
func (n *WithClause) Dispatch(w Walker) (any, error) { return w.VisitWithClause(n) }

func (n *WithClause) Append(c *CommonTableExpression) {
	attach(c, n)
	n.CTEs = append(n.CTEs, c)
}

// CommonTableExpression is one `name [(cols)] AS [MATERIALIZED |
// NOT MATERIALIZED] (query)` entry of a WithClause.
type CommonTableExpression struct {
	base
	StartPos      token.Pos
	EndPos        token.Pos
	Name          *Identifier
	ColumnAliases []*Identifier
	Materialized  *bool // nil: unspecified, true: MATERIALIZED, false: NOT MATERIALIZED
	Query         Statement
}

func (n *CommonTableExpression) Pos() token.Pos { return n.StartPos }
func (n *CommonTableExpression) End() token.Pos { return n.EndPos }
func (n *CommonTableExpression) Dispatch(w Walker) (any, error) {
	return w.VisitCommonTableExpression(n)
}

// WhereOrHavingClause wraps the boolean expression of a WHERE or HAVING
// clause and exposes the And/Or mutating combinators the spec names.
type WhereOrHavingClause struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Expr     ScalarExpr
}

func NewWhereOrHavingClause(expr ScalarExpr) *WhereOrHavingClause {
	c := &WhereOrHavingClause{Expr: expr}
	attach(expr, c)
	return c
}

func (n *WhereOrHavingClause) Pos() token.Pos { return n.StartPos }
func (n *WhereOrHavingClause) End() token.Pos { return n.EndPos }
func (n *WhereOrHavingClause) Dispatch(w Walker) (any, error) {
	return w.VisitWhereOrHavingClause(n)
}

// And replaces the wrapped expression with `expr AND other`, folding
// into an existing top-level LogicalExpression("and") rather than
// nesting one inside another.
func (n *WhereOrHavingClause) And(other ScalarExpr) {
	n.Expr = combineLogical(n.Expr, "and", other, n)
}

// Or replaces the wrapped expression with `expr OR other`, with the
// same top-level-folding behavior as And.
func (n *WhereOrHavingClause) Or(other ScalarExpr) {
	n.Expr = combineLogical(n.Expr, "or", other, n)
}

func combineLogical(existing ScalarExpr, op string, other ScalarExpr, parent Node) ScalarExpr {
	if l, ok := existing.(*LogicalExpression); ok && l.Op == op {
		l.Append(other)
		return existing
	}
	combined := NewLogicalExpression(op, existing, other)
	attach(combined, parent)
	return combined
}

// OnConflictClause is INSERT's `ON CONFLICT (target | ON CONSTRAINT c)
// DO NOTHING | DO UPDATE SET ... WHERE ...`.
type OnConflictClause struct {
	base
	StartPos       token.Pos
	EndPos         token.Pos
	IndexElements  []*IndexElement
	IndexWhere     ScalarExpr
	ConstraintName *Identifier
	DoNothing      bool
	Set            []*SetClause
	SetMulti       []*MultiAssign
	Where          ScalarExpr
}

func (n *OnConflictClause) Pos() token.Pos                { return n.StartPos }
func (n *OnConflictClause) End() token.Pos                { return n.EndPos }
func (n *OnConflictClause) Dispatch(w Walker) (any, error) { return w.VisitOnConflictClause(n) }

// SetClause is one `col = expr` assignment of an UPDATE SET list or an
// ON CONFLICT DO UPDATE SET list.
type SetClause struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Target   *SetTargetElement
	Value    ScalarExpr
}

func (n *SetClause) Pos() token.Pos                { return n.StartPos }
func (n *SetClause) End() token.Pos                { return n.EndPos }
func (n *SetClause) Dispatch(w Walker) (any, error) { return w.VisitSetClause(n) }

// MultiAssign is the `(cols) = (exprs | subselect)` multi-column
// assignment form of UPDATE's and ON CONFLICT DO UPDATE's SET list.
type MultiAssign struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Targets  *InsertTargetList
	Source   ScalarExpr // *RowExpression or *SubselectExpression
}

func (n *MultiAssign) Pos() token.Pos                { return n.StartPos }
func (n *MultiAssign) End() token.Pos                { return n.EndPos }
func (n *MultiAssign) Dispatch(w Walker) (any, error) { return w.VisitMultiAssign(n) }

// LockingElement is one `FOR UPDATE|SHARE|NO KEY UPDATE|KEY SHARE [OF
// tbl, ...] [NOWAIT | SKIP LOCKED]` clause.
type LockingElement struct {
	base
	StartPos   token.Pos
	EndPos     token.Pos
	Strength   string // "update", "share", "no key update", "key share"
	Of         []*QualifiedName
	NoWait     bool
	SkipLocked bool
}

func (n *LockingElement) Pos() token.Pos                { return n.StartPos }
func (n *LockingElement) End() token.Pos                { return n.EndPos }
func (n *LockingElement) Dispatch(w Walker) (any, error) { return w.VisitLockingElement(n) }

// WindowDefinition is a `name AS (...)` entry of a WINDOW clause, or the
// anonymous `OVER (...)`/`OVER name` spec attached to a window function.
type WindowDefinition struct {
	base
	StartPos    token.Pos
	EndPos      token.Pos
	Name        *Identifier // set for a WINDOW-clause entry
	RefName     *Identifier // the window this one extends, if any
	OverName    *Identifier // set when OVER refers to an existing window by bare name
	PartitionBy *ExpressionList
	OrderBy     *OrderByList
	Frame       *WindowFrameClause
}

func (n *WindowDefinition) Pos() token.Pos                { return n.StartPos }
func (n *WindowDefinition) End() token.Pos                { return n.EndPos }
func (n *WindowDefinition) Dispatch(w Walker) (any, error) { return w.VisitWindowDefinition(n) }

// WindowFrameClause is the `[RANGE|ROWS|GROUPS] BETWEEN start AND end
// [EXCLUDE ...]` frame specification of a window definition.
type WindowFrameClause struct {
	base
	StartPos  token.Pos
	EndPos    token.Pos
	Mode      string // "range", "rows", "groups"
	Start     *WindowFrameBound
	End       *WindowFrameBound
	Exclusion string // "", "current row", "group", "ties", "no others"
}

func (n *WindowFrameClause) Pos() token.Pos                { return n.StartPos }
func (n *WindowFrameClause) End() token.Pos                { return n.EndPos }
func (n *WindowFrameClause) Dispatch(w Walker) (any, error) { return w.VisitWindowFrameClause(n) }

// WindowFrameBound is one endpoint of a WindowFrameClause.
type WindowFrameBound struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Kind     string // "unbounded preceding", "unbounded following", "current row", "preceding", "following"
	Offset   ScalarExpr
}

func (n *WindowFrameBound) Pos() token.Pos                { return n.StartPos }
func (n *WindowFrameBound) End() token.Pos                { return n.EndPos }
func (n *WindowFrameBound) Dispatch(w Walker) (any, error) { return w.VisitWindowFrameBound(n) }

// OrderByElement is one `expr [ASC|DESC|USING op] [NULLS FIRST|LAST]`
// entry of an ORDER BY list.
type OrderByElement struct {
	base
	StartPos   token.Pos
	EndPos     token.Pos
	Expr       ScalarExpr
	Desc       bool
	UsingOp    string // set instead of Desc for "USING op"
	NullsFirst *bool  // nil: default, true: NULLS FIRST, false: NULLS LAST
}

func (n *OrderByElement) Pos() token.Pos                { return n.StartPos }
func (n *OrderByElement) End() token.Pos                { return n.EndPos }
func (n *OrderByElement) Dispatch(w Walker) (any, error) { return w.VisitOrderByElement(n) }

// ResTarget is one entry of a SELECT target list or a RETURNING list:
// a scalar expression with an optional output alias.
type ResTarget struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Expr     ScalarExpr
	Alias    *Identifier
}

func NewResTarget(expr ScalarExpr) *ResTarget {
	t := &ResTarget{Expr: expr}
	attach(expr, t)
	return t
}

func (n *ResTarget) Pos() token.Pos                { return n.StartPos }
func (n *ResTarget) End() token.Pos                { return n.EndPos }
func (n *ResTarget) Dispatch(w Walker) (any, error) { return w.VisitResTarget(n) }
