package ast

import "github.com/freeeve/machparse/token"

// RelationReference is a plain FROM-clause table reference: `[ONLY]
// name [*] [[AS] alias [(col, ...)]]`.
type RelationReference struct {
	base
	StartPos      token.Pos
	EndPos        token.Pos
	Name          *QualifiedName
	Only          bool
	Star          bool // trailing "*" after ONLY name, meaning "and descendants"
	Alias         *Identifier
	ColumnAliases []*Identifier
}

func (n *RelationReference) Pos() token.Pos                { return n.StartPos }
func (n *RelationReference) End() token.Pos                { return n.EndPos }
func (n *RelationReference) Dispatch(w Walker) (any, error) { return w.VisitRelationReference(n) }
func (*RelationReference) rangeItemNode()                   {}

// RowsFromElement is one function call inside a `ROWS FROM (...)` list,
// with its optional result-column type list (`AS (col type, ...)`).
type RowsFromElement struct {
	base
	StartPos   token.Pos
	EndPos     token.Pos
	Func       *FunctionCall
	ColumnDefs []*ColumnDefinition
}

func (n *RowsFromElement) Pos() token.Pos                { return n.StartPos }
func (n *RowsFromElement) End() token.Pos                { return n.EndPos }
func (n *RowsFromElement) Dispatch(w Walker) (any, error) { return w.VisitRowsFromElement(n) }

// RowsFrom is the `ROWS FROM (func(...), func(...), ...) [WITH
// ORDINALITY] [[AS] alias [(col, ...)]]` multi-function range item.
type RowsFrom struct {
	base
	StartPos       token.Pos
	EndPos         token.Pos
	Elements       []*RowsFromElement
	WithOrdinality bool
	Alias          *Identifier
	ColumnAliases  []*Identifier
}

func (n *RowsFrom) Pos() token.Pos                { return n.StartPos }
func (n *RowsFrom) End() token.Pos                { return n.EndPos }
func (n *RowsFrom) Dispatch(w Walker) (any, error) { return w.VisitRowsFrom(n) }
func (*RowsFrom) rangeItemNode()                   {}

// JoinExpression is a binary FROM-clause join: `left JOIN right ON ...`
// / `left JOIN right USING (...)` / `left NATURAL JOIN right` / `left
// CROSS JOIN right`.
type JoinExpression struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Left     RangeItem
	Right    RangeItem
	JoinType string // "inner", "left", "right", "full", "cross"
	Natural  bool
	On       ScalarExpr
	Using    []*Identifier
	Alias    *Identifier // alias on the parenthesized join result, if any
}

func (n *JoinExpression) Pos() token.Pos                { return n.StartPos }
func (n *JoinExpression) End() token.Pos                { return n.EndPos }
func (n *JoinExpression) Dispatch(w Walker) (any, error) { return w.VisitJoinExpression(n) }
func (*JoinExpression) rangeItemNode()                   {}

// Subselect is a parenthesized subquery used as a FROM-clause item:
// `(SELECT ...) [AS] alias [(col, ...)]`.
type Subselect struct {
	base
	StartPos      token.Pos
	EndPos        token.Pos
	Query         Statement
	Lateral       bool
	Alias         *Identifier
	ColumnAliases []*Identifier
}

func (n *Subselect) Pos() token.Pos                { return n.StartPos }
func (n *Subselect) End() token.Pos                { return n.EndPos }
func (n *Subselect) Dispatch(w Walker) (any, error) { return w.VisitSubselect(n) }
func (*Subselect) rangeItemNode()                   {}

func (n *Subselect) replaceChild(old, nw Node) {
	if old == Node(n.Query) {
		if s, ok := nw.(Statement); ok {
			n.Query = s
		}
	}
}

// TableSample is `relation TABLESAMPLE method (args) [REPEATABLE (seed)]`.
type TableSample struct {
	base
	StartPos   token.Pos
	EndPos     token.Pos
	Relation   RangeItem
	Method     *Identifier
	Args       *ExpressionList
	Repeatable ScalarExpr
}

func (n *TableSample) Pos() token.Pos                { return n.StartPos }
func (n *TableSample) End() token.Pos                { return n.EndPos }
func (n *TableSample) Dispatch(w Walker) (any, error) { return w.VisitTableSample(n) }
func (*TableSample) rangeItemNode()                   {}

// InsertTarget is the target relation of an INSERT statement:
// `name [[AS] alias]`.
type InsertTarget struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Name     *QualifiedName
	Alias    *Identifier
}

func (n *InsertTarget) Pos() token.Pos                { return n.StartPos }
func (n *InsertTarget) End() token.Pos                { return n.EndPos }
func (n *InsertTarget) Dispatch(w Walker) (any, error) { return w.VisitInsertTarget(n) }

// UpdateOrDeleteTarget is the target relation of an UPDATE or DELETE
// statement: `[ONLY] name [*] [[AS] alias]`.
type UpdateOrDeleteTarget struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Only     bool
	Name     *QualifiedName
	Star     bool
	Alias    *Identifier
}

func (n *UpdateOrDeleteTarget) Pos() token.Pos { return n.StartPos }
func (n *UpdateOrDeleteTarget) End() token.Pos { return n.EndPos }
func (n *UpdateOrDeleteTarget) Dispatch(w Walker) (any, error) {
	return w.VisitUpdateOrDeleteTarget(n)
}

// ColumnDefinition is a `name type` pair used in ROWS FROM's and
// XMLTABLE's result-column lists.
type ColumnDefinition struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Name     *Identifier
	Type     *TypeName
}

func (n *ColumnDefinition) Pos() token.Pos                { return n.StartPos }
func (n *ColumnDefinition) End() token.Pos                { return n.EndPos }
func (n *ColumnDefinition) Dispatch(w Walker) (any, error) { return w.VisitColumnDefinition(n) }
