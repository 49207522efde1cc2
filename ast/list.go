package ast

import (
	"github.com/freeeve/machparse/errs"
	"github.com/freeeve/machparse/token"
)

// FragmentParser is the capability an element-parseable list needs: the
// ability to parse a raw SQL fragment into the node kind that list holds.
// ast cannot import package parser (parser imports ast), so the concrete
// *parser.Parser satisfies this structurally; lists only see the
// interface, which keeps the dependency one-directional.
type FragmentParser interface {
	ParseScalarExpr(src string) (ScalarExpr, error)
	ParseRangeItem(src string) (RangeItem, error)
	ParseResTarget(src string) (*ResTarget, error)
	ParseOrderByElement(src string) (*OrderByElement, error)
	ParseSetTargetElement(src string) (*SetTargetElement, error)
	ParseValuesRow(src string) (*ValuesRow, error)
}

// elementParseable is embedded by every list node to hold the optional
// FragmentParser reference described in the element-parseable-list
// invariant.
type elementParseable struct {
	parser FragmentParser
}

// SetParser attaches a FragmentParser, enabling AppendSQL on this list.
func (e *elementParseable) SetParser(p FragmentParser) { e.parser = p }

func (e *elementParseable) requireParser() error {
	if e.parser == nil {
		return errs.NewInvalidArgument("list has no parser reference; cannot parse a raw SQL fragment")
	}
	return nil
}

// ExpressionList is a homogeneous ordered sequence of scalar expressions,
// used for function-call arguments, GROUP BY items, and similar.
type ExpressionList struct {
	base
	elementParseable
	StartPos token.Pos
	EndPos   token.Pos
	Items    []ScalarExpr
}

func NewExpressionList() *ExpressionList { return &ExpressionList{} }

func (n *ExpressionList) Pos() token.Pos { return n.StartPos }
func (n *ExpressionList) End() token.Pos { return n.EndPos }
func (n *ExpressionList) Dispatch(w Walker) (any, error) { return w.VisitExpressionList(n) }
func (n *ExpressionList) Len() int                       { return len(n.Items) }

// scalarExprNode lets an ExpressionList sit as one element of a CUBE/
// ROLLUP/GROUPING SETS list, where a parenthesized sub-list of columns
// is itself one grouping-set member.
func (*ExpressionList) scalarExprNode() {}

func (n *ExpressionList) Append(e ScalarExpr) {
	attach(e, n)
	n.Items = append(n.Items, e)
}

func (n *ExpressionList) AppendNode(node Node) error {
	e, ok := node.(ScalarExpr)
	if !ok {
		return errs.NewInvalidArgument("ExpressionList requires a ScalarExpr, got %T", node)
	}
	n.Append(e)
	return nil
}

func (n *ExpressionList) AppendSQL(src string) error {
	if err := n.requireParser(); err != nil {
		return err
	}
	e, err := n.parser.ParseScalarExpr(src)
	if err != nil {
		return err
	}
	n.Append(e)
	return nil
}

// TargetList is the SELECT/RETURNING target list: an ordered sequence of
// ResTarget (expression plus optional output alias).
type TargetList struct {
	base
	elementParseable
	StartPos token.Pos
	EndPos   token.Pos
	Items    []*ResTarget
}

func NewTargetList() *TargetList { return &TargetList{} }

func (n *TargetList) Pos() token.Pos { return n.StartPos }
func (n *TargetList) End() token.Pos { return n.EndPos }
func (n *TargetList) Dispatch(w Walker) (any, error) { return w.VisitTargetList(n) }
func (n *TargetList) Len() int                       { return len(n.Items) }

func (n *TargetList) Append(t *ResTarget) {
	attach(t, n)
	n.Items = append(n.Items, t)
}

func (n *TargetList) AppendNode(node Node) error {
	t, ok := node.(*ResTarget)
	if !ok {
		return errs.NewInvalidArgument("TargetList requires a *ResTarget, got %T", node)
	}
	n.Append(t)
	return nil
}

func (n *TargetList) AppendSQL(src string) error {
	if err := n.requireParser(); err != nil {
		return err
	}
	t, err := n.parser.ParseResTarget(src)
	if err != nil {
		return err
	}
	n.Append(t)
	return nil
}

// FromList is the comma-joined (cross-joined) FROM-clause item list.
type FromList struct {
	base
	elementParseable
	StartPos token.Pos
	EndPos   token.Pos
	Items    []RangeItem
}

func NewFromList() *FromList { return &FromList{} }

func (n *FromList) Pos() token.Pos { return n.StartPos }
func (n *FromList) End() token.Pos { return n.EndPos }
func (n *FromList) Dispatch(w Walker) (any, error) { return w.VisitFromList(n) }
func (n *FromList) Len() int                       { return len(n.Items) }

func (n *FromList) Append(r RangeItem) {
	attach(r, n)
	n.Items = append(n.Items, r)
}

func (n *FromList) AppendNode(node Node) error {
	r, ok := node.(RangeItem)
	if !ok {
		return errs.NewInvalidArgument("FromList requires a RangeItem, got %T", node)
	}
	n.Append(r)
	return nil
}

func (n *FromList) AppendSQL(src string) error {
	if err := n.requireParser(); err != nil {
		return err
	}
	r, err := n.parser.ParseRangeItem(src)
	if err != nil {
		return err
	}
	n.Append(r)
	return nil
}

// ValuesRow is one parenthesized row of a VALUES clause.
type ValuesRow struct {
	base
	elementParseable
	StartPos token.Pos
	EndPos   token.Pos
	Items    []ScalarExpr
}

func NewValuesRow() *ValuesRow { return &ValuesRow{} }

func (n *ValuesRow) Pos() token.Pos { return n.StartPos }
func (n *ValuesRow) End() token.Pos { return n.EndPos }
func (n *ValuesRow) Dispatch(w Walker) (any, error) { return w.VisitValuesRow(n) }
func (n *ValuesRow) Len() int                       { return len(n.Items) }

func (n *ValuesRow) Append(e ScalarExpr) {
	attach(e, n)
	n.Items = append(n.Items, e)
}

func (n *ValuesRow) AppendNode(node Node) error {
	e, ok := node.(ScalarExpr)
	if !ok {
		return errs.NewInvalidArgument("ValuesRow requires a ScalarExpr, got %T", node)
	}
	n.Append(e)
	return nil
}

func (n *ValuesRow) AppendSQL(src string) error {
	if err := n.requireParser(); err != nil {
		return err
	}
	e, err := n.parser.ParseScalarExpr(src)
	if err != nil {
		return err
	}
	n.Append(e)
	return nil
}

// RowList is the list of rows in a VALUES clause.
type RowList struct {
	base
	elementParseable
	StartPos token.Pos
	EndPos   token.Pos
	Rows     []*ValuesRow
}

func NewRowList() *RowList { return &RowList{} }

func (n *RowList) Pos() token.Pos { return n.StartPos }
func (n *RowList) End() token.Pos { return n.EndPos }
func (n *RowList) Dispatch(w Walker) (any, error) { return w.VisitRowList(n) }
func (n *RowList) Len() int                       { return len(n.Rows) }

func (n *RowList) Append(r *ValuesRow) {
	attach(r, n)
	n.Rows = append(n.Rows, r)
}

func (n *RowList) AppendNode(node Node) error {
	r, ok := node.(*ValuesRow)
	if !ok {
		return errs.NewInvalidArgument("RowList requires a *ValuesRow, got %T", node)
	}
	n.Append(r)
	return nil
}

func (n *RowList) AppendSQL(src string) error {
	if err := n.requireParser(); err != nil {
		return err
	}
	r, err := n.parser.ParseValuesRow(src)
	if err != nil {
		return err
	}
	n.Append(r)
	return nil
}

// SetTargetElement is one element of an INSERT column list or an
// UPDATE ... SET (cols) = (...) multi-assignment target list: a bare
// column name with optional subscript/field indirection.
type SetTargetElement struct {
	base
	StartPos    token.Pos
	EndPos      token.Pos
	Column      *Identifier
	Indirection []ScalarExpr // subscripts/fields applied to Column, if any
}

func NewSetTargetElement(col *Identifier) *SetTargetElement {
	e := &SetTargetElement{Column: col}
	attach(col, e)
	return e
}

func (n *SetTargetElement) Pos() token.Pos { return n.StartPos }
func (n *SetTargetElement) End() token.Pos { return n.EndPos }
func (n *SetTargetElement) Dispatch(w Walker) (any, error) { return w.VisitSetTargetElement(n) }

// InsertTargetList is the column-name list of an INSERT or of an
// UPDATE ... SET (cols) = (...) multi-assignment.
type InsertTargetList struct {
	base
	elementParseable
	StartPos token.Pos
	EndPos   token.Pos
	Items    []*SetTargetElement
}

func NewInsertTargetList() *InsertTargetList { return &InsertTargetList{} }

func (n *InsertTargetList) Pos() token.Pos { return n.StartPos }
func (n *InsertTargetList) End() token.Pos { return n.EndPos }
func (n *InsertTargetList) Dispatch(w Walker) (any, error) { return w.VisitInsertTargetList(n) }
func (n *InsertTargetList) Len() int                       { return len(n.Items) }

func (n *InsertTargetList) Append(e *SetTargetElement) {
	attach(e, n)
	n.Items = append(n.Items, e)
}

func (n *InsertTargetList) AppendNode(node Node) error {
	e, ok := node.(*SetTargetElement)
	if !ok {
		return errs.NewInvalidArgument("InsertTargetList requires a *SetTargetElement, got %T", node)
	}
	n.Append(e)
	return nil
}

func (n *InsertTargetList) AppendSQL(src string) error {
	if err := n.requireParser(); err != nil {
		return err
	}
	e, err := n.parser.ParseSetTargetElement(src)
	if err != nil {
		return err
	}
	n.Append(e)
	return nil
}

// OrderByList is the ORDER BY clause's element list.
type OrderByList struct {
	base
	elementParseable
	StartPos token.Pos
	EndPos   token.Pos
	Items    []*OrderByElement
}

func NewOrderByList() *OrderByList { return &OrderByList{} }

func (n *OrderByList) Pos() token.Pos { return n.StartPos }
func (n *OrderByList) End() token.Pos { return n.EndPos }
func (n *OrderByList) Dispatch(w Walker) (any, error) { return w.VisitOrderByList(n) }
func (n *OrderByList) Len() int                       { return len(n.Items) }

func (n *OrderByList) Append(o *OrderByElement) {
	attach(o, n)
	n.Items = append(n.Items, o)
}

func (n *OrderByList) AppendNode(node Node) error {
	o, ok := node.(*OrderByElement)
	if !ok {
		return errs.NewInvalidArgument("OrderByList requires a *OrderByElement, got %T", node)
	}
	n.Append(o)
	return nil
}

func (n *OrderByList) AppendSQL(src string) error {
	if err := n.requireParser(); err != nil {
		return err
	}
	o, err := n.parser.ParseOrderByElement(src)
	if err != nil {
		return err
	}
	n.Append(o)
	return nil
}
