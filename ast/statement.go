package ast

import (
	"github.com/freeeve/machparse/errs"
	"github.com/freeeve/machparse/token"
)

func errInvalidSetOpParser() error {
	return errs.NewInvalidArgument("parser does not implement ParseSelectStatement for set-operation combinators")
}

// SelectCommon is the capability shared by Select, SetOpSelect, and
// Values: each can appear as either side of a set operation, and each
// exposes the Union/Intersect/Except combinators that splice it into a
// freshly built SetOpSelect while preserving the parent-link invariant.
type SelectCommon interface {
	Statement
	selectCommonNode()
	hasTailClauses() bool
}

// Select is a `SELECT ...` statement (without a top-level set operation;
// set operations are represented by SetOpSelect, whose Left/Right are
// themselves SelectCommon).
type Select struct {
	base
	StartPos    token.Pos
	EndPos      token.Pos
	With        *WithClause
	Distinct    bool
	DistinctOn  *ExpressionList
	Targets     *TargetList
	From        *FromList
	Where       *WhereOrHavingClause
	GroupBy     *ExpressionList
	Having      *WhereOrHavingClause
	Windows     []*WindowDefinition
	OrderBy     *OrderByList
	Limit       ScalarExpr
	LimitWithTies bool
	Offset      ScalarExpr
	Locking     []*LockingElement
}

func (n *Select) Pos() token.Pos                { return n.StartPos }
func (n *Select) End() token.Pos                { return n.EndPos }
func (n *Select) Dispatch(w Walker) (any, error) { return w.VisitSelect(n) }
func (*Select) statementNode()                   {}
func (*Select) selectCommonNode()                {}

func (n *Select) hasTailClauses() bool {
	return (n.OrderBy != nil && n.OrderBy.Len() > 0) || n.Limit != nil || n.Offset != nil || len(n.Locking) > 0
}

// Union replaces this Select's position in its parent with a new
// SetOpSelect(UNION, this, parse(sql)).
func (n *Select) Union(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "union", all, sql, p)
}

// Intersect replaces this Select's position in its parent with a new
// SetOpSelect(INTERSECT, this, parse(sql)).
func (n *Select) Intersect(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "intersect", all, sql, p)
}

// Except replaces this Select's position in its parent with a new
// SetOpSelect(EXCEPT, this, parse(sql)).
func (n *Select) Except(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "except", all, sql, p)
}

// SetOpSelectParser is the capability combineSetOp needs: parsing a raw
// SQL fragment into the right operand of a set operation.
type SetOpSelectParser interface {
	ParseSelectStatement(src string) (Statement, error)
}

func combineSetOp(left SelectCommon, op string, all bool, sql string, p FragmentParser) (*SetOpSelect, error) {
	sp, ok := p.(SetOpSelectParser)
	if !ok {
		return nil, errInvalidSetOpParser()
	}
	right, err := sp.ParseSelectStatement(sql)
	if err != nil {
		return nil, err
	}
	rightCommon, ok := right.(SelectCommon)
	if !ok {
		return nil, errInvalidSetOpParser()
	}
	parent := left.Parent()
	replacer, hasReplace := parent.(childReplacer)

	combined := &SetOpSelect{Op: op, All: all, Left: left, Right: rightCommon}
	attach(left, combined)
	attach(rightCommon, combined)

	if hasReplace {
		replacer.replaceChild(left, combined)
		attach(combined, parent)
	}
	return combined, nil
}

// childReplacer is implemented by any node that can swap one of its
// SelectCommon-typed fields for a freshly built SetOpSelect -- the
// mechanism behind Union/Intersect/Except mutating a subtree in place.
type childReplacer interface {
	replaceChild(old, new Node)
}

// SetOpSelect is a binary UNION/INTERSECT/EXCEPT tree node.
type SetOpSelect struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Op       string // "union", "intersect", "except"
	All      bool
	Left     SelectCommon
	Right    SelectCommon
	OrderBy  *OrderByList
	Limit    ScalarExpr
	Offset   ScalarExpr
	Locking  []*LockingElement
}

func (n *SetOpSelect) Pos() token.Pos                { return n.StartPos }
func (n *SetOpSelect) End() token.Pos                { return n.EndPos }
func (n *SetOpSelect) Dispatch(w Walker) (any, error) { return w.VisitSetOpSelect(n) }
func (*SetOpSelect) statementNode()                   {}
func (*SetOpSelect) selectCommonNode()                {}

func (n *SetOpSelect) hasTailClauses() bool {
	return (n.OrderBy != nil && n.OrderBy.Len() > 0) || n.Limit != nil || n.Offset != nil || len(n.Locking) > 0
}

func (n *SetOpSelect) Union(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "union", all, sql, p)
}
func (n *SetOpSelect) Intersect(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "intersect", all, sql, p)
}
func (n *SetOpSelect) Except(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "except", all, sql, p)
}

func (n *SetOpSelect) replaceChild(old, nw Node) {
	switch old {
	case Node(n.Left):
		if sc, ok := nw.(SelectCommon); ok {
			n.Left = sc
		}
	case Node(n.Right):
		if sc, ok := nw.(SelectCommon); ok {
			n.Right = sc
		}
	}
}

// Values is a `VALUES (...), (...), ...` statement.
type Values struct {
	base
	StartPos      token.Pos
	EndPos        token.Pos
	With          *WithClause
	Rows          *RowList
	OrderBy       *OrderByList
	Limit         ScalarExpr
	LimitWithTies bool
	Offset        ScalarExpr
}

func (n *Values) Pos() token.Pos                { return n.StartPos }
func (n *Values) End() token.Pos                { return n.EndPos }
func (n *Values) Dispatch(w Walker) (any, error) { return w.VisitValues(n) }
func (*Values) statementNode()                   {}
func (*Values) selectCommonNode()                {}

func (n *Values) hasTailClauses() bool {
	return (n.OrderBy != nil && n.OrderBy.Len() > 0) || n.Limit != nil || n.Offset != nil
}

func (n *Values) Union(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "union", all, sql, p)
}
func (n *Values) Intersect(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "intersect", all, sql, p)
}
func (n *Values) Except(sql string, all bool, p FragmentParser) (*SetOpSelect, error) {
	return combineSetOp(n, "except", all, sql, p)
}

// Insert is an `INSERT INTO target (cols) VALUES (...) | SELECT ... ON
// CONFLICT ... RETURNING ...` statement.
type Insert struct {
	base
	StartPos      token.Pos
	EndPos        token.Pos
	With          *WithClause
	Target        *InsertTarget
	Columns       *InsertTargetList
	DefaultValues bool
	Overriding    string // "", "system", "user"
	Source        Statement // *Values or *Select/*SetOpSelect; nil when DefaultValues
	OnConflict    *OnConflictClause
	Returning     *TargetList
}

func (n *Insert) Pos() token.Pos                { return n.StartPos }
func (n *Insert) End() token.Pos                { return n.EndPos }
func (n *Insert) Dispatch(w Walker) (any, error) { return w.VisitInsert(n) }
func (*Insert) statementNode()                   {}

func (n *Insert) replaceChild(old, nw Node) {
	if old == Node(n.Source) {
		if s, ok := nw.(Statement); ok {
			n.Source = s
		}
	}
}

// Update is an `UPDATE target SET ... FROM ... WHERE ... RETURNING ...`
// statement.
type Update struct {
	base
	StartPos  token.Pos
	EndPos    token.Pos
	With      *WithClause
	Target    *UpdateOrDeleteTarget
	Set       []*SetClause
	SetMulti  []*MultiAssign
	From      *FromList
	Where     *WhereOrHavingClause
	Returning *TargetList
}

func (n *Update) Pos() token.Pos                { return n.StartPos }
func (n *Update) End() token.Pos                { return n.EndPos }
func (n *Update) Dispatch(w Walker) (any, error) { return w.VisitUpdate(n) }
func (*Update) statementNode()                   {}

// Delete is a `DELETE FROM target USING ... WHERE ... RETURNING ...`
// statement.
type Delete struct {
	base
	StartPos  token.Pos
	EndPos    token.Pos
	With      *WithClause
	Target    *UpdateOrDeleteTarget
	Using     *FromList
	Where     *WhereOrHavingClause
	Returning *TargetList
}

func (n *Delete) Pos() token.Pos                { return n.StartPos }
func (n *Delete) End() token.Pos                { return n.EndPos }
func (n *Delete) Dispatch(w Walker) (any, error) { return w.VisitDelete(n) }
func (*Delete) statementNode()                   {}
