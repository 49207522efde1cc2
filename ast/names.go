package ast

import "github.com/freeeve/machparse/token"

// Identifier is a single SQL identifier. Quoted carries whether the
// source spelled it with double quotes (forcing case-sensitive, verbatim
// printing regardless of whether it would otherwise need quoting).
type Identifier struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Quoted   bool
}

func NewIdentifier(name string, quoted bool) *Identifier {
	return &Identifier{Name: name, Quoted: quoted}
}

func (n *Identifier) Pos() token.Pos { return n.StartPos }
func (n *Identifier) End() token.Pos { return n.EndPos }
func (n *Identifier) Dispatch(w Walker) (any, error) { return w.VisitIdentifier(n) }

// QualifiedName is catalog.schema.relation (catalog/schema optional).
type QualifiedName struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Catalog  *Identifier
	Schema   *Identifier
	Relation *Identifier
}

func NewQualifiedName(relation *Identifier) *QualifiedName {
	q := &QualifiedName{Relation: relation}
	attach(relation, q)
	return q
}

func (n *QualifiedName) Pos() token.Pos { return n.StartPos }
func (n *QualifiedName) End() token.Pos { return n.EndPos }
func (n *QualifiedName) Dispatch(w Walker) (any, error) { return w.VisitQualifiedName(n) }

// Name returns the bare relation name, for convenience.
func (n *QualifiedName) Name() string {
	if n.Relation == nil {
		return ""
	}
	return n.Relation.Name
}

// TypeName is a SQL type reference: a qualified name plus optional
// modifiers (VARCHAR(255), NUMERIC(10,2)), array-ness, and SETOF.
type TypeName struct {
	base
	StartPos  token.Pos
	EndPos    token.Pos
	Name      *QualifiedName
	Modifiers []ScalarExpr // typmod list, e.g. (255) or (10,2)
	ArrayBounds int        // 0 = not an array; N = number of [] suffixes ("[]" or "[n]")
	SetOf     bool
	WithTimeZone   bool // TIME/TIMESTAMP WITH/WITHOUT TIME ZONE
	WithoutTimeZone bool
}

func NewTypeName(name *QualifiedName) *TypeName {
	t := &TypeName{Name: name}
	attach(name, t)
	return t
}

func (n *TypeName) Pos() token.Pos { return n.StartPos }
func (n *TypeName) End() token.Pos { return n.EndPos }
func (n *TypeName) Dispatch(w Walker) (any, error) { return w.VisitTypeName(n) }

// IntervalTypeName is INTERVAL with an optional field-range qualifier
// (YEAR TO MONTH, DAY TO SECOND(3), ...).
type IntervalTypeName struct {
	base
	StartPos  token.Pos
	EndPos    token.Pos
	StartUnit string
	EndUnit   string // empty if no TO clause
	Precision *int   // SECOND(n)
}

func (n *IntervalTypeName) Pos() token.Pos { return n.StartPos }
func (n *IntervalTypeName) End() token.Pos { return n.EndPos }
func (n *IntervalTypeName) Dispatch(w Walker) (any, error) { return w.VisitIntervalTypeName(n) }

// IndexElement is one element of an index/ON CONFLICT target column
// list: an expression (usually a bare column) plus optional operator
// class, collation, and sort direction.
type IndexElement struct {
	base
	StartPos   token.Pos
	EndPos     token.Pos
	Expr       ScalarExpr
	Collation  *QualifiedName
	OpClass    *QualifiedName
	Desc       bool
	NullsFirst *bool
}

func NewIndexElement(expr ScalarExpr) *IndexElement {
	e := &IndexElement{Expr: expr}
	attach(expr, e)
	return e
}

func (n *IndexElement) Pos() token.Pos { return n.StartPos }
func (n *IndexElement) End() token.Pos { return n.EndPos }
func (n *IndexElement) Dispatch(w Walker) (any, error) { return w.VisitIndexElement(n) }

// IndexParameters is the optional ON CONFLICT target index-element list.
type IndexParameters struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Elements []*IndexElement
}

func (n *IndexParameters) Pos() token.Pos { return n.StartPos }
func (n *IndexParameters) End() token.Pos { return n.EndPos }
func (n *IndexParameters) Dispatch(w Walker) (any, error) { return w.VisitIndexParameters(n) }

func (n *IndexParameters) Append(e *IndexElement) {
	attach(e, n)
	n.Elements = append(n.Elements, e)
}
