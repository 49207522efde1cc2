package ast

import "github.com/freeeve/machparse/token"

// XmlNamespace is an `expr AS name` pair, used both for XMLNAMESPACES(...)
// entries and for XMLATTRIBUTES(...) entries (PostgreSQL's grammar
// reuses the same production for both).
type XmlNamespace struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Expr     ScalarExpr
	Name     *Identifier
}

func (n *XmlNamespace) Pos() token.Pos                { return n.StartPos }
func (n *XmlNamespace) End() token.Pos                { return n.EndPos }
func (n *XmlNamespace) Dispatch(w Walker) (any, error) { return w.VisitXmlNamespace(n) }

// XmlElement is `XMLELEMENT(NAME name [, XMLATTRIBUTES(...)] [, content, ...])`.
type XmlElement struct {
	base
	StartPos   token.Pos
	EndPos     token.Pos
	Name       *Identifier
	Attributes []*XmlNamespace
	Content    *ExpressionList
}

func (n *XmlElement) Pos() token.Pos                { return n.StartPos }
func (n *XmlElement) End() token.Pos                { return n.EndPos }
func (n *XmlElement) Dispatch(w Walker) (any, error) { return w.VisitXmlElement(n) }
func (*XmlElement) scalarExprNode()                  {}

// XmlForest is `XMLFOREST(expr [AS name], ...)`.
type XmlForest struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Content  []*XmlNamespace
}

func (n *XmlForest) Pos() token.Pos                { return n.StartPos }
func (n *XmlForest) End() token.Pos                { return n.EndPos }
func (n *XmlForest) Dispatch(w Walker) (any, error) { return w.VisitXmlForest(n) }
func (*XmlForest) scalarExprNode()                  {}

// XmlParse is `XMLPARSE(DOCUMENT|CONTENT expr [PRESERVE|STRIP WHITESPACE])`.
type XmlParse struct {
	base
	StartPos    token.Pos
	EndPos      token.Pos
	DocOrContent string // "document" or "content"
	Expr        ScalarExpr
	Preserve    *bool // nil: unspecified, true: PRESERVE WHITESPACE, false: STRIP WHITESPACE
}

func (n *XmlParse) Pos() token.Pos                { return n.StartPos }
func (n *XmlParse) End() token.Pos                { return n.EndPos }
func (n *XmlParse) Dispatch(w Walker) (any, error) { return w.VisitXmlParse(n) }
func (*XmlParse) scalarExprNode()                  {}

// XmlPi is `XMLPI(NAME name [, content])`.
type XmlPi struct {
	base
	StartPos token.Pos
	EndPos   token.Pos
	Name     *Identifier
	Content  ScalarExpr
}

func (n *XmlPi) Pos() token.Pos                { return n.StartPos }
func (n *XmlPi) End() token.Pos                { return n.EndPos }
func (n *XmlPi) Dispatch(w Walker) (any, error) { return w.VisitXmlPi(n) }
func (*XmlPi) scalarExprNode()                  {}

// XmlRoot is `XMLROOT(expr, VERSION version [, STANDALONE yes|no|no value])`.
type XmlRoot struct {
	base
	StartPos    token.Pos
	EndPos      token.Pos
	Expr        ScalarExpr
	Version     ScalarExpr
	Standalone  string // "", "yes", "no", "no value"
}

func (n *XmlRoot) Pos() token.Pos                { return n.StartPos }
func (n *XmlRoot) End() token.Pos                { return n.EndPos }
func (n *XmlRoot) Dispatch(w Walker) (any, error) { return w.VisitXmlRoot(n) }
func (*XmlRoot) scalarExprNode()                  {}

// XmlSerialize is `XMLSERIALIZE(DOCUMENT|CONTENT expr AS type)`.
type XmlSerialize struct {
	base
	StartPos     token.Pos
	EndPos       token.Pos
	DocOrContent string // "document" or "content"
	Expr         ScalarExpr
	Type         *TypeName
}

func (n *XmlSerialize) Pos() token.Pos                { return n.StartPos }
func (n *XmlSerialize) End() token.Pos                { return n.EndPos }
func (n *XmlSerialize) Dispatch(w Walker) (any, error) { return w.VisitXmlSerialize(n) }
func (*XmlSerialize) scalarExprNode()                  {}

// XmlColumnDefinition is one result-column entry of an XMLTABLE's
// COLUMNS list: `name type [PATH path] [DEFAULT default] [NOT NULL]`,
// or `name FOR ORDINALITY`.
type XmlColumnDefinition struct {
	base
	StartPos     token.Pos
	EndPos       token.Pos
	Name         *Identifier
	Type         *TypeName
	ForOrdinality bool
	Path         ScalarExpr
	Default      ScalarExpr
	NotNull      bool
}

func (n *XmlColumnDefinition) Pos() token.Pos { return n.StartPos }
func (n *XmlColumnDefinition) End() token.Pos { return n.EndPos }
func (n *XmlColumnDefinition) Dispatch(w Walker) (any, error) {
	return w.VisitXmlColumnDefinition(n)
}

// XmlTable is the `XMLTABLE([XMLNAMESPACES(...),] row_expr PASSING
// doc_expr COLUMNS col_def, ...) [[AS] alias]` range item.
type XmlTable struct {
	base
	StartPos      token.Pos
	EndPos        token.Pos
	Namespaces    []*XmlNamespace
	RowExpr       ScalarExpr
	DocExpr       ScalarExpr
	Columns       []*XmlColumnDefinition
	Alias         *Identifier
	ColumnAliases []*Identifier
}

func (n *XmlTable) Pos() token.Pos                { return n.StartPos }
func (n *XmlTable) End() token.Pos                { return n.EndPos }
func (n *XmlTable) Dispatch(w Walker) (any, error) { return w.VisitXmlTable(n) }
func (*XmlTable) rangeItemNode()                   {}
