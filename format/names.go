package format

import (
	"strconv"
	"strings"

	"github.com/freeeve/machparse/ast"
)

func (w *SqlBuilderWalker) VisitIdentifier(n *ast.Identifier) (any, error) {
	return quoteIdent(n.Name, n.Quoted), nil
}

func (w *SqlBuilderWalker) VisitQualifiedName(n *ast.QualifiedName) (any, error) {
	var parts []string
	for _, id := range []*ast.Identifier{n.Catalog, n.Schema, n.Relation} {
		if id == nil {
			continue
		}
		s, err := w.str(id)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "."), nil
}

func (w *SqlBuilderWalker) VisitTypeName(n *ast.TypeName) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if n.SetOf {
		b.WriteString("setof ")
	}
	b.WriteString(name)
	if len(n.Modifiers) > 0 {
		mods := make([]string, len(n.Modifiers))
		for i, m := range n.Modifiers {
			s, err := w.str(m)
			if err != nil {
				return nil, err
			}
			mods[i] = s
		}
		b.WriteString("(")
		b.WriteString(strings.Join(mods, ", "))
		b.WriteString(")")
	}
	if n.WithTimeZone {
		b.WriteString(" with time zone")
	} else if n.WithoutTimeZone {
		b.WriteString(" without time zone")
	}
	for i := 0; i < n.ArrayBounds; i++ {
		b.WriteString("[]")
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitIntervalTypeName(n *ast.IntervalTypeName) (any, error) {
	var b strings.Builder
	b.WriteString("interval")
	if n.StartUnit != "" {
		b.WriteString(" ")
		b.WriteString(n.StartUnit)
		if n.EndUnit != "" {
			b.WriteString(" to ")
			b.WriteString(n.EndUnit)
		}
	}
	if n.Precision != nil {
		b.WriteString("(")
		b.WriteString(strconv.Itoa(*n.Precision))
		b.WriteString(")")
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitIndexElement(n *ast.IndexElement) (any, error) {
	expr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(expr)
	if n.Collation != nil {
		coll, err := w.str(n.Collation)
		if err != nil {
			return nil, err
		}
		b.WriteString(" collate ")
		b.WriteString(coll)
	}
	if n.OpClass != nil {
		oc, err := w.str(n.OpClass)
		if err != nil {
			return nil, err
		}
		b.WriteString(" ")
		b.WriteString(oc)
	}
	if n.Desc {
		b.WriteString(" desc")
	}
	if n.NullsFirst != nil {
		if *n.NullsFirst {
			b.WriteString(" nulls first")
		} else {
			b.WriteString(" nulls last")
		}
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitIndexParameters(n *ast.IndexParameters) (any, error) {
	items := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		s, err := w.str(e)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return "(" + w.commaJoin(items) + ")", nil
}
