package format

import (
	"strings"

	"github.com/freeeve/machparse/ast"
)

func (w *SqlBuilderWalker) VisitXmlNamespace(n *ast.XmlNamespace) (any, error) {
	expr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	if n.Name == nil {
		return expr, nil
	}
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	return expr + " as " + name, nil
}

func (w *SqlBuilderWalker) VisitXmlElement(n *ast.XmlElement) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	var parts []string
	parts = append(parts, "name "+name)
	if len(n.Attributes) > 0 {
		items := make([]string, len(n.Attributes))
		for i, a := range n.Attributes {
			s, err := w.str(a)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		parts = append(parts, "xmlattributes("+strings.Join(items, ", ")+")")
	}
	if n.Content != nil {
		for _, c := range n.Content.Items {
			s, err := w.str(c)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
	}
	return "xmlelement(" + strings.Join(parts, ", ") + ")", nil
}

func (w *SqlBuilderWalker) VisitXmlForest(n *ast.XmlForest) (any, error) {
	items := make([]string, len(n.Content))
	for i, c := range n.Content {
		s, err := w.str(c)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return "xmlforest(" + strings.Join(items, ", ") + ")", nil
}

func (w *SqlBuilderWalker) VisitXmlParse(n *ast.XmlParse) (any, error) {
	expr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("xmlparse(")
	b.WriteString(n.DocOrContent)
	b.WriteString(" ")
	b.WriteString(expr)
	if n.Preserve != nil {
		if *n.Preserve {
			b.WriteString(" preserve whitespace")
		} else {
			b.WriteString(" strip whitespace")
		}
	}
	b.WriteString(")")
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitXmlPi(n *ast.XmlPi) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	if n.Content == nil {
		return "xmlpi(name " + name + ")", nil
	}
	content, err := w.str(n.Content)
	if err != nil {
		return nil, err
	}
	return "xmlpi(name " + name + ", " + content + ")", nil
}

func (w *SqlBuilderWalker) VisitXmlRoot(n *ast.XmlRoot) (any, error) {
	expr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	version, err := w.str(n.Version)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("xmlroot(")
	b.WriteString(expr)
	b.WriteString(", version ")
	b.WriteString(version)
	if n.Standalone != "" {
		b.WriteString(", standalone ")
		b.WriteString(n.Standalone)
	}
	b.WriteString(")")
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitXmlSerialize(n *ast.XmlSerialize) (any, error) {
	expr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	typ, err := w.str(n.Type)
	if err != nil {
		return nil, err
	}
	return "xmlserialize(" + n.DocOrContent + " " + expr + " as " + typ + ")", nil
}

func (w *SqlBuilderWalker) VisitXmlColumnDefinition(n *ast.XmlColumnDefinition) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	if n.ForOrdinality {
		return name + " for ordinality", nil
	}
	typ, err := w.str(n.Type)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" ")
	b.WriteString(typ)
	if n.Path != nil {
		path, err := w.str(n.Path)
		if err != nil {
			return nil, err
		}
		b.WriteString(" path ")
		b.WriteString(path)
	}
	if n.Default != nil {
		def, err := w.str(n.Default)
		if err != nil {
			return nil, err
		}
		b.WriteString(" default ")
		b.WriteString(def)
	}
	if n.NotNull {
		b.WriteString(" not null")
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitXmlTable(n *ast.XmlTable) (any, error) {
	var b strings.Builder
	b.WriteString("xmltable(")
	if len(n.Namespaces) > 0 {
		items := make([]string, len(n.Namespaces))
		for i, ns := range n.Namespaces {
			s, err := w.str(ns)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		b.WriteString("xmlnamespaces(")
		b.WriteString(strings.Join(items, ", "))
		b.WriteString("), ")
	}
	row, err := w.str(n.RowExpr)
	if err != nil {
		return nil, err
	}
	doc, err := w.str(n.DocExpr)
	if err != nil {
		return nil, err
	}
	b.WriteString(row)
	b.WriteString(" passing ")
	b.WriteString(doc)
	if len(n.Columns) > 0 {
		items := make([]string, len(n.Columns))
		for i, c := range n.Columns {
			s, err := w.str(c)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		b.WriteString(" columns ")
		b.WriteString(strings.Join(items, ", "))
	}
	b.WriteString(")")
	if n.Alias != nil {
		alias, err := w.str(n.Alias)
		if err != nil {
			return nil, err
		}
		b.WriteString(" as ")
		b.WriteString(alias)
		if len(n.ColumnAliases) > 0 {
			b.WriteString(w.columnAliasList(n.ColumnAliases))
		}
	}
	return b.String(), nil
}
