package format

import (
	"strings"

	"github.com/freeeve/machparse/ast"
)

func (w *SqlBuilderWalker) VisitRelationReference(n *ast.RelationReference) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if n.Only {
		b.WriteString("only ")
	}
	b.WriteString(name)
	if n.Star {
		b.WriteString(" *")
	}
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

func (w *SqlBuilderWalker) VisitRowsFromElement(n *ast.RowsFromElement) (any, error) {
	fn, err := w.str(n.Func)
	if err != nil {
		return nil, err
	}
	if len(n.ColumnDefs) == 0 {
		return fn, nil
	}
	items := make([]string, len(n.ColumnDefs))
	for i, c := range n.ColumnDefs {
		s, err := w.str(c)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return fn + " as (" + strings.Join(items, ", ") + ")", nil
}

func (w *SqlBuilderWalker) VisitRowsFrom(n *ast.RowsFrom) (any, error) {
	items := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		s, err := w.str(e)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	var b strings.Builder
	b.WriteString("rows from (")
	b.WriteString(w.commaJoin(items))
	b.WriteString(")")
	if n.WithOrdinality {
		b.WriteString(" with ordinality")
	}
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

func (w *SqlBuilderWalker) VisitJoinExpression(n *ast.JoinExpression) (any, error) {
	left, err := w.str(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := w.str(n.Right)
	if err != nil {
		return nil, err
	}
	// A join is only valid as the left operand of an enclosing join without
	// extra parens (PostgreSQL's FROM-list joins are left-associative); a
	// join nested as the right operand needs them restored.
	if _, ok := n.Right.(*ast.JoinExpression); ok {
		right = "(" + right + ")"
	}
	var b strings.Builder
	b.WriteString(left)
	b.WriteString(" ")
	if n.Natural {
		b.WriteString("natural ")
	}
	if n.JoinType == "cross" {
		b.WriteString("cross join ")
	} else {
		b.WriteString(n.JoinType)
		b.WriteString(" join ")
	}
	b.WriteString(right)
	if n.On != nil {
		on, err := w.str(n.On)
		if err != nil {
			return nil, err
		}
		b.WriteString(" on ")
		b.WriteString(on)
	} else if len(n.Using) > 0 {
		items := make([]string, len(n.Using))
		for i, id := range n.Using {
			items[i] = quoteIdent(id.Name, id.Quoted)
		}
		b.WriteString(" using (")
		b.WriteString(strings.Join(items, ", "))
		b.WriteString(")")
	}
	s := b.String()
	if n.Alias != nil {
		alias, err := w.str(n.Alias)
		if err != nil {
			return nil, err
		}
		return "(" + s + ") as " + alias, nil
	}
	return s, nil
}

func (w *SqlBuilderWalker) VisitSubselect(n *ast.Subselect) (any, error) {
	query, err := w.strIndented(n.Query)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if n.Lateral {
		b.WriteString("lateral ")
	}
	b.WriteString("(")
	b.WriteString(query)
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

func (w *SqlBuilderWalker) VisitTableSample(n *ast.TableSample) (any, error) {
	rel, err := w.str(n.Relation)
	if err != nil {
		return nil, err
	}
	method, err := w.str(n.Method)
	if err != nil {
		return nil, err
	}
	items := make([]string, len(n.Args.Items))
	for i, a := range n.Args.Items {
		s, err := w.str(a)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	var b strings.Builder
	b.WriteString(rel)
	b.WriteString(" tablesample ")
	b.WriteString(method)
	b.WriteString(" (")
	b.WriteString(w.commaJoin(items))
	b.WriteString(")")
	if n.Repeatable != nil {
		rep, err := w.str(n.Repeatable)
		if err != nil {
			return nil, err
		}
		b.WriteString(" repeatable (")
		b.WriteString(rep)
		b.WriteString(")")
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitInsertTarget(n *ast.InsertTarget) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	if n.Alias != nil {
		alias, err := w.str(n.Alias)
		if err != nil {
			return nil, err
		}
		return name + " as " + alias, nil
	}
	return name, nil
}

func (w *SqlBuilderWalker) VisitUpdateOrDeleteTarget(n *ast.UpdateOrDeleteTarget) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if n.Only {
		b.WriteString("only ")
	}
	b.WriteString(name)
	if n.Star {
		b.WriteString(" *")
	}
	if n.Alias != nil {
		alias, err := w.str(n.Alias)
		if err != nil {
			return nil, err
		}
		b.WriteString(" as ")
		b.WriteString(alias)
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitColumnDefinition(n *ast.ColumnDefinition) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	typ, err := w.str(n.Type)
	if err != nil {
		return nil, err
	}
	return name + " " + typ, nil
}
