package format

import (
	"strings"

	"github.com/freeeve/machparse/ast"
)

func (w *SqlBuilderWalker) VisitWithClause(n *ast.WithClause) (any, error) {
	items := make([]string, len(n.CTEs))
	for i, c := range n.CTEs {
		s, err := w.str(c)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	var b strings.Builder
	b.WriteString("with ")
	if n.Recursive {
		b.WriteString("recursive ")
	}
	b.WriteString(w.commaJoin(items))
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitCommonTableExpression(n *ast.CommonTableExpression) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(name)
	if len(n.ColumnAliases) > 0 {
		b.WriteString(w.columnAliasList(n.ColumnAliases))
	}
	b.WriteString(" as ")
	if n.Materialized != nil {
		if *n.Materialized {
			b.WriteString("materialized ")
		} else {
			b.WriteString("not materialized ")
		}
	}
	query, err := w.strIndented(n.Query)
	if err != nil {
		return nil, err
	}
	b.WriteString("(")
	b.WriteString(query)
	b.WriteString(")")
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitWhereOrHavingClause(n *ast.WhereOrHavingClause) (any, error) {
	return w.str(n.Expr)
}

func (w *SqlBuilderWalker) VisitOnConflictClause(n *ast.OnConflictClause) (any, error) {
	var b strings.Builder
	b.WriteString("on conflict")
	if len(n.IndexElements) > 0 {
		items := make([]string, len(n.IndexElements))
		for i, e := range n.IndexElements {
			s, err := w.str(e)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		b.WriteString(" (")
		b.WriteString(w.commaJoin(items))
		b.WriteString(")")
		if n.IndexWhere != nil {
			wh, err := w.str(n.IndexWhere)
			if err != nil {
				return nil, err
			}
			b.WriteString(" where ")
			b.WriteString(wh)
		}
	} else if n.ConstraintName != nil {
		cn, err := w.str(n.ConstraintName)
		if err != nil {
			return nil, err
		}
		b.WriteString(" on constraint ")
		b.WriteString(cn)
	}
	if n.DoNothing {
		b.WriteString(" do nothing")
		return b.String(), nil
	}
	b.WriteString(" do update set ")
	var assigns []string
	for _, s := range n.Set {
		str, err := w.str(s)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, str)
	}
	for _, m := range n.SetMulti {
		str, err := w.str(m)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, str)
	}
	b.WriteString(w.commaJoin(assigns))
	if n.Where != nil {
		wh, err := w.str(n.Where)
		if err != nil {
			return nil, err
		}
		b.WriteString(" where ")
		b.WriteString(wh)
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitLockingElement(n *ast.LockingElement) (any, error) {
	var b strings.Builder
	b.WriteString("for ")
	b.WriteString(n.Strength)
	if len(n.Of) > 0 {
		items := make([]string, len(n.Of))
		for i, q := range n.Of {
			s, err := w.str(q)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		b.WriteString(" of ")
		b.WriteString(strings.Join(items, ", "))
	}
	if n.NoWait {
		b.WriteString(" nowait")
	} else if n.SkipLocked {
		b.WriteString(" skip locked")
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitWindowDefinition(n *ast.WindowDefinition) (any, error) {
	if n.OverName != nil {
		return w.str(n.OverName)
	}
	var parts []string
	if n.RefName != nil {
		s, err := w.str(n.RefName)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	if n.PartitionBy != nil && n.PartitionBy.Len() > 0 {
		items := make([]string, len(n.PartitionBy.Items))
		for i, e := range n.PartitionBy.Items {
			s, err := w.str(e)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		parts = append(parts, "partition by "+w.commaJoin(items))
	}
	if n.OrderBy != nil && n.OrderBy.Len() > 0 {
		ord, err := w.str(n.OrderBy)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "order by "+ord)
	}
	if n.Frame != nil {
		fr, err := w.str(n.Frame)
		if err != nil {
			return nil, err
		}
		parts = append(parts, fr)
	}
	inner := "(" + strings.Join(parts, " ") + ")"
	if n.Name != nil {
		name, err := w.str(n.Name)
		if err != nil {
			return nil, err
		}
		return name + " as " + inner, nil
	}
	return inner, nil
}

func (w *SqlBuilderWalker) VisitWindowFrameClause(n *ast.WindowFrameClause) (any, error) {
	start, err := w.str(n.Start)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(n.Mode)
	b.WriteString(" ")
	if n.End != nil {
		end, err := w.str(n.End)
		if err != nil {
			return nil, err
		}
		b.WriteString("between ")
		b.WriteString(start)
		b.WriteString(" and ")
		b.WriteString(end)
	} else {
		b.WriteString(start)
	}
	if n.Exclusion != "" {
		b.WriteString(" exclude ")
		b.WriteString(n.Exclusion)
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitWindowFrameBound(n *ast.WindowFrameBound) (any, error) {
	if n.Offset == nil {
		return n.Kind, nil
	}
	off, err := w.str(n.Offset)
	if err != nil {
		return nil, err
	}
	return off + " " + n.Kind, nil
}

func (w *SqlBuilderWalker) VisitOrderByElement(n *ast.OrderByElement) (any, error) {
	expr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(expr)
	switch {
	case n.UsingOp != "":
		b.WriteString(" using ")
		b.WriteString(n.UsingOp)
	case n.Desc:
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

func (w *SqlBuilderWalker) VisitResTarget(n *ast.ResTarget) (any, error) {
	expr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	if n.Alias != nil {
		alias, err := w.str(n.Alias)
		if err != nil {
			return nil, err
		}
		return expr + " as " + alias, nil
	}
	return expr, nil
}

func (w *SqlBuilderWalker) VisitSetClause(n *ast.SetClause) (any, error) {
	target, err := w.str(n.Target)
	if err != nil {
		return nil, err
	}
	value, err := w.str(n.Value)
	if err != nil {
		return nil, err
	}
	return target + " = " + value, nil
}

func (w *SqlBuilderWalker) VisitMultiAssign(n *ast.MultiAssign) (any, error) {
	targets, err := w.str(n.Targets)
	if err != nil {
		return nil, err
	}
	src, err := w.str(n.Source)
	if err != nil {
		return nil, err
	}
	return "(" + targets + ") = " + src, nil
}
