package format

import (
	"strings"

	"github.com/freeeve/machparse/ast"
)

// renderGroupByItem renders one GROUP BY list element. An *ExpressionList
// element is how the parser spells an explicitly parenthesized column
// sublist (`(a, b)`); every other element (bare scalar, CUBE/ROLLUP,
// GROUPING SETS, the empty set) already renders exactly as it should
// stand alone.
func (w *SqlBuilderWalker) renderGroupByItem(item ast.ScalarExpr) (string, error) {
	s, err := w.str(item)
	if err != nil {
		return "", err
	}
	if _, ok := item.(*ast.ExpressionList); ok {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (w *SqlBuilderWalker) renderGroupByList(list *ast.ExpressionList) (string, error) {
	items := make([]string, len(list.Items))
	for i, it := range list.Items {
		s, err := w.renderGroupByItem(it)
		if err != nil {
			return "", err
		}
		items[i] = s
	}
	return w.commaJoin(items), nil
}

func (w *SqlBuilderWalker) VisitSelect(n *ast.Select) (any, error) {
	var parts []string
	if n.With != nil {
		s, err := w.str(n.With)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	head := "select"
	if n.Distinct {
		head = "select distinct"
	}
	if n.DistinctOn != nil {
		items := make([]string, len(n.DistinctOn.Items))
		for i, e := range n.DistinctOn.Items {
			s, err := w.str(e)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		head = "select distinct on (" + w.commaJoin(items) + ")"
	}
	targets, err := w.str(n.Targets)
	if err != nil {
		return nil, err
	}
	parts = append(parts, head+" "+targets)
	if n.From != nil && n.From.Len() > 0 {
		from, err := w.str(n.From)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "from "+from)
	}
	if n.Where != nil {
		wh, err := w.str(n.Where)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "where "+wh)
	}
	if n.GroupBy != nil && n.GroupBy.Len() > 0 {
		gb, err := w.renderGroupByList(n.GroupBy)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "group by "+gb)
	}
	if n.Having != nil {
		hv, err := w.str(n.Having)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "having "+hv)
	}
	if len(n.Windows) > 0 {
		items := make([]string, len(n.Windows))
		for i, wd := range n.Windows {
			s, err := w.str(wd)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		parts = append(parts, "window "+strings.Join(items, ", "))
	}
	if tail, err := w.renderTail(n.OrderBy, n.Limit, n.LimitWithTies, n.Offset, n.Locking); err != nil {
		return nil, err
	} else {
		parts = append(parts, tail...)
	}
	return w.joinLines(parts), nil
}

// joinLines stitches a statement's top-level clauses together, using
// the walker's line-break setting between them.
func (w *SqlBuilderWalker) joinLines(parts []string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, w.nl())
}

// renderTail renders the ORDER BY/LIMIT/OFFSET/locking clauses shared by
// Select, SetOpSelect, and Values.
func (w *SqlBuilderWalker) renderTail(orderBy *ast.OrderByList, limit ast.ScalarExpr, limitWithTies bool, offset ast.ScalarExpr, locking []*ast.LockingElement) ([]string, error) {
	var parts []string
	if orderBy != nil && orderBy.Len() > 0 {
		ob, err := w.str(orderBy)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "order by "+ob)
	}
	if limit != nil {
		lm, err := w.str(limit)
		if err != nil {
			return nil, err
		}
		if limitWithTies {
			parts = append(parts, "fetch first "+lm+" rows with ties")
		} else {
			parts = append(parts, "limit "+lm)
		}
	}
	if offset != nil {
		off, err := w.str(offset)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "offset "+off)
	}
	for _, l := range locking {
		s, err := w.str(l)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return parts, nil
}

func (w *SqlBuilderWalker) VisitSetOpSelect(n *ast.SetOpSelect) (any, error) {
	curPrec := setOpPrec(n)
	left, err := w.str(n.Left)
	if err != nil {
		return nil, err
	}
	if hasTailClauses(n.Left) || setOpPrec(n.Left) < curPrec {
		left = "(" + left + ")"
	}
	right, err := w.str(n.Right)
	if err != nil {
		return nil, err
	}
	if hasTailClauses(n.Right) || setOpPrec(n.Right) <= curPrec {
		right = "(" + right + ")"
	}
	var b strings.Builder
	b.WriteString(left)
	b.WriteString(w.nl())
	b.WriteString(n.Op)
	if n.All {
		b.WriteString(" all")
	}
	b.WriteString(w.nl())
	b.WriteString(right)
	head := b.String()
	tail, err := w.renderTail(n.OrderBy, n.Limit, false, n.Offset, n.Locking)
	if err != nil {
		return nil, err
	}
	parts := append([]string{head}, tail...)
	return w.joinLines(parts), nil
}

func (w *SqlBuilderWalker) VisitValues(n *ast.Values) (any, error) {
	var parts []string
	if n.With != nil {
		s, err := w.str(n.With)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	rows, err := w.str(n.Rows)
	if err != nil {
		return nil, err
	}
	parts = append(parts, "values "+rows)
	tail, err := w.renderTail(n.OrderBy, n.Limit, n.LimitWithTies, n.Offset, nil)
	if err != nil {
		return nil, err
	}
	parts = append(parts, tail...)
	return w.joinLines(parts), nil
}

func (w *SqlBuilderWalker) VisitInsert(n *ast.Insert) (any, error) {
	var parts []string
	if n.With != nil {
		s, err := w.str(n.With)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	target, err := w.str(n.Target)
	if err != nil {
		return nil, err
	}
	head := "insert into " + target
	if n.Columns != nil && n.Columns.Len() > 0 {
		cols, err := w.str(n.Columns)
		if err != nil {
			return nil, err
		}
		head += " (" + cols + ")"
	}
	parts = append(parts, head)
	switch {
	case n.DefaultValues:
		parts = append(parts, "default values")
	case n.Source != nil:
		if n.Overriding != "" {
			parts = append(parts, "overriding "+n.Overriding+" value")
		}
		src, err := w.str(n.Source)
		if err != nil {
			return nil, err
		}
		parts = append(parts, src)
	}
	if n.OnConflict != nil {
		oc, err := w.str(n.OnConflict)
		if err != nil {
			return nil, err
		}
		parts = append(parts, oc)
	}
	if n.Returning != nil && n.Returning.Len() > 0 {
		ret, err := w.str(n.Returning)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "returning "+ret)
	}
	return w.joinLines(parts), nil
}

func (w *SqlBuilderWalker) VisitUpdate(n *ast.Update) (any, error) {
	var parts []string
	if n.With != nil {
		s, err := w.str(n.With)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	target, err := w.str(n.Target)
	if err != nil {
		return nil, err
	}
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
	parts = append(parts, "update "+target+" set "+w.commaJoin(assigns))
	if n.From != nil && n.From.Len() > 0 {
		from, err := w.str(n.From)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "from "+from)
	}
	if n.Where != nil {
		wh, err := w.str(n.Where)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "where "+wh)
	}
	if n.Returning != nil && n.Returning.Len() > 0 {
		ret, err := w.str(n.Returning)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "returning "+ret)
	}
	return w.joinLines(parts), nil
}

func (w *SqlBuilderWalker) VisitDelete(n *ast.Delete) (any, error) {
	var parts []string
	if n.With != nil {
		s, err := w.str(n.With)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	target, err := w.str(n.Target)
	if err != nil {
		return nil, err
	}
	parts = append(parts, "delete from "+target)
	if n.Using != nil && n.Using.Len() > 0 {
		using, err := w.str(n.Using)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "using "+using)
	}
	if n.Where != nil {
		wh, err := w.str(n.Where)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "where "+wh)
	}
	if n.Returning != nil && n.Returning.Len() > 0 {
		ret, err := w.str(n.Returning)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "returning "+ret)
	}
	return w.joinLines(parts), nil
}
