package format

import "github.com/freeeve/machparse/ast"

func (w *SqlBuilderWalker) VisitExpressionList(n *ast.ExpressionList) (any, error) {
	items := make([]string, len(n.Items))
	for i, e := range n.Items {
		s, err := w.str(e)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return w.commaJoin(items), nil
}

func (w *SqlBuilderWalker) VisitTargetList(n *ast.TargetList) (any, error) {
	items := make([]string, len(n.Items))
	for i, t := range n.Items {
		s, err := w.str(t)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return w.commaJoin(items), nil
}

func (w *SqlBuilderWalker) VisitFromList(n *ast.FromList) (any, error) {
	items := make([]string, len(n.Items))
	for i, r := range n.Items {
		s, err := w.str(r)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return w.commaJoin(items), nil
}

func (w *SqlBuilderWalker) VisitValuesRow(n *ast.ValuesRow) (any, error) {
	items := make([]string, len(n.Items))
	for i, e := range n.Items {
		s, err := w.str(e)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return "(" + w.commaJoin(items) + ")", nil
}

func (w *SqlBuilderWalker) VisitRowList(n *ast.RowList) (any, error) {
	items := make([]string, len(n.Rows))
	for i, r := range n.Rows {
		s, err := w.str(r)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return w.commaJoin(items), nil
}

func (w *SqlBuilderWalker) VisitInsertTargetList(n *ast.InsertTargetList) (any, error) {
	items := make([]string, len(n.Items))
	for i, e := range n.Items {
		s, err := w.str(e)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return w.commaJoin(items), nil
}

func (w *SqlBuilderWalker) VisitSetTargetElement(n *ast.SetTargetElement) (any, error) {
	col, err := w.str(n.Column)
	if err != nil {
		return nil, err
	}
	for _, ind := range n.Indirection {
		s, err := w.str(ind)
		if err != nil {
			return nil, err
		}
		// A bare unqualified column reference is how the parser spells a
		// field-access indirection (target.field); anything else came from
		// a bracketed subscript.
		if cr, ok := ind.(*ast.ColumnReference); ok && len(cr.Qualifiers) == 0 && cr.Star == nil {
			col += "." + s
		} else {
			col += "[" + s + "]"
		}
	}
	return col, nil
}

func (w *SqlBuilderWalker) VisitOrderByList(n *ast.OrderByList) (any, error) {
	items := make([]string, len(n.Items))
	for i, o := range n.Items {
		s, err := w.str(o)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return w.commaJoin(items), nil
}
