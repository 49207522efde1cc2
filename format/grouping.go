package format

import "github.com/freeeve/machparse/ast"

func (w *SqlBuilderWalker) VisitEmptyGroupingSet(n *ast.EmptyGroupingSet) (any, error) {
	return "()", nil
}

func (w *SqlBuilderWalker) VisitCubeOrRollupClause(n *ast.CubeOrRollupClause) (any, error) {
	items := make([]string, len(n.Args.Items))
	for i, a := range n.Args.Items {
		s, err := w.str(a)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return n.Kind + "(" + w.commaJoin(items) + ")", nil
}

func (w *SqlBuilderWalker) VisitGroupingSetsClause(n *ast.GroupingSetsClause) (any, error) {
	items := make([]string, len(n.Sets))
	for i, s := range n.Sets {
		str, err := w.str(s)
		if err != nil {
			return nil, err
		}
		// An ExpressionList member spells a parenthesized column sublist
		// and needs its parens restored; everything else (a bare scalar, or
		// a nested cube/rollup/empty-set/grouping-sets construct) already
		// renders exactly as it should stand alone.
		if _, ok := s.(*ast.ExpressionList); ok {
			items[i] = "(" + str + ")"
		} else {
			items[i] = str
		}
	}
	return "grouping sets (" + w.commaJoin(items) + ")", nil
}
