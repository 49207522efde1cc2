package visitor

import (
	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/errs"
)

// RewriteFunc is applied to each node post-order during Rewrite: children
// are rewritten first and spliced back in, then fn is called on the node
// itself. Returning a different node replaces n in its parent; returning
// n unchanged (or mutated in place) leaves the tree shape as is.
type RewriteFunc func(n ast.Node) (ast.Node, error)

// Rewrite walks node post-order, handing every statement, clause, and
// scalar-expression node that commonly nests inside a larger tree to fn
// after its children have already been rewritten. Node kinds that are
// always leaves (Identifier, Constant, Parameter, Star, SetToDefault,
// EmptyGroupingSet, IntervalTypeName) and the less frequently mutated
// structural kinds (the XML family, ROWS FROM, index/column
// definitions) are passed to fn directly without descending further.
func Rewrite(node ast.Node, fn RewriteFunc) (ast.Node, error) {
	if ast.IsNilNode(node) {
		return node, nil
	}

	var err error
	switch n := node.(type) {
	case *ast.Select:
		if n.With, err = rewriteChild(n, n.With, fn); err != nil {
			return nil, err
		}
		if n.DistinctOn, err = rewriteChild(n, n.DistinctOn, fn); err != nil {
			return nil, err
		}
		if n.Targets, err = rewriteChild(n, n.Targets, fn); err != nil {
			return nil, err
		}
		if n.From, err = rewriteChild(n, n.From, fn); err != nil {
			return nil, err
		}
		if n.Where, err = rewriteChild(n, n.Where, fn); err != nil {
			return nil, err
		}
		if n.GroupBy, err = rewriteChild(n, n.GroupBy, fn); err != nil {
			return nil, err
		}
		if n.Having, err = rewriteChild(n, n.Having, fn); err != nil {
			return nil, err
		}
		if n.OrderBy, err = rewriteChild(n, n.OrderBy, fn); err != nil {
			return nil, err
		}
		if n.Limit, err = rewriteChild(n, n.Limit, fn); err != nil {
			return nil, err
		}
		if n.Offset, err = rewriteChild(n, n.Offset, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.SetOpSelect:
		if n.Left, err = rewriteChild(n, n.Left, fn); err != nil {
			return nil, err
		}
		if n.Right, err = rewriteChild(n, n.Right, fn); err != nil {
			return nil, err
		}
		if n.OrderBy, err = rewriteChild(n, n.OrderBy, fn); err != nil {
			return nil, err
		}
		if n.Limit, err = rewriteChild(n, n.Limit, fn); err != nil {
			return nil, err
		}
		if n.Offset, err = rewriteChild(n, n.Offset, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.Values:
		if n.With, err = rewriteChild(n, n.With, fn); err != nil {
			return nil, err
		}
		if n.Rows, err = rewriteChild(n, n.Rows, fn); err != nil {
			return nil, err
		}
		if n.OrderBy, err = rewriteChild(n, n.OrderBy, fn); err != nil {
			return nil, err
		}
		if n.Limit, err = rewriteChild(n, n.Limit, fn); err != nil {
			return nil, err
		}
		if n.Offset, err = rewriteChild(n, n.Offset, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.Insert:
		if n.With, err = rewriteChild(n, n.With, fn); err != nil {
			return nil, err
		}
		if n.Target, err = rewriteChild(n, n.Target, fn); err != nil {
			return nil, err
		}
		if n.Columns, err = rewriteChild(n, n.Columns, fn); err != nil {
			return nil, err
		}
		if n.Source != nil {
			rewritten, rerr := Rewrite(n.Source, fn)
			if rerr != nil {
				return nil, rerr
			}
			if s, ok := rewritten.(ast.Statement); ok {
				n.Source = s
				ast.Attach(s, n)
			}
		}
		if n.OnConflict, err = rewriteChild(n, n.OnConflict, fn); err != nil {
			return nil, err
		}
		if n.Returning, err = rewriteChild(n, n.Returning, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.Update:
		if n.With, err = rewriteChild(n, n.With, fn); err != nil {
			return nil, err
		}
		if n.Target, err = rewriteChild(n, n.Target, fn); err != nil {
			return nil, err
		}
		for i, s := range n.Set {
			if n.Set[i], err = rewriteChild(n, s, fn); err != nil {
				return nil, err
			}
		}
		for i, m := range n.SetMulti {
			if n.SetMulti[i], err = rewriteChild(n, m, fn); err != nil {
				return nil, err
			}
		}
		if n.From, err = rewriteChild(n, n.From, fn); err != nil {
			return nil, err
		}
		if n.Where, err = rewriteChild(n, n.Where, fn); err != nil {
			return nil, err
		}
		if n.Returning, err = rewriteChild(n, n.Returning, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.Delete:
		if n.With, err = rewriteChild(n, n.With, fn); err != nil {
			return nil, err
		}
		if n.Target, err = rewriteChild(n, n.Target, fn); err != nil {
			return nil, err
		}
		if n.Using, err = rewriteChild(n, n.Using, fn); err != nil {
			return nil, err
		}
		if n.Where, err = rewriteChild(n, n.Where, fn); err != nil {
			return nil, err
		}
		if n.Returning, err = rewriteChild(n, n.Returning, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.WithClause:
		for i, c := range n.CTEs {
			if n.CTEs[i], err = rewriteChild(n, c, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.CommonTableExpression:
		if n.Query != nil {
			rewritten, rerr := Rewrite(n.Query, fn)
			if rerr != nil {
				return nil, rerr
			}
			if s, ok := rewritten.(ast.Statement); ok {
				n.Query = s
				ast.Attach(s, n)
			}
		}
		return fn(n)

	case *ast.WhereOrHavingClause:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.OnConflictClause:
		for i, e := range n.IndexElements {
			if n.IndexElements[i], err = rewriteChild(n, e, fn); err != nil {
				return nil, err
			}
		}
		if n.IndexWhere, err = rewriteChild(n, n.IndexWhere, fn); err != nil {
			return nil, err
		}
		for i, s := range n.Set {
			if n.Set[i], err = rewriteChild(n, s, fn); err != nil {
				return nil, err
			}
		}
		for i, m := range n.SetMulti {
			if n.SetMulti[i], err = rewriteChild(n, m, fn); err != nil {
				return nil, err
			}
		}
		if n.Where, err = rewriteChild(n, n.Where, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.SetClause:
		if n.Value, err = rewriteChild(n, n.Value, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.MultiAssign:
		if n.Targets, err = rewriteChild(n, n.Targets, fn); err != nil {
			return nil, err
		}
		if n.Source, err = rewriteChild(n, n.Source, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.ResTarget:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.OrderByElement:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.WindowDefinition:
		if n.PartitionBy, err = rewriteChild(n, n.PartitionBy, fn); err != nil {
			return nil, err
		}
		if n.OrderBy, err = rewriteChild(n, n.OrderBy, fn); err != nil {
			return nil, err
		}
		if n.Frame, err = rewriteChild(n, n.Frame, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.WindowFrameClause:
		if n.Start, err = rewriteChild(n, n.Start, fn); err != nil {
			return nil, err
		}
		if n.End, err = rewriteChild(n, n.End, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.WindowFrameBound:
		if n.Offset, err = rewriteChild(n, n.Offset, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.OperatorExpression:
		if n.Left, err = rewriteChild(n, n.Left, fn); err != nil {
			return nil, err
		}
		if n.Right, err = rewriteChild(n, n.Right, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.LogicalExpression:
		for i, a := range n.Args {
			if n.Args[i], err = rewriteChild(n, a, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.BetweenExpression:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		if n.Low, err = rewriteChild(n, n.Low, fn); err != nil {
			return nil, err
		}
		if n.High, err = rewriteChild(n, n.High, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.PatternMatchingExpression:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		if n.Pattern, err = rewriteChild(n, n.Pattern, fn); err != nil {
			return nil, err
		}
		if n.Escape, err = rewriteChild(n, n.Escape, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.InExpression:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		if n.List, err = rewriteChild(n, n.List, fn); err != nil {
			return nil, err
		}
		if n.Subselect != nil {
			rewritten, rerr := Rewrite(n.Subselect, fn)
			if rerr != nil {
				return nil, rerr
			}
			if s, ok := rewritten.(ast.Statement); ok {
				n.Subselect = s
				ast.Attach(s, n)
			}
		}
		return fn(n)

	case *ast.IsOfExpression:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		if n.DistinctFrom, err = rewriteChild(n, n.DistinctFrom, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.CollateExpression:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.TypecastExpression:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.CaseExpression:
		if n.Arg, err = rewriteChild(n, n.Arg, fn); err != nil {
			return nil, err
		}
		for i, w := range n.Whens {
			if n.Whens[i], err = rewriteChild(n, w, fn); err != nil {
				return nil, err
			}
		}
		if n.Else, err = rewriteChild(n, n.Else, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.WhenExpression:
		if n.When, err = rewriteChild(n, n.When, fn); err != nil {
			return nil, err
		}
		if n.Then, err = rewriteChild(n, n.Then, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.FunctionExpression:
		if n.Args, err = rewriteChild(n, n.Args, fn); err != nil {
			return nil, err
		}
		if n.VariadicArg, err = rewriteChild(n, n.VariadicArg, fn); err != nil {
			return nil, err
		}
		if n.Order, err = rewriteChild(n, n.Order, fn); err != nil {
			return nil, err
		}
		if n.WithinGroup, err = rewriteChild(n, n.WithinGroup, fn); err != nil {
			return nil, err
		}
		if n.Filter, err = rewriteChild(n, n.Filter, fn); err != nil {
			return nil, err
		}
		if n.Over, err = rewriteChild(n, n.Over, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.FunctionCall:
		if n.Args, err = rewriteChild(n, n.Args, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.ArrayExpression:
		for i, e := range n.Elements {
			if n.Elements[i], err = rewriteChild(n, e, fn); err != nil {
				return nil, err
			}
		}
		if n.Subquery != nil {
			rewritten, rerr := Rewrite(n.Subquery, fn)
			if rerr != nil {
				return nil, rerr
			}
			if s, ok := rewritten.(ast.Statement); ok {
				n.Subquery = s
				ast.Attach(s, n)
			}
		}
		return fn(n)

	case *ast.RowExpression:
		if n.Fields, err = rewriteChild(n, n.Fields, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.SubselectExpression:
		if n.Query != nil {
			rewritten, rerr := Rewrite(n.Query, fn)
			if rerr != nil {
				return nil, rerr
			}
			if s, ok := rewritten.(ast.Statement); ok {
				n.Query = s
				ast.Attach(s, n)
			}
		}
		return fn(n)

	case *ast.GroupingExpression:
		if n.Args, err = rewriteChild(n, n.Args, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.ColumnReference:
		if n.Name, err = rewriteChild(n, n.Name, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.Indirection:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.ExpressionList:
		for i, e := range n.Items {
			if n.Items[i], err = rewriteChild(n, e, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.TargetList:
		for i, t := range n.Items {
			if n.Items[i], err = rewriteChild(n, t, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.FromList:
		for i, r := range n.Items {
			if n.Items[i], err = rewriteChild(n, r, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.ValuesRow:
		for i, e := range n.Items {
			if n.Items[i], err = rewriteChild(n, e, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.RowList:
		for i, r := range n.Rows {
			if n.Rows[i], err = rewriteChild(n, r, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.InsertTargetList:
		for i, e := range n.Items {
			if n.Items[i], err = rewriteChild(n, e, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.OrderByList:
		for i, o := range n.Items {
			if n.Items[i], err = rewriteChild(n, o, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.SetTargetElement:
		for i, e := range n.Indirection {
			if n.Indirection[i], err = rewriteChild(n, e, fn); err != nil {
				return nil, err
			}
		}
		return fn(n)

	case *ast.RelationReference:
		return fn(n)

	case *ast.JoinExpression:
		if n.Left, err = rewriteChild(n, n.Left, fn); err != nil {
			return nil, err
		}
		if n.Right, err = rewriteChild(n, n.Right, fn); err != nil {
			return nil, err
		}
		if n.On, err = rewriteChild(n, n.On, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.Subselect:
		if n.Query != nil {
			rewritten, rerr := Rewrite(n.Query, fn)
			if rerr != nil {
				return nil, rerr
			}
			if s, ok := rewritten.(ast.Statement); ok {
				n.Query = s
				ast.Attach(s, n)
			}
		}
		return fn(n)

	case *ast.TableSample:
		if n.Args, err = rewriteChild(n, n.Args, fn); err != nil {
			return nil, err
		}
		if n.Repeatable, err = rewriteChild(n, n.Repeatable, fn); err != nil {
			return nil, err
		}
		return fn(n)

	case *ast.IndexElement:
		if n.Expr, err = rewriteChild(n, n.Expr, fn); err != nil {
			return nil, err
		}
		return fn(n)

	default:
		return fn(node)
	}
}

// rewriteChild rewrites child (if non-nil) and, on success, attaches the
// result to parent before returning it typed back to T -- the field type
// the caller is about to reassign.
func rewriteChild[T ast.Node](parent ast.Node, child T, fn RewriteFunc) (T, error) {
	var zero T
	if ast.IsNilNode(child) {
		return child, nil
	}
	rewritten, err := Rewrite(child, fn)
	if err != nil {
		return zero, err
	}
	if ast.IsNilNode(rewritten) {
		return zero, nil
	}
	casted, ok := rewritten.(T)
	if !ok {
		return zero, errs.NewInvalidArgument("rewrite produced %T, incompatible with expected %T", rewritten, zero)
	}
	ast.Attach(casted, parent)
	return casted, nil
}
