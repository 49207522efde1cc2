package format

import (
	"strconv"
	"strings"

	"github.com/freeeve/machparse/ast"
)

func (w *SqlBuilderWalker) VisitOperatorExpression(n *ast.OperatorExpression) (any, error) {
	prec, assoc := operatorExprPrec(n)
	switch {
	case n.Left == nil && n.Right != nil:
		operand, err := w.wrapChild(prec, assoc, sideRight, n.Right)
		if err != nil {
			return nil, err
		}
		if isWordOp(n.Op) {
			return n.Op + " " + operand, nil
		}
		return n.Op + operand, nil
	case n.Right == nil && n.Left != nil:
		operand, err := w.wrapChild(prec, assoc, sideLeft, n.Left)
		if err != nil {
			return nil, err
		}
		return operand + " " + n.Op, nil
	default:
		left, err := w.wrapChild(prec, assoc, sideLeft, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := w.wrapChild(prec, assoc, sideRight, n.Right)
		if err != nil {
			return nil, err
		}
		return left + " " + n.Op + " " + right, nil
	}
}

func isWordOp(op string) bool {
	for i := 0; i < len(op); i++ {
		c := op[i]
		if !(c >= 'a' && c <= 'z' || c == ' ') {
			return false
		}
	}
	return op != ""
}

func (w *SqlBuilderWalker) VisitLogicalExpression(n *ast.LogicalExpression) (any, error) {
	prec, assoc := exprPrec(n)
	if n.Op == "not" {
		operand, err := w.wrapChild(prec, assoc, sideRight, n.Args[0])
		if err != nil {
			return nil, err
		}
		return "not " + operand, nil
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		side := sideRight
		if i == 0 {
			side = sideLeft
		}
		s, err := w.wrapChild(prec, assoc, side, a)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return strings.Join(parts, " "+n.Op+" "), nil
}

func (w *SqlBuilderWalker) VisitBetweenExpression(n *ast.BetweenExpression) (any, error) {
	prec, assoc := exprPrec(n)
	expr, err := w.wrapChild(prec, assoc, sideLeft, n.Expr)
	if err != nil {
		return nil, err
	}
	low, err := w.wrapChild(precTypecast, assocNone, sideNA, n.Low)
	if err != nil {
		return nil, err
	}
	high, err := w.wrapChild(precTypecast, assocNone, sideNA, n.High)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(expr)
	if n.Not {
		b.WriteString(" not between")
	} else {
		b.WriteString(" between")
	}
	if n.Symmetric {
		b.WriteString(" symmetric")
	}
	b.WriteString(" ")
	b.WriteString(low)
	b.WriteString(" and ")
	b.WriteString(high)
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitPatternMatchingExpression(n *ast.PatternMatchingExpression) (any, error) {
	prec, assoc := exprPrec(n)
	expr, err := w.wrapChild(prec, assoc, sideLeft, n.Expr)
	if err != nil {
		return nil, err
	}
	pattern, err := w.wrapChild(prec, assoc, sideRight, n.Pattern)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(expr)
	b.WriteString(" ")
	if n.Not {
		b.WriteString("not ")
	}
	b.WriteString(n.Op)
	b.WriteString(" ")
	b.WriteString(pattern)
	if n.Escape != nil {
		esc, err := w.str(n.Escape)
		if err != nil {
			return nil, err
		}
		b.WriteString(" escape ")
		b.WriteString(esc)
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitInExpression(n *ast.InExpression) (any, error) {
	prec, assoc := exprPrec(n)
	expr, err := w.wrapChild(prec, assoc, sideLeft, n.Expr)
	if err != nil {
		return nil, err
	}
	var rhs string
	if n.Subselect != nil {
		rhs, err = w.strIndented(n.Subselect)
		if err != nil {
			return nil, err
		}
		rhs = "(" + rhs + ")"
	} else {
		items := make([]string, len(n.List.Items))
		for i, e := range n.List.Items {
			s, err := w.str(e)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		rhs = "(" + w.commaJoin(items) + ")"
	}
	op := "in"
	if n.Not {
		op = "not in"
	}
	return expr + " " + op + " " + rhs, nil
}

func (w *SqlBuilderWalker) VisitIsOfExpression(n *ast.IsOfExpression) (any, error) {
	prec, assoc := exprPrec(n)
	expr, err := w.wrapChild(prec, assoc, sideLeft, n.Expr)
	if err != nil {
		return nil, err
	}
	not := ""
	if n.Not {
		not = "not "
	}
	switch n.Predicate {
	case "distinct from":
		other, err := w.wrapChild(prec, assoc, sideRight, n.DistinctFrom)
		if err != nil {
			return nil, err
		}
		return expr + " is " + not + "distinct from " + other, nil
	case "of":
		types := make([]string, len(n.OfTypes))
		for i, t := range n.OfTypes {
			s, err := w.str(t)
			if err != nil {
				return nil, err
			}
			types[i] = s
		}
		return expr + " is " + not + "of (" + strings.Join(types, ", ") + ")", nil
	default:
		return expr + " is " + not + n.Predicate, nil
	}
}

func (w *SqlBuilderWalker) VisitCollateExpression(n *ast.CollateExpression) (any, error) {
	prec, assoc := exprPrec(n)
	expr, err := w.wrapChild(prec, assoc, sideLeft, n.Expr)
	if err != nil {
		return nil, err
	}
	coll, err := w.str(n.Collation)
	if err != nil {
		return nil, err
	}
	return expr + " collate " + coll, nil
}

func (w *SqlBuilderWalker) VisitTypecastExpression(n *ast.TypecastExpression) (any, error) {
	expr, err := w.wrapChild(precTypecast, assocRight, sideLeft, n.Expr)
	if err != nil {
		return nil, err
	}
	typ, err := w.str(n.Type)
	if err != nil {
		return nil, err
	}
	return expr + "::" + typ, nil
}

func (w *SqlBuilderWalker) VisitCaseExpression(n *ast.CaseExpression) (any, error) {
	var b strings.Builder
	b.WriteString("case")
	if n.Arg != nil {
		arg, err := w.str(n.Arg)
		if err != nil {
			return nil, err
		}
		b.WriteString(" ")
		b.WriteString(arg)
	}
	for _, wh := range n.Whens {
		s, err := w.str(wh)
		if err != nil {
			return nil, err
		}
		b.WriteString(" ")
		b.WriteString(s)
	}
	if n.Else != nil {
		els, err := w.str(n.Else)
		if err != nil {
			return nil, err
		}
		b.WriteString(" else ")
		b.WriteString(els)
	}
	b.WriteString(" end")
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitWhenExpression(n *ast.WhenExpression) (any, error) {
	when, err := w.str(n.When)
	if err != nil {
		return nil, err
	}
	then, err := w.str(n.Then)
	if err != nil {
		return nil, err
	}
	return "when " + when + " then " + then, nil
}

func (w *SqlBuilderWalker) VisitFunctionExpression(n *ast.FunctionExpression) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("(")
	if n.Distinct {
		b.WriteString("distinct ")
	}
	var argItems []string
	if n.Args != nil {
		for _, a := range n.Args.Items {
			s, err := w.str(a)
			if err != nil {
				return nil, err
			}
			argItems = append(argItems, s)
		}
	}
	if n.VariadicArg != nil {
		va, err := w.str(n.VariadicArg)
		if err != nil {
			return nil, err
		}
		argItems = append(argItems, "variadic "+va)
	}
	b.WriteString(w.commaJoin(argItems))
	if n.Order != nil && n.Order.Len() > 0 {
		ord, err := w.str(n.Order)
		if err != nil {
			return nil, err
		}
		b.WriteString(" order by ")
		b.WriteString(ord)
	}
	b.WriteString(")")
	if n.WithinGroup != nil && n.WithinGroup.Len() > 0 {
		wg, err := w.str(n.WithinGroup)
		if err != nil {
			return nil, err
		}
		b.WriteString(" within group (order by ")
		b.WriteString(wg)
		b.WriteString(")")
	}
	if n.Filter != nil {
		f, err := w.str(n.Filter)
		if err != nil {
			return nil, err
		}
		b.WriteString(" filter (where ")
		b.WriteString(f)
		b.WriteString(")")
	}
	if n.Over != nil {
		over, err := w.str(n.Over)
		if err != nil {
			return nil, err
		}
		b.WriteString(" over ")
		b.WriteString(over)
	}
	return b.String(), nil
}

func (w *SqlBuilderWalker) VisitFunctionCall(n *ast.FunctionCall) (any, error) {
	name, err := w.str(n.Name)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("(")
	if n.StarArg {
		b.WriteString("*")
	} else if n.Args != nil {
		items := make([]string, len(n.Args.Items))
		for i, a := range n.Args.Items {
			s, err := w.str(a)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		b.WriteString(w.commaJoin(items))
	}
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

// columnAliasList renders a trailing (col, col, ...) column-alias list.
func (w *SqlBuilderWalker) columnAliasList(ids []*ast.Identifier) string {
	if len(ids) == 0 {
		return ""
	}
	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = quoteIdent(id.Name, id.Quoted)
	}
	return "(" + strings.Join(items, ", ") + ")"
}

func (w *SqlBuilderWalker) VisitArrayExpression(n *ast.ArrayExpression) (any, error) {
	if n.Subquery != nil {
		sub, err := w.strIndented(n.Subquery)
		if err != nil {
			return nil, err
		}
		return "array(" + sub + ")", nil
	}
	items := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		s, err := w.str(e)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return "array[" + w.commaJoin(items) + "]", nil
}

func (w *SqlBuilderWalker) VisitRowExpression(n *ast.RowExpression) (any, error) {
	items := make([]string, 0)
	if n.Fields != nil {
		items = make([]string, len(n.Fields.Items))
		for i, e := range n.Fields.Items {
			s, err := w.str(e)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
	}
	inner := "(" + w.commaJoin(items) + ")"
	if n.Explicit {
		return "row" + inner, nil
	}
	return inner, nil
}

func (w *SqlBuilderWalker) VisitSubselectExpression(n *ast.SubselectExpression) (any, error) {
	query, err := w.strIndented(n.Query)
	if err != nil {
		return nil, err
	}
	if n.Op == "" {
		return "(" + query + ")", nil
	}
	return n.Op + " (" + query + ")", nil
}

func (w *SqlBuilderWalker) VisitGroupingExpression(n *ast.GroupingExpression) (any, error) {
	items := make([]string, len(n.Args.Items))
	for i, a := range n.Args.Items {
		s, err := w.str(a)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return "grouping(" + w.commaJoin(items) + ")", nil
}

func (w *SqlBuilderWalker) VisitSetToDefault(n *ast.SetToDefault) (any, error) {
	return "default", nil
}

func (w *SqlBuilderWalker) VisitConstant(n *ast.Constant) (any, error) {
	switch n.Kind {
	case ast.ConstInt, ast.ConstFloat, ast.ConstDecimal:
		return n.Value, nil
	case ast.ConstBool:
		return n.Value, nil
	case ast.ConstNull:
		return "null", nil
	case ast.ConstString:
		return quoteStringConstant(n.Value), nil
	case ast.ConstNString:
		return "N" + quoteStringConstant(n.Value), nil
	case ast.ConstBString:
		return "B'" + n.Value + "'", nil
	case ast.ConstXString:
		return "X'" + n.Value + "'", nil
	default:
		return n.Value, nil
	}
}

func (w *SqlBuilderWalker) VisitParameter(n *ast.Parameter) (any, error) {
	if n.Kind == ast.ParamNamed {
		return ":" + n.Name, nil
	}
	return "$" + strconv.Itoa(n.Index), nil
}

func (w *SqlBuilderWalker) VisitColumnReference(n *ast.ColumnReference) (any, error) {
	var parts []string
	for _, q := range n.Qualifiers {
		s, err := w.str(q)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	if n.Star != nil {
		parts = append(parts, "*")
	} else {
		s, err := w.str(n.Name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "."), nil
}

func (w *SqlBuilderWalker) VisitIndirection(n *ast.Indirection) (any, error) {
	paren := indirectionSpecialParens(n.Expr)
	exprStr, err := w.str(n.Expr)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if paren {
		b.WriteString("(")
		b.WriteString(exprStr)
		b.WriteString(")")
	} else {
		b.WriteString(exprStr)
	}
	for _, op := range n.Ops {
		if op.Field != nil {
			b.WriteString(".")
			s, err := w.str(op.Field)
			if err != nil {
				return nil, err
			}
			b.WriteString(s)
			continue
		}
		b.WriteString("[")
		if op.Star {
			b.WriteString("*")
		} else {
			if op.Lower != nil {
				s, err := w.str(op.Lower)
				if err != nil {
					return nil, err
				}
				b.WriteString(s)
			}
			if op.Slice {
				b.WriteString(":")
				if op.Upper != nil {
					s, err := w.str(op.Upper)
					if err != nil {
						return nil, err
					}
					b.WriteString(s)
				}
			}
		}
		b.WriteString("]")
	}
	return b.String(), nil
}

// indirectionSpecialParens implements the spec's indirection special
// case: a base expression under an array subscript/field chain is
// parenthesized unless it is already an atom, a bare parameter, or a
// parenthesized subselect (forms the grammar lets through unparenthesized).
func indirectionSpecialParens(expr ast.ScalarExpr) bool {
	switch expr.(type) {
	case *ast.Parameter, *ast.SubselectExpression, *ast.ColumnReference,
		*ast.FunctionCall, *ast.FunctionExpression, *ast.Constant, *ast.RowExpression:
		return false
	default:
		p, _ := exprPrec(expr)
		return p != precAtom
	}
}

func (w *SqlBuilderWalker) VisitStar(n *ast.Star) (any, error) {
	return "*", nil
}
