package format

import "github.com/freeeve/machparse/ast"

// Precedence levels, lowest to highest -- the same ladder
// parser.precXxx uses for parsing, reproduced here because the printer
// needs it independently (a Parser and a SqlBuilderWalker are
// configured separately; precedence is never a process-wide singleton).
const (
	precOr = (iota + 1) * 10
	precAnd
	precNot
	precIs
	precComparison
	precPattern
	precOverlaps
	precBetween
	precIn
	precPostfixOp
	precGenericOp
	_ // gap so ADD lands on 130, matching the documented ladder
	precAdd
	precMul
	precExp
	precAtTimeZone
	precCollate
	precUnaryMinus
	precTypecast
)

// precAtom is the "nothing binds looser than a primary expression"
// floor: constants, column references, function calls, parenthesized
// forms, and anything else that renders its own delimiters.
const precAtom = 666

// setop precedence: UNION/EXCEPT < INTERSECT < a bare SELECT.
const (
	precSetOpUnionExcept = 1
	precSetOpIntersect   = 2
	precSetOpBase        = 3
)

type assoc int

const (
	assocNone assoc = iota
	assocLeft
	assocRight
)

var comparisonOps = map[string]bool{
	"=": true, "<": true, ">": true, "<=": true, ">=": true, "<>": true, "!=": true,
}

// exprPrec returns the precedence and associativity an expression node
// binds at when it appears as a child of another expression -- the
// "own precedence" side of the parenthesization algorithm. Nodes that
// always render their own delimiters (CASE...END, func(...), literals,
// parenthesized forms) report precAtom, since they never need an
// outer paren purely on precedence grounds.
func exprPrec(n ast.Node) (int, assoc) {
	switch e := n.(type) {
	case *ast.LogicalExpression:
		switch e.Op {
		case "or":
			return precOr, assocLeft
		case "and":
			return precAnd, assocLeft
		case "not":
			return precNot, assocRight
		}
	case *ast.IsOfExpression:
		return precIs, assocNone
	case *ast.BetweenExpression:
		return precBetween, assocNone
	case *ast.PatternMatchingExpression:
		return precPattern, assocNone
	case *ast.InExpression:
		return precIn, assocNone
	case *ast.CollateExpression:
		return precCollate, assocLeft
	case *ast.OperatorExpression:
		return operatorExprPrec(e)
	}
	return precAtom, assocNone
}

// operatorExprPrec covers OperatorExpression's three shapes: unary
// prefix (Left == nil), unary postfix (Right == nil), and binary.
func operatorExprPrec(e *ast.OperatorExpression) (int, assoc) {
	switch {
	case e.Left == nil && e.Right != nil:
		switch e.Op {
		case "-", "+":
			return precUnaryMinus, assocRight
		default:
			return precGenericOp, assocRight
		}
	case e.Right == nil && e.Left != nil:
		return precPostfixOp, assocLeft
	default:
		switch {
		case comparisonOps[e.Op]:
			return precComparison, assocNone
		case e.Op == "overlaps":
			return precOverlaps, assocNone
		case e.Op == "at time zone":
			return precAtTimeZone, assocLeft
		case e.Op == "+" || e.Op == "-":
			return precAdd, assocLeft
		case e.Op == "*" || e.Op == "/" || e.Op == "%":
			return precMul, assocLeft
		case e.Op == "^":
			return precExp, assocLeft
		default:
			return precGenericOp, assocLeft
		}
	}
}

// parenSide tells wrapChild which side of a non-commutative parent the
// child occupies, needed to apply RIGHT/LEFT associativity correctly.
type parenSide int

const (
	sideNA parenSide = iota
	sideLeft
	sideRight
)

// needsParens implements the spec's central parenthesization rule: wrap
// child if the parent's associativity and the relative precedences of
// parent and child require it so that re-parsing the printed form
// reconstructs the same tree.
func needsParens(parentPrec int, parentAssoc assoc, side parenSide, child ast.Node) bool {
	childPrec, _ := exprPrec(child)
	if childPrec > parentPrec {
		return false
	}
	if childPrec < parentPrec {
		return true
	}
	// Equal precedence: associativity decides.
	switch parentAssoc {
	case assocNone:
		return true
	case assocRight:
		return side == sideLeft
	case assocLeft:
		return side == sideRight
	}
	return false
}

// wrapChild renders child and parenthesizes it per needsParens. compat
// mode additionally parenthesizes NOT, IS-family, and comparison
// operands whenever they sit at a precedence level that moved between
// the pre-9.5 and 9.5+ tables, so the output is unambiguous under
// either grammar.
func (w *SqlBuilderWalker) wrapChild(parentPrec int, parentAssoc assoc, side parenSide, child ast.ScalarExpr) (string, error) {
	s, err := w.str(child)
	if err != nil {
		return "", err
	}
	paren := needsParens(parentPrec, parentAssoc, side, child)
	if !paren && w.opts.Parentheses == Compat {
		paren = compatExtraParens(parentPrec, child)
	}
	if paren {
		return "(" + s + ")", nil
	}
	return s, nil
}

// compatExtraParens flags the handful of precedence bands whose
// relative order changed across the 9.5 operator-precedence fix: a
// child at one of these levels, directly beneath a parent that isn't
// already forcing parens, gets defensive parens so the printed form
// parses identically whichever table reads it back.
func compatExtraParens(parentPrec int, child ast.Node) bool {
	childPrec, _ := exprPrec(child)
	if childPrec == precAtom {
		return false
	}
	switch {
	case childPrec == precNot && parentPrec > precNot && parentPrec <= precBetween:
		return true
	case childPrec == precIs && parentPrec > precIs && parentPrec <= precComparison:
		return true
	case childPrec == precPattern && parentPrec > precPattern && parentPrec <= precIs:
		return true
	case childPrec == precComparison && parentPrec > precComparison:
		return true
	}
	return false
}

// hasTailClauses reports whether a SelectCommon carries ORDER BY,
// LIMIT, OFFSET, or locking clauses -- such a statement must be
// parenthesized as a set-operation operand, since those clauses bind to
// the whole set operation, not to one side of it, once nested.
func hasTailClauses(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.Select:
		return (n.OrderBy != nil && n.OrderBy.Len() > 0) || n.Limit != nil || n.Offset != nil || len(n.Locking) > 0
	case *ast.SetOpSelect:
		return (n.OrderBy != nil && n.OrderBy.Len() > 0) || n.Limit != nil || n.Offset != nil || len(n.Locking) > 0
	case *ast.Values:
		return (n.OrderBy != nil && n.OrderBy.Len() > 0) || n.Limit != nil || n.Offset != nil
	}
	return false
}

// setOpPrec returns the set-operation precedence of a SelectCommon: a
// bare Select/Values is the tightest-binding "atom" of a set-op tree,
// and a SetOpSelect's precedence depends on its own operator.
func setOpPrec(s ast.Statement) int {
	so, ok := s.(*ast.SetOpSelect)
	if !ok {
		return precSetOpBase
	}
	if so.Op == "intersect" {
		return precSetOpIntersect
	}
	return precSetOpUnionExcept
}
