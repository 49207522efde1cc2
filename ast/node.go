// Package ast defines the abstract syntax tree for PostgreSQL SQL text:
// a closed family of node variants, each carrying a Dispatch method that
// invokes the matching Walker callback. Nodes carry no rendering or
// analysis logic of their own -- that always lives in a Walker.
package ast

import (
	"reflect"

	"github.com/freeeve/machparse/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() token.Pos
	End() token.Pos
	Parent() Node
	setParent(Node)
	Dispatch(w Walker) (any, error)
}

// Statement is a top-level node that may stand alone as a parsed query.
type Statement interface {
	Node
	statementNode()
}

// ScalarExpr is any scalar (value-producing) expression node.
type ScalarExpr interface {
	Node
	scalarExprNode()
}

// RangeItem is any node usable as a FROM-clause entry.
type RangeItem interface {
	Node
	rangeItemNode()
}

// List is the common interface of the homogeneous list containers
// (ExpressionList, TargetList, FromList, ValuesRow, RowList,
// InsertTargetList, OrderByList). Len gives the element count; AppendNode
// performs the type-checked, parent-attaching insert described in the
// element-typing invariant.
type List interface {
	Node
	Len() int
	AppendNode(Node) error
}

// base implements the parent-link bookkeeping shared by every concrete
// node. Leaf-only nodes (SetToDefault, Star) embed it too but never
// receive children, so their setParent calls are trivial no-ops in
// practice -- there is nothing beneath them to keep consistent.
type base struct {
	parent Node
}

func (b *base) Parent() Node     { return b.parent }
func (b *base) setParent(p Node) { b.parent = p }

// attach assigns parent as child's parent, detaching child from whatever
// parent it previously had. Every constructor and every list Append/Set
// goes through this so the "at most one parent" invariant always holds.
func attach(child Node, parent Node) {
	if isNilNode(child) {
		return
	}
	child.setParent(parent)
}

// isNilNode reports whether n is either the untyped nil interface or a
// typed nil pointer stored in it -- the same check the teacher's pool
// code performs before recursing into a possibly-absent child.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// IsNilNode is the exported form of isNilNode, for callers outside this
// package (the printer and the rewrite helper) that need the same
// typed-nil-aware check before recursing into an optional child.
func IsNilNode(n Node) bool { return isNilNode(n) }

// Attach is the exported form of attach, for callers outside this
// package that splice a freshly built node into an existing tree (the
// mutating Rewrite helper in package visitor; Union/Intersect/Except
// already do this internally via attach).
func Attach(child Node, parent Node) { attach(child, parent) }
