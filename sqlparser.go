// Package machparse parses PostgreSQL SQL text into an AST and renders
// it back out again. It is the facade over the parser, ast, format, and
// visitor packages for callers that don't need their internals directly.
//
// Basic usage:
//
//	stmt, err := machparse.Parse("SELECT * FROM users WHERE id = 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(machparse.String(stmt))
//
// Walking the AST:
//
//	type columnFinder struct{ cols []string }
//
//	func (f *columnFinder) Visit(n ast.Node) (visitor.Visitor, error) {
//	    if col, ok := n.(*ast.ColumnReference); ok {
//	        f.cols = append(f.cols, col.Name.Name)
//	    }
//	    return f, nil
//	}
//
//	machparse.Walk(&columnFinder{}, stmt)
//
// Rewriting nodes:
//
//	rewritten, err := machparse.Rewrite(stmt, func(n ast.Node) (ast.Node, error) {
//	    return n, nil // replace nodes as needed
//	})
package machparse

import (
	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/format"
	"github.com/freeeve/machparse/parser"
	"github.com/freeeve/machparse/visitor"
)

// Mode selects which PostgreSQL operator-precedence table the parser
// and printer use. Current is present-day PostgreSQL (9.5+); Pre95
// reproduces the table PostgreSQL used before the 9.5 precedence fix.
type Mode = parser.Mode

const (
	Current Mode = parser.Current
	Pre95   Mode = parser.Pre95
)

// Parse parses a single SQL statement under the current-day precedence
// table.
func Parse(sql string) (ast.Statement, error) {
	return parser.New(sql).ParseStatement()
}

// ParseWithMode parses a single SQL statement under the given
// precedence table. Use Pre95 when the input must reparse the same way
// it would have under PostgreSQL versions before 9.5.
func ParseWithMode(sql string, mode Mode) (ast.Statement, error) {
	return parser.NewWithMode(sql, mode).ParseStatement()
}

// Repool returns an AST's nodes to the package's internal sync.Pool
// instances for reuse. It is optional -- an un-repooled tree is
// collected normally -- but calling it after a statement is done being
// used reduces allocations for callers that parse many queries.
func Repool(stmt ast.Statement) {
	ast.ReleaseAST(stmt)
}

// String renders node back to SQL using the default (compact,
// current-precedence) printer options.
func String(node ast.Node) string {
	return format.String(node)
}

// Format renders node to SQL under the given printer options, for
// pretty-printing or pre-9.5-compatible output.
func Format(node ast.Node, opts format.Options) (string, error) {
	return format.Format(node, opts)
}

// Walk traverses node and its descendants pre-order, calling v.Visit on
// each.
func Walk(v visitor.Visitor, node ast.Node) error {
	return visitor.Walk(v, node)
}

// Rewrite traverses node post-order, calling fn on each node after its
// children have already been rewritten, and returns the (possibly
// replaced) tree.
func Rewrite(node ast.Node, fn visitor.RewriteFunc) (ast.Node, error) {
	return visitor.Rewrite(node, fn)
}

// Statement is the interface implemented by every top-level SQL
// statement the parser produces.
type Statement = ast.Statement

// Node is the base interface implemented by every AST node.
type Node = ast.Node
