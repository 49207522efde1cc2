package ast

import "github.com/alecthomas/repr"

// Dump renders node as a Go-literal-like string for debugging, the same
// approach vippsas/sqlcode uses to print query results during test
// failures.
func Dump(node Node) string {
	return repr.String(node)
}
