// Package format renders an ast.Node back to PostgreSQL SQL text. It is
// the printer half of the spec's walker protocol: SqlBuilderWalker
// implements ast.Walker, so rendering goes through the same
// Dispatch(walker) mechanism every other tree consumer uses -- there is
// no separate type-switch path.
//
// The central problem a printer solves that a parser doesn't is
// precedence-aware parenthesization: re-emitted SQL must reparse, under
// the configured precedence mode, to a tree structurally equal to the
// one that produced it. See precedence.go for that algorithm.
package format

import (
	"strings"

	"github.com/freeeve/machparse/ast"
)

// ParenMode selects how defensively the printer parenthesizes
// sub-expressions. Current only adds parentheses required under
// PostgreSQL's present-day (9.5+) precedence table. Compat adds the
// extra parentheses needed so the output also reparses identically
// under the pre-9.5 table, at the cost of some redundant parens.
type ParenMode int

const (
	Current ParenMode = iota
	Compat
)

// Options controls the printer's output shape.
type Options struct {
	Indent      string    // one indent level; default four spaces
	Linebreak   string    // statement-internal line separator; empty disables pretty-printing
	Wrap        int        // soft line-length target for implode; 0 means unset
	Parentheses ParenMode
}

// DefaultOptions render compact single-line SQL with current-mode
// parenthesization, matching what most callers want from String().
var DefaultOptions = Options{
	Indent:      "    ",
	Linebreak:   "",
	Wrap:        0,
	Parentheses: Current,
}

// PrettyOptions is a convenience starting point for multi-line output.
var PrettyOptions = Options{
	Indent:      "    ",
	Linebreak:   "\n",
	Wrap:        80,
	Parentheses: Current,
}

// SqlBuilderWalker is the ast.Walker implementation that renders a tree
// to SQL text. It carries an indent-depth counter, incremented on
// descent into nested statements/subqueries, and nothing else -- it has
// no ambient state beyond its explicit configuration, so one instance
// may be reused across independent Dispatch calls (but not
// concurrently; depth is mutated in place during a render).
type SqlBuilderWalker struct {
	opts  Options
	depth int
}

// New creates a SqlBuilderWalker with the given options.
func New(opts Options) *SqlBuilderWalker { return &SqlBuilderWalker{opts: opts} }

// String renders node with DefaultOptions. It panics only if node is
// from outside the ast package's closed node family (Dispatch on a
// foreign Node is a programmer error, not a user-facing one); a
// well-formed ast.Node never returns an error from this call -- per
// the spec, the printer never fails on a well-formed tree.
func String(node ast.Node) string {
	s, err := Format(node, DefaultOptions)
	if err != nil {
		panic(err)
	}
	return s
}

// Format renders node under the given options.
func Format(node ast.Node, opts Options) (string, error) {
	if ast.IsNilNode(node) {
		return "", nil
	}
	w := New(opts)
	v, err := node.Dispatch(w)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// pretty reports whether line-wrapping/indentation is enabled.
func (w *SqlBuilderWalker) pretty() bool { return w.opts.Linebreak != "" }

func (w *SqlBuilderWalker) nl() string {
	if !w.pretty() {
		return " "
	}
	return w.opts.Linebreak + strings.Repeat(w.opts.Indent, w.depth)
}

func (w *SqlBuilderWalker) indentIn()  { w.depth++ }
func (w *SqlBuilderWalker) indentOut() { w.depth-- }

// str runs n through its Dispatch and type-asserts the
// result to a string, returning "" for a nil node. Every Visit method
// uses this instead of repeating the nil-check/assert pair inline.
func (w *SqlBuilderWalker) str(n ast.Node) (string, error) {
	if ast.IsNilNode(n) {
		return "", nil
	}
	v, err := n.Dispatch(w)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// strIndented renders n one indent level deeper than the current depth,
// for a nested statement/subquery -- the printer's indentation is purely
// a function of descent depth, incremented only at these boundaries, not
// at every expression nesting.
func (w *SqlBuilderWalker) strIndented(n ast.Node) (string, error) {
	w.indentIn()
	s, err := w.str(n)
	w.indentOut()
	return s, err
}

// firstLineWidth returns the length of s up to its first newline, or
// len(s) if it has none -- the running-line-length contribution of a
// (possibly multi-line) rendered item for implode's wrap accounting.
func firstLineWidth(s string) int {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}
	return len(s)
}

// lastLineWidth returns the length of s after its last newline, or
// len(s) if it has none -- what the running line length becomes after
// emitting a (possibly multi-line) item.
func lastLineWidth(s string) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return len(s) - i - 1
	}
	return len(s)
}

// implode joins items with sep (e.g. ",") between them. When pretty
// printing is enabled and a Wrap width is configured, a running line
// length is tracked and, when the next item would push a line past
// Wrap, the separator is followed by a line break and indent instead of
// a space. Pre-existing line breaks inside an item reset the running
// count, honoring whatever internal wrapping that item already did.
func (w *SqlBuilderWalker) implode(sep string, items []string, lineLen int) (string, int) {
	if len(items) == 0 {
		return "", lineLen
	}
	var b strings.Builder
	for i, it := range items {
		if i == 0 {
			b.WriteString(it)
			lineLen += firstLineWidth(it)
			if strings.ContainsRune(it, '\n') {
				lineLen = lastLineWidth(it)
			}
			continue
		}
		if w.pretty() && w.opts.Wrap > 0 && lineLen+len(sep)+1+firstLineWidth(it) > w.opts.Wrap {
			b.WriteString(sep)
			b.WriteString(w.nl())
			b.WriteString(it)
			lineLen = len(strings.Repeat(w.opts.Indent, w.depth)) + firstLineWidth(it)
		} else {
			b.WriteString(sep)
			b.WriteString(" ")
			b.WriteString(it)
			lineLen += len(sep) + 1 + firstLineWidth(it)
		}
		if strings.ContainsRune(it, '\n') {
			lineLen = lastLineWidth(it)
		}
	}
	return b.String(), lineLen
}

// commaJoin is the common case of implode: comma-separate a list of
// already-rendered fragments starting at column 0 of the current line.
func (w *SqlBuilderWalker) commaJoin(items []string) string {
	s, _ := w.implode(",", items, 0)
	return s
}
