// Package visitor provides generic pre-order tree inspection over the
// ast package's node family, built on the same Dispatch(walker)
// mechanism the SQL printer uses -- there is no separate type-switch
// traversal path, so a Visitor sees exactly the same node set the
// printer does.
package visitor

import "github.com/freeeve/machparse/ast"

// Visitor is implemented by callers that want to inspect an AST without
// mutating it. Visit is called once per node, pre-order; returning a
// non-nil Visitor descends into that node's children with the returned
// Visitor (often v itself), and returning nil skips the children.
type Visitor interface {
	Visit(node ast.Node) (w Visitor, err error)
}

// Walk traverses node and its descendants in pre-order.
func Walk(v Visitor, node ast.Node) error {
	if ast.IsNilNode(node) {
		return nil
	}
	nv, err := v.Visit(node)
	if err != nil || nv == nil {
		return err
	}
	_, err = node.Dispatch(&adapter{v: nv})
	return err
}

// adapter implements ast.Walker by recursing into each node's children
// via Walk, so every concrete node kind is covered exactly once here
// and the recursion always goes back through Dispatch.
type adapter struct{ v Visitor }

func (a *adapter) walkAll(nodes ...ast.Node) error {
	for _, n := range nodes {
		if err := Walk(a.v, n); err != nil {
			return err
		}
	}
	return nil
}

func (a *adapter) VisitSelect(n *ast.Select) (any, error) {
	nodes := []ast.Node{n.With, n.DistinctOn, n.Targets, n.From, n.Where, n.GroupBy, n.Having}
	for _, wd := range n.Windows {
		nodes = append(nodes, wd)
	}
	nodes = append(nodes, n.OrderBy, n.Limit, n.Offset)
	for _, l := range n.Locking {
		nodes = append(nodes, l)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitSetOpSelect(n *ast.SetOpSelect) (any, error) {
	return nil, a.walkAll(n.Left, n.Right, n.OrderBy, n.Limit, n.Offset)
}

func (a *adapter) VisitValues(n *ast.Values) (any, error) {
	return nil, a.walkAll(n.With, n.Rows, n.OrderBy, n.Limit, n.Offset)
}

func (a *adapter) VisitInsert(n *ast.Insert) (any, error) {
	return nil, a.walkAll(n.With, n.Target, n.Columns, n.Source, n.OnConflict, n.Returning)
}

func (a *adapter) VisitUpdate(n *ast.Update) (any, error) {
	nodes := []ast.Node{n.With, n.Target}
	for _, s := range n.Set {
		nodes = append(nodes, s)
	}
	for _, m := range n.SetMulti {
		nodes = append(nodes, m)
	}
	nodes = append(nodes, n.From, n.Where, n.Returning)
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitDelete(n *ast.Delete) (any, error) {
	return nil, a.walkAll(n.With, n.Target, n.Using, n.Where, n.Returning)
}

func (a *adapter) VisitWithClause(n *ast.WithClause) (any, error) {
	nodes := make([]ast.Node, len(n.CTEs))
	for i, c := range n.CTEs {
		nodes[i] = c
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitCommonTableExpression(n *ast.CommonTableExpression) (any, error) {
	nodes := []ast.Node{n.Name}
	for _, c := range n.ColumnAliases {
		nodes = append(nodes, c)
	}
	nodes = append(nodes, n.Query)
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitWhereOrHavingClause(n *ast.WhereOrHavingClause) (any, error) {
	return nil, a.walkAll(n.Expr)
}

func (a *adapter) VisitOnConflictClause(n *ast.OnConflictClause) (any, error) {
	nodes := []ast.Node{}
	for _, e := range n.IndexElements {
		nodes = append(nodes, e)
	}
	nodes = append(nodes, n.IndexWhere, n.ConstraintName)
	for _, s := range n.Set {
		nodes = append(nodes, s)
	}
	for _, m := range n.SetMulti {
		nodes = append(nodes, m)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitLockingElement(n *ast.LockingElement) (any, error) {
	nodes := make([]ast.Node, len(n.Of))
	for i, q := range n.Of {
		nodes[i] = q
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitWindowDefinition(n *ast.WindowDefinition) (any, error) {
	return nil, a.walkAll(n.Name, n.RefName, n.OverName, n.PartitionBy, n.OrderBy, n.Frame)
}

func (a *adapter) VisitWindowFrameClause(n *ast.WindowFrameClause) (any, error) {
	return nil, a.walkAll(n.Start, n.End)
}

func (a *adapter) VisitWindowFrameBound(n *ast.WindowFrameBound) (any, error) {
	return nil, a.walkAll(n.Offset)
}

func (a *adapter) VisitOrderByElement(n *ast.OrderByElement) (any, error) {
	return nil, a.walkAll(n.Expr)
}

func (a *adapter) VisitResTarget(n *ast.ResTarget) (any, error) {
	return nil, a.walkAll(n.Expr, n.Alias)
}

func (a *adapter) VisitSetClause(n *ast.SetClause) (any, error) {
	return nil, a.walkAll(n.Target, n.Value)
}

func (a *adapter) VisitMultiAssign(n *ast.MultiAssign) (any, error) {
	return nil, a.walkAll(n.Targets, n.Source)
}

func (a *adapter) VisitOperatorExpression(n *ast.OperatorExpression) (any, error) {
	return nil, a.walkAll(n.Left, n.Right)
}

func (a *adapter) VisitLogicalExpression(n *ast.LogicalExpression) (any, error) {
	nodes := make([]ast.Node, len(n.Args))
	for i, arg := range n.Args {
		nodes[i] = arg
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitBetweenExpression(n *ast.BetweenExpression) (any, error) {
	return nil, a.walkAll(n.Expr, n.Low, n.High)
}

func (a *adapter) VisitPatternMatchingExpression(n *ast.PatternMatchingExpression) (any, error) {
	return nil, a.walkAll(n.Expr, n.Pattern, n.Escape)
}

func (a *adapter) VisitInExpression(n *ast.InExpression) (any, error) {
	return nil, a.walkAll(n.Expr, n.List, n.Subselect)
}

func (a *adapter) VisitIsOfExpression(n *ast.IsOfExpression) (any, error) {
	nodes := []ast.Node{n.Expr, n.DistinctFrom}
	for _, t := range n.OfTypes {
		nodes = append(nodes, t)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitCollateExpression(n *ast.CollateExpression) (any, error) {
	return nil, a.walkAll(n.Expr, n.Collation)
}

func (a *adapter) VisitTypecastExpression(n *ast.TypecastExpression) (any, error) {
	return nil, a.walkAll(n.Expr, n.Type)
}

func (a *adapter) VisitCaseExpression(n *ast.CaseExpression) (any, error) {
	nodes := []ast.Node{n.Arg}
	for _, w := range n.Whens {
		nodes = append(nodes, w)
	}
	nodes = append(nodes, n.Else)
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitWhenExpression(n *ast.WhenExpression) (any, error) {
	return nil, a.walkAll(n.When, n.Then)
}

func (a *adapter) VisitFunctionExpression(n *ast.FunctionExpression) (any, error) {
	return nil, a.walkAll(n.Name, n.Args, n.VariadicArg, n.Order, n.WithinGroup, n.Filter, n.Over)
}

func (a *adapter) VisitFunctionCall(n *ast.FunctionCall) (any, error) {
	nodes := []ast.Node{n.Name, n.Args, n.Alias}
	for _, c := range n.ColumnAliases {
		nodes = append(nodes, c)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitArrayExpression(n *ast.ArrayExpression) (any, error) {
	nodes := make([]ast.Node, len(n.Elements))
	for i, e := range n.Elements {
		nodes[i] = e
	}
	nodes = append(nodes, n.Subquery)
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitRowExpression(n *ast.RowExpression) (any, error) {
	return nil, a.walkAll(n.Fields)
}

func (a *adapter) VisitSubselectExpression(n *ast.SubselectExpression) (any, error) {
	return nil, a.walkAll(n.Query)
}

func (a *adapter) VisitGroupingExpression(n *ast.GroupingExpression) (any, error) {
	return nil, a.walkAll(n.Args)
}

func (a *adapter) VisitSetToDefault(n *ast.SetToDefault) (any, error) { return nil, nil }
func (a *adapter) VisitConstant(n *ast.Constant) (any, error)         { return nil, nil }
func (a *adapter) VisitParameter(n *ast.Parameter) (any, error)       { return nil, nil }
func (a *adapter) VisitStar(n *ast.Star) (any, error)                 { return nil, nil }
func (a *adapter) VisitIdentifier(n *ast.Identifier) (any, error)     { return nil, nil }
func (a *adapter) VisitIntervalTypeName(n *ast.IntervalTypeName) (any, error) { return nil, nil }
func (a *adapter) VisitEmptyGroupingSet(n *ast.EmptyGroupingSet) (any, error) { return nil, nil }

func (a *adapter) VisitColumnReference(n *ast.ColumnReference) (any, error) {
	nodes := make([]ast.Node, 0, len(n.Qualifiers)+2)
	for _, q := range n.Qualifiers {
		nodes = append(nodes, q)
	}
	nodes = append(nodes, n.Name, n.Star)
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitIndirection(n *ast.Indirection) (any, error) {
	nodes := []ast.Node{n.Expr}
	for _, op := range n.Ops {
		nodes = append(nodes, op.Field, op.Lower, op.Upper)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitQualifiedName(n *ast.QualifiedName) (any, error) {
	return nil, a.walkAll(n.Catalog, n.Schema, n.Relation)
}

func (a *adapter) VisitTypeName(n *ast.TypeName) (any, error) {
	nodes := []ast.Node{n.Name}
	for _, m := range n.Modifiers {
		nodes = append(nodes, m)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitIndexElement(n *ast.IndexElement) (any, error) {
	return nil, a.walkAll(n.Expr, n.Collation, n.OpClass)
}

func (a *adapter) VisitIndexParameters(n *ast.IndexParameters) (any, error) {
	nodes := make([]ast.Node, len(n.Elements))
	for i, e := range n.Elements {
		nodes[i] = e
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitRelationReference(n *ast.RelationReference) (any, error) {
	nodes := []ast.Node{n.Name, n.Alias}
	for _, c := range n.ColumnAliases {
		nodes = append(nodes, c)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitRowsFrom(n *ast.RowsFrom) (any, error) {
	nodes := []ast.Node{n.Alias}
	for _, e := range n.Elements {
		nodes = append(nodes, e)
	}
	for _, c := range n.ColumnAliases {
		nodes = append(nodes, c)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitRowsFromElement(n *ast.RowsFromElement) (any, error) {
	nodes := []ast.Node{n.Func}
	for _, c := range n.ColumnDefs {
		nodes = append(nodes, c)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitJoinExpression(n *ast.JoinExpression) (any, error) {
	nodes := []ast.Node{n.Left, n.Right, n.On, n.Alias}
	for _, u := range n.Using {
		nodes = append(nodes, u)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitSubselect(n *ast.Subselect) (any, error) {
	nodes := []ast.Node{n.Query, n.Alias}
	for _, c := range n.ColumnAliases {
		nodes = append(nodes, c)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitXmlTable(n *ast.XmlTable) (any, error) {
	nodes := []ast.Node{n.RowExpr, n.DocExpr, n.Alias}
	for _, ns := range n.Namespaces {
		nodes = append(nodes, ns)
	}
	for _, c := range n.Columns {
		nodes = append(nodes, c)
	}
	for _, c := range n.ColumnAliases {
		nodes = append(nodes, c)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitTableSample(n *ast.TableSample) (any, error) {
	return nil, a.walkAll(n.Relation, n.Method, n.Args, n.Repeatable)
}

func (a *adapter) VisitInsertTarget(n *ast.InsertTarget) (any, error) {
	return nil, a.walkAll(n.Name, n.Alias)
}

func (a *adapter) VisitUpdateOrDeleteTarget(n *ast.UpdateOrDeleteTarget) (any, error) {
	return nil, a.walkAll(n.Name, n.Alias)
}

func (a *adapter) VisitColumnDefinition(n *ast.ColumnDefinition) (any, error) {
	return nil, a.walkAll(n.Name, n.Type)
}

func (a *adapter) VisitXmlElement(n *ast.XmlElement) (any, error) {
	nodes := []ast.Node{n.Name}
	for _, attr := range n.Attributes {
		nodes = append(nodes, attr)
	}
	nodes = append(nodes, n.Content)
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitXmlForest(n *ast.XmlForest) (any, error) {
	nodes := make([]ast.Node, len(n.Content))
	for i, c := range n.Content {
		nodes[i] = c
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitXmlParse(n *ast.XmlParse) (any, error) { return nil, a.walkAll(n.Expr) }

func (a *adapter) VisitXmlPi(n *ast.XmlPi) (any, error) {
	return nil, a.walkAll(n.Name, n.Content)
}

func (a *adapter) VisitXmlRoot(n *ast.XmlRoot) (any, error) {
	return nil, a.walkAll(n.Expr, n.Version)
}

func (a *adapter) VisitXmlSerialize(n *ast.XmlSerialize) (any, error) {
	return nil, a.walkAll(n.Expr, n.Type)
}

func (a *adapter) VisitXmlNamespace(n *ast.XmlNamespace) (any, error) {
	return nil, a.walkAll(n.Expr, n.Name)
}

func (a *adapter) VisitXmlColumnDefinition(n *ast.XmlColumnDefinition) (any, error) {
	return nil, a.walkAll(n.Name, n.Type, n.Path, n.Default)
}

func (a *adapter) VisitCubeOrRollupClause(n *ast.CubeOrRollupClause) (any, error) {
	return nil, a.walkAll(n.Args)
}

func (a *adapter) VisitGroupingSetsClause(n *ast.GroupingSetsClause) (any, error) {
	nodes := make([]ast.Node, len(n.Sets))
	for i, s := range n.Sets {
		nodes[i] = s
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitExpressionList(n *ast.ExpressionList) (any, error) {
	nodes := make([]ast.Node, len(n.Items))
	for i, item := range n.Items {
		nodes[i] = item
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitTargetList(n *ast.TargetList) (any, error) {
	nodes := make([]ast.Node, len(n.Items))
	for i, item := range n.Items {
		nodes[i] = item
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitFromList(n *ast.FromList) (any, error) {
	nodes := make([]ast.Node, len(n.Items))
	for i, item := range n.Items {
		nodes[i] = item
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitValuesRow(n *ast.ValuesRow) (any, error) {
	nodes := make([]ast.Node, len(n.Items))
	for i, item := range n.Items {
		nodes[i] = item
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitRowList(n *ast.RowList) (any, error) {
	nodes := make([]ast.Node, len(n.Rows))
	for i, r := range n.Rows {
		nodes[i] = r
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitInsertTargetList(n *ast.InsertTargetList) (any, error) {
	nodes := make([]ast.Node, len(n.Items))
	for i, item := range n.Items {
		nodes[i] = item
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitSetTargetElement(n *ast.SetTargetElement) (any, error) {
	nodes := []ast.Node{n.Column}
	for _, e := range n.Indirection {
		nodes = append(nodes, e)
	}
	return nil, a.walkAll(nodes...)
}

func (a *adapter) VisitOrderByList(n *ast.OrderByList) (any, error) {
	nodes := make([]ast.Node, len(n.Items))
	for i, item := range n.Items {
		nodes[i] = item
	}
	return nil, a.walkAll(nodes...)
}
