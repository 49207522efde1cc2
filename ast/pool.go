package ast

import "sync"

// Node pools for reducing allocations during parsing, covering the node
// kinds a typical statement allocates the most of. Less frequently
// allocated node kinds (the XML family, grouping clauses, window frame
// nodes) are left to the garbage collector -- pooling every one of the
// closed variant family for marginal wins isn't worth the bookkeeping.
var (
	selectPool = sync.Pool{New: func() any { return &Select{} }}
	insertPool = sync.Pool{New: func() any { return &Insert{} }}
	updatePool = sync.Pool{New: func() any { return &Update{} }}
	deletePool = sync.Pool{New: func() any { return &Delete{} }}

	operatorExprPool = sync.Pool{New: func() any { return &OperatorExpression{} }}
	logicalExprPool  = sync.Pool{New: func() any { return &LogicalExpression{} }}
	constantPool     = sync.Pool{New: func() any { return &Constant{} }}
	identifierPool   = sync.Pool{New: func() any { return &Identifier{} }}
	colRefPool       = sync.Pool{New: func() any { return &ColumnReference{} }}
	resTargetPool    = sync.Pool{New: func() any { return &ResTarget{} }}
	qualNamePool     = sync.Pool{New: func() any { return &QualifiedName{} }}
	funcCallPool     = sync.Pool{New: func() any { return &FunctionCall{} }}

	exprListPool   = sync.Pool{New: func() any { return &ExpressionList{} }}
	targetListPool = sync.Pool{New: func() any { return &TargetList{} }}
	fromListPool   = sync.Pool{New: func() any { return &FromList{} }}
)

// GetSelect returns a *Select from the pool.
func GetSelect() *Select { return selectPool.Get().(*Select) }

// ReleaseSelect returns a *Select to the pool after resetting it.
func ReleaseSelect(n *Select) { *n = Select{}; selectPool.Put(n) }

// GetInsert returns a *Insert from the pool.
func GetInsert() *Insert { return insertPool.Get().(*Insert) }

// ReleaseInsert returns a *Insert to the pool after resetting it.
func ReleaseInsert(n *Insert) { *n = Insert{}; insertPool.Put(n) }

// GetUpdate returns a *Update from the pool.
func GetUpdate() *Update { return updatePool.Get().(*Update) }

// ReleaseUpdate returns a *Update to the pool after resetting it.
func ReleaseUpdate(n *Update) { *n = Update{}; updatePool.Put(n) }

// GetDelete returns a *Delete from the pool.
func GetDelete() *Delete { return deletePool.Get().(*Delete) }

// ReleaseDelete returns a *Delete to the pool after resetting it.
func ReleaseDelete(n *Delete) { *n = Delete{}; deletePool.Put(n) }

// GetOperatorExpression returns a *OperatorExpression from the pool.
func GetOperatorExpression() *OperatorExpression {
	return operatorExprPool.Get().(*OperatorExpression)
}

// ReleaseOperatorExpression returns a *OperatorExpression to the pool.
func ReleaseOperatorExpression(n *OperatorExpression) {
	*n = OperatorExpression{}
	operatorExprPool.Put(n)
}

// GetLogicalExpression returns a *LogicalExpression from the pool.
func GetLogicalExpression() *LogicalExpression {
	return logicalExprPool.Get().(*LogicalExpression)
}

// ReleaseLogicalExpression returns a *LogicalExpression to the pool.
func ReleaseLogicalExpression(n *LogicalExpression) {
	*n = LogicalExpression{}
	logicalExprPool.Put(n)
}

// GetConstant returns a *Constant from the pool.
func GetConstant() *Constant { return constantPool.Get().(*Constant) }

// ReleaseConstant returns a *Constant to the pool.
func ReleaseConstant(n *Constant) { *n = Constant{}; constantPool.Put(n) }

// GetIdentifier returns a *Identifier from the pool.
func GetIdentifier() *Identifier { return identifierPool.Get().(*Identifier) }

// ReleaseIdentifier returns a *Identifier to the pool.
func ReleaseIdentifier(n *Identifier) { *n = Identifier{}; identifierPool.Put(n) }

// GetColumnReference returns a *ColumnReference from the pool.
func GetColumnReference() *ColumnReference { return colRefPool.Get().(*ColumnReference) }

// ReleaseColumnReference returns a *ColumnReference to the pool.
func ReleaseColumnReference(n *ColumnReference) { *n = ColumnReference{}; colRefPool.Put(n) }

// GetResTarget returns a *ResTarget from the pool.
func GetResTarget() *ResTarget { return resTargetPool.Get().(*ResTarget) }

// ReleaseResTarget returns a *ResTarget to the pool.
func ReleaseResTarget(n *ResTarget) { *n = ResTarget{}; resTargetPool.Put(n) }

// GetQualifiedName returns a *QualifiedName from the pool.
func GetQualifiedName() *QualifiedName { return qualNamePool.Get().(*QualifiedName) }

// ReleaseQualifiedName returns a *QualifiedName to the pool.
func ReleaseQualifiedName(n *QualifiedName) { *n = QualifiedName{}; qualNamePool.Put(n) }

// GetFunctionCall returns a *FunctionCall from the pool.
func GetFunctionCall() *FunctionCall { return funcCallPool.Get().(*FunctionCall) }

// ReleaseFunctionCall returns a *FunctionCall to the pool.
func ReleaseFunctionCall(n *FunctionCall) { *n = FunctionCall{}; funcCallPool.Put(n) }

// GetExpressionList returns a *ExpressionList from the pool.
func GetExpressionList() *ExpressionList { return exprListPool.Get().(*ExpressionList) }

// ReleaseExpressionList returns a *ExpressionList to the pool.
func ReleaseExpressionList(n *ExpressionList) { *n = ExpressionList{}; exprListPool.Put(n) }

// GetTargetList returns a *TargetList from the pool.
func GetTargetList() *TargetList { return targetListPool.Get().(*TargetList) }

// ReleaseTargetList returns a *TargetList to the pool.
func ReleaseTargetList(n *TargetList) { *n = TargetList{}; targetListPool.Put(n) }

// GetFromList returns a *FromList from the pool.
func GetFromList() *FromList { return fromListPool.Get().(*FromList) }

// ReleaseFromList returns a *FromList to the pool.
func ReleaseFromList(n *FromList) { *n = FromList{}; fromListPool.Put(n) }

// ReleaseAST walks node and every descendant, returning pooled node
// kinds to their pool and leaving everything else for the garbage
// collector. Nodes must not be read after this call -- a pooled node
// may be handed back out (zeroed) to an unrelated parse before the
// caller's reference goes out of scope.
func ReleaseAST(node Node) {
	if isNilNode(node) {
		return
	}
	switch n := node.(type) {
	case *Select:
		ReleaseAST(n.With)
		ReleaseAST(n.DistinctOn)
		ReleaseAST(n.Targets)
		ReleaseAST(n.From)
		ReleaseAST(n.Where)
		ReleaseAST(n.GroupBy)
		ReleaseAST(n.Having)
		for _, wd := range n.Windows {
			ReleaseAST(wd)
		}
		ReleaseAST(n.OrderBy)
		ReleaseAST(n.Limit)
		ReleaseAST(n.Offset)
		for _, l := range n.Locking {
			ReleaseAST(l)
		}
		ReleaseSelect(n)
	case *SetOpSelect:
		ReleaseAST(n.Left)
		ReleaseAST(n.Right)
		ReleaseAST(n.OrderBy)
		ReleaseAST(n.Limit)
		ReleaseAST(n.Offset)
	case *Values:
		ReleaseAST(n.With)
		ReleaseAST(n.Rows)
		ReleaseAST(n.OrderBy)
		ReleaseAST(n.Limit)
		ReleaseAST(n.Offset)
	case *Insert:
		ReleaseAST(n.With)
		ReleaseAST(n.Target)
		ReleaseAST(n.Columns)
		ReleaseAST(n.Source)
		ReleaseAST(n.OnConflict)
		ReleaseAST(n.Returning)
		ReleaseInsert(n)
	case *Update:
		ReleaseAST(n.With)
		ReleaseAST(n.Target)
		for _, s := range n.Set {
			ReleaseAST(s)
		}
		for _, m := range n.SetMulti {
			ReleaseAST(m)
		}
		ReleaseAST(n.From)
		ReleaseAST(n.Where)
		ReleaseAST(n.Returning)
		ReleaseUpdate(n)
	case *Delete:
		ReleaseAST(n.With)
		ReleaseAST(n.Target)
		ReleaseAST(n.Using)
		ReleaseAST(n.Where)
		ReleaseAST(n.Returning)
		ReleaseDelete(n)

	case *OperatorExpression:
		ReleaseAST(n.Left)
		ReleaseAST(n.Right)
		ReleaseOperatorExpression(n)
	case *LogicalExpression:
		for _, a := range n.Args {
			ReleaseAST(a)
		}
		ReleaseLogicalExpression(n)
	case *Constant:
		ReleaseConstant(n)
	case *ColumnReference:
		for _, q := range n.Qualifiers {
			ReleaseAST(q)
		}
		ReleaseAST(n.Name)
		ReleaseAST(n.Star)
		ReleaseColumnReference(n)
	case *Identifier:
		ReleaseIdentifier(n)
	case *QualifiedName:
		ReleaseAST(n.Catalog)
		ReleaseAST(n.Schema)
		ReleaseAST(n.Relation)
		ReleaseQualifiedName(n)
	case *ResTarget:
		ReleaseAST(n.Expr)
		ReleaseAST(n.Alias)
		ReleaseResTarget(n)
	case *FunctionCall:
		ReleaseAST(n.Name)
		ReleaseAST(n.Args)
		ReleaseFunctionCall(n)

	case *ExpressionList:
		for _, e := range n.Items {
			ReleaseAST(e)
		}
		ReleaseExpressionList(n)
	case *TargetList:
		for _, t := range n.Items {
			ReleaseAST(t)
		}
		ReleaseTargetList(n)
	case *FromList:
		for _, r := range n.Items {
			ReleaseAST(r)
		}
		ReleaseFromList(n)
	case *OrderByList:
		for _, o := range n.Items {
			ReleaseAST(o)
		}
	case *RowList:
		for _, r := range n.Rows {
			ReleaseAST(r)
		}
	case *ValuesRow:
		for _, e := range n.Items {
			ReleaseAST(e)
		}
	case *InsertTargetList:
		for _, e := range n.Items {
			ReleaseAST(e)
		}

	case *WhereOrHavingClause:
		ReleaseAST(n.Expr)
	case *WithClause:
		for _, c := range n.CTEs {
			ReleaseAST(c)
		}
	case *CommonTableExpression:
		for _, c := range n.ColumnAliases {
			ReleaseAST(c)
		}
		ReleaseAST(n.Name)
		ReleaseAST(n.Query)
	case *SetClause:
		ReleaseAST(n.Target)
		ReleaseAST(n.Value)
	case *MultiAssign:
		ReleaseAST(n.Targets)
		ReleaseAST(n.Source)
	case *SetTargetElement:
		ReleaseAST(n.Column)
		for _, e := range n.Indirection {
			ReleaseAST(e)
		}
	case *OnConflictClause:
		for _, e := range n.IndexElements {
			ReleaseAST(e)
		}
		ReleaseAST(n.IndexWhere)
		ReleaseAST(n.ConstraintName)
		for _, s := range n.Set {
			ReleaseAST(s)
		}
		for _, m := range n.SetMulti {
			ReleaseAST(m)
		}
		ReleaseAST(n.Where)

	case *RelationReference:
		ReleaseAST(n.Name)
		ReleaseAST(n.Alias)
		for _, c := range n.ColumnAliases {
			ReleaseAST(c)
		}
	case *JoinExpression:
		ReleaseAST(n.Left)
		ReleaseAST(n.Right)
		ReleaseAST(n.On)
		for _, u := range n.Using {
			ReleaseAST(u)
		}
	case *Subselect:
		ReleaseAST(n.Query)
		ReleaseAST(n.Alias)
	case *InsertTarget:
		ReleaseAST(n.Name)
		ReleaseAST(n.Alias)
	case *UpdateOrDeleteTarget:
		ReleaseAST(n.Name)
		ReleaseAST(n.Alias)
	}
}
