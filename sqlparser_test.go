package machparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/visitor"
)

func TestParseAndFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "simple select",
			input: "SELECT * FROM users",
		},
		{
			name:  "select with where",
			input: "SELECT id, name FROM users WHERE status = 'active'",
		},
		{
			name:  "select with join",
			input: "SELECT a.id, b.name FROM a JOIN b ON a.id = b.a_id",
		},
		{
			name:  "select with multiple joins",
			input: "SELECT * FROM a LEFT JOIN b ON a.id = b.a_id RIGHT JOIN c ON b.id = c.b_id",
		},
		{
			name:  "select with subquery",
			input: "SELECT * FROM users WHERE id IN (SELECT user_id FROM orders)",
		},
		{
			name:  "insert",
			input: "INSERT INTO users (id, name) VALUES (1, 'test')",
		},
		{
			name:  "update",
			input: "UPDATE users SET name = 'new' WHERE id = 1",
		},
		{
			name:  "delete",
			input: "DELETE FROM users WHERE id = 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			formatted := String(stmt)
			if formatted == "" {
				t.Fatal("Formatted output is empty")
			}

			stmt2, err := Parse(formatted)
			if err != nil {
				t.Fatalf("Re-parse error: %v\nFormatted: %s", err, formatted)
			}

			formatted2 := String(stmt2)
			if formatted != formatted2 {
				t.Errorf("Round-trip mismatch:\nFirst:  %s\nSecond: %s", formatted, formatted2)
			}
		})
	}
}

// columnCollector implements visitor.Visitor, recording the name of every
// unqualified or qualified column reference it sees.
type columnCollector struct {
	names []string
}

func (c *columnCollector) Visit(node ast.Node) (visitor.Visitor, error) {
	if col, ok := node.(*ast.ColumnReference); ok && col.Name != nil {
		c.names = append(c.names, col.Name.Name)
	}
	return c, nil
}

func TestWalk(t *testing.T) {
	stmt, err := Parse("SELECT a.id, b.name FROM users a JOIN orders b ON a.id = b.user_id WHERE a.status = 'active'")
	if err != nil {
		t.Fatal(err)
	}

	c := &columnCollector{}
	if err := Walk(c, stmt); err != nil {
		t.Fatal(err)
	}

	expected := []string{"id", "name", "id", "user_id", "status"}
	if len(c.names) != len(expected) {
		t.Errorf("Expected %d columns, got %d: %v", len(expected), len(c.names), c.names)
	}
}

func TestRewrite(t *testing.T) {
	stmt, err := Parse("SELECT id, name FROM users WHERE status = 'active'")
	if err != nil {
		t.Fatal(err)
	}

	// Add table qualifier "u" to every unqualified column.
	rewritten, err := Rewrite(stmt, func(n ast.Node) (ast.Node, error) {
		col, ok := n.(*ast.ColumnReference)
		if !ok || col.Name == nil || len(col.Qualifiers) != 0 {
			return n, nil
		}
		col.Qualifiers = []*ast.Identifier{ast.NewIdentifier("u", false)}
		return col, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	formatted := String(rewritten)
	if formatted == "" {
		t.Fatal("Rewritten output is empty")
	}
	t.Logf("Rewritten: %s", formatted)
}

// tableCollector records the relation name of every table reference
// Walk visits, without descending into column qualifiers.
type tableCollector struct {
	seen   map[string]bool
	tables []string
}

func (c *tableCollector) Visit(node ast.Node) (visitor.Visitor, error) {
	if _, ok := node.(*ast.ColumnReference); ok {
		return nil, nil // don't recurse into column qualifiers
	}
	if rel, ok := node.(*ast.RelationReference); ok && rel.Name != nil && rel.Name.Relation != nil {
		name := rel.Name.Relation.Name
		if !c.seen[name] {
			c.seen[name] = true
			c.tables = append(c.tables, name)
		}
	}
	return c, nil
}

func TestExtractTables(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users u JOIN orders o ON u.id = o.user_id WHERE EXISTS (SELECT 1 FROM items)")
	if err != nil {
		t.Fatal(err)
	}

	c := &tableCollector{seen: map[string]bool{}}
	if err := Walk(c, stmt); err != nil {
		t.Fatal(err)
	}
	if len(c.tables) != 3 {
		t.Errorf("Expected 3 tables, got %d: %v", len(c.tables), c.tables)
	}
}

func TestComplexQueries(t *testing.T) {
	queries := []string{
		`WITH active AS (SELECT id FROM users WHERE status = 'active')
		 SELECT * FROM active`,
		`SELECT id, COUNT(*) as cnt FROM orders GROUP BY id HAVING COUNT(*) > 5`,
		`SELECT ROW_NUMBER() OVER (PARTITION BY type ORDER BY created_at DESC) FROM items`,
		`SELECT CASE WHEN status = 1 THEN 'active' ELSE 'inactive' END FROM users`,
		`SELECT * FROM users WHERE name LIKE '%test%' ESCAPE '\'`,
		`SELECT * FROM users WHERE created_at BETWEEN '2024-01-01' AND '2024-12-31'`,
		`SELECT COALESCE(name, 'unknown') FROM users`,
		`SELECT CAST(price AS INT) FROM products`,
		`SELECT a || ' ' || b FROM names`,
		`SELECT * FROM users FOR UPDATE`,
		`SELECT * FROM users LIMIT 10 OFFSET 20`,
		`SELECT * FROM users GROUP BY GROUPING SETS ((a), (b))`,
		`SELECT XMLELEMENT(NAME foo, 'bar')`,
		`SELECT * FROM users WHERE id = $1 AND email = $2`,
		`SELECT * FROM users WHERE name = :name`,
	}

	for _, q := range queries {
		name := q
		if len(name) > 30 {
			name = name[:30]
		}
		t.Run(name, func(t *testing.T) {
			stmt, err := Parse(q)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			formatted := String(stmt)
			if formatted == "" {
				t.Error("Empty formatted output")
			}
		})
	}
}

func TestMultiLevelIdentifiers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols int
	}{
		{
			name:     "simple column",
			input:    "SELECT a FROM t",
			wantCols: 1,
		},
		{
			name:     "two-level column",
			input:    "SELECT t.a FROM t",
			wantCols: 1,
		},
		{
			name:     "three-level column",
			input:    "SELECT schema.table.column FROM schema.table",
			wantCols: 1,
		},
		{
			name:     "four-level column (catalog.schema.table.column)",
			input:    "SELECT catalog.schema.table.column FROM catalog.schema.table",
			wantCols: 1,
		},
		{
			name:     "mixed levels",
			input:    "SELECT a, t.b, s.t.c, cat.s.t.d FROM t",
			wantCols: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			sel, ok := stmt.(*ast.Select)
			if !ok {
				t.Fatalf("Expected Select, got %T", stmt)
			}
			if len(sel.Targets.Items) != tt.wantCols {
				t.Errorf("Expected %d columns, got %d", tt.wantCols, len(sel.Targets.Items))
			}

			formatted := String(stmt)
			stmt2, err := Parse(formatted)
			if err != nil {
				t.Fatalf("Re-parse error: %v\nFormatted: %s", err, formatted)
			}
			formatted2 := String(stmt2)
			if formatted != formatted2 {
				t.Errorf("Round-trip mismatch:\nFirst:  %s\nSecond: %s", formatted, formatted2)
			}
		})
	}
}

func TestMultiLevelIdentifierParts(t *testing.T) {
	stmt, err := Parse("SELECT catalog.schema.table.column FROM db")
	if err != nil {
		t.Fatal(err)
	}

	sel := stmt.(*ast.Select)
	col := sel.Targets.Items[0].Expr.(*ast.ColumnReference)

	require.Len(t, col.Qualifiers, 3)
	require.Equal(t, "column", col.Name.Name)
	require.Equal(t, "table", col.Qualifiers[2].Name)
	require.Equal(t, "schema", col.Qualifiers[1].Name)
	require.Equal(t, "catalog", col.Qualifiers[0].Name)
}

func TestMultiLevelTableName(t *testing.T) {
	stmt, err := Parse("SELECT * FROM catalog.schema.table")
	if err != nil {
		t.Fatal(err)
	}

	sel := stmt.(*ast.Select)
	rel, ok := sel.From.Items[0].(*ast.RelationReference)
	if !ok {
		t.Fatalf("unexpected From item type: %T", sel.From.Items[0])
	}

	require.Equal(t, "table", rel.Name.Relation.Name)
	require.Equal(t, "schema", rel.Name.Schema.Name)
	require.Equal(t, "catalog", rel.Name.Catalog.Name)
}

func BenchmarkParseFormat(b *testing.B) {
	query := `SELECT u.id, u.name, COUNT(o.id) as order_count
FROM users u
LEFT JOIN orders o ON u.id = o.user_id
WHERE u.status = 'active'
  AND u.created_at BETWEEN '2024-01-01' AND '2024-12-31'
GROUP BY u.id, u.name
HAVING COUNT(o.id) > 5
ORDER BY order_count DESC
LIMIT 100`

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		stmt, _ := Parse(query)
		_ = String(stmt)
	}
}

func BenchmarkWalk(b *testing.B) {
	stmt, _ := Parse(`SELECT u.id, u.name, COUNT(o.id) as order_count
FROM users u
LEFT JOIN orders o ON u.id = o.user_id
WHERE u.status = 'active'
GROUP BY u.id, u.name
ORDER BY order_count DESC`)

	b.ReportAllocs()
	b.ResetTimer()

	c := &columnCollector{}
	for i := 0; i < b.N; i++ {
		c.names = c.names[:0]
		_ = Walk(c, stmt)
	}
}
