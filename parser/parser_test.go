package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freeeve/machparse/ast"
)

func TestParseSelect(t *testing.T) {
	tests := []struct {
		input    string
		wantCols int
	}{
		{"SELECT * FROM users", 1},
		{"SELECT id, name FROM users", 2},
		{"SELECT id, name, email FROM users WHERE id = 1", 3},
		{"SELECT a.id, b.name FROM a JOIN b ON a.id = b.a_id", 2},
		{"SELECT COUNT(*) FROM users", 1},
		{"SELECT DISTINCT name FROM users", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := New(tt.input).ParseStatement()
			require.NoError(t, err)
			sel, ok := stmt.(*ast.Select)
			require.Truef(t, ok, "Expected Select, got %T", stmt)
			require.Len(t, sel.Targets.Items, tt.wantCols)
		})
	}
}

func TestParseInsert(t *testing.T) {
	tests := []struct {
		input string
		want  int // expected number of value rows
	}{
		{"INSERT INTO users (id, name) VALUES (1, 'test')", 1},
		{"INSERT INTO users VALUES (1, 'test'), (2, 'test2')", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := New(tt.input).ParseStatement()
			require.NoError(t, err)
			ins, ok := stmt.(*ast.Insert)
			require.Truef(t, ok, "Expected Insert, got %T", stmt)
			values, ok := ins.Source.(*ast.Values)
			require.Truef(t, ok, "Expected Values source, got %T", ins.Source)
			require.Len(t, values.Rows.Rows, tt.want)
		})
	}
}

func TestParseInsertFromSelect(t *testing.T) {
	stmt, err := New("INSERT INTO users (id, name) SELECT id, name FROM staging").ParseStatement()
	require.NoError(t, err)
	ins, ok := stmt.(*ast.Insert)
	require.Truef(t, ok, "Expected Insert, got %T", stmt)
	_, ok = ins.Source.(*ast.Select)
	require.Truef(t, ok, "Expected Select source, got %T", ins.Source)
}

func TestParseUpdate(t *testing.T) {
	tests := []struct {
		input    string
		wantSets int
	}{
		{"UPDATE users SET name = 'test' WHERE id = 1", 1},
		{"UPDATE users SET name = 'test', email = 'a@b.com'", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := New(tt.input).ParseStatement()
			require.NoError(t, err)
			upd, ok := stmt.(*ast.Update)
			require.Truef(t, ok, "Expected Update, got %T", stmt)
			require.Len(t, upd.Set, tt.wantSets)
		})
	}
}

func TestParseDelete(t *testing.T) {
	tests := []struct {
		input    string
		hasWhere bool
	}{
		{"DELETE FROM users WHERE id = 1", true},
		{"DELETE FROM users", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := New(tt.input).ParseStatement()
			require.NoError(t, err)
			del, ok := stmt.(*ast.Delete)
			require.Truef(t, ok, "Expected Delete, got %T", stmt)
			require.Equal(t, tt.hasWhere, del.Where != nil)
		})
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"SELECT 1 + 2"},
		{"SELECT a AND b OR c"},
		{"SELECT a = 1 AND b = 2"},
		{"SELECT a BETWEEN 1 AND 10"},
		{"SELECT a IN (1, 2, 3)"},
		{"SELECT a LIKE '%test%'"},
		{"SELECT a IS NULL"},
		{"SELECT a IS NOT NULL"},
		{"SELECT CASE WHEN a = 1 THEN 'one' ELSE 'other' END"},
		{"SELECT CAST(a AS INT)"},
		{"SELECT COUNT(*)"},
		{"SELECT SUM(amount)"},
		{"SELECT a::int"},
		{"SELECT a || b"},
		{"SELECT COALESCE(a, b, c)"},
		{"SELECT NULLIF(a, b)"},
		{"SELECT EXISTS (SELECT 1 FROM t)"},
		{"SELECT * FROM t WHERE a IN (SELECT id FROM t2)"},
		{"SELECT ARRAY[1, 2, 3]"},
		{"SELECT a->>'key' FROM t"},
		{"SELECT $1 FROM t WHERE id = $2"},
		{"SELECT * FROM t WHERE name = :name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := New(tt.input).ParseStatement()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if stmt == nil {
				t.Fatal("Expected statement, got nil")
			}
		})
	}
}

func TestParseParameters(t *testing.T) {
	stmt, err := New("SELECT * FROM t WHERE id = $1 AND name = :name").ParseStatement()
	require.NoError(t, err)

	sel, ok := stmt.(*ast.Select)
	require.Truef(t, ok, "Expected Select, got %T", stmt)

	and, ok := sel.Where.Expr.(*ast.LogicalExpression)
	require.Truef(t, ok, "Expected LogicalExpression, got %T", sel.Where.Expr)
	require.Len(t, and.Args, 2)

	left, ok := and.Args[0].(*ast.OperatorExpression)
	require.Truef(t, ok, "Expected OperatorExpression, got %T", and.Args[0])
	param, ok := left.Right.(*ast.Parameter)
	require.Truef(t, ok, "Expected Parameter, got %T", left.Right)
	require.Equal(t, ast.ParamPositional, param.Kind)
	require.Equal(t, 1, param.Index)

	right, ok := and.Args[1].(*ast.OperatorExpression)
	require.Truef(t, ok, "Expected OperatorExpression, got %T", and.Args[1])
	named, ok := right.Right.(*ast.Parameter)
	require.Truef(t, ok, "Expected Parameter, got %T", right.Right)
	require.Equal(t, ast.ParamNamed, named.Kind)
	require.Equal(t, "name", named.Name)
}

func TestParseJoins(t *testing.T) {
	tests := []string{
		"SELECT * FROM a JOIN b ON a.id = b.a_id",
		"SELECT * FROM a INNER JOIN b ON a.id = b.a_id",
		"SELECT * FROM a LEFT JOIN b ON a.id = b.a_id",
		"SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.a_id",
		"SELECT * FROM a RIGHT JOIN b ON a.id = b.a_id",
		"SELECT * FROM a FULL OUTER JOIN b ON a.id = b.a_id",
		"SELECT * FROM a CROSS JOIN b",
		"SELECT * FROM a NATURAL JOIN b",
		"SELECT * FROM a JOIN b USING (id)",
		"SELECT * FROM a, b WHERE a.id = b.a_id",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			stmt, err := New(input).ParseStatement()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if stmt == nil {
				t.Fatal("Expected statement, got nil")
			}
		})
	}
}

func TestParseWithCTE(t *testing.T) {
	input := `WITH active_users AS (
		SELECT id, name FROM users WHERE status = 'active'
	)
	SELECT * FROM active_users WHERE name LIKE 'A%'`

	stmt, err := New(input).ParseStatement()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	sel, ok := stmt.(*ast.Select)
	if !ok {
		t.Fatalf("Expected Select, got %T", stmt)
	}

	require.NotNil(t, sel.With, "Expected WITH clause")
	require.Len(t, sel.With.CTEs, 1)
}

func TestParseWindowFunctions(t *testing.T) {
	tests := []string{
		"SELECT ROW_NUMBER() OVER () FROM t",
		"SELECT ROW_NUMBER() OVER (ORDER BY id) FROM t",
		"SELECT ROW_NUMBER() OVER (PARTITION BY type ORDER BY id) FROM t",
		"SELECT SUM(amount) OVER (PARTITION BY user_id) FROM orders",
		"SELECT AVG(price) OVER (ORDER BY date ROWS BETWEEN 1 PRECEDING AND 1 FOLLOWING) FROM prices",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			stmt, err := New(input).ParseStatement()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if stmt == nil {
				t.Fatal("Expected statement, got nil")
			}
		})
	}
}

func TestParseSetOperations(t *testing.T) {
	tests := []string{
		"SELECT 1 UNION SELECT 2",
		"SELECT 1 UNION ALL SELECT 2",
		"SELECT 1 INTERSECT SELECT 2",
		"SELECT 1 EXCEPT SELECT 2",
		"(SELECT 1) UNION (SELECT 2) UNION (SELECT 3)",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			stmt, err := New(input).ParseStatement()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if _, ok := stmt.(*ast.SetOpSelect); !ok {
				t.Fatalf("Expected SetOpSelect, got %T", stmt)
			}
		})
	}
}

func TestParseStatementRejectsTrailingInput(t *testing.T) {
	_, err := New("SELECT 1 SELECT 2").ParseStatement()
	require.Error(t, err, "Expected error for trailing input after statement")
}

func BenchmarkParse(b *testing.B) {
	input := `SELECT u.id, u.name, COUNT(o.id) as order_count
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
		_, err := New(input).ParseStatement()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseSimple(b *testing.B) {
	input := "SELECT * FROM users WHERE id = 1"

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := New(input).ParseStatement()
		if err != nil {
			b.Fatal(err)
		}
	}
}
