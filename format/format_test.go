package format_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/go-cmp/cmp"

	"github.com/freeeve/machparse/ast"
	"github.com/freeeve/machparse/format"
	"github.com/freeeve/machparse/parser"
)

func TestMain(m *testing.M) {
	v := m.Run()

	dirty, err := snaps.Clean(m)
	if err != nil {
		fmt.Println("Error cleaning snaps:", err)
		os.Exit(1)
	}
	if dirty {
		fmt.Println("Some snapshots were outdated.")
		os.Exit(1)
	}

	os.Exit(v)
}

func TestSnapshotDefaultOptions(t *testing.T) {
	queries := map[string]string{
		"simple select":   "SELECT * FROM users WHERE id = 1",
		"join":            "SELECT a.id, b.name FROM a JOIN b ON a.id = b.a_id",
		"insert":          "INSERT INTO users (id, name) VALUES (1, 'test')",
		"update":          "UPDATE users SET name = 'new' WHERE id = 1",
		"cte":             "WITH active AS (SELECT id FROM users WHERE status = 'active') SELECT * FROM active",
		"window function": "SELECT ROW_NUMBER() OVER (PARTITION BY type ORDER BY created_at DESC) FROM items",
	}

	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			stmt, err := parser.Parse(q)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			snaps.MatchSnapshot(t, format.String(stmt))
		})
	}
}

func TestSnapshotPrettyOptions(t *testing.T) {
	query := `SELECT u.id, u.name, COUNT(o.id) as order_count
FROM users u LEFT JOIN orders o ON u.id = o.user_id
WHERE u.status = 'active' GROUP BY u.id, u.name HAVING COUNT(o.id) > 5
ORDER BY order_count DESC LIMIT 100`

	stmt, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	out, err := format.Format(stmt, format.PrettyOptions)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	snaps.MatchSnapshot(t, out)
}

// TestRoundTripPreservesStructure reparses a statement's own formatted
// output and diffs the two trees' ast.Dump representations with go-cmp,
// which reports the differing subtree instead of just "not equal" the
// way reflect.DeepEqual would.
func TestRoundTripPreservesStructure(t *testing.T) {
	queries := []string{
		"SELECT * FROM users WHERE id = 1",
		"SELECT a.id, b.name FROM a JOIN b ON a.id = b.a_id",
		"INSERT INTO users (id, name) VALUES (1, 'test')",
		"UPDATE users SET name = 'new' WHERE id = 1",
		"DELETE FROM users WHERE id = 1",
		"SELECT 1 UNION SELECT 2",
		"WITH active AS (SELECT id FROM users) SELECT * FROM active",
		"SELECT CASE WHEN a = 1 THEN 'one' ELSE 'other' END FROM t",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			stmt1, err := parser.Parse(q)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			formatted := format.String(stmt1)

			stmt2, err := parser.Parse(formatted)
			if err != nil {
				t.Fatalf("Re-parse error: %v\nFormatted: %s", err, formatted)
			}

			dump1 := ast.Dump(stmt1)
			dump2 := ast.Dump(stmt2)
			if diff := cmp.Diff(dump1, dump2); diff != "" {
				t.Errorf("structure changed across round trip (-original +reparsed):\n%s", diff)
			}
		})
	}
}
