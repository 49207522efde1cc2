package ast

import (
	"strings"
	"testing"
)

func TestDumpContainsIdentifierName(t *testing.T) {
	id := NewIdentifier("users", false)
	out := Dump(id)
	if !strings.Contains(out, "users") {
		t.Errorf("Dump output %q does not contain identifier name", out)
	}
}

func TestDumpColumnReference(t *testing.T) {
	col := &ColumnReference{Name: NewIdentifier("id", false)}
	out := Dump(col)
	if !strings.Contains(out, "ColumnReference") {
		t.Errorf("Dump output %q does not mention ColumnReference", out)
	}
}
