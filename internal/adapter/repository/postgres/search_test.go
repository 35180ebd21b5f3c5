package postgres

import (
	"reflect"
	"testing"
)

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	w.add("tenant_id = ?", "t1")
	w.add("delivery_date BETWEEN ? AND ?", "a", "b")
	w.add("NOT confirmed")
	limit := w.next(10)

	if got, want := w.sql(), " WHERE tenant_id = $1 AND delivery_date BETWEEN $2 AND $3 AND NOT confirmed"; got != want {
		t.Fatalf("sql() = %q, want %q", got, want)
	}
	if limit != "$4" {
		t.Fatalf("next() = %q, want $4", limit)
	}
	if !reflect.DeepEqual(w.args, []any{"t1", "a", "b", 10}) {
		t.Fatalf("unexpected args %v", w.args)
	}
}

func TestContainsPattern(t *testing.T) {
	if got := containsPattern(`10%_a\b`); got != `%10\%\_a\\b%` {
		t.Fatalf("containsPattern() = %q", got)
	}
}
