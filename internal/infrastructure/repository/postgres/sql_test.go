package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: relation events does not exist")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestNullableInt64(t *testing.T) {
	if got := nullableInt64(0); got.Valid {
		t.Fatal("zero player id should map to NULL")
	}
	if got := nullableInt64(42); !got.Valid || got.Int64 != 42 {
		t.Fatalf("unexpected null int: %+v", got)
	}
}
