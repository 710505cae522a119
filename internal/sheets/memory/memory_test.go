package memory

import (
	"context"
	"testing"

	"rocel/internal/core"
)

func TestAppendChange(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendChange(ctx, "created", core.Transaction{ID: "t1", Description: "Coffee"})
	if err != nil {
		t.Fatalf("AppendChange: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q", ref)
	}

	ref, _ = s.AppendChange(ctx, "deleted", core.Transaction{ID: "t1"})
	if ref != "mem:2" {
		t.Errorf("second ref = %q", ref)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Op != "created" || rows[1].Op != "deleted" {
		t.Errorf("ops = %q, %q", rows[0].Op, rows[1].Op)
	}
	if rows[0].Transaction.Description != "Coffee" {
		t.Errorf("transaction = %+v", rows[0].Transaction)
	}
}
