package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewWhereBuilder(t *testing.T) {
	wb := newWhereBuilder()

	if wb.argIndex != 1 {
		t.Errorf("expected argIndex to be 1, got %d", wb.argIndex)
	}
	if len(wb.conditions) != 0 {
		t.Errorf("expected empty conditions, got %d", len(wb.conditions))
	}
}

func TestWhereBuilder_Build_Empty(t *testing.T) {
	whereClause, args := newWhereBuilder().Build()

	if whereClause != "" {
		t.Errorf("expected empty string for no conditions, got %q", whereClause)
	}
	if args != nil {
		t.Errorf("expected nil args for no conditions, got %v", args)
	}
}

func TestWhereBuilder_Add_MultipleConditions(t *testing.T) {
	wb := newWhereBuilder()
	wb.Add("kind", "compare")
	wb.Add("user_agent", "curl/8.0")

	whereClause, args := wb.Build()

	expectedClause := " WHERE kind = $1 AND user_agent = $2"
	if whereClause != expectedClause {
		t.Errorf("expected %q, got %q", expectedClause, whereClause)
	}
	if len(args) != 2 || args[0] != "compare" || args[1] != "curl/8.0" {
		t.Errorf("expected args [compare curl/8.0], got %v", args)
	}
}

func TestWhereBuilder_Add_EmptyValue_Skipped(t *testing.T) {
	wb := newWhereBuilder()
	wb.Add("kind", "")
	wb.AddUUID("session_id", toPgUUID("not-a-uuid"))
	wb.AddSince("created_at", time.Time{})
	wb.Add("user_agent", "curl/8.0")

	whereClause, args := wb.Build()

	// Only the user_agent condition survives.
	expectedClause := " WHERE user_agent = $1"
	if whereClause != expectedClause {
		t.Errorf("expected %q, got %q", expectedClause, whereClause)
	}
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
}

func TestWhereBuilder_NextArgIndex(t *testing.T) {
	wb := newWhereBuilder()

	if wb.NextArgIndex() != 1 {
		t.Errorf("expected initial NextArgIndex to be 1, got %d", wb.NextArgIndex())
	}

	wb.Add("kind", "compare")
	wb.AddUUID("session_id", toPgUUID(uuid.NewString()))
	wb.AddSince("created_at", time.Now())

	if wb.NextArgIndex() != 4 {
		t.Errorf("expected NextArgIndex after 3 conditions to be 4, got %d", wb.NextArgIndex())
	}

	whereClause, _ := wb.Build()
	expectedClause := " WHERE kind = $1 AND session_id = $2 AND created_at >= $3"
	if whereClause != expectedClause {
		t.Errorf("expected %q, got %q", expectedClause, whereClause)
	}
}
