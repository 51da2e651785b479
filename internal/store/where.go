package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// whereBuilder assembles a parameterized WHERE clause. Empty values are
// skipped so optional filters need no branching at the call site.
type whereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{argIndex: 1}
}

// Add appends "column = $n" unless value is empty.
func (wb *whereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = $%d", column, wb.argIndex))
	wb.args = append(wb.args, value)
	wb.argIndex++
}

// AddUUID appends "column = $n" unless id is invalid.
func (wb *whereBuilder) AddUUID(column string, id pgtype.UUID) {
	if !id.Valid {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = $%d", column, wb.argIndex))
	wb.args = append(wb.args, id)
	wb.argIndex++
}

// AddSince appends "column >= $n" unless since is zero.
func (wb *whereBuilder) AddSince(column string, since time.Time) {
	if since.IsZero() {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s >= $%d", column, wb.argIndex))
	wb.args = append(wb.args, since)
	wb.argIndex++
}

// NextArgIndex is the placeholder number for the next argument, used to
// append LIMIT/OFFSET after Build.
func (wb *whereBuilder) NextArgIndex() int {
	return wb.argIndex
}

// Build returns the clause with a leading space, or "" and nil args when no
// condition was added.
func (wb *whereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}
