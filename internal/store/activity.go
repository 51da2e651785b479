// Package store persists the activity log in PostgreSQL.
//
// The log is an operational trail of filter applies, resets and comparisons.
// Sessions never read it back: browsing state lives only in memory.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS activity_log (
	id           BIGSERIAL PRIMARY KEY,
	kind         TEXT        NOT NULL,
	session_id   UUID,
	ip_address   INET,
	user_agent   TEXT,
	criteria     JSONB,
	firm_ids     TEXT[]      NOT NULL DEFAULT '{}',
	result_count INTEGER     NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS activity_log_created_at_idx ON activity_log (created_at DESC);
CREATE INDEX IF NOT EXISTS activity_log_session_idx ON activity_log (session_id);
`

const selectColumns = `SELECT id, kind, session_id, ip_address, user_agent, criteria,
	firm_ids, result_count, created_at FROM activity_log`

// DefaultRecentLimit caps Recent when no limit is given.
const DefaultRecentLimit = 100

// ActivityStore reads and writes activity_log.
type ActivityStore struct {
	db DBTX
}

var _ core.ActivityRecorder = (*ActivityStore)(nil)

// NewActivityStore creates a store on db.
func NewActivityStore(db DBTX) *ActivityStore {
	return &ActivityStore{db: db}
}

// EnsureSchema creates the table and indexes if they are missing.
func (s *ActivityStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure activity schema: %w", err)
	}
	return nil
}

// Record inserts one entry. The zero CreatedAt lets the database stamp it.
func (s *ActivityStore) Record(ctx context.Context, e core.ActivityEntry) error {
	var criteria []byte
	if e.Criteria != nil {
		var err error
		criteria, err = json.Marshal(e.Criteria)
		if err != nil {
			return fmt.Errorf("encode criteria: %w", err)
		}
	}

	firmIDs := e.FirmIDs
	if firmIDs == nil {
		firmIDs = []string{}
	}

	createdAt := pgtype.Timestamptz{Time: e.CreatedAt, Valid: !e.CreatedAt.IsZero()}

	_, err := s.db.Exec(ctx, `INSERT INTO activity_log
		(kind, session_id, ip_address, user_agent, criteria, firm_ids, result_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))`,
		string(e.Kind),
		toPgUUID(e.SessionID),
		toInet(e.IPAddress),
		toPgText(e.UserAgent),
		criteria,
		firmIDs,
		e.ResultCount,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity %s: %w", e.Kind, err)
	}
	return nil
}

// RecentOptions narrows a Recent query. Zero fields are ignored.
type RecentOptions struct {
	Kind      core.ActivityKind
	SessionID string
	Since     time.Time
	Limit     int
}

// Recent returns the newest entries first.
func (s *ActivityStore) Recent(ctx context.Context, opts RecentOptions) ([]core.ActivityEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	wb := newWhereBuilder()
	wb.Add("kind", string(opts.Kind))
	if opts.SessionID != "" {
		id := toPgUUID(opts.SessionID)
		if !id.Valid {
			// Session IDs are UUIDs; anything else matches nothing.
			return []core.ActivityEntry{}, nil
		}
		wb.AddUUID("session_id", id)
	}
	wb.AddSince("created_at", opts.Since)
	where, args := wb.Build()

	query := selectColumns + where + fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", wb.NextArgIndex())
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	entries := make([]core.ActivityEntry, 0)
	for rows.Next() {
		entry, err := scanActivityRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read activity: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than retentionDays and returns how many went.
func (s *ActivityStore) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %d days", retentionDays)
	}
	tag, err := s.db.Exec(ctx,
		`DELETE FROM activity_log WHERE created_at < now() - make_interval(days => $1)`,
		retentionDays,
	)
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanActivityRow scans one row of selectColumns.
func scanActivityRow(row pgx.Row) (core.ActivityEntry, error) {
	var (
		id          int64
		kind        string
		sessionID   pgtype.UUID
		ipAddress   *netip.Addr
		userAgent   pgtype.Text
		criteria    []byte
		firmIDs     []string
		resultCount int32
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &kind, &sessionID, &ipAddress, &userAgent, &criteria,
		&firmIDs, &resultCount, &createdAt); err != nil {
		return core.ActivityEntry{}, fmt.Errorf("scan activity: %w", err)
	}

	entry := core.ActivityEntry{
		ID:          id,
		Kind:        core.ActivityKind(kind),
		SessionID:   pgUUIDToString(sessionID),
		FirmIDs:     firmIDs,
		ResultCount: int(resultCount),
		CreatedAt:   createdAt.Time,
	}
	if ipAddress != nil {
		entry.IPAddress = ipAddress.String()
	}
	if userAgent.Valid {
		entry.UserAgent = userAgent.String
	}
	if len(criteria) > 0 {
		var c core.FilterCriteria
		if err := json.Unmarshal(criteria, &c); err != nil {
			return core.ActivityEntry{}, fmt.Errorf("decode criteria of activity %d: %w", id, err)
		}
		entry.Criteria = &c
	}
	return entry, nil
}
