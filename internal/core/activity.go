package core

import (
	"context"
	"time"
)

// ActivityKind names a recorded user action.
type ActivityKind string

const (
	ActivityFilterApply ActivityKind = "filter_apply"
	ActivityFilterReset ActivityKind = "filter_reset"
	ActivityCompare     ActivityKind = "compare"
)

// ActivityEntry is one recorded action. It is an operational trail only;
// sessions never restore state from it.
type ActivityEntry struct {
	ID          int64           `json:"id"`
	Kind        ActivityKind    `json:"kind"`
	SessionID   string          `json:"sessionId"`
	IPAddress   string          `json:"ipAddress,omitempty"`
	UserAgent   string          `json:"userAgent,omitempty"`
	Criteria    *FilterCriteria `json:"criteria,omitempty"`
	FirmIDs     []string        `json:"firmIds,omitempty"`
	ResultCount int             `json:"resultCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ActivityRecorder persists activity entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// NopRecorder discards every entry. Used when no database is configured.
type NopRecorder struct{}

// Record implements ActivityRecorder.
func (NopRecorder) Record(context.Context, ActivityEntry) error { return nil }
