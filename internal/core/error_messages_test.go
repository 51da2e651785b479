package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "stale response is never shown",
			err:         fmt.Errorf("apply: %w", ErrStaleResponse),
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "fetch failure maps correctly",
			err:         fmt.Errorf("%w: GET /api/firms: status 502 Bad Gateway", ErrFetchFailed),
			wantCode:    "CAT001",
			wantMessage: "The firm catalog could not be reached",
		},
		{
			name:        "fetch failure wins over wrapped timeout",
			err:         fmt.Errorf("%w: %w", ErrFetchFailed, context.DeadlineExceeded),
			wantCode:    "CAT001",
			wantMessage: "The firm catalog could not be reached",
		},
		{
			name:        "not found maps correctly",
			err:         fmt.Errorf("firm %q: %w", "gone", ErrNotFound),
			wantCode:    "CAT002",
			wantMessage: "That firm is no longer in the catalog",
		},
		{
			name:        "selection limit maps before validation",
			err:         ErrSelectionLimitReached,
			wantCode:    "SEL001",
			wantMessage: "You can compare at most 4 firms",
		},
		{
			name:        "validation maps correctly",
			err:         fmt.Errorf("%w: min_profit_split must be 0-100", ErrValidationRejected),
			wantCode:    "VAL001",
			wantMessage: "One of the filter values is not allowed",
		},
		{
			name:        "bare cancellation maps correctly",
			err:         context.Canceled,
			wantCode:    "REQ001",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "bare timeout maps correctly",
			err:         fmt.Errorf("statistics: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("Rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error returns empty string",
			err:  nil,
			want: "",
		},
		{
			name: "stale response returns empty string",
			err:  ErrStaleResponse,
			want: "",
		},
		{
			name: "formats with code and action",
			err:  ErrSelectionLimitReached,
			want: "You can compare at most 4 firms (Code: SEL001). Remove a firm from the comparison before adding another",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUserError(tt.err); got != tt.want {
				t.Errorf("FormatUserError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"stale", ErrStaleResponse, false},
		{"fetch failure", ErrFetchFailed, true},
		{"selection limit", ErrSelectionLimitReached, true},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
