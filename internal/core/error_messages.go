package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// Codes:
//
//	CAT001 - Catalog unavailable (ErrFetchFailed)
//	CAT002 - Firm not found (ErrNotFound)
//	SEL001 - Comparison already holds four firms (ErrSelectionLimitReached)
//	VAL001 - Filter value rejected (ErrValidationRejected)
//	REQ001 - Request cancelled ("context canceled")
//	REQ002 - Request timed out ("context deadline exceeded")
//	RATE001 - Too many requests ("rate limit")
//	ERR000 - Anything else; check the logs for the technical error
//
// Sentinel matches are tried first in table order, then substring patterns,
// so a wrapped ErrFetchFailed caused by a timeout still reports CAT001.
// ErrStaleResponse maps to the zero UserMessage: it is never shown.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

// SelectionSet's limit error must precede the generic validation entry.
var sentinelMessages = []sentinelMessage{
	{
		target: ErrFetchFailed,
		msg: UserMessage{
			Message: "The firm catalog could not be reached",
			Action:  "Your current results are unchanged; please try again in a moment",
			Code:    "CAT001",
		},
	},
	{
		target: ErrNotFound,
		msg: UserMessage{
			Message: "That firm is no longer in the catalog",
			Action:  "Refresh the list and pick another firm",
			Code:    "CAT002",
		},
	},
	{
		target: ErrSelectionLimitReached,
		msg: UserMessage{
			Message: "You can compare at most 4 firms",
			Action:  "Remove a firm from the comparison before adding another",
			Code:    "SEL001",
		},
	},
	{
		target: ErrValidationRejected,
		msg: UserMessage{
			Message: "One of the filter values is not allowed",
			Action:  "Check the filter values and apply again",
			Code:    "VAL001",
		},
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again or check your connection",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Nil and stale-response errors yield the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil || IsStale(err) {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific, displayable message.
func IsUserFacing(err error) bool {
	msg := MapError(err)
	return msg.Code != "" && msg.Code != defaultMessage.Code
}
