package core

// error_messages.go maps technical errors to user-facing messages with codes.
//
// Users quote the code to support staff; support looks it up here.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key             Patterns: "duplicate key"
//	DB002 - Unique constraint         Patterns: "unique constraint", "violates unique"
//	DB003 - Check constraint          Patterns: "violates check constraint"
//	DB004 - Connection refused        Patterns: "connection refused"
//	DB005 - Connection reset          Patterns: "connection reset"
//	DB006 - Timeout                   Patterns: "timeout"
//	DB007 - Deadlock                  Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Validation failed        Patterns: "validation error"
//	VAL002 - Invalid storage size     Patterns: "storage_gb must be"
//	VAL003 - Required field           Patterns: "must not be empty"
//	VAL004 - No valid records         Patterns: "no valid records"
//	VAL005 - Invalid identifier       Patterns: "invalid record id"
//	VAL006 - Invalid enum             Patterns: "invalid enum"
//
// VAL004 is matched first because its message quotes row skip reasons. VAL006,
// VAL002 and VAL003 come before VAL001 because validation failures are wrapped
// as "validation error: <detail>" and the detail is the more useful match.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large          Patterns: "file too large"
//	FILE002 - Invalid CSV             Patterns: "invalid csv"
//	FILE003 - Encoding error          Patterns: "encoding error"
//	FILE004 - No file                 Patterns: "no file provided"
//	FILE005 - Empty file              Patterns: "empty file"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Import cancelled         Patterns: "import cancelled"
//	IMP002 - System busy              Patterns: "too many concurrent imports"
//	IMP003 - Source object missing    Patterns: "nosuchkey", "no such key"
//	IMP004 - Request cancelled        Patterns: "context canceled"
//	IMP005 - Request timeout          Patterns: "context deadline exceeded"
//
// # Records (REC001), Rate Limiting (RATE001), Default (ERR000)
//
//	REC001 - Record not found         Patterns: "record not found"
//	RATE001 - Rate limited            Patterns: "rate limit"
//	ERR000 - Unknown error            Fallback; check application logs
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is ordered: specific patterns before general ones.
var errorPatterns = []errorPattern{
	// Database constraints
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Review the file for repeated rows",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries in your CSV",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Review your data for duplicate key values",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates check constraint",
		msg: UserMessage{
			Message: "A value was rejected by the database",
			Action:  "Check provider, status and storage values",
			Code:    "DB003",
		},
	},

	// Database connectivity
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try importing a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Validation
	{
		pattern: "no valid records",
		msg: UserMessage{
			Message: "No valid records found in the file",
			Action:  "Check that the export has service and region columns",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Provider must be AWS or Azure; status must be available, ready, stopped, maintenance or warning",
			Code:    "VAL006",
		},
	},
	{
		pattern: "storage_gb must be",
		msg: UserMessage{
			Message: "Storage size must not be negative",
			Action:  "Check the storage column of the record",
			Code:    "VAL002",
		},
	},
	{
		pattern: "must not be empty",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Service and region are required for every record",
			Code:    "VAL003",
		},
	},
	{
		pattern: "validation error",
		msg: UserMessage{
			Message: "The record failed validation",
			Action:  "Correct the listed fields and try again",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid record id",
		msg: UserMessage{
			Message: "The record identifier is not valid",
			Action:  "Use the id returned by the records listing",
			Code:    "VAL005",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the export into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with data rows",
			Code:    "FILE005",
		},
	},

	// Imports
	{
		pattern: "import cancelled",
		msg: UserMessage{
			Message: "Import was cancelled",
			Action:  "Start a new import when ready",
			Code:    "IMP001",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "nosuchkey",
		msg: UserMessage{
			Message: "The export file was not found in the bucket",
			Action:  "Check the bucket and object key",
			Code:    "IMP003",
		},
	},
	{
		pattern: "no such key",
		msg: UserMessage{
			Message: "The export file was not found in the bucket",
			Action:  "Check the bucket and object key",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try importing a smaller file or check your connection",
			Code:    "IMP005",
		},
	},

	// Records
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "The record may have been deleted by an import",
			Code:    "REC001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Unmatched errors return the ERR000 fallback; nil returns the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err with its mapped message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
