// Package core provides the business logic for workbook comparison runs.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When users encounter errors, they can quote the error code
// to support staff for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Key Errors (KEY001-KEY099)
//
// Errors related to the primary key column used for row matching:
//
//	KEY001 - Key not found: The key column does not exist in the table
//	         Action: Pick one of the listed columns or compare without a key
//	         Patterns: "primary key"
//
//	KEY002 - Key has blanks: Some rows have an empty key cell
//	         Action: Fill in the blank key cells or pick another key
//	         Patterns: "blank values in primary key"
//
//	KEY003 - Key not unique: The same key value appears in multiple rows
//	         Action: Deduplicate the rows or pick another key
//	         Patterns: "duplicate values in primary key"
//
// # Sheet Errors (SHEET001-SHEET099)
//
// Errors related to worksheet selection:
//
//	SHEET001 - Sheet not found: The selected worksheet does not exist
//	           Action: Check the sheet name or index against the workbook
//	           Patterns: "worksheet"
//
//	SHEET002 - Empty sheet: The worksheet has no header row
//	           Action: Select a sheet whose first row is the header
//	           Patterns: "no header row"
//
// # Validation Errors (VAL001-VAL099)
//
// Errors related to table headers:
//
//	VAL001 - Duplicate column: Two columns share a name after trimming
//	         Action: Rename the columns so every header is unique
//	         Patterns: "duplicate column"
//
//	VAL002 - Unnamed column: A column header is empty after trimming
//	         Action: Give every column a name
//	         Patterns: "empty name after trimming"
//
// # File Errors (FILE001-FILE099)
//
// Errors related to file handling and parsing:
//
//	FILE001 - File not found: The workbook file does not exist
//	          Action: Check the path and try again
//	          Patterns: "file not found"
//
//	FILE002 - Unreadable file: The file could not be read as a workbook
//	          Action: Ensure the file is a valid .xlsx workbook
//	          Patterns: "cannot read"
//
//	FILE003 - File too large: The upload exceeds the size limit
//	          Action: Reduce the file size and try again
//	          Patterns: "request body too large"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a workbook to upload
//	          Patterns: "no file provided"
//
// # Comparison Errors (CMP001-CMP099)
//
// Errors related to the comparison run itself:
//
//	CMP001 - System busy: Too many comparisons in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent comparisons"
//
//	CMP002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	CMP003 - Request timeout: Request timed out
//	         Action: Try smaller files or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
// Errors related to request throttling:
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones ("blank values in primary key" must come
// before "primary key").
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error
package core

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

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Key Errors (KEY001-KEY003)
	// These errors occur when the chosen key column cannot identify rows.
	// =========================================================================
	{
		pattern: "blank values in primary key",
		msg: UserMessage{
			Message: "Some rows have an empty value in the key column",
			Action:  "Fill in the blank key cells or pick another key",
			Code:    "KEY002",
		},
	},
	{
		pattern: "duplicate values in primary key",
		msg: UserMessage{
			Message: "The key column has repeated values",
			Action:  "Deduplicate the rows or pick another key",
			Code:    "KEY003",
		},
	},
	{
		pattern: "primary key",
		msg: UserMessage{
			Message: "The key column was not found",
			Action:  "Pick one of the file's columns or compare without a key",
			Code:    "KEY001",
		},
	},

	// =========================================================================
	// Sheet Errors (SHEET001-SHEET002)
	// These errors occur when the selected worksheet cannot be used.
	// =========================================================================
	{
		pattern: "no header row",
		msg: UserMessage{
			Message: "The selected sheet is empty",
			Action:  "Select a sheet whose first row is the header",
			Code:    "SHEET002",
		},
	},
	{
		pattern: "worksheet",
		msg: UserMessage{
			Message: "The selected worksheet does not exist",
			Action:  "Check the sheet name or index against the workbook",
			Code:    "SHEET001",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL002)
	// These errors occur when a table's headers are unusable.
	// =========================================================================
	{
		pattern: "duplicate column",
		msg: UserMessage{
			Message: "Two columns share the same name",
			Action:  "Rename the columns so every header is unique",
			Code:    "VAL001",
		},
	},
	{
		pattern: "empty name after trimming",
		msg: UserMessage{
			Message: "A column has no name",
			Action:  "Give every column a name",
			Code:    "VAL002",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE004)
	// These errors occur when reading uploaded or on-disk workbooks.
	// =========================================================================
	{
		pattern: "file not found",
		msg: UserMessage{
			Message: "The workbook file does not exist",
			Action:  "Check the path and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "cannot read",
		msg: UserMessage{
			Message: "The file could not be read as a workbook",
			Action:  "Ensure the file is a valid .xlsx workbook",
			Code:    "FILE002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload exceeds the size limit",
			Action:  "Reduce the file size and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a workbook to upload",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Comparison Errors (CMP001-CMP003)
	// These errors occur around the comparison run itself.
	// =========================================================================
	{
		pattern: "too many concurrent comparisons",
		msg: UserMessage{
			Message: "System is busy with other comparisons",
			Action:  "Please wait a moment and try again",
			Code:    "CMP001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "CMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try smaller files or check your connection",
			Code:    "CMP003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// These errors occur when request limits are exceeded.
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("file1 has duplicate values in primary key \"id\"")
//	msg := MapError(err)
//	// msg.Code == "KEY003"
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "The key column has repeated values (Code: KEY003). Deduplicate the rows or pick another key"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean
// message for users.
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

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. The returned UserError preserves the original
// technical error for logging via Unwrap(), while providing a clean user
// message via Error().
//
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
