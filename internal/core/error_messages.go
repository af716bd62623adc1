package core

// error_messages.go maps technical errors to operator-facing messages with
// codes for support reference.
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Unsupported format: only .csv, .xlsx and .json files can be audited
//	IMP002 - Missing column: a required column is missing from the file
//	IMP003 - Invalid quantity: a quantity cell is not a whole number
//	IMP004 - File not found: the file does not exist or cannot be opened
//	IMP005 - File too large: the file exceeds the configured size limit
//	IMP006 - Malformed file: the file could not be parsed
//	IMP000 - Import failed: any other import failure
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Nothing to export: no product has a variance
//	EXP002 - Invalid directory: the export directory does not exist
//	EXP003 - Unsupported format: the session format cannot be written
//	EXP000 - Export failed: any other export failure
//
// # Session Errors
//
//	SKU001 - Product not found: no product has the entered SKU
//	SES001 - Not allowed now: the operation does not fit the session stage
//
// # Default Error (ERR000)
//
// Within a category, patterns are matched case-insensitively with
// strings.Contains and the first match wins.

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

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var importPatterns = []errorPattern{
	{
		pattern: ErrUnsupportedFormat.Error(),
		msg: UserMessage{
			Message: "This file type cannot be audited",
			Action:  "Use a .csv, .xlsx or .json file",
			Code:    "IMP001",
		},
	},
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "A required column is missing from the file",
			Action:  "Include Product Name, In Stock and SKU columns",
			Code:    "IMP002",
		},
	},
	{
		pattern: "invalid quantity",
		msg: UserMessage{
			Message: "A quantity is not a whole number",
			Action:  "Fix the In Stock, Counted and Variance cells named in the log",
			Code:    "IMP003",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "A quantity is not a whole number",
			Action:  "Fix the In Stock, Counted and Variance cells named in the log",
			Code:    "IMP003",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The file could not be found",
			Action:  "Check the path and try again",
			Code:    "IMP004",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the maximum size",
			Action:  "Split the product list or raise AUDIT_MAX_FILE_SIZE",
			Code:    "IMP005",
		},
	},
	{
		pattern: "parse",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Re-save the file from your spreadsheet program and try again",
			Code:    "IMP006",
		},
	},
}

var importDefault = UserMessage{
	Message: "The product list could not be imported",
	Action:  "Check the file and try again",
	Code:    "IMP000",
}

var exportPatterns = []errorPattern{
	{
		pattern: ErrEmptyExport.Error(),
		msg: UserMessage{
			Message: "No product has a variance, so there is nothing to export",
			Action:  "No file was written",
			Code:    "EXP001",
		},
	},
	{
		pattern: ErrInvalidDirectory.Error(),
		msg: UserMessage{
			Message: "The export folder does not exist",
			Action:  "Choose an existing folder and finish the audit again",
			Code:    "EXP002",
		},
	},
	{
		pattern: ErrUnsupportedFormat.Error(),
		msg: UserMessage{
			Message: "The audit cannot be written in this format",
			Action:  "Restart the audit from a .csv, .xlsx or .json file",
			Code:    "EXP003",
		},
	},
}

var exportDefault = UserMessage{
	Message: "The audit file could not be written",
	Action:  "Check folder permissions and finish the audit again",
	Code:    "EXP000",
}

var (
	notFoundMessage = UserMessage{
		Message: "No product has this SKU",
		Action:  "Check the SKU and try again",
		Code:    "SKU001",
	}
	stateMessage = UserMessage{
		Message: "That is not allowed at this stage of the audit",
		Action:  "Counting ends once the audit is reconciled",
		Code:    "SES001",
	}
)

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := session.FindBySKU("nope")
//	msg := MapError(err)
//	// msg.Code == "SKU001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var impErr *ImportError
	var expErr *ExportError

	switch {
	case errors.Is(err, ErrProductNotFound):
		return notFoundMessage
	case errors.Is(err, ErrSessionState):
		return stateMessage
	case errors.As(err, &expErr):
		return matchPattern(exportPatterns, err, exportDefault)
	case errors.As(err, &impErr):
		return matchPattern(importPatterns, err, importDefault)
	}
	return defaultMessage
}

func matchPattern(patterns []errorPattern, err error, fallback UserMessage) UserMessage {
	errStr := strings.ToLower(err.Error())
	for _, ep := range patterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return fallback
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

// IsUserFacing reports whether err maps to something other than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
