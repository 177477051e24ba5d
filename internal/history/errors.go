package history

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes history load errors.
type ErrorCode string

const (
	// ErrCodeConfig indicates a missing or unreadable history log; raised
	// before any parsing starts.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeParse indicates a malformed record; the whole load aborts,
	// there is no partial-success mode.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
)

// Error is a load failure with a category, a row reference when one is
// known, and the underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Row     int // 1-based data row, 0 when not row-specific
	Err     error
}

func (e *Error) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Code, e.Row, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a history configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var he *Error
	return errors.As(err, &he) && he.Code == ErrCodeConfig
}

// IsParseError reports whether err is a history parse error.
func IsParseError(err error) bool {
	var he *Error
	return errors.As(err, &he) && he.Code == ErrCodeParse
}

func configError(message string, err error) *Error {
	return &Error{Code: ErrCodeConfig, Message: message, Err: err}
}

func parseError(row int, message string, err error) *Error {
	return &Error{Code: ErrCodeParse, Message: message, Row: row, Err: err}
}
