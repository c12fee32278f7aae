package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors: unreadable or structurally wrong declarative input
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConfigMissingKey ErrorCode = "CONFIG_MISSING_KEY"
	ErrConfigValid      ErrorCode = "CONFIG_INVALID"

	// Validation errors: names or paths that must never reach the filesystem
	ErrValidation ErrorCode = "VALIDATION"

	// Pattern errors
	ErrPatternInvalid ErrorCode = "PATTERN_INVALID"

	// FileSystem errors
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrDirNotFound    ErrorCode = "DIR_NOT_FOUND"
	ErrNotADirectory  ErrorCode = "NOT_A_DIRECTORY"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrFileRead       ErrorCode = "FILE_READ"
	ErrFileWrite      ErrorCode = "FILE_WRITE"
	ErrDirCreate      ErrorCode = "DIR_CREATE"
	ErrPathConflict   ErrorCode = "PATH_CONFLICT"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"
	ErrOperationAbort ErrorCode = "OPERATION_ABORTED"

	// Run errors: some entries failed while the rest of the run went ahead
	ErrPartialFailure ErrorCode = "PARTIAL_FAILURE"
)

// Category groups error codes into the four user-facing error kinds.
type Category string

const (
	CategoryConfig     Category = "ConfigError"
	CategoryValidation Category = "ValidationError"
	CategoryPattern    Category = "PatternError"
	CategoryIO         Category = "IoError"
	CategoryOther      Category = "Error"
)

var categories = map[ErrorCode]Category{
	ErrConfigLoad:       CategoryConfig,
	ErrConfigParse:      CategoryConfig,
	ErrConfigMissingKey: CategoryConfig,
	ErrConfigValid:      CategoryConfig,
	ErrValidation:       CategoryValidation,
	ErrPatternInvalid:   CategoryPattern,
	ErrFileNotFound:     CategoryIO,
	ErrDirNotFound:      CategoryIO,
	ErrNotADirectory:    CategoryIO,
	ErrPermission:       CategoryIO,
	ErrFileRead:         CategoryIO,
	ErrFileWrite:        CategoryIO,
	ErrDirCreate:        CategoryIO,
	ErrPathConflict:     CategoryIO,
	ErrFileAccess:       CategoryIO,
	ErrPartialFailure:   CategoryIO,
}

var tips = map[ErrorCode]string{
	ErrFileNotFound:     "Check that the file path is correct and the file exists",
	ErrDirNotFound:      "Check that the directory path is correct and the directory exists",
	ErrNotADirectory:    "Point the command at a directory, not a file",
	ErrPermission:       "Check file permissions or run with appropriate privileges",
	ErrConfigParse:      "Check YAML syntax and structure",
	ErrConfigMissingKey: "Add a top-level 'directories' mapping to the configuration file",
	ErrPatternInvalid:   "Check ignore pattern syntax or escape special characters",
	ErrValidation:       "Entry names must not contain '/' or '\\' and must not be '.' or '..'",
	ErrPartialFailure:   "Fix the failed entries listed above and run the command again",
}

// SkeletorError represents a structured error with code and details
type SkeletorError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SkeletorError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SkeletorError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SkeletorError) Is(target error) bool {
	var targetErr *SkeletorError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Category returns the user-facing error kind of the code.
func (e *SkeletorError) Category() Category {
	if c, ok := categories[e.Code]; ok {
		return c
	}
	return CategoryOther
}

// New creates a new SkeletorError with the given code and message
func New(code ErrorCode, message string) *SkeletorError {
	return &SkeletorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SkeletorError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SkeletorError {
	return &SkeletorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SkeletorError
func Wrap(err error, code ErrorCode, message string) *SkeletorError {
	if err == nil {
		return nil
	}
	return &SkeletorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SkeletorError {
	if err == nil {
		return nil
	}
	return &SkeletorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// FromIO classifies a filesystem error for path. Not-exist and permission
// errors get their own codes, everything else falls back to fallback.
func FromIO(err error, path string, fallback ErrorCode) *SkeletorError {
	if err == nil {
		return nil
	}
	code := fallback
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code = ErrFileNotFound
	case errors.Is(err, fs.ErrPermission):
		code = ErrPermission
	}
	return Wrapf(err, code, "%s", path).WithDetail("path", path)
}

// WithDetail adds a detail to the error
func (e *SkeletorError) WithDetail(key string, value interface{}) *SkeletorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *SkeletorError) WithDetails(details map[string]interface{}) *SkeletorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var skErr *SkeletorError
	if errors.As(err, &skErr) {
		return skErr.Code == code
	}
	return false
}

// IsCategory checks if an error belongs to the given category
func IsCategory(err error, category Category) bool {
	var skErr *SkeletorError
	if errors.As(err, &skErr) {
		return skErr.Category() == category
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SkeletorError
func GetErrorCode(err error) ErrorCode {
	var skErr *SkeletorError
	if errors.As(err, &skErr) {
		return skErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SkeletorError
func GetErrorDetails(err error) map[string]interface{} {
	var skErr *SkeletorError
	if errors.As(err, &skErr) {
		return skErr.Details
	}
	return nil
}

// Tip returns a short hint for resolving err, or "" when there is none.
func Tip(err error) string {
	return tips[GetErrorCode(err)]
}
