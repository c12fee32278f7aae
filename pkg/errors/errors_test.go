// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, categories and IO classification

package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "missing_key_error",
			code:    errors.ErrConfigMissingKey,
			message: "missing directories",
			wantStr: "[CONFIG_MISSING_KEY] missing directories",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrFileWrite, "cannot write %s with mode %o", "file.txt", 0644)
	assert.Equal(t, "cannot write file.txt with mode 644", err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		assert.Equal(t, errors.ErrInternal, err.Code)
		assert.Equal(t, baseErr, err.Wrapped)
		assert.Equal(t, "[INTERNAL] internal error: base error", err.Error())
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})
}

func TestWithDetails(t *testing.T) {
	err := errors.New(errors.ErrValidation, "bad name").
		WithDetail("name", "..").
		WithDetails(map[string]interface{}{"path": "a/..", "depth": 2})

	assert.Equal(t, "..", err.Details["name"])
	assert.Equal(t, "a/..", err.Details["path"])
	assert.Equal(t, 2, err.Details["depth"])
	assert.Equal(t, err.Details, errors.GetErrorDetails(err))
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrPatternInvalid, "error 1")
	err2 := errors.New(errors.ErrPatternInvalid, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.True(t, stderrors.Is(fmt.Errorf("outer: %w", err1), err2))
}

func TestCategories(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want errors.Category
	}{
		{errors.ErrConfigParse, errors.CategoryConfig},
		{errors.ErrConfigMissingKey, errors.CategoryConfig},
		{errors.ErrValidation, errors.CategoryValidation},
		{errors.ErrPatternInvalid, errors.CategoryPattern},
		{errors.ErrFileNotFound, errors.CategoryIO},
		{errors.ErrNotADirectory, errors.CategoryIO},
		{errors.ErrFileWrite, errors.CategoryIO},
		{errors.ErrPartialFailure, errors.CategoryIO},
		{errors.ErrInternal, errors.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := errors.New(tt.code, "x")
			assert.Equal(t, tt.want, err.Category())
			assert.True(t, errors.IsCategory(fmt.Errorf("wrapped: %w", err), tt.want))
		})
	}

	assert.False(t, errors.IsCategory(stderrors.New("plain"), errors.CategoryIO))
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrDirNotFound, "not found"),
			code:     errors.ErrDirNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrDirNotFound, "not found"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrFileAccess, "denied"),
			code:     errors.ErrFileAccess,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrDirNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrDirNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrPatternInvalid, errors.GetErrorCode(errors.New(errors.ErrPatternInvalid, "bad")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("standard error")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestFromIO(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback errors.ErrorCode
		want     errors.ErrorCode
	}{
		{"not_exist", &fs.PathError{Op: "open", Path: "a", Err: fs.ErrNotExist}, errors.ErrFileRead, errors.ErrFileNotFound},
		{"permission", &fs.PathError{Op: "open", Path: "a", Err: fs.ErrPermission}, errors.ErrFileWrite, errors.ErrPermission},
		{"other", stderrors.New("disk on fire"), errors.ErrFileWrite, errors.ErrFileWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.FromIO(tt.err, "a", tt.fallback)
			assert.Equal(t, tt.want, err.Code)
			assert.Equal(t, "a", err.Details["path"])
			assert.True(t, stderrors.Is(err, tt.err))
		})
	}

	assert.Nil(t, errors.FromIO(nil, "a", errors.ErrFileRead))
}

func TestTip(t *testing.T) {
	assert.Contains(t, errors.Tip(errors.New(errors.ErrPatternInvalid, "bad")), "ignore pattern syntax")
	assert.Empty(t, errors.Tip(stderrors.New("plain")))
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	configErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load config")

	assert.True(t, errors.IsErrorCode(configErr, errors.ErrConfigLoad))

	var skErr *errors.SkeletorError
	if assert.True(t, stderrors.As(configErr.Unwrap(), &skErr)) {
		assert.Equal(t, errors.ErrFileAccess, skErr.Code)
	}

	assert.True(t, stderrors.Is(configErr, rootCause))
}
