package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/recent-work/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "no_watch_dirs",
			code:    errors.ErrNoWatchDirs,
			message: "no valid watch directories",
			wantStr: "[NO_WATCH_DIRS] no valid watch directories",
		},
		{
			name:    "invalid_config",
			code:    errors.ErrConfigValid,
			message: "max_files must be positive",
			wantStr: "[CONFIG_INVALID] max_files must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrDirCreate, "cannot create %s", "/tmp/out")
	assert.Equal(t, "cannot create /tmp/out", err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrWatchStart, "cannot start watcher")

		assert.Equal(t, errors.ErrWatchStart, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[WATCH_START] cannot start watcher: base error", err.Error())
		assert.True(t, stderrors.Is(err, baseErr))
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})
}

func TestErrorCodeHelpers(t *testing.T) {
	err := errors.Wrapf(stderrors.New("boom"), errors.ErrStateWrite, "write %s", "state.json").
		WithDetail("path", "/out/.recent-work/state.json")
	outer := fmt.Errorf("outer: %w", err)

	assert.True(t, errors.IsErrorCode(outer, errors.ErrStateWrite))
	assert.False(t, errors.IsErrorCode(outer, errors.ErrStateLoad))
	assert.Equal(t, errors.ErrStateWrite, errors.GetErrorCode(outer))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))

	details := errors.GetErrorDetails(outer)
	require.NotNil(t, details)
	assert.Equal(t, "/out/.recent-work/state.json", details["path"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.Wrap(stderrors.New("x"), errors.ErrNoWatchDirs, "none")
	assert.True(t, stderrors.Is(err, errors.New(errors.ErrNoWatchDirs, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrWatchStart, "")))
}
