package logging

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error {
	return e.err
}

type mockTransaction struct {
	rollbackErr error
}

func (m *mockTransaction) Rollback() error {
	return m.rollbackErr
}

func TestSafeClose(t *testing.T) {
	t.Run("closes a dataset file without logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		f, err := os.Create(filepath.Join(t.TempDir(), "ferry.db"))
		require.NoError(t, err)

		SafeCloseWithLogging(f, logger, "close_dataset")

		assert.Empty(t, buf.String())
	})

	t.Run("logs error when close fails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{err: assert.AnError}, logger, "close_dataset")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"close_dataset"`)
	})

	t.Run("nil closer is ignored", func(t *testing.T) {
		SafeCloseWithLogging(nil, nil, "noop")
	})
}

func TestSafeRollback(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantError bool
	}{
		{name: "successful rollback", err: nil},
		{name: "already committed", err: sql.ErrTxDone},
		{name: "wrapped already committed", err: fmt.Errorf("rollback: %w", sql.ErrTxDone)},
		{name: "real failure", err: errors.New("disk I/O error"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewStructuredLogger(&buf, slog.LevelInfo)

			SafeRollbackWithLogging(&mockTransaction{rollbackErr: tt.err}, logger, "build_dataset")

			if tt.wantError {
				assert.Contains(t, buf.String(), `"msg":"failed to rollback transaction"`)
				assert.Contains(t, buf.String(), `"operation":"build_dataset"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestHandleDeferredError(t *testing.T) {
	t.Run("cleanup failure becomes the returned error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		run := func() (err error) {
			defer HandleDeferredError(&err, func() error {
				return assert.AnError
			}, logger, "close_dataset")
			return nil
		}

		err := run()
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "close_dataset failed")
		assert.Contains(t, buf.String(), `"msg":"deferred operation failed"`)
	})

	t.Run("original error takes precedence", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		original := errors.New("import failed")

		run := func() (err error) {
			defer HandleDeferredError(&err, func() error {
				return assert.AnError
			}, logger, "close_dataset")
			return original
		}

		err := run()
		assert.Equal(t, original, err)
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
	})
}
