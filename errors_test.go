package bundle

import (
	"context"
	"errors"
	"fmt"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Status
	}{
		{name: "nil", err: nil, want: StatusSuccess},
		{name: "corruption", err: fmt.Errorf("%w: bad header", ErrFormatCorruption), want: StatusExtractionFailure},
		{name: "config", err: fmt.Errorf("%w: no cache", ErrConfig), want: StatusExtractionFailure},
		{name: "commit", err: fmt.Errorf("%w: locked", ErrCommit), want: StatusExtractionFailure},
		{name: "io", err: fmt.Errorf("%w: disk full", ErrIO), want: StatusIOError},
		{name: "cancelled", err: context.Canceled, want: StatusIOError},
		{name: "unknown", err: errors.New("boom"), want: StatusIOError},
		{
			name: "wrapped corruption",
			err:  wrapError(fmt.Errorf("%w: bad", ErrFormatCorruption), "app", ""),
			want: StatusExtractionFailure,
		},
		{
			name: "platform code wins",
			err:  platformerrors.Wrap(errors.New("boom"), platformerrors.CodeConflict, "commit"),
			want: StatusExtractionFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestWrapErrorContext(t *testing.T) {
	t.Parallel()

	err := wrapError(fmt.Errorf("%w: bad", ErrFormatCorruption), "/opt/myapp", "/cache/myapp/abc123")

	var perr platformerrors.PlatformError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, platformerrors.CodeInvalidInput, perr.Code())
	assert.Equal(t, "/opt/myapp", perr.Context()["bundle"])
	assert.Equal(t, "/cache/myapp/abc123", perr.Context()["extraction_dir"])
	assert.ErrorIs(t, err, ErrFormatCorruption)

	err = wrapError(fmt.Errorf("%w: open", ErrIO), "/opt/myapp", "")
	assert.True(t, errors.As(err, &perr))
	assert.NotContains(t, perr.Context(), "extraction_dir")
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "io-error", StatusIOError.String())
	assert.Equal(t, "extraction-failure", StatusExtractionFailure.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fresh", ModeFresh.String())
	assert.Equal(t, "concurrent", ModeConcurrent.String())
	assert.Equal(t, "reused", ModeReused.String())
	assert.Equal(t, "recovered", ModeRecovered.String())
	assert.Equal(t, "unknown", Mode(0).String())
}
