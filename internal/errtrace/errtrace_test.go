package errtrace

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
)

type opaqueError struct {
	cause error
}

func (e *opaqueError) Error() string { return "request failed" }
func (e *opaqueError) Unwrap() error { return e.cause }

func TestFormat(t *testing.T) {
	base := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "single",
			err:  base,
			want: "connection refused",
		},
		{
			name: "wrapped chain",
			err:  fmt.Errorf("delete file: %w", fmt.Errorf("get operation statuses: %w", base)),
			want: "delete file\n  get operation statuses\n    connection refused",
		},
		{
			name: "custom wrapper keeps its message",
			err:  fmt.Errorf("upload: %w", &opaqueError{cause: base}),
			want: "upload\n  request failed\n    connection refused",
		},
		{
			name: "joined",
			err:  errors.Join(errors.New("first"), errors.New("second")),
			want: "2 errors occurred\n  first\n  second",
		},
		{
			name: "multierror",
			err: fmt.Errorf("clear sessions: %w", multierror.Append(nil,
				errors.New("close a"),
				fmt.Errorf("close b: %w", base),
			)),
			want: "clear sessions\n  2 errors occurred\n    close a\n    close b\n      connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.err))
		})
	}
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, IsCanceled(context.Canceled))
	assert.True(t, IsCanceled(fmt.Errorf("wait: %w", context.DeadlineExceeded)))
	assert.False(t, IsCanceled(errors.New("boom")))
	assert.False(t, IsCanceled(nil))
}
