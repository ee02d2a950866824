package platform

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "type only",
			err:  ErrInvalidScope(),
			want: "ErrorType=invalid_scope",
		},
		{
			name: "with description",
			err:  ErrInvalidRequest().WithDescription("state is empty"),
			want: "ErrorType=invalid_request Description=state is empty",
		},
		{
			name: "with parent",
			err:  ErrServerError().WithDescription("token source exhausted").WithParent(io.EOF),
			want: "ErrorType=server_error Description=token source exhausted Parent=EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := ErrInvalidRequest().WithDescription("host is empty")

	assert.ErrorIs(t, err, ErrInvalidRequest())
	assert.NotErrorIs(t, err, ErrInvalidScope())
	assert.NotErrorIs(t, err, ErrInvalidRequest().WithDescription("other"))
}

func TestError_Unwrap(t *testing.T) {
	err := ErrServerError().WithParent(io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}
