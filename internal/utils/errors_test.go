package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad request", err: NewBadRequestError("No file provided"), want: http.StatusBadRequest},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", NewNotFoundError("Document not found")), want: http.StatusNotFound},
		{name: "internal", err: NewInternalError("Failed to save insights"), want: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("disk full"), want: http.StatusInternalServerError},
		{name: "nil", err: nil, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestAppError_WithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("Failed to save insights").WithCause(cause)

	assert.Equal(t, "Failed to save insights: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Document not found", NewNotFoundError("Document not found").Error())
}
