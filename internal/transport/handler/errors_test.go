package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/niklvrr/issuetracker/internal/usecase/service"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"not found", service.ErrIssueNotFound, http.StatusNotFound, "NOT_FOUND", "issue not found"},
		{"version conflict", service.WrapError(service.ErrVersionConflict, errors.New("supplied version 1, stored version 2")),
			http.StatusConflict, "VERSION_CONFLICT",
			"issue was modified by another request, reload and retry: supplied version 1, stored version 2"},
		{"invalid transition", service.ErrInvalidTransition, http.StatusBadRequest, "INVALID_TRANSITION", "only resolved issues can be closed"},
		{"invalid format", service.ErrInvalidFormat, http.StatusBadRequest, "INVALID_FORMAT", "only CSV files are accepted"},
		{"already exists", service.ErrUserExists, http.StatusBadRequest, "ALREADY_EXISTS", "username or email already registered"},
		{"transaction failed hides cause", service.WrapError(service.ErrTransactionFailed, errors.New("pq: deadlock")),
			http.StatusInternalServerError, "TRANSACTION_FAILED", "transaction failed"},
		{"wrapped domain error", fmt.Errorf("outer: %w", service.ErrCommentNotFound), http.StatusNotFound, "NOT_FOUND", "comment not found"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := HandleError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}
