package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusForKind(t *testing.T) {
	tests := []struct {
		kind     shared.ErrorKind
		expected int
	}{
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindConflict, http.StatusConflict},
		{shared.KindInvalidState, http.StatusUnprocessableEntity},
		{shared.KindInvalidArgument, http.StatusBadRequest},
		{shared.KindConfiguration, http.StatusInternalServerError},
		{shared.KindInternal, http.StatusInternalServerError},
		{shared.ErrorKind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatusForKind(tt.kind))
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("client errors keep code and message", func(t *testing.T) {
		err := fmt.Errorf("issue: %w", shared.Conflict("BILL_ALREADY_ISSUED", "A bill already exists"))

		status, code, message := FromError(err)

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "BILL_ALREADY_ISSUED", code)
		assert.Equal(t, "A bill already exists", message)
	})

	t.Run("storage errors hide their details", func(t *testing.T) {
		err := shared.WrapStorageError("create", "Bill", "b-1", errors.New("connection reset"))

		status, code, message := FromError(err)

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, code)
		assert.Equal(t, InternalErrorMessage, message)
	})

	t.Run("configuration errors keep code but hide message", func(t *testing.T) {
		err := shared.ConfigurationError("STATUS_NOT_SEEDED", "approval status Pending is not seeded")

		status, code, message := FromError(err)

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "STATUS_NOT_SEEDED", code)
		assert.Equal(t, InternalErrorMessage, message)
	})

	t.Run("untyped errors are internal", func(t *testing.T) {
		status, code, _ := FromError(errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, code)
	})
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"exact pages", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
			require.NotNil(t, resp.Meta)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.totalPages, resp.Meta.TotalPages)
		})
	}
}

func TestNewErrorResponse_JSON(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse("NOT_FOUND", "Bill not found", "req-1"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errBody := decoded["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
	assert.Equal(t, "Bill not found", errBody["message"])
	assert.Equal(t, "req-1", errBody["request_id"])
}
