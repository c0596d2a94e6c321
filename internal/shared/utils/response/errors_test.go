package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ticketflow/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("event x: %w", apperrors.ErrSoldOut), http.StatusConflict, "sold_out"},
		{fmt.Errorf("ticket y: %w", apperrors.ErrAlreadyRedeemed), http.StatusConflict, "already_redeemed"},
		{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{fmt.Errorf("qr: %w", apperrors.ErrArtifact), http.StatusInternalServerError, "artifact_error"},
		{errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, _ := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRespondErrorHidesServerDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, errors.New("pq: password authentication failed"))

	var body StandardApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Nil(t, body.Errors)
}

func TestRespondValidationListsFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type req struct {
		Title string `validate:"required"`
	}
	err := validator.New().Struct(req{})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondValidation(c, err)

	var body struct {
		Code   string            `json:"code"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Code)
	assert.Equal(t, "required", body.Errors["Title"])
}
