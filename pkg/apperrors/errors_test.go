package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("row not found")
	appErr := Wrap(cause, CodeNotFound, "procurements", "Procurement not found", http.StatusNotFound)

	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "Procurement not found")
	assert.Contains(t, appErr.Error(), "row not found")

	var target *AppError
	require.True(t, As(fmt.Errorf("handler: %w", appErr), &target))
	assert.Equal(t, http.StatusNotFound, target.HTTPCode)
}

// Предопределенные var-ошибки не должны мутировать при обогащении
func TestAppError_WithErrorReturnsCopy(t *testing.T) {
	enriched := ErrInvalidToken.WithError(errors.New("signature mismatch"))

	assert.Nil(t, ErrInvalidToken.Err, "Global error variable must stay untouched")
	assert.NotNil(t, enriched.Err)
	assert.Equal(t, ErrInvalidToken.Message, enriched.Message)
}

func TestAppError_MarshalHidesInternals(t *testing.T) {
	appErr := Wrap(errors.New("secret database detail"), CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret database detail")
	assert.NotContains(t, string(data), "HTTPCode")
	assert.Contains(t, string(data), `"message":"Internal server error"`)
}

func TestHandleError_EnvelopeShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, ValidationError(map[string]string{"email": "Invalid email format"}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body struct {
		Success bool              `json:"success"`
		Error   string            `json:"error"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, "Invalid email format", body.Errors["email"])
}

func TestHandleError_UnknownErrorBecomes500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, errors.New("driver: bad connection"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"success":false`)
}

func TestDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrEmailAlreadyExists, http.StatusConflict},
		{ErrDuplicateBid, http.StatusConflict},
		{ErrDuplicateEvaluation, http.StatusConflict},
		{ErrBiddingClosed, http.StatusConflict},
		{ErrInsufficientPermissions, http.StatusForbidden},
		{ErrUnsupportedSkill, http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPCode, "wrong status for %q", tc.err.Message)
	}
}
