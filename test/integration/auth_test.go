package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"procurechain_backend/internal/models"
	"procurechain_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuthFlow проверяет регистрацию, логин, refresh и logout одним циклом
func TestAuthFlow(t *testing.T) {
	ts := GetTestServer(t)

	registerBody := map[string]interface{}{
		"email":     "citizen.flow@test.local",
		"password":  "super_password123",
		"full_name": "Wanjiku Kamau",
		"role":      "citizen",
	}

	regRes, regBodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", registerBody)
	assert.Equal(t, http.StatusCreated, regRes.StatusCode, "Registration should succeed. Body: "+regBodyStr)
	assert.Contains(t, regBodyStr, "access_token")
	assert.Contains(t, regBodyStr, "refresh_token")

	loginRes, loginBodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "citizen.flow@test.local",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusOK, loginRes.StatusCode, "Login should succeed. Body: "+loginBodyStr)

	var loginEnvelope struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(loginBodyStr), &loginEnvelope))
	require.NotEmpty(t, loginEnvelope.Data.AccessToken)
	require.NotEmpty(t, loginEnvelope.Data.RefreshToken)

	// Refresh выдает новую пару токенов
	refreshRes, refreshBodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/refresh", "", map[string]interface{}{
		"refresh_token": loginEnvelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, refreshRes.StatusCode, "Refresh should succeed. Body: "+refreshBodyStr)
	assert.Contains(t, refreshBodyStr, "access_token")

	// Logout отзывает refresh-токен
	logoutRes, _ := ts.SendRequest(t, http.MethodPost, "/api/auth/logout", loginEnvelope.Data.AccessToken, map[string]interface{}{
		"refresh_token": loginEnvelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, logoutRes.StatusCode)

	// Отозванный refresh-токен больше не работает
	reuseRes, reuseBodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/refresh", "", map[string]interface{}{
		"refresh_token": loginEnvelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, reuseRes.StatusCode, "Revoked token must be rejected. Body: "+reuseBodyStr)
}

// TestRegister_AdminRoleRejected: привилегированные роли нельзя выбрать при регистрации
func TestRegister_AdminRoleRejected(t *testing.T) {
	ts := GetTestServer(t)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":     "wannabe.admin@test.local",
		"password":  "super_password123",
		"full_name": "Wannabe Admin",
		"role":      "admin",
	})
	assert.NotEqual(t, http.StatusCreated, res.StatusCode, "Admin self-registration must fail. Body: "+bodyStr)
	assert.Contains(t, bodyStr, `"success":false`)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := GetTestServer(t)

	helpers.CreateUser(t, ts.DB, "duplicate@test.local", "password123", "User One", models.UserRoleCitizen)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":     "duplicate@test.local",
		"password":  "password_is_long_enough_123",
		"full_name": "User Two",
		"role":      "learner",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Duplicate email must be rejected. Body: "+bodyStr)
}

func TestLogin_BadPassword(t *testing.T) {
	ts := GetTestServer(t)

	helpers.CreateUser(t, ts.DB, "badpass@test.local", "correct-password", "Bad Pass User", models.UserRoleCitizen)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "badpass@test.local",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "Wrong password must fail. Body: "+bodyStr)
}

func TestGetMe(t *testing.T) {
	ts := GetTestServer(t)

	token, user := helpers.CreateAndLoginUser(t, ts, "Profile Owner", models.UserRoleLearner)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, user.Email)
	assert.NotContains(t, bodyStr, "password_hash", "Password hash must never leak")

	// Без токена защищенный эндпоинт закрыт
	noTokenRes, _ := ts.SendRequest(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, noTokenRes.StatusCode)
}
