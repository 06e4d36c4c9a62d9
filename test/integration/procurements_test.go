package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"procurechain_backend/internal/models"
	"procurechain_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcurementLifecycle: создание черновика, публикация и переходы статусов
func TestProcurementLifecycle(t *testing.T) {
	ts := GetTestServer(t)

	officerToken, _ := helpers.CreateAndLoginUser(t, ts, "Lifecycle Officer", models.UserRoleOfficer)
	citizenToken, _ := helpers.CreateAndLoginUser(t, ts, "Watchful Citizen", models.UserRoleCitizen)

	deadline := time.Now().AddDate(0, 2, 0).Format(time.RFC3339)
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/procurements", officerToken, map[string]interface{}{
		"title":               "Supply of laboratory equipment",
		"description":         "Procurement of microscopes and centrifuges for county referral hospitals.",
		"category":            "goods",
		"department":          "Health",
		"budget":              12_000_000,
		"submission_deadline": deadline,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Procurement creation should succeed. Body: "+bodyStr)

	var createEnvelope struct {
		Data models.Procurement `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &createEnvelope))
	procurement := createEnvelope.Data
	assert.Equal(t, models.ProcurementDraft, procurement.Status)
	assert.Equal(t, "KES", procurement.Currency, "Default currency applies when omitted")

	// Гражданин не создает закупки
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/procurements", citizenToken, map[string]interface{}{
		"title":               "Citizen procurement attempt",
		"description":         "This should never be accepted by the permission layer.",
		"category":            "goods",
		"budget":              1,
		"submission_deadline": deadline,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Черновик не виден в публичном реестре
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/procurements/public", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, bodyStr, procurement.ID, "Draft must not appear in public registry")

	// draft -> published
	res, bodyStr = ts.SendRequest(t, http.MethodPatch, "/api/procurements/"+procurement.ID+"/status", officerToken, map[string]interface{}{
		"status": "published",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Publishing should succeed. Body: "+bodyStr)

	// Теперь закупка в публичном реестре, без токена
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/procurements/public/"+procurement.ID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Supply of laboratory equipment")

	// Запрещенный прыжок published -> awarded
	res, bodyStr = ts.SendRequest(t, http.MethodPatch, "/api/procurements/"+procurement.ID+"/status", officerToken, map[string]interface{}{
		"status": "awarded",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Illegal transition must be rejected. Body: "+bodyStr)

	// Просроченный дедлайн при создании
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/procurements", officerToken, map[string]interface{}{
		"title":               "Procurement with a stale deadline",
		"description":         "Deadline in the past must be rejected before anything is stored.",
		"category":            "services",
		"budget":              500_000,
		"submission_deadline": time.Now().AddDate(0, 0, -1).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Past deadline must fail. Body: "+bodyStr)
}

func TestProcurementPublicFilters(t *testing.T) {
	ts := GetTestServer(t)

	_, officer := helpers.CreateAndLoginUser(t, ts, "Filtering Officer", models.UserRoleOfficer)

	published := helpers.CreateProcurement(t, ts.DB, officer.ID, models.ProcurementPublished)
	cancelled := helpers.CreateProcurement(t, ts.DB, officer.ID, models.ProcurementCancelled)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/procurements/public?category=works", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Public filter should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, published.ID)
	assert.NotContains(t, bodyStr, cancelled.ID, "Cancelled procurements are not public")
}

func TestProcurementUpdate_LockedAfterOpening(t *testing.T) {
	ts := GetTestServer(t)

	officerToken, officer := helpers.CreateAndLoginUser(t, ts, "Locked Officer", models.UserRoleOfficer)
	procurement := helpers.CreateProcurement(t, ts.DB, officer.ID, models.ProcurementUnderEvaluation)

	res, bodyStr := ts.SendRequest(t, http.MethodPut, "/api/procurements/"+procurement.ID, officerToken, map[string]interface{}{
		"budget": 9_999_999,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Terms are frozen once bidding opened. Body: "+bodyStr)
}
