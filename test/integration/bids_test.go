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

// TestBidLifecycle проходит полный цикл: подача, оценка, ранжирование,
// награждение и каскадное отклонение проигравших
func TestBidLifecycle(t *testing.T) {
	ts := GetTestServer(t)

	officerToken, officer := helpers.CreateAndLoginUser(t, ts, "Evaluating Officer", models.UserRoleOfficer)
	vendorTokenA, vendorUserA := helpers.CreateAndLoginUser(t, ts, "Vendor Alpha", models.UserRoleVendor)
	vendorTokenB, vendorUserB := helpers.CreateAndLoginUser(t, ts, "Vendor Beta", models.UserRoleVendor)
	learnerToken, _ := helpers.CreateAndLoginUser(t, ts, "Curious Learner", models.UserRoleLearner)

	helpers.CreateVendor(t, ts.DB, vendorUserA.ID, "Alpha Construction Ltd")
	helpers.CreateVendor(t, ts.DB, vendorUserB.ID, "Beta Works Ltd")

	procurement := helpers.CreateProcurement(t, ts.DB, officer.ID, models.ProcurementPublished)

	submitPath := "/api/bids/procurement/" + procurement.ID

	// Заявка поставщика A
	res, bodyStr := ts.SendRequest(t, http.MethodPost, submitPath, vendorTokenA, map[string]interface{}{
		"bid_amount":        4_500_000,
		"delivery_timeline": "90 days from contract signing",
		"proposal_summary":  "Full resurfacing with local materials",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Vendor A bid should be accepted. Body: "+bodyStr)

	var bidEnvelopeA struct {
		Data models.Bid `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &bidEnvelopeA))
	bidA := bidEnvelopeA.Data

	// Повторная заявка того же поставщика отбивается
	res, bodyStr = ts.SendRequest(t, http.MethodPost, submitPath, vendorTokenA, map[string]interface{}{
		"bid_amount":        4_400_000,
		"delivery_timeline": "80 days",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Duplicate bid must be rejected. Body: "+bodyStr)

	// Заявка поставщика B
	res, bodyStr = ts.SendRequest(t, http.MethodPost, submitPath, vendorTokenB, map[string]interface{}{
		"bid_amount":        4_800_000,
		"delivery_timeline": "75 days from contract signing",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Vendor B bid should be accepted. Body: "+bodyStr)

	var bidEnvelopeB struct {
		Data models.Bid `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &bidEnvelopeB))
	bidB := bidEnvelopeB.Data

	// Роль без права подачи заявок получает 403
	res, _ = ts.SendRequest(t, http.MethodPost, submitPath, learnerToken, map[string]interface{}{
		"bid_amount":        1,
		"delivery_timeline": "1 day",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "Learner must not submit bids")

	// Публичный счетчик без токена
	res, bodyStr = ts.SendRequest(t, http.MethodGet, submitPath+"/count", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"bid_count":2`, "Both bids should be counted. Body: "+bodyStr)

	// Оценка: A сильнее B
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/bids/"+bidA.ID+"/evaluate", officerToken, map[string]interface{}{
		"technical_score": 85,
		"financial_score": 80,
		"comments":        "Strong technical proposal",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Evaluation of bid A should succeed. Body: "+bodyStr)

	// Повторная оценка тем же оценщиком запрещена
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/bids/"+bidA.ID+"/evaluate", officerToken, map[string]interface{}{
		"technical_score": 90,
		"financial_score": 90,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Duplicate evaluation must be rejected")

	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/bids/"+bidB.ID+"/evaluate", officerToken, map[string]interface{}{
		"technical_score": 60,
		"financial_score": 55,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Evaluation of bid B should succeed. Body: "+bodyStr)

	// Финальное ранжирование
	res, bodyStr = ts.SendRequest(t, http.MethodPost, submitPath+"/calculate-scores", officerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Score calculation should succeed. Body: "+bodyStr)

	var rankedEnvelope struct {
		Data []struct {
			BidID      string  `json:"bid_id"`
			TotalScore float64 `json:"total_score"`
			Rank       int     `json:"rank"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &rankedEnvelope))
	require.Len(t, rankedEnvelope.Data, 2)
	assert.Equal(t, bidA.ID, rankedEnvelope.Data[0].BidID, "Bid A should rank first")
	assert.Equal(t, 1, rankedEnvelope.Data[0].Rank)
	assert.InDelta(t, 165.0, rankedEnvelope.Data[0].TotalScore, 0.001)
	assert.Equal(t, 2, rankedEnvelope.Data[1].Rank)

	// Награждение победителя
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/bids/"+bidA.ID+"/award", officerToken, map[string]interface{}{
		"notes": "Best combined score",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Award should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, `"status":"awarded"`)

	// Проигравшая заявка каскадно отклонена
	var losingBid models.Bid
	require.NoError(t, ts.DB.First(&losingBid, "id = ?", bidB.ID).Error)
	assert.Equal(t, models.BidRejected, losingBid.Status)

	// Закупка перешла в awarded
	var awarded models.Procurement
	require.NoError(t, ts.DB.First(&awarded, "id = ?", procurement.ID).Error)
	assert.Equal(t, models.ProcurementAwarded, awarded.Status)

	// Мои заявки поставщика A
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/bids/vendor/my-bids", vendorTokenA, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, bidA.ID)
}

func TestBidSubmit_ClosedProcurement(t *testing.T) {
	ts := GetTestServer(t)

	officerToken, officer := helpers.CreateAndLoginUser(t, ts, "Closing Officer", models.UserRoleOfficer)
	vendorToken, vendorUser := helpers.CreateAndLoginUser(t, ts, "Late Vendor", models.UserRoleVendor)
	helpers.CreateVendor(t, ts.DB, vendorUser.ID, "Latecomer Ltd")

	procurement := helpers.CreateProcurement(t, ts.DB, officer.ID, models.ProcurementClosed)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/bids/procurement/"+procurement.ID, vendorToken, map[string]interface{}{
		"bid_amount":        1_000_000,
		"delivery_timeline": "30 days",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Closed procurement must not accept bids. Body: "+bodyStr)

	_ = officerToken
}

func TestBidDisqualify(t *testing.T) {
	ts := GetTestServer(t)

	officerToken, officer := helpers.CreateAndLoginUser(t, ts, "Strict Officer", models.UserRoleOfficer)
	vendorToken, vendorUser := helpers.CreateAndLoginUser(t, ts, "Flagged Vendor", models.UserRoleVendor)
	vendor := helpers.CreateVendor(t, ts.DB, vendorUser.ID, "Flagged Supplies Ltd")

	procurement := helpers.CreateProcurement(t, ts.DB, officer.ID, models.ProcurementOpen)
	bid := CreateTestBid(t, ts.DB, procurement.ID, vendor.ID, 2_000_000)

	// Поставщик не может дисквалифицировать заявки
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/bids/"+bid.ID+"/disqualify", vendorToken, map[string]interface{}{
		"reason": "self sabotage",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Без причины запрос не проходит валидацию
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/bids/"+bid.ID+"/disqualify", officerToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/bids/"+bid.ID+"/disqualify", officerToken, map[string]interface{}{
		"reason": "Forged compliance certificate",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Disqualification should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, `"status":"disqualified"`)
	assert.Contains(t, bodyStr, "Forged compliance certificate")
}
