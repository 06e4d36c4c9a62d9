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

// TestAssessmentFlow: старт, сабмит кода, офлайн-оценка и выдача кредита
func TestAssessmentFlow(t *testing.T) {
	ts := GetTestServer(t)

	learnerToken, learner := helpers.CreateAndLoginUser(t, ts, "Assessed Learner", models.UserRoleLearner)
	helpers.CreateChallenge(t, ts.DB, "golang")

	// Старт оценивания
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/assessments", learnerToken, map[string]interface{}{
		"skill": "golang",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Assessment start should succeed. Body: "+bodyStr)
	assert.NotContains(t, bodyStr, "test_cases", "Test cases must not be exposed to the candidate")

	var startEnvelope struct {
		Data struct {
			Assessment models.SkillAssessment `json:"assessment"`
			Challenge  models.Challenge       `json:"challenge"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &startEnvelope))
	assessment := startEnvelope.Data.Assessment
	assert.Equal(t, models.AssessmentCreated, assessment.Status)

	// Вторая параллельная попытка по тому же навыку запрещена
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/assessments", learnerToken, map[string]interface{}{
		"skill": "golang",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Concurrent attempt for same skill must be rejected")

	// Сабмит: без ключа Gemini работает детерминированная офлайн-оценка
	submission := map[string]interface{}{
		"code":     "func reverse(head *Node) *Node {\n\tvar prev *Node\n\tfor head != nil {\n\t\thead.Next, prev, head = prev, head, head.Next\n\t}\n\treturn prev\n}",
		"language": "go",
	}
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/assessments/"+assessment.ID+"/submit", learnerToken, submission)
	require.Equal(t, http.StatusOK, res.StatusCode, "Submission should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, `"status":"completed"`)

	var submitEnvelope struct {
		Data models.SkillAssessment `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &submitEnvelope))
	require.NotNil(t, submitEnvelope.Data.Score)
	assert.GreaterOrEqual(t, *submitEnvelope.Data.Score, 70.0, "Offline grader should pass a substantial submission")

	// Повторный сабмит той же попытки невозможен
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/assessments/"+assessment.ID+"/submit", learnerToken, submission)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Проходной балл выдал кредит
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/assessments/my-skills", learnerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"golang"`, "Credential should appear in my-skills. Body: "+bodyStr)

	var credential models.VerifiedSkill
	require.NoError(t, ts.DB.First(&credential, "user_id = ? AND skill = ?", learner.ID, "golang").Error)
	assert.True(t, credential.Active)
	assert.Equal(t, assessment.ID, credential.AssessmentID)
}

func TestAssessment_UnsupportedSkill(t *testing.T) {
	ts := GetTestServer(t)

	learnerToken, _ := helpers.CreateAndLoginUser(t, ts, "Off Catalog Learner", models.UserRoleLearner)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/assessments", learnerToken, map[string]interface{}{
		"skill": "underwater-basket-weaving",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Unknown skill must fail validation. Body: "+bodyStr)
}

func TestAssessment_ForeignSubmitForbidden(t *testing.T) {
	ts := GetTestServer(t)

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "Assessment Owner", models.UserRoleLearner)
	intruderToken, _ := helpers.CreateAndLoginUser(t, ts, "Assessment Intruder", models.UserRoleLearner)
	helpers.CreateChallenge(t, ts.DB, "python")

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/assessments", ownerToken, map[string]interface{}{
		"skill": "python",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Assessment start should succeed. Body: "+bodyStr)

	var startEnvelope struct {
		Data struct {
			Assessment models.SkillAssessment `json:"assessment"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &startEnvelope))

	res, _ = ts.SendRequest(t, http.MethodPost,
		"/api/assessments/"+startEnvelope.Data.Assessment.ID+"/submit", intruderToken, map[string]interface{}{
			"code":     "print('this is not my assessment but i will try anyway')",
			"language": "python",
		})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "Submitting someone else's assessment must be forbidden")
}

func TestLeaderboard(t *testing.T) {
	ts := GetTestServer(t)

	_, first := helpers.CreateAndLoginUser(t, ts, "Leader One", models.UserRoleLearner)
	_, second := helpers.CreateAndLoginUser(t, ts, "Leader Two", models.UserRoleLearner)
	learnerToken, _ := helpers.CreateAndLoginUser(t, ts, "Leaderboard Viewer", models.UserRoleLearner)

	helpers.CreateVerifiedSkill(t, ts.DB, first.ID, "react", 95, time.Now())
	helpers.CreateVerifiedSkill(t, ts.DB, second.ID, "react", 82, time.Now())

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/assessments/leaderboard?skill=react&limit=5", learnerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Leaderboard should succeed. Body: "+bodyStr)

	var envelope struct {
		Data []struct {
			UserID string  `json:"user_id"`
			Score  float64 `json:"score"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &envelope))
	require.GreaterOrEqual(t, len(envelope.Data), 2)
	assert.Equal(t, first.ID, envelope.Data[0].UserID, "Highest score should lead")
}
