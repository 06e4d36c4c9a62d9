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

// TestJobApplicationFlow: работодатель публикует вакансию, соискатель
// с подтвержденными навыками подает заявку, работодатель двигает статус
func TestJobApplicationFlow(t *testing.T) {
	ts := GetTestServer(t)

	employerToken, employer := helpers.CreateAndLoginUser(t, ts, "Hiring Employer", models.UserRoleEmployer)
	learnerToken, learner := helpers.CreateAndLoginUser(t, ts, "Skilled Learner", models.UserRoleLearner)

	// Кредиты по обоим требуемым навыкам
	helpers.CreateVerifiedSkill(t, ts.DB, learner.ID, "golang", 90, time.Now().AddDate(0, 0, -10))
	helpers.CreateVerifiedSkill(t, ts.DB, learner.ID, "sql", 80, time.Now().AddDate(0, 0, -10))

	// Вакансия через API
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/jobs", employerToken, map[string]interface{}{
		"title":            "Backend engineer, procurement APIs",
		"description":      "Design and operate the tender publication pipeline for county governments.",
		"required_skills":  []string{"golang", "sql"},
		"experience_level": "intermediate",
		"location":         "Nairobi",
		"remote":           true,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Job creation should succeed. Body: "+bodyStr)

	var jobEnvelope struct {
		Data models.JobPosting `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &jobEnvelope))
	job := jobEnvelope.Data

	// Черновик не принимает заявки, активируем
	if job.Status != models.JobActive {
		res, bodyStr = ts.SendRequest(t, http.MethodPut, "/api/jobs/"+job.ID, employerToken, map[string]interface{}{
			"status": "active",
		})
		require.Equal(t, http.StatusOK, res.StatusCode, "Job activation should succeed. Body: "+bodyStr)
	}

	// Подходящие вакансии для соискателя
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/applications/matched-jobs", learnerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Matched jobs should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, job.ID, "Learner with both skills should match the job")
	assert.Contains(t, bodyStr, `"match_score"`)
	assert.Contains(t, bodyStr, `"skill_match":100`)

	// Заявка
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/applications", learnerToken, map[string]interface{}{
		"job_id":       job.ID,
		"cover_letter": "I have shipped several Go services against PostgreSQL.",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "Application should succeed. Body: "+bodyStr)

	var applicationEnvelope struct {
		Data models.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &applicationEnvelope))
	application := applicationEnvelope.Data
	assert.Equal(t, models.ApplicationPending, application.Status)
	require.NotNil(t, application.MatchScore)
	assert.GreaterOrEqual(t, *application.MatchScore, 60.0)

	// Повторная заявка на ту же вакансию отбивается
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/applications", learnerToken, map[string]interface{}{
		"job_id": job.ID,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Duplicate application must be rejected")

	// Мои заявки
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/applications/my-applications", learnerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, application.ID)

	// Работодатель видит заявки с разбором соответствия
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/applications/job/"+job.ID, employerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Employer should list applications. Body: "+bodyStr)
	assert.Contains(t, bodyStr, application.ID)
	assert.Contains(t, bodyStr, `"matched_skills"`)

	// Соискатель не может менять статус чужой заявки
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/applications/"+application.ID+"/status", learnerToken, map[string]interface{}{
		"status": "accepted",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// pending -> reviewed -> shortlisted
	res, bodyStr = ts.SendRequest(t, http.MethodPut, "/api/applications/"+application.ID+"/status", employerToken, map[string]interface{}{
		"status": "reviewed",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Status update should succeed. Body: "+bodyStr)

	res, bodyStr = ts.SendRequest(t, http.MethodPut, "/api/applications/"+application.ID+"/status", employerToken, map[string]interface{}{
		"status": "shortlisted",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Shortlisting should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, `"status":"shortlisted"`)

	_ = employer
}

// TestMatchedJobs_BelowThreshold: без кредитов по требуемым навыкам
// вакансия не проходит порог соответствия
func TestMatchedJobs_BelowThreshold(t *testing.T) {
	ts := GetTestServer(t)

	_, employer := helpers.CreateAndLoginUser(t, ts, "Picky Employer", models.UserRoleEmployer)
	learnerToken, _ := helpers.CreateAndLoginUser(t, ts, "Unskilled Learner", models.UserRoleLearner)

	job := helpers.CreateJobPosting(t, ts.DB, employer.ID, []string{"react", "python"}, models.JobActive)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/applications/matched-jobs", learnerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, bodyStr, job.ID, "Job should not match a learner with no verified skills")
}

func TestApply_InactiveJob(t *testing.T) {
	ts := GetTestServer(t)

	_, employer := helpers.CreateAndLoginUser(t, ts, "Dormant Employer", models.UserRoleEmployer)
	learnerToken, learner := helpers.CreateAndLoginUser(t, ts, "Eager Learner", models.UserRoleLearner)
	helpers.CreateVerifiedSkill(t, ts.DB, learner.ID, "golang", 85, time.Now())

	job := helpers.CreateJobPosting(t, ts.DB, employer.ID, []string{"golang"}, models.JobClosed)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/applications", learnerToken, map[string]interface{}{
		"job_id": job.ID,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Closed job must not accept applications. Body: "+bodyStr)
}
