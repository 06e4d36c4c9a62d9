package integration_test

import (
	"net/http"
	"testing"

	"procurechain_backend/internal/models"
	"procurechain_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJobBrowse: публичная витрина показывает только активные вакансии
func TestJobBrowse(t *testing.T) {
	ts := GetTestServer(t)

	_, employer := helpers.CreateAndLoginUser(t, ts, "Browsing Employer", models.UserRoleEmployer)

	activeJob := helpers.CreateJobPosting(t, ts.DB, employer.ID, []string{"nodejs"}, models.JobActive)
	draftJob := helpers.CreateJobPosting(t, ts.DB, employer.ID, []string{"nodejs"}, models.JobDraft)

	// Без токена
	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/jobs?skill=nodejs", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Public browse should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, activeJob.ID)
	assert.NotContains(t, bodyStr, draftJob.ID, "Draft postings must not be publicly visible")

	// Карточка вакансии увеличивает счетчик просмотров
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/jobs/"+activeJob.ID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, activeJob.Title)

	var viewed models.JobPosting
	require.NoError(t, ts.DB.First(&viewed, "id = ?", activeJob.ID).Error)
	assert.Equal(t, 1, viewed.ViewsCount)
}

func TestJobManage_OwnershipAndRoles(t *testing.T) {
	ts := GetTestServer(t)

	ownerToken, owner := helpers.CreateAndLoginUser(t, ts, "Job Owner", models.UserRoleEmployer)
	rivalToken, _ := helpers.CreateAndLoginUser(t, ts, "Rival Employer", models.UserRoleEmployer)
	learnerToken, _ := helpers.CreateAndLoginUser(t, ts, "Job Seeker", models.UserRoleLearner)

	job := helpers.CreateJobPosting(t, ts.DB, owner.ID, []string{"java"}, models.JobActive)

	// Соискатель не управляет вакансиями
	res, _ := ts.SendRequest(t, http.MethodPut, "/api/jobs/"+job.ID, learnerToken, map[string]interface{}{
		"title": "Hijacked title attempt",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Чужой работодатель тоже
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/jobs/"+job.ID, rivalToken, map[string]interface{}{
		"title": "Another hijack attempt",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Владелец меняет вакансию
	res, bodyStr := ts.SendRequest(t, http.MethodPut, "/api/jobs/"+job.ID, ownerToken, map[string]interface{}{
		"title": "Senior backend engineer, procurement",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Owner update should succeed. Body: "+bodyStr)
	assert.Contains(t, bodyStr, "Senior backend engineer, procurement")

	// Мои вакансии
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/jobs/my-postings", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, job.ID)
}

// TestJobDelete: черновик удаляется физически, активная вакансия закрывается
func TestJobDelete(t *testing.T) {
	ts := GetTestServer(t)

	ownerToken, owner := helpers.CreateAndLoginUser(t, ts, "Deleting Employer", models.UserRoleEmployer)

	draft := helpers.CreateJobPosting(t, ts.DB, owner.ID, []string{"cpp"}, models.JobDraft)
	active := helpers.CreateJobPosting(t, ts.DB, owner.ID, []string{"cpp"}, models.JobActive)

	res, bodyStr := ts.SendRequest(t, http.MethodDelete, "/api/jobs/"+draft.ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Draft delete should succeed. Body: "+bodyStr)

	var count int64
	ts.DB.Model(&models.JobPosting{}).Where("id = ?", draft.ID).Count(&count)
	assert.Equal(t, int64(0), count, "Draft should be physically removed")

	res, bodyStr = ts.SendRequest(t, http.MethodDelete, "/api/jobs/"+active.ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Active delete should succeed. Body: "+bodyStr)

	var closed models.JobPosting
	require.NoError(t, ts.DB.First(&closed, "id = ?", active.ID).Error)
	assert.Equal(t, models.JobClosed, closed.Status, "Published posting is closed, not removed")
}
