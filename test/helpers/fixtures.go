package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateUser пишет пользователя напрямую в БД; сырой пароль хешируется
func CreateUser(t *testing.T, db *gorm.DB, email, password, fullName string, role models.UserRole) *models.User {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err, "password hashing must not fail")

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error, "failed to create test user %s", email)
	return user
}

// CreateAndLoginUser создает пользователя и логинит его через API
func CreateAndLoginUser(t *testing.T, ts *TestServer, fullName string, role models.UserRole) (string, *models.User) {
	email := fmt.Sprintf("%s_%d@test.local", role, time.Now().UnixNano())
	password := "password123"
	user := CreateUser(t, ts.DB, email, password, fullName, role)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "login must succeed, got: %s", body)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken, user
}

func CreateVendor(t *testing.T, db *gorm.DB, userID, companyName string) *models.Vendor {
	vendor := &models.Vendor{
		UserID:             userID,
		CompanyName:        companyName,
		RegistrationNumber: fmt.Sprintf("REG-%d", time.Now().UnixNano()),
		ContactEmail:       "vendor@test.local",
		Status:             models.VendorStatusActive,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func CreateProcurement(t *testing.T, db *gorm.DB, createdBy string, status models.ProcurementStatus) *models.Procurement {
	deadline := time.Now().AddDate(0, 1, 0)
	procurement := &models.Procurement{
		Title:              "Road maintenance tender " + fmt.Sprint(time.Now().UnixNano()),
		Description:        "Resurfacing of county access roads, phase one.",
		Category:           models.CategoryWorks,
		Department:         "Public Works",
		Budget:             5_000_000,
		Currency:           "KES",
		SubmissionDeadline: &deadline,
		Status:             status,
		CreatedBy:          createdBy,
	}
	require.NoError(t, db.Create(procurement).Error)
	return procurement
}

func CreateChallenge(t *testing.T, db *gorm.DB, skill string) *models.Challenge {
	challenge := &models.Challenge{
		Skill:        skill,
		Title:        "Reverse a linked list",
		Prompt:       "Implement an in-place reversal of a singly linked list and return the new head.",
		Difficulty:   models.ChallengeMedium,
		TimeLimitMin: 60,
		Active:       true,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func CreateVerifiedSkill(t *testing.T, db *gorm.DB, userID, skill string, score float64, verifiedAt time.Time) *models.VerifiedSkill {
	verified := &models.VerifiedSkill{
		UserID:     userID,
		Skill:      skill,
		Score:      score,
		VerifiedAt: verifiedAt,
		ExpiresAt:  verifiedAt.AddDate(1, 0, 0),
		Active:     true,
	}
	require.NoError(t, db.Create(verified).Error)
	return verified
}

func CreateJobPosting(t *testing.T, db *gorm.DB, employerID string, skills []string, status models.JobStatus) *models.JobPosting {
	expires := time.Now().AddDate(0, 0, 30)
	job := &models.JobPosting{
		EmployerID:      employerID,
		Title:           "Backend engineer",
		Description:     "Build and operate procurement APIs for county platforms.",
		ExperienceLevel: models.ExperienceIntermediate,
		Status:          status,
		ExpiresAt:       &expires,
	}
	require.NoError(t, job.SetRequiredSkills(skills))
	require.NoError(t, db.Create(job).Error)
	return job
}
