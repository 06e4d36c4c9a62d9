package auth

import (
	"testing"

	"procurechain_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission_CapabilityTable(t *testing.T) {
	cases := []struct {
		name       string
		role       models.UserRole
		permission Permission
		want       bool
	}{
		{"vendor submits bids", models.UserRoleVendor, PermSubmitBids, true},
		{"vendor cannot evaluate", models.UserRoleVendor, PermEvaluateBids, false},
		{"vendor cannot manage procurements", models.UserRoleVendor, PermManageProcurements, false},
		{"officer manages procurements", models.UserRoleOfficer, PermManageProcurements, true},
		{"officer evaluates bids", models.UserRoleOfficer, PermEvaluateBids, true},
		{"officer cannot manage users", models.UserRoleOfficer, PermManageUsers, false},
		{"officer cannot read audit logs", models.UserRoleOfficer, PermAuditLogs, false},
		{"auditor reads audit logs", models.UserRoleAuditor, PermAuditLogs, true},
		{"auditor cannot write", models.UserRoleAuditor, PermWrite, false},
		{"citizen reads public data only", models.UserRoleCitizen, PermReadPublic, true},
		{"citizen cannot submit bids", models.UserRoleCitizen, PermSubmitBids, false},
		{"learner takes assessments", models.UserRoleLearner, PermTakeAssessments, true},
		{"learner applies for jobs", models.UserRoleLearner, PermApplyJobs, true},
		{"learner cannot manage jobs", models.UserRoleLearner, PermManageJobs, false},
		{"employer manages jobs", models.UserRoleEmployer, PermManageJobs, true},
		{"employer cannot apply for jobs", models.UserRoleEmployer, PermApplyJobs, false},
		{"admin manages users", models.UserRoleAdmin, PermManageUsers, true},
		{"admin manages challenges", models.UserRoleAdmin, PermManageChallenges, true},
		{"admin does not auto-submit bids", models.UserRoleAdmin, PermSubmitBids, false},
		{"unknown role has nothing", models.UserRole("ghost"), PermReadPublic, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasPermission(tc.role, tc.permission))
		})
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []models.UserRole{
		models.UserRoleAdmin, models.UserRoleOfficer, models.UserRoleAuditor,
		models.UserRoleVendor, models.UserRoleCitizen, models.UserRoleLearner,
		models.UserRoleEmployer,
	} {
		assert.NoError(t, ValidateRole(role), "role %s should be valid", role)
	}

	assert.ErrorIs(t, ValidateRole(models.UserRole("superuser")), ErrInvalidRole)
	assert.ErrorIs(t, ValidateRole(models.UserRole("")), ErrInvalidRole)
}
