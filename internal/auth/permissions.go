package auth

import (
	"errors"

	"procurechain_backend/internal/models"
)

var ErrInvalidRole = errors.New("invalid role")

// Permission - именованная возможность; проверяется через единый гейт
// RequirePermission, без точечных сравнений строк по маршрутам
type Permission string

const (
	PermRead               Permission = "read"
	PermReadPublic         Permission = "read_public"
	PermWrite              Permission = "write"
	PermDelete             Permission = "delete"
	PermManageUsers        Permission = "manage_users"
	PermManageProcurements Permission = "manage_procurements"
	PermManageVendors      Permission = "manage_vendors"
	PermSubmitBids         Permission = "submit_bids"
	PermEvaluateBids       Permission = "evaluate_bids"
	PermUploadDocuments    Permission = "upload_documents"
	PermViewAnalytics      Permission = "view_analytics"
	PermManageAnomalies    Permission = "manage_anomalies"
	PermViewAnomalies      Permission = "view_anomalies"
	PermAuditLogs          Permission = "audit_logs"
	PermManageJobs         Permission = "manage_jobs"
	PermApplyJobs          Permission = "apply_jobs"
	PermTakeAssessments    Permission = "take_assessments"
	PermManageChallenges   Permission = "manage_challenges"
)

// RolePermissions - единственная таблица соответствия ролей и возможностей
var RolePermissions = map[models.UserRole][]Permission{
	models.UserRoleAdmin: {
		PermRead, PermWrite, PermDelete, PermManageUsers,
		PermManageProcurements, PermManageVendors, PermEvaluateBids,
		PermUploadDocuments, PermViewAnalytics, PermManageAnomalies,
		PermViewAnomalies, PermAuditLogs, PermManageJobs, PermManageChallenges,
	},
	models.UserRoleOfficer: {
		PermRead, PermWrite, PermManageProcurements, PermManageVendors,
		PermEvaluateBids, PermUploadDocuments, PermViewAnalytics,
		PermManageAnomalies, PermViewAnomalies,
	},
	models.UserRoleAuditor: {
		PermRead, PermViewAnalytics, PermViewAnomalies, PermAuditLogs,
	},
	models.UserRoleVendor: {
		PermRead, PermReadPublic, PermSubmitBids,
	},
	models.UserRoleCitizen: {
		PermReadPublic,
	},
	models.UserRoleLearner: {
		PermReadPublic, PermApplyJobs, PermTakeAssessments,
	},
	models.UserRoleEmployer: {
		PermReadPublic, PermManageJobs,
	},
}

// HasPermission проверяет наличие возможности у роли
func HasPermission(role models.UserRole, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidateRole отклоняет роли вне закрытого списка
func ValidateRole(role models.UserRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
