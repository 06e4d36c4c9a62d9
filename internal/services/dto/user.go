package dto

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,is-user-role"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}

type UserStatsResponse struct {
	Total    int64            `json:"total"`
	ByRole   map[string]int64 `json:"by_role"`
	ByStatus map[string]int64 `json:"by_status"`
}
