package dto

import "time"

type CreateProcurementRequest struct {
	Title              string    `json:"title" validate:"required,min=5,max=200"`
	Description        string    `json:"description" validate:"required,min=20"`
	Category           string    `json:"category" validate:"required,is-procurement-category"`
	Department         string    `json:"department" validate:"omitempty,max=120"`
	Budget             float64   `json:"budget" validate:"required,gt=0"`
	Currency           string    `json:"currency" validate:"omitempty,len=3"`
	SubmissionDeadline time.Time `json:"submission_deadline" validate:"required"`
}

type UpdateProcurementRequest struct {
	Title              string     `json:"title" validate:"omitempty,min=5,max=200"`
	Description        string     `json:"description" validate:"omitempty,min=20"`
	Category           string     `json:"category" validate:"omitempty,is-procurement-category"`
	Department         string     `json:"department" validate:"omitempty,max=120"`
	Budget             float64    `json:"budget" validate:"omitempty,gt=0"`
	Currency           string     `json:"currency" validate:"omitempty,len=3"`
	SubmissionDeadline *time.Time `json:"submission_deadline"`
}

type UpdateProcurementStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published open closed under_evaluation awarded cancelled completed"`
}

type ListProcurementsRequest struct {
	Status     string `form:"status"`
	Category   string `form:"category"`
	Department string `form:"department"`
	CreatedBy  string `form:"created_by"`
	Search     string `form:"search"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}
