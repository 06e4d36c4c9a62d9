package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для общих ошибок
бизнес-логики и домена закупок/навыков.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (оборачивание ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для запрещенных переходов статуса (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Auth & Users
// =========================================================================

// ErrInvalidCredentials - неверный email или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен (access, refresh)
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - email уже используется
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrUserSuspended - аккаунт заблокирован
var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Account is suspended",
	http.StatusForbidden,
)

// ErrUserInactive - аккаунт деактивирован
var ErrUserInactive = New(
	CodeForbidden,
	"auth",
	"Account is inactive",
	http.StatusForbidden,
)

// ErrInsufficientPermissions - у роли нет нужного разрешения
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidUserRole - роль вне закрытого списка
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"users",
	"Invalid user role",
	http.StatusBadRequest,
)

// ErrCannotModifySelf - админ пытается изменить/удалить себя
var ErrCannotModifySelf = New(
	CodeForbidden,
	"users",
	"Operation on own account is not allowed",
	http.StatusForbidden,
)

// =========================================================================
// Procurements & Bids
// =========================================================================

// ErrBiddingClosed - закупка не в статусе приема заявок
var ErrBiddingClosed = New(
	CodeInvalidStatus,
	"bids",
	"Procurement is not open for bidding",
	http.StatusConflict,
)

// ErrDeadlinePassed - дедлайн подачи заявок истек
var ErrDeadlinePassed = New(
	CodeInvalidOperation,
	"bids",
	"Submission deadline has passed",
	http.StatusBadRequest,
)

// ErrDuplicateBid - у поставщика уже есть заявка на эту закупку
var ErrDuplicateBid = New(
	CodeAlreadyExists,
	"bids",
	"Vendor has already submitted a bid for this procurement",
	http.StatusConflict,
)

// ErrDuplicateEvaluation - оценщик уже оценил эту заявку
var ErrDuplicateEvaluation = New(
	CodeAlreadyExists,
	"bids",
	"Evaluator has already evaluated this bid",
	http.StatusConflict,
)

// ErrBidNotEvaluable - заявку нельзя оценивать в текущем статусе
var ErrBidNotEvaluable = New(
	CodeInvalidStatus,
	"bids",
	"Bid is not open for evaluation",
	http.StatusConflict,
)

// ErrBidNotAwardable - наградить можно только qualified заявку
var ErrBidNotAwardable = New(
	CodeInvalidStatus,
	"bids",
	"Only qualified bids can be awarded",
	http.StatusConflict,
)

// ErrBidNotDisqualifiable - awarded/rejected заявки нельзя дисквалифицировать
var ErrBidNotDisqualifiable = New(
	CodeInvalidStatus,
	"bids",
	"Bid cannot be disqualified in its current status",
	http.StatusConflict,
)

// =========================================================================
// Jobs, Applications, Assessments
// =========================================================================

// ErrJobNotActive - вакансия не активна (или истекла)
var ErrJobNotActive = New(
	CodeInvalidStatus,
	"jobs",
	"Job posting is not active",
	http.StatusConflict,
)

// ErrDuplicateApplication - отклик на вакансию уже существует
var ErrDuplicateApplication = New(
	CodeAlreadyExists,
	"applications",
	"Application for this job already exists",
	http.StatusConflict,
)

// ErrAssessmentInProgress - по этому навыку уже есть незавершенная оценка
var ErrAssessmentInProgress = New(
	CodeConflict,
	"assessments",
	"An assessment for this skill is already in progress",
	http.StatusConflict,
)

// ErrAssessmentNotSubmittable - код уже отправлен или оценка завершена
var ErrAssessmentNotSubmittable = New(
	CodeInvalidStatus,
	"assessments",
	"Assessment is not awaiting a submission",
	http.StatusConflict,
)

// ErrUnsupportedSkill - навык вне каталога
var ErrUnsupportedSkill = New(
	CodeValidationFailed,
	"assessments",
	"Skill is not supported",
	http.StatusBadRequest,
)

// =========================================================================
// Files, Rate limit, AI
// =========================================================================

// ErrFileTooLarge - файл превышает максимальный размер
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"documents",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - расширение файла не разрешено
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"documents",
	"File type is not allowed",
	http.StatusUnsupportedMediaType,
)

// ErrRateLimitExceeded - превышен лимит запросов в окне
var ErrRateLimitExceeded = New(
	CodeRateLimited,
	"rate_limit",
	"Rate limit exceeded. Try again later.",
	http.StatusTooManyRequests,
)

// ErrAIUnavailable - сбой внешнего AI-сервиса
var ErrAIUnavailable = New(
	CodeExternalServiceError,
	"ai",
	"AI service is unavailable",
	http.StatusBadGateway,
)
