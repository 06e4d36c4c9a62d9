package validator

import (
	"log"

	"procurechain_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила валидации,
// основанные на закрытых перечислениях из internal/models.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - ошибка времени запуска
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-experience-level", validateExperienceLevel)
	mustRegister("is-skill", validateSkill)
	mustRegister("is-procurement-category", validateProcurementCategory)
	mustRegister("is-anomaly-severity", validateAnomalySeverity)
}

// --- Функции валидации ---

// Пустые значения пропускаются: за обязательность отвечает 'required'.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).Valid()
}

func validateExperienceLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ExperienceLevel(value) {
	case models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced:
		return true
	default:
		return false
	}
}

func validateSkill(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsSupportedSkill(value)
}

func validateProcurementCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ProcurementCategory(value) {
	case models.CategoryGoods, models.CategoryServices, models.CategoryWorks, models.CategoryConsultancy:
		return true
	default:
		return false
	}
}

func validateAnomalySeverity(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.AnomalySeverity(value) {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return true
	default:
		return false
	}
}
