package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,is-user-role"`
}

type assessmentPayload struct {
	Skill string `json:"skill" validate:"required,is-skill"`
}

type procurementPayload struct {
	Category string  `json:"category" validate:"required,is-procurement-category"`
	Budget   float64 `json:"budget" validate:"required,gt=0"`
}

func TestValidate_Success(t *testing.T) {
	v := New()

	err := v.Validate(&registerPayload{
		Email:    "user@example.com",
		Password: "long_enough_password",
		Role:     "vendor",
	})
	assert.NoError(t, err)
}

func TestValidate_FieldErrorsUseJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&registerPayload{
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "error must be a *ValidationError")

	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors["password"], "at least 8")
	assert.NotContains(t, vErr.Errors, "Email", "Go field names must not leak to clients")
}

func TestValidate_CustomRoleRule(t *testing.T) {
	v := New()

	err := v.Validate(&registerPayload{
		Email:    "user@example.com",
		Password: "long_enough_password",
		Role:     "superuser",
	})
	require.Error(t, err)

	vErr := err.(*ValidationError)
	assert.Equal(t, "Unknown user role", vErr.Errors["role"])

	// Пустая роль допустима: обязательность дает 'required', не кастомное правило
	assert.NoError(t, v.Validate(&registerPayload{
		Email:    "user@example.com",
		Password: "long_enough_password",
	}))
}

func TestValidate_SkillCatalog(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&assessmentPayload{Skill: "golang"}))

	err := v.Validate(&assessmentPayload{Skill: "fortran"})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Equal(t, "Skill is not in the supported catalog", vErr.Errors["skill"])
}

func TestValidate_ProcurementCategory(t *testing.T) {
	v := New()

	for _, category := range []string{"goods", "services", "works", "consultancy"} {
		assert.NoError(t, v.Validate(&procurementPayload{Category: category, Budget: 100}), "category %s", category)
	}

	err := v.Validate(&procurementPayload{Category: "favors", Budget: 100})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Equal(t, "Unknown procurement category", vErr.Errors["category"])

	err = v.Validate(&procurementPayload{Category: "goods", Budget: -5})
	require.Error(t, err)
	vErr = err.(*ValidationError)
	assert.Contains(t, vErr.Errors["budget"], "greater than")
}
