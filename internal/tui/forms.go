package tui

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate backs client-side form checks. The server remains authoritative;
// this only catches the obvious mistakes before a round trip.
var validate = validator.New(validator.WithRequiredStructEnabled())

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type registerForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=64"`
	FullName string `validate:"omitempty,min=2"`
	Region   string `validate:"omitempty,min=2"`
}

type newCaseForm struct {
	BenefitID int    `validate:"required,gt=0"`
	Title     string `validate:"required,min=3"`
}

// validateForm returns a single inline message for the first failed field,
// or "" when the form is valid.
func validateForm(form interface{}) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid input"
	}
	return fieldMessage(errs[0])
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "gt":
		return field + " is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	}
	return field + " is invalid"
}
