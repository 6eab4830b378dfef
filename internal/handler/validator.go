package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dropa-gg/dropa/internal/domain"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 32
)

// fieldMessages maps a failed tag to the text shown to clients. Tags with a
// parameter (min, max) are formatted with it.
var fieldMessages = map[string]string{
	"required": "This field is required",
	"role":     "Invalid role",
	"username": "Use 3-32 letters, digits, dots, dashes or underscores",
	"min":      "Must be at least %s",
	"max":      "Must be at most %s",
}

type Validator struct {
	validate *validator.Validate
}

var (
	validatorMu sync.Mutex
	shared      *Validator
)

// InitValidator builds the shared validator with the request tags registered.
func InitValidator() {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("role", validateRole)
	_ = v.RegisterValidation("username", validateUsername)

	validatorMu.Lock()
	shared = &Validator{validate: v}
	validatorMu.Unlock()
}

func GetValidator() *Validator {
	validatorMu.Lock()
	v := shared
	validatorMu.Unlock()
	if v != nil {
		return v
	}
	InitValidator()
	return GetValidator()
}

func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// FormatValidationError flattens validator errors into field -> message,
// keyed by the JSON name when the field has one.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "Invalid value"
		} else if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, fe.Param())
		}
		out[strings.ToLower(fe.Field())] = msg
	}
	return out
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// validateRole accepts stored role names in any case. Empty is left to "required".
func validateRole(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	role := domain.Role(strings.ToUpper(raw))
	return role == domain.RoleUser || role == domain.RoleAdmin
}

func validateUsername(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) < usernameMinLen || len(name) > usernameMaxLen {
		return false
	}
	return strings.IndexFunc(name, func(c rune) bool {
		return !isUsernameRune(c)
	}) < 0
}

func isUsernameRune(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return c == '.' || c == '-' || c == '_'
}
