package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultMinPasswordLen минимальная длина пароля по умолчанию
	DefaultMinPasswordLen = 8
	// MaxPasswordLen максимальная длина пароля
	MaxPasswordLen = 128
	// MaxEmailLen максимальная длина email
	MaxEmailLen = 255
	// MaxFullNameLen максимальная длина отображаемого имени
	MaxFullNameLen = 255
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В сообщениях используем имена полей из json тегов
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return v
}

var messages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"min":      "The field '%s' must be at least %s characters long.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"uuid":     "The field '%s' must be a valid UUID.",
}

func message(e validator.FieldError) string {
	msg, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", e.Field(), e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, e.Field(), e.Param())
	}
	return fmt.Sprintf(msg, e.Field())
}

// Struct проверяет структуру по тегам validate и возвращает
// сообщения об ошибках по json именам полей. Пустая карта означает успех.
func Struct(s any) map[string]string {
	fields := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return fields
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			fields[e.Field()] = message(e)
		}
		return fields
	}

	// InvalidValidationError: передан не struct
	fields["body"] = err.Error()
	return fields
}

// NormalizeEmail приводит email к каноническому виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет формат и длину email
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("email is not a valid address")
	}

	return nil
}

// ValidatePassword проверяет длину пароля.
// minLen <= 0 означает DefaultMinPasswordLen.
func ValidatePassword(password string, minLen int) error {
	if minLen <= 0 {
		minLen = DefaultMinPasswordLen
	}

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	n := utf8.RuneCountInString(password)

	if n < minLen {
		return fmt.Errorf("password must be at least %d characters long", minLen)
	}

	if n > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLen)
	}

	return nil
}
