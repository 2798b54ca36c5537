// Package apperr описывает классы ошибок бизнес-логики.
// Перевод в HTTP статусы выполняется только в пакете handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Классы ошибок. Проверяются через errors.Is.
var (
	// ErrAuthentication личность не установлена: неверные учетные данные или токен
	ErrAuthentication = errors.New("authentication failed")

	// ErrPermissionDenied личность установлена, но операция запрещена
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound запрошенная сущность отсутствует
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists нарушение уникальности
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput запрос отклонен правилами бизнес-логики или валидацией
	ErrInvalidInput = errors.New("invalid input")
)

// Error ошибка с классом и сообщением, которое можно показать клиенту
type Error struct {
	Kind   error
	Fields map[string]string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New создает ошибку класса kind с публичным сообщением
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Authentication returns an authentication failure with the given public message.
func Authentication(detail string) *Error {
	return &Error{Kind: ErrAuthentication, Detail: detail}
}

// PermissionDenied returns a permission failure with the given public message.
func PermissionDenied(detail string) *Error {
	return &Error{Kind: ErrPermissionDenied, Detail: detail}
}

// NotFound returns a missing-entity failure with the given public message.
func NotFound(detail string) *Error {
	return &Error{Kind: ErrNotFound, Detail: detail}
}

// AlreadyExists returns a uniqueness failure with the given public message.
func AlreadyExists(detail string) *Error {
	return &Error{Kind: ErrAlreadyExists, Detail: detail}
}

// InvalidInput returns a business-rule rejection with the given public message.
func InvalidInput(detail string) *Error {
	return &Error{Kind: ErrInvalidInput, Detail: detail}
}

// Validation returns an input rejection carrying per-field messages.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: ErrInvalidInput, Detail: "validation failed", Fields: fields}
}

// Detail возвращает публичное сообщение из цепочки ошибок или fallback
func Detail(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// Fields возвращает ошибки валидации по полям, если они есть
func Fields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
