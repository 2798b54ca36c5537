package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "authentication", err: Authentication("Incorrect email or password"), kind: ErrAuthentication},
		{name: "permission", err: PermissionDenied("not enough privileges"), kind: ErrPermissionDenied},
		{name: "not found", err: NotFound("user not found"), kind: ErrNotFound},
		{name: "already exists", err: AlreadyExists("email taken"), kind: ErrAlreadyExists},
		{name: "invalid input", err: InvalidInput("bad"), kind: ErrInvalidInput},
		{name: "validation", err: Validation(map[string]string{"email": "invalid"}), kind: ErrInvalidInput},
		{name: "formatted", err: New(ErrNotFound, "user %s not found", "42"), kind: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)

			// класс сохраняется после оборачивания
			wrapped := fmt.Errorf("service: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
		})
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "not found: user 42", New(ErrNotFound, "user %d", 42).Error())
	assert.Equal(t, "not found", (&Error{Kind: ErrNotFound}).Error())
}

func TestDetail(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", PermissionDenied("The user doesn't have enough privileges"))

	assert.Equal(t, "The user doesn't have enough privileges", Detail(err, "fallback"))
	assert.Equal(t, "fallback", Detail(errors.New("plain"), "fallback"))
	assert.Equal(t, "fallback", Detail(&Error{Kind: ErrNotFound}, "fallback"))
}

func TestFields(t *testing.T) {
	fields := map[string]string{"password": "must be at least 8 characters"}

	assert.Equal(t, fields, Fields(fmt.Errorf("x: %w", Validation(fields))))
	assert.Nil(t, Fields(errors.New("plain")))
}
