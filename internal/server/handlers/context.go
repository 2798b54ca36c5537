package handlers

import (
	"net/http"

	"github.com/iudanet/userkeeper/internal/models"
	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/auth"
	"github.com/iudanet/userkeeper/pkg/api"
)

// principal достает установленного middleware пользователя.
// Отсутствие Principal означает, что маршрут зарегистрирован без Authenticate.
func principal(r *http.Request) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return nil, apperr.Authentication("Not authenticated")
	}
	return p, nil
}

func toUserResponse(u *models.User) api.UserResponse {
	return api.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
