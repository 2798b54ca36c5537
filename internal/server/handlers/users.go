package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/iudanet/userkeeper/internal/models"
	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/auth"
	"github.com/iudanet/userkeeper/internal/server/users"
	"github.com/iudanet/userkeeper/pkg/api"
)

const defaultPageSize = 100

// UserService бизнес-операции над пользователями
type UserService interface {
	Signup(ctx context.Context, email, password string, fullName *string) (*models.User, error)
	Create(ctx context.Context, actor *auth.Principal, in users.CreateInput) (*models.User, error)
	List(ctx context.Context, actor *auth.Principal, skip, limit int) ([]*models.User, int, error)
	Get(ctx context.Context, actor *auth.Principal, id string) (*models.User, error)
	UpdateMe(ctx context.Context, actor *auth.Principal, email, fullName *string) (*models.User, error)
	Update(ctx context.Context, actor *auth.Principal, id string, in users.UpdateInput) (*models.User, error)
	ChangePassword(ctx context.Context, actor *auth.Principal, current, next string) error
	DeleteMe(ctx context.Context, actor *auth.Principal) error
	Delete(ctx context.Context, actor *auth.Principal, id string) error
}

// UsersHandler обрабатывает запросы /api/v1/users
type UsersHandler struct {
	logger  *slog.Logger
	service UserService
}

// NewUsersHandler создает handler пользователей
func NewUsersHandler(logger *slog.Logger, service UserService) *UsersHandler {
	return &UsersHandler{
		logger:  logger,
		service: service,
	}
}

// Signup обрабатывает POST /api/v1/users/signup
// Открытая регистрация без авторизации
func (h *UsersHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req api.UserRegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.service.Signup(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, toUserResponse(user), http.StatusOK)
}

// List обрабатывает GET /api/v1/users/?skip=0&limit=100
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	skip, limit, err := pagination(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	list, count, err := h.service.List(r.Context(), p, skip, limit)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	resp := api.UsersResponse{
		Data:  make([]api.UserResponse, 0, len(list)),
		Count: count,
	}
	for _, u := range list {
		resp.Data = append(resp.Data, toUserResponse(u))
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}

// Create обрабатывает POST /api/v1/users/
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	var req api.UserCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	in := users.CreateInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		IsActive: req.IsActive,
	}
	if req.IsSuperuser != nil {
		in.IsSuperuser = *req.IsSuperuser
	}

	user, err := h.service.Create(r.Context(), p, in)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, toUserResponse(user), http.StatusOK)
}

// Me обрабатывает GET /api/v1/users/me
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, toUserResponse(p.User), http.StatusOK)
}

// UpdateMe обрабатывает PATCH /api/v1/users/me
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	var req api.UserUpdateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.service.UpdateMe(r.Context(), p, req.Email, req.FullName)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, toUserResponse(user), http.StatusOK)
}

// UpdatePassword обрабатывает PATCH /api/v1/users/me/password
func (h *UsersHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	var req api.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, api.MessageResponse{Message: "Password updated successfully"}, http.StatusOK)
}

// DeleteMe обрабатывает DELETE /api/v1/users/me
func (h *UsersHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if err := h.service.DeleteMe(r.Context(), p); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, api.MessageResponse{Message: "User deleted successfully"}, http.StatusOK)
}

// Get обрабатывает GET /api/v1/users/{user_id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, toUserResponse(user), http.StatusOK)
}

// Update обрабатывает PATCH /api/v1/users/{user_id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	var req api.UserUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.service.Update(r.Context(), p, id, users.UpdateInput{
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, toUserResponse(user), http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/users/{user_id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), p, id); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, api.MessageResponse{Message: "User deleted successfully"}, http.StatusOK)
}

// userIDParam достает и проверяет {user_id} из пути
func userIDParam(r *http.Request) (string, error) {
	raw := r.PathValue("user_id")

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Validation(map[string]string{"user_id": "The field 'user_id' must be a valid UUID."})
	}

	return id.String(), nil
}

// pagination читает skip и limit из query string
func pagination(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	fields := make(map[string]string)

	skip, limit := 0, defaultPageSize

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields["skip"] = "must be an integer"
		}
		skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields["limit"] = "must be an integer"
		}
		limit = n
	}

	if len(fields) > 0 {
		return 0, 0, apperr.Validation(fields)
	}

	return skip, limit, nil
}
