package api

import "time"

// UserRegisterRequest открытая регистрация
type UserRegisterRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,max=128"`
}

// UserCreateRequest создание пользователя администратором
type UserCreateRequest struct {
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,max=128"`
}

// UserUpdateMeRequest изменение собственного профиля
type UserUpdateMeRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
}

// UserUpdateRequest изменение пользователя администратором.
// Отсутствующие поля не меняются.
type UserUpdateRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Password    *string `json:"password,omitempty" validate:"omitempty,max=128"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// UpdatePasswordRequest смена собственного пароля
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=128"`
	NewPassword     string `json:"new_password" validate:"required,max=128"`
}

// UserResponse публичное представление пользователя (без хеша пароля)
type UserResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
}

// UsersResponse страница пользователей и их общее количество
type UsersResponse struct {
	Data  []UserResponse `json:"data"`
	Count int            `json:"count"`
}
