package api

// LoginRequest представляет запрос на аутентификацию.
// Поле username содержит email (совместимо с OAuth2 password flow).
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"` // email пользователя
	Password string `json:"password" validate:"required,max=128"` // пароль
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	TokenType   string `json:"token_type"`   // всегда "bearer"
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// NewPasswordRequest представляет запрос на сброс пароля по токену из письма
type NewPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,max=128"`
}

// MessageResponse представляет ответ с текстовым сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Fields  map[string]string `json:"fields,omitempty"`  // ошибки валидации по полям
	Error   string            `json:"error"`             // описание ошибки
	Message string            `json:"message,omitempty"` // дополнительное сообщение
}
