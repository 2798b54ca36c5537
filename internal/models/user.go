package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt      time.Time `json:"created_at"`   // время создания
	UpdatedAt      time.Time `json:"updated_at"`   // время последнего обновления
	ID             string    `json:"id"`           // UUID пользователя
	Email          string    `json:"email"`        // уникальный email (нормализованный)
	FullName       string    `json:"full_name"`    // отображаемое имя
	HashedPassword string    `json:"-"`            // argon2id (или legacy bcrypt) хеш пароля
	IsActive       bool      `json:"is_active"`    // деактивированный пользователь не может войти
	IsSuperuser    bool      `json:"is_superuser"` // администратор
}

// Clone returns a shallow copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
