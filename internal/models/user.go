package models

import "time"

type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	Password   string     `json:"-"`
	XP         int64      `json:"xp"`
	Level      string     `json:"level"`
	StreakDays int        `json:"streak_days"`
	LastActive *time.Time `json:"last_practice_date,omitempty"`
	IsAdmin    bool       `json:"is_admin"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
