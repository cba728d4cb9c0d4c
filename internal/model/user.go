package model

import "time"

// User represents an account in the database. The password and the
// secret-question answer are stored only as bcrypt hashes; the question
// itself is kept as the plain prompt so it can be shown during a reset.
type User struct {
	ID               int64     `gorm:"primaryKey"`
	Email            string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash     string    `gorm:"size:255;not null"`
	SecretQuestion   string    `gorm:"size:255;not null"`
	SecretAnswerHash string    `gorm:"size:255;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	SecretQuestion string `json:"secretQuestion"`
	SecretAnswer   string `json:"secretAnswer"`
}

// LoginRequest represents a user login request. RecaptchaToken is
// required only when CAPTCHA verification is configured.
type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// ResetPasswordRequest covers both steps of the password-reset flow,
// discriminated by Step ("get-question" or "reset-password").
type ResetPasswordRequest struct {
	Step         string `json:"step"`
	Email        string `json:"email"`
	SecretAnswer string `json:"secretAnswer"`
	NewPassword  string `json:"newPassword"`
}

// SessionUser is the user identity embedded in a session response.
type SessionUser struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// SessionResponse is the body of GET /api/session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
}
