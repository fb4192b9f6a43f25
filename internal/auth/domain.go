package auth

import "time"

// User represents an account that can sign in.
type User struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	SenhaHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Nome  string `json:"nome" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=6,max=72"`
}

// LoginRequest is the payload for credential checks.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token     string `json:"token" validate:"required"`
	NovaSenha string `json:"nova_senha" validate:"required,min=6,max=72"`
}

// LoginResult carries the issued token alongside the account.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"usuario"`
}
