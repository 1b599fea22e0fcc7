package dto

import "time"

// RegisterRequest alta de una empresa con su usuario administrador.
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=255"`
	TaxID       string `json:"tax_id" validate:"omitempty,max=20"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	City        string `json:"city" validate:"omitempty,max=100"`
	State       string `json:"state" validate:"omitempty,len=2"`
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse token + usuario + empresa (register y login).
type AuthResponse struct {
	Token   string          `json:"token"`
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
}

// MeResponse usuario autenticado con su empresa y plan.
type MeResponse struct {
	User        UserResponse    `json:"user"`
	Company     CompanyResponse `json:"company"`
	Plan        *PlanResponse   `json:"plan"`
	Permissions []string        `json:"permissions"`
}

// UpdateProfileRequest PUT /api/auth/profile.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

// ChangePasswordRequest PUT /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
}

// ForgotPasswordRequest POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ForgotPasswordResponse la respuesta es igual exista o no el email.
// ResetToken solo se expone fuera de producción (no hay envío de email).
type ForgotPasswordResponse struct {
	ResetToken string `json:"reset_token,omitempty"`
}

// CreateUserRequest POST /api/settings/users.
type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required,min=2,max=255"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Phone    string   `json:"phone" validate:"omitempty,max=20"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=admin manager staff cashier"`
}

// UpdateUserRequest PUT /api/settings/users/:id.
type UpdateUserRequest struct {
	Name   *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Phone  *string  `json:"phone" validate:"omitempty,max=20"`
	Roles  []string `json:"roles" validate:"omitempty,min=1,dive,oneof=admin manager staff cashier"`
	Active *bool    `json:"active"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Roles       []string   `json:"roles"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
