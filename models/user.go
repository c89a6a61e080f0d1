// models/user.go
package models

import (
	"time"
)

// Roles a user row may carry.
const (
	RoleTaxpayer = "taxpayer"
	RoleAdmin    = "admin"
)

// User model
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	IsApproved    bool      `json:"isApproved"`
	AdminNotes    string    `json:"adminNotes,omitempty"`
	FullName      string    `json:"fullName,omitempty"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	Nationality   string    `json:"nationality,omitempty"`
	IDNumber      string    `json:"idNumber,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PublicUser is the projection returned to clients. The password hash is
// never serialized; listings and login responses also drop the audit fields.
type PublicUser struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName,omitempty"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		IsApproved: u.IsApproved,
		CreatedAt:  u.CreatedAt,
	}
}

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=64"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FullName      string `json:"fullName"`
	ContactNumber string `json:"contactNumber"`
	Gender        string `json:"gender"`
	Nationality   string `json:"nationality"`
	IDNumber      string `json:"idNumber"`
	Address       string `json:"address"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginData is the login response payload
type LoginData struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// ApprovalRequest updates a user's approval flag
type ApprovalRequest struct {
	IsApproved bool   `json:"isApproved"`
	AdminNotes string `json:"adminNotes,omitempty"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
