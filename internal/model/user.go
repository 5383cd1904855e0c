package model

import "time"

type UserRole string

const (
	RolePatient   UserRole = "patient"
	RoleCollector UserRole = "collector"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RolePatient, RoleCollector, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Phone        string     `json:"phone" db:"phone"`
	Role         UserRole   `json:"user_type" db:"user_type"`
	Gender       *string    `json:"gender,omitempty" db:"gender"`
	DOB          *time.Time `json:"dob,omitempty" db:"dob"`
	BloodGroup   *string    `json:"blood_group,omitempty" db:"blood_group"`
	AddressLine1 *string    `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2 *string    `json:"address_line2,omitempty" db:"address_line2"`
	City         *string    `json:"city,omitempty" db:"city"`
	State        *string    `json:"state,omitempty" db:"state"`
	Pincode      *string    `json:"pincode,omitempty" db:"pincode"`
	Area         *string    `json:"area,omitempty" db:"area"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"user_type" binding:"omitempty"`
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Gender       *string `json:"gender"`
	DOB          *string `json:"dob"`
	BloodGroup   *string `json:"blood_group"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type CreateStaffRequest struct {
	Name     string   `json:"name" binding:"required,max=100"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Phone    string   `json:"phone" binding:"omitempty,max=20"`
	Role     UserRole `json:"user_type" binding:"required,oneof=collector admin"`
	Area     *string  `json:"area"`
}

type TokenClaims struct {
	UserID int64
	Email  string
	Role   UserRole
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
