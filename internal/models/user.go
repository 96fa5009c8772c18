package models

import (
	"time"
)

// User is the identity-directory record keyed by the verified auth UID.
type User struct {
	UserID       string    `json:"user_id" bson:"user_id"`
	Email        string    `json:"email" bson:"email,omitempty"`
	Name         string    `json:"name" bson:"name,omitempty"`
	Picture      string    `json:"picture" bson:"picture,omitempty"`
	Bio          string    `json:"bio" bson:"bio,omitempty"`
	Location     string    `json:"location" bson:"location,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// PublicUser is safe to share with other authenticated users.
type PublicUser struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type UpsertUserRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Picture  *string `json:"picture"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}

	return errors
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}
