package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PlaceholderPassword is sent for every account created from this client.
// There is no password field in the form.
const PlaceholderPassword = "changeme123"

// NewUser is the body of POST /users/.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewUserFor fills in the placeholder password.
func NewUserFor(username, email string) NewUser {
	return NewUser{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: PlaceholderPassword,
	}
}

// Validate only checks that the fields are present. Email format is left to
// the backend.
func (u NewUser) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Username, validation.Required),
		validation.Field(&u.Email, validation.Required),
	)
}

// User is what the backend echoes back after a successful create. The
// timestamp is kept as sent: the backend may omit the zone.
type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}
