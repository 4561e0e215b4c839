package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLoginDisabled      = errors.New("admin login is not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials is the single admin account, configured with a bcrypt hash.
type Credentials struct {
	Username     string
	PasswordHash string
}

func (c Credentials) Enabled() bool {
	return c.Username != "" && c.PasswordHash != ""
}

func (c Credentials) Check(username, password string) error {
	if !c.Enabled() {
		return ErrLoginDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
