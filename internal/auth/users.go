package auth

import (
	"errors"
	"strings"

	"bugtracker-api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticate checks credentials against the configured static user list.
// Stored passwords are compared in plaintext, except entries that look like
// bcrypt hashes ($2…) which are verified with bcrypt.
func Authenticate(users []models.User, username, password string) (models.User, error) {
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if strings.HasPrefix(u.Password, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil {
				return u, nil
			}
			return models.User{}, ErrInvalidCredentials
		}
		if u.Password == password {
			return u, nil
		}
		return models.User{}, ErrInvalidCredentials
	}
	return models.User{}, ErrInvalidCredentials
}
