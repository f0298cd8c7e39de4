package auth

import (
	"testing"

	"bugtracker-api/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticate_Plaintext(t *testing.T) {
	users := []models.User{
		{Username: "Rupali", Password: "RUPAli@123", Role: models.RoleDeveloper},
	}

	u, err := Authenticate(users, "Rupali", "RUPAli@123")
	require.NoError(t, err)
	require.Equal(t, models.RoleDeveloper, u.Role)

	_, err = Authenticate(users, "Rupali", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate(users, "ghost", "RUPAli@123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Faltyx@123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := []models.User{
		{Username: "Upasana", Password: string(hash), Role: models.RoleManager},
	}

	u, err := Authenticate(users, "Upasana", "Faltyx@123")
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, u.Role)

	_, err = Authenticate(users, "Upasana", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
