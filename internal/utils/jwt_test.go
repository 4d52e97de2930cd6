package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/models"
)

func TestGenerateJWT_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT(models.User{ID: "user-1"})
	assert.Error(t, err)
}

func TestGenerateJWT_SignsWithConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	token, err := GenerateJWT(models.User{ID: "user-1", Email: "a@b.fr", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
