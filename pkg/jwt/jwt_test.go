package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "user@example.com", "User", "STAFF")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "STAFF", claims.Role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN")
	require.NoError(t, err)

	_, err = ValidateToken(token + "tampered")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
