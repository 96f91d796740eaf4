package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
)

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestJWTRoundTrip(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	token, exp, err := mgr.Generate(&entity.AuthUser{
		ID:     "user-1",
		Email:  "donor@example.com",
		Role:   entity.RoleDonor,
		Status: entity.StatusApproved,
	})
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := mgr.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "donor@example.com", claims.Email)
	assert.Equal(t, "DONOR", claims.Role)
	assert.Equal(t, "APPROVED", claims.Status)
}

func TestJWTParseRejectsExpired(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", -time.Minute)
	require.NoError(t, err)

	token, _, err := mgr.Generate(&entity.AuthUser{ID: "user-1"})
	require.NoError(t, err)

	_, err = mgr.Parse(token)
	assert.Error(t, err)
}

func TestJWTParseRejectsWrongSecret(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	other, err := NewJWTManager("other-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := mgr.Generate(&entity.AuthUser{ID: "user-1"})
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestJWTParseRejectsGarbage(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = mgr.Parse("not-a-token")
	assert.Error(t, err)
}
