package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key",
		AccessTokenExpiration: expiration,
		Issuer:                "retailops-test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	companyID := uuid.New()
	branchID := uuid.New()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(GenerateTokenInput{
		CompanyID: companyID,
		BranchID:  &branchID,
		UserID:    userID,
		Role:      "cashier",
	})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, companyID.String(), claims.CompanyID)
	assert.Equal(t, branchID.String(), claims.BranchID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, "retailops-test", claims.Issuer)
}

func TestJWTService_OmitsOptionalBranch(t *testing.T) {
	svc := newTestService(time.Hour)

	token, _, err := svc.GenerateToken(GenerateTokenInput{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Role:      "admin",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.BranchID)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, _, err := svc.GenerateToken(GenerateTokenInput{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer := newTestService(time.Hour)
	verifier := NewJWTService(config.JWTConfig{
		Secret:                "a-different-secret",
		AccessTokenExpiration: time.Hour,
		Issuer:                "retailops-test",
	})

	token, _, err := issuer.GenerateToken(GenerateTokenInput{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
	})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestService(time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
