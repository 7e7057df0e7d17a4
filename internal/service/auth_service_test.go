package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/repository"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
	"github.com/noah-isme/cps-portal-api/pkg/kvstore"
)

var testAuthConfig = AuthConfig{
	Secret:     "test-secret",
	Expiration: time.Hour,
	Issuer:     "cps-portal-test",
}

func newAuthFixture(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := []models.User{
		{ID: "fac-1", Email: "rao@college.edu", PasswordHash: string(hash), FullName: "Dr. Rao", Role: models.RoleFaculty, Department: "CSE", Active: true},
		{ID: "fac-2", Email: "idle@college.edu", PasswordHash: string(hash), FullName: "Dr. Idle", Role: models.RoleFaculty, Department: "CSE", Active: false},
	}
	repo, err := repository.NewUserRepository(context.Background(), kvstore.NewMemory(), zap.NewNop(), users)
	require.NoError(t, err)

	return NewAuthService(repo, nil, zap.NewNop(), testAuthConfig), repo
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "rao@college.edu", Password: "correct horse"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "fac-1", resp.User.ID)
	assert.Equal(t, "CSE", resp.User.Department)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "fac-1", claims.UserID)
	assert.Equal(t, models.RoleFaculty, claims.Role)
	assert.Equal(t, "CSE", claims.Department)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Email: "rao@college.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	// Unknown accounts produce the same error as wrong passwords.
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@college.edu", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "idle@college.edu", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newAuthFixture(t)
	other := NewAuthService(nil, nil, zap.NewNop(), AuthConfig{Secret: "other-secret", Expiration: time.Hour})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "rao@college.edu", Password: "correct horse"})
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "fac-1", models.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "new password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.ChangePassword(ctx, "fac-1", models.ChangePasswordRequest{OldPassword: "correct horse", NewPassword: "new password"}))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "rao@college.edu", Password: "new password"})
	require.NoError(t, err)
}
