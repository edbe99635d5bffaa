package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type userRepoStub struct {
	usersByNIC map[string]*models.User
	usersByID  map[string]*models.User
	tokens     map[string]*models.RefreshToken
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{
		usersByNIC: make(map[string]*models.User),
		usersByID:  make(map[string]*models.User),
		tokens:     make(map[string]*models.RefreshToken),
	}
}

func (r *userRepoStub) add(user *models.User) {
	r.usersByNIC[user.NIC] = user
	r.usersByID[user.ID] = user
}

func (r *userRepoStub) FindByNIC(ctx context.Context, nic string) (*models.User, error) {
	if user, ok := r.usersByNIC[nic]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (r *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := r.usersByID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (r *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.NIC
	}
	r.add(user)
	return nil
}

func (r *userRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (r *userRepoStub) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func (r *userRepoStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *userRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := r.tokens[token]; ok {
		return rt, nil
	}
	return nil, sql.ErrNoRows
}

func (r *userRepoStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, rt := range r.tokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
		}
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
		Issuer:             "villageflow-test",
		OfficerKey:         "gn-key",
		District:           "Monaragala",
		DivisionalSec:      "Bibile",
		GNDivision:         "Kotagama",
	}
}

func TestAuthServiceRegisterCitizen(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewAuthService(repo, &auditRecorderStub{}, nil, nil, testAuthConfig())

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		FullName: "Nimal Perera",
		NIC:      "912345678v",
		Email:    "nimal@example.lk",
		Password: "secret1",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)
	require.Equal(t, "912345678V", info.NIC)
	require.Equal(t, models.RoleCitizen, info.Role)

	stored := repo.usersByNIC["912345678V"]
	require.NotNil(t, stored)
	require.Equal(t, "Monaragala", stored.District)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestAuthServiceRegisterRejectsBadNIC(t *testing.T) {
	svc := NewAuthService(newUserRepoStub(), &auditRecorderStub{}, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FullName: "Nimal Perera",
		NIC:      "12345",
		Email:    "nimal@example.lk",
		Password: "secret1",
		Role:     models.RoleCitizen,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Contains(t, appErr.Fields, "nic")
}

func TestAuthServiceRegisterOfficerNeedsKey(t *testing.T) {
	svc := NewAuthService(newUserRepoStub(), &auditRecorderStub{}, nil, nil, testAuthConfig())

	req := models.RegisterRequest{
		FullName:   "GN Officer",
		NIC:        "801234567V",
		Email:      "officer@example.lk",
		Password:   "secret1",
		Role:       models.RoleOfficer,
		OfficerKey: "wrong",
	}
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	req.OfficerKey = "gn-key"
	info, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, models.RoleOfficer, info.Role)
}

func TestAuthServiceProxyRegister(t *testing.T) {
	repo := newUserRepoStub()
	audit := &auditRecorderStub{}
	svc := NewAuthService(repo, audit, nil, nil, testAuthConfig())

	officer := officerClaims()
	info, err := svc.ProxyRegister(context.Background(), models.ProxyRegisterRequest{
		FullName: "Kamala Perera",
		NIC:      "575678901V",
		Password: "secret1",
	}, officer)
	require.NoError(t, err)
	require.Equal(t, models.RoleCitizen, info.Role)

	stored := repo.usersByNIC["575678901V"]
	require.NotNil(t, stored.RegisteredBy)
	require.Equal(t, officer.UserID, *stored.RegisteredBy)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionProxyRegister, audit.entries[0].Action)

	// citizens cannot proxy-register
	_, err = svc.ProxyRegister(context.Background(), models.ProxyRegisterRequest{
		FullName: "X", NIC: "575678902V", Password: "secret1",
	}, citizenClaims())
	require.Error(t, err)
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	repo := newUserRepoStub()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo.add(&models.User{
		ID: "user-1", NIC: "912345678V", PasswordHash: string(hash),
		FullName: "Nimal Perera", Role: models.RoleCitizen, Active: true,
	})
	svc := NewAuthService(repo, &auditRecorderStub{}, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{NIC: "912345678V", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, models.RoleCitizen, claims.Role)
	require.Equal(t, "912345678V", claims.NIC)

	_, err = svc.Login(context.Background(), models.LoginRequest{NIC: "912345678V", Password: "wrong"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	repo := newUserRepoStub()
	repo.add(&models.User{ID: "user-1", NIC: "912345678V", Role: models.RoleCitizen, Active: true})
	svc := NewAuthService(repo, &auditRecorderStub{}, nil, nil, testAuthConfig())

	repo.tokens["tok-1"] = &models.RefreshToken{
		ID: "rt-1", UserID: "user-1", Token: "tok-1",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	resp, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "tok-1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.True(t, repo.tokens["tok-1"].Revoked)

	// revoked token cannot be replayed
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "tok-1"})
	require.Error(t, err)
}
