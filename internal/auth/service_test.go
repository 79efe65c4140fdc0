package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/pawhaven/petshop-backend/pkg/auth"
	"github.com/pawhaven/petshop-backend/pkg/auth/session"
	"github.com/pawhaven/petshop-backend/pkg/config"
	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
)

type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return errors.New("UNIQUE constraint failed: users.email")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessions struct {
	mu       sync.Mutex
	refresh  map[string]string
	rotated  int
	generate int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{refresh: map[string]string{}}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generate++
	token := fmt.Sprintf("refresh-%s", accessID)
	f.refresh[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.refresh[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.refresh, oldAccessID)
	f.rotated++
	newID := session.NewAccessID()
	newToken := fmt.Sprintf("refresh-%s", newID)
	f.refresh[newID] = newToken
	return newID, newToken, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refresh, accessID)
	return nil
}

func testService() (*Service, *fakeUserStore, *fakeSessions) {
	store := newFakeUserStore()
	sessions := newFakeSessions()
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "petshop", ExpirationMinutes: 30}
	passwordCfg := config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16}
	return NewService(store, sessions, jwtCfg, passwordCfg), store, sessions
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, _, sessions := testService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "New Buyer",
		Email:    "buyer@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.UserRoleBuyer, result.User.Role)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, 1, sessions.generate)

	claims, err := pkgAuth.ParseAccessToken(config.JWTConfig{Secret: "test-secret", Issuer: "petshop", ExpirationMinutes: 30}, result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleBuyer, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := testService()

	input := RegisterInput{Name: "Buyer", Email: "dup@example.com", Password: "correct horse"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLoginSuccessAndFailure(t *testing.T) {
	svc, _, _ := testService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Buyer",
		Email:    "login@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginInput{Email: "login@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)

	_, err = svc.Login(context.Background(), LoginInput{Email: "login@example.com", Password: "battery staple"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	// unknown email gets the same generic response as a bad password
	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := testService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Buyer",
		Email:    "refresh@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.rotated)
	assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)

	// the old refresh token is single use
	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := testService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Buyer",
		Email:    "logout@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Tokens.AccessToken))
	assert.Empty(t, sessions.refresh)

	// refreshing after logout fails
	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
