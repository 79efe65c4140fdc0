package auth

import (
	"context"
	"errors"
	"time"

	"github.com/pawhaven/petshop-backend/internal/users"
	pkgAuth "github.com/pawhaven/petshop-backend/pkg/auth"
	"github.com/pawhaven/petshop-backend/pkg/auth/session"
	"github.com/pawhaven/petshop-backend/pkg/config"
	pkgdb "github.com/pawhaven/petshop-backend/pkg/db"
	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
	"github.com/pawhaven/petshop-backend/pkg/security"
	"gorm.io/gorm"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service implements register, login, refresh, and logout.
type Service struct {
	users       userStore
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs the auth service.
func NewService(store userStore, sessions sessionManager, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) *Service {
	return &Service{
		users:       store,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}
}

// Register creates a buyer account and signs the new user in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (AuthResultDTO, error) {
	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         enums.UserRoleBuyer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if pkgdb.IsUniqueViolation(err, "users_email") {
			return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user")
	}

	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, input LoginInput) (AuthResultDTO, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the session tied to the (possibly expired) access token.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (TokenPairDTO, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	return TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

// Logout revokes the session tied to the access token. Revoking an already
// dead session is not an error.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *Service) issueTokens(ctx context.Context, user *models.User) (AuthResultDTO, error) {
	accessID := session.NewAccessID()

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	return AuthResultDTO{
		User: users.ToDTO(user),
		Tokens: TokenPairDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		},
	}, nil
}
