package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
	"usethis-backend/internal/security"
	"usethis-backend/internal/session"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type signUpForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	revoked  security.RevocationStore
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, revoked security.RevocationStore) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, revoked: revoked}
}

func (s *authService) SignUp(ctx context.Context, email, password, name string) (*domain.User, *security.TokenPair, error) {
	logger.EnterMethod("authService.SignUp", "email", email)
	email = strings.TrimSpace(email)
	if err := domain.Validate(&signUpForm{Email: email, Password: password, Name: name}); err != nil {
		return nil, nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, domain.Remote("users.lookup", err)
	}
	if existing != nil {
		return nil, nil, domain.NewValidationError("email", "is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	user := &domain.User{Email: email, PasswordHash: string(hash), Name: strings.TrimSpace(name)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.SignUp", err)
		return nil, nil, domain.Remote("users.create", err)
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	logger.ExitMethod("authService.SignUp", "userID", user.ID)
	return user, pair, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*domain.User, *security.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, domain.Remote("users.lookup", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("User signed in", "userID", user.ID)
	return user, pair, nil
}

// SignOut ends the session by revoking its refresh token. Access tokens
// are short lived and simply expire.
func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ValidateTokenOfType(refreshToken, security.TokenTypeRefresh)
	if err != nil {
		return domain.ErrUnauthorized
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return domain.Remote("session.revoke", err)
	}
	logger.Info("User signed out", "userID", claims.UserID)
	return nil
}

// Refresh rotates the pair: the presented refresh token is revoked.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*security.TokenPair, error) {
	claims, err := s.liveRefreshClaims(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, domain.Remote("session.revoke", err)
	}
	return s.tokens.GeneratePair(claims.UserID, claims.Email)
}

func (s *authService) liveRefreshClaims(ctx context.Context, token string) (*security.UserClaims, error) {
	claims, err := s.tokens.ValidateTokenOfType(token, security.TokenTypeRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, domain.Remote("session.check", err)
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *authService) Authenticate(ctx context.Context, token string, typ security.TokenType) (*session.Session, error) {
	var claims *security.UserClaims
	var err error
	if typ == security.TokenTypeRefresh {
		claims, err = s.liveRefreshClaims(ctx, token)
	} else {
		claims, err = s.tokens.ValidateTokenOfType(token, typ)
		if err != nil {
			err = domain.ErrUnauthorized
		}
	}
	if err != nil {
		return nil, err
	}
	return &session.Session{UserID: claims.UserID, Email: claims.Email, TokenID: claims.ID, RawToken: token}, nil
}

func (s *authService) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Remote("users.get", err)
	}
	return user, nil
}
