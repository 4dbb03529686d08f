// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/beanscore/internal/core"
	"github.com/carterperez-dev/beanscore/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
)

const minPasswordLength = 8

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Recorder receives authentication outcomes. The metrics package provides
// the Prometheus implementation.
type Recorder interface {
	AuthAttempt(operation, outcome string)
	TokenRejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) AuthAttempt(string, string) {}
func (nopRecorder) TokenRejected(string)       {}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	recorder     Recorder
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	recorder Recorder,
) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		recorder:     recorder,
	}
}

// NormalizeEmail is applied before every lookup and every insert so that
// uniqueness is case and whitespace insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	email := NormalizeEmail(req.Email)

	user, err := s.userProvider.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			s.recorder.AuthAttempt("login", "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		s.recorder.AuthAttempt("login", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	resp, err := s.createAuthResponse(user)
	if err != nil {
		return nil, err
	}

	s.recorder.AuthAttempt("login", "success")
	return resp, nil
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if err := validateRegistration(email, name, req.Password); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	exists, err := s.userProvider.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		s.recorder.AuthAttempt("register", "conflict")
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, email, passwordHash, name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.recorder.AuthAttempt("register", "conflict")
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp, err := s.createAuthResponse(user)
	if err != nil {
		return nil, err
	}

	s.recorder.AuthAttempt("register", "success")
	return resp, nil
}

// VerifyAccessToken validates the token and then confirms its subject still
// has an account. The lookup runs on every call so that tokens issued to a
// deleted account stop working immediately.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrTokenExpired) {
			s.recorder.TokenRejected("expired")
		} else {
			s.recorder.TokenRejected("invalid")
		}
		return nil, err
	}

	if _, err := s.userProvider.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.recorder.TokenRejected("account_gone")
			return nil, fmt.Errorf("verify token: %w", core.ErrAccountGone)
		}
		return nil, fmt.Errorf("verify token subject: %w", err)
	}

	return claims, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("get current user: %w", core.ErrUnauthorized)
	}

	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) createAuthResponse(user *UserInfo) (*AuthResponse, error) {
	token, expiresAt, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(TokenLifetime / time.Second),
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

func validateRegistration(email, name, password string) error {
	if name == "" {
		return core.NewValidationError("name", "must not be blank")
	}

	if email == "" || !strings.Contains(email, "@") {
		return core.NewValidationError("email", "must be a valid email")
	}

	if len(password) < minPasswordLength {
		return core.NewValidationError(
			"password",
			fmt.Sprintf("must be at least %d characters", minPasswordLength),
		)
	}

	return nil
}

func toUserResponse(user *UserInfo) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

var _ middleware.TokenVerifier = (*Service)(nil)
