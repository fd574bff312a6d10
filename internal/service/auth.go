package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/inkpost/inkpost-go/internal/crypto"
	"github.com/inkpost/inkpost-go/internal/model"
	"github.com/inkpost/inkpost-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already taken")
	ErrSessionNotFound    = errors.New("session not found")
)

// AuthService handles registration and the session lifecycle.
type AuthService struct {
	users           UserStore
	sessions        SessionStore
	jwtSecret       string
	jwtExpiry       time.Duration
	sessionLifetime time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions SessionStore, jwtSecret string, jwtExpiry, sessionLifetime time.Duration) *AuthService {
	return &AuthService{
		users:           users,
		sessions:        sessions,
		jwtSecret:       jwtSecret,
		jwtExpiry:       jwtExpiry,
		sessionLifetime: sessionLifetime,
	}
}

// Register creates a new user account. It does not log the user in; the
// caller logs in with the same credentials afterwards.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	if name == "" {
		return model.UserResponse{}, ErrNameRequired
	}
	if email == "" {
		return model.UserResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.UserResponse{}, ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	return userResponse(user), nil
}

// Login authenticates a user and creates a new server-side session,
// returning it so the handler can set the cookie.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	token, err := crypto.NewToken(crypto.SessionTokenBytes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionLifetime),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// CurrentUser resolves a session token to its session, or ErrSessionNotFound
// when the token is unknown or the session has expired.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Expired(time.Now().UTC()) {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// Logout destroys a session. Destroying an already-destroyed or unknown
// session succeeds, so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// IssueAPIToken creates a JWT bearer token for non-browser clients.
func (s *AuthService) IssueAPIToken(userID int64) (string, error) {
	return crypto.GenerateToken(userID, s.jwtSecret, s.jwtExpiry)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return userResponse(user), nil
}

// SweepSessions periodically removes expired sessions until ctx is done.
func (s *AuthService) SweepSessions(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("swept expired sessions", "count", n)
			}
		}
	}
}

func userResponse(user *model.User) model.UserResponse {
	return model.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
