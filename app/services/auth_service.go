package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/pkg/auth"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/metrics"
	"github.com/shashiranjanraj/grocery/pkg/validate"
)

// Login entry points, used as metric labels.
const (
	EntryAdmin = "admin"
	EntryUser  = "user"
	EntryToken = "token"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `json:"name" validate:"max=50"`
	Email    string `json:"email" validate:"email,max=120"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthService registers and authenticates users.
type AuthService struct {
	store  *repositories.Store
	tokens *auth.Tokens
}

func NewAuthService(store *repositories.Store, tokens *auth.Tokens) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Checks run in order: every field present,
// known role, strong password, well-formed input, unused email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, ErrMissingField
	}
	if !models.ValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, invalid(map[string]string{
			"password": fmt.Sprintf("The password must not exceed %d bytes.", auth.MaxPasswordBytes),
		})
	}
	if !auth.PasswordStrong(in.Password) {
		return nil, ErrWeakPassword
	}
	if err := invalid(validate.Struct(in)); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("services: hash password: %w", err)
	}
	user := &models.User{Name: in.Name, Email: in.Email, Password: hash, Role: in.Role}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("services: create user: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// LoginAdmin authenticates an admin account.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users.FindByEmailAndRole(ctx, normalizeEmail(email), models.RoleAdmin)
	return s.finishLogin(ctx, EntryAdmin, user, err, password)
}

// LoginUser authenticates a shopper. Admin accounts are turned away with
// ErrUseAdminLogin.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users.FindByEmail(ctx, normalizeEmail(email))
	if err == nil && user.IsAdmin() {
		metrics.Logins.WithLabelValues(EntryUser, "wrong_entry").Inc()
		return nil, ErrUseAdminLogin
	}
	return s.finishLogin(ctx, EntryUser, user, err, password)
}

func (s *AuthService) finishLogin(ctx context.Context, entry string, user *models.User, err error, password string) (*models.User, error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		metrics.Logins.WithLabelValues(entry, "failed").Inc()
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("services: find user: %w", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		metrics.Logins.WithLabelValues(entry, "failed").Inc()
		logger.WithCtx(ctx).Info("login rejected", "entry", entry, "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	metrics.Logins.WithLabelValues(entry, "ok").Inc()
	return user, nil
}

// CurrentUser loads the user bound to a session. A zero id or a deleted
// account yields ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := s.store.Users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("services: load current user: %w", err)
	}
	return user, nil
}

// RequireRole reports whether user holds role.
func RequireRole(user *models.User, role string) bool {
	return user != nil && user.Role == role
}

// Token is an issued API bearer token.
type Token struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

// IssueToken exchanges credentials of any role for a bearer token.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.store.Users.FindByEmail(ctx, normalizeEmail(email))
	user, err = s.finishLogin(ctx, EntryToken, user, err, password)
	if err != nil {
		return nil, err
	}
	raw, exp, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("services: issue token: %w", err)
	}
	return &Token{AccessToken: raw, TokenType: "Bearer", ExpiresAt: exp, User: user}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return s.CurrentUser(ctx, claims.UserID)
}
