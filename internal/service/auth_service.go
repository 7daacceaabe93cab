package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	config "github.com/maheshrc27/smartflow/configs"
	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/repository"
	"github.com/maheshrc27/smartflow/internal/transfer"
	"github.com/maheshrc27/smartflow/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const minPasswordLength = 8

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(ctx context.Context, cred *transfer.Credentials, tenantID string) (*transfer.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*transfer.AuthResponse, error)
	GoogleLoginURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (*transfer.AuthResponse, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
	t   repository.TenantRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository, t repository.TenantRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
		t:   t,
	}
}

func (s *authService) Register(ctx context.Context, cred *transfer.Credentials, tenantID string) (*transfer.AuthResponse, error) {
	if cred == nil {
		return nil, fmt.Errorf("%w: credentials are required", ErrInvalidInput)
	}
	email, err := normalizeEmail(cred.Email)
	if err != nil {
		return nil, err
	}
	if len(cred.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if tenantID == "" {
		tenantID = models.DefaultTenantID
	}
	if _, err := s.t.GetByID(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	user, err := s.newUser(tenantID, email, sanitizeText(cred.Name))
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	if err := s.u.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
		}
		slog.Info(err.Error())
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*transfer.AuthResponse, error) {
	user, err := s.u.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) GoogleLoginURL(state string) (string, error) {
	oauth2Config, err := s.oauth2Config()
	if err != nil {
		return "", err
	}
	return oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*transfer.AuthResponse, error) {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	oauth2Config, err := s.oauth2Config()
	if err != nil {
		return nil, err
	}

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	svc, err := googleoauth2.NewService(ctx, option.WithHTTPClient(oauth2Config.Client(ctx, token)))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error fetching user info: %w", err)
	}

	user, err := s.u.GetByEmail(ctx, strings.ToLower(info.Email))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user, err = s.newUser(models.DefaultTenantID, strings.ToLower(info.Email), info.Name)
		if err != nil {
			return nil, err
		}
		user.GoogleID = info.Id
		if err := s.u.Create(ctx, user); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
	case err != nil:
		return nil, err
	case user.GoogleID == "":
		user.GoogleID = info.Id
		if err := s.u.Update(ctx, user); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
	}

	return s.issue(user)
}

func (s *authService) oauth2Config() (*oauth2.Config, error) {
	if s.cfg.GoogleClientID == "" || s.cfg.GoogleClientSecret == "" || s.cfg.GoogleRedirectURI == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return nil, err
	}
	return &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURI,
		Scopes:       []string{googleoauth2.UserinfoEmailScope, googleoauth2.UserinfoProfileScope},
		Endpoint:     google.Endpoint,
	}, nil
}

func (s *authService) newUser(tenantID, email, name string) (*models.User, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &models.User{
		ID:        id,
		TenantID:  tenantID,
		Email:     email,
		Name:      name,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *authService) issue(user *models.User) (*transfer.AuthResponse, error) {
	token, err := utils.GenerateToken(s.cfg.SecretKey, user.ID, user.TenantID, s.tokenDuration())
	if err != nil {
		return nil, err
	}
	return &transfer.AuthResponse{Token: token, UserID: user.ID}, nil
}

func (s *authService) tokenDuration() time.Duration {
	if s.cfg.TokenDuration > 0 {
		return s.cfg.TokenDuration
	}
	return 24 * time.Hour
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Address != strings.TrimSpace(raw) {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}
