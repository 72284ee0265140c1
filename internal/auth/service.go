package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fkhayef/secretsanta/internal/user"
	"github.com/fkhayef/secretsanta/pkg/middleware"
)

// LinkMailer delivers magic links
type LinkMailer interface {
	SendLoginLink(ctx context.Context, to, name, link, ttl string) error
}

// Config controls magic-link and session lifetimes
type Config struct {
	BaseURL      string
	MagicLinkTTL time.Duration
	SessionTTL   time.Duration
}

// Service implements passwordless sign-in: a signed link is e-mailed and
// exchanging it yields a session token.
type Service struct {
	users  *user.Service
	tokens *TokenManager
	mailer LinkMailer
	cfg    Config
}

// NewService creates a new auth service
func NewService(users *user.Service, tokens *TokenManager, mailer LinkMailer, cfg Config) *Service {
	return &Service{users: users, tokens: tokens, mailer: mailer, cfg: cfg}
}

// RequestLogin registers the e-mail if needed and sends it a magic link
func (s *Service) RequestLogin(ctx context.Context, name, email string) error {
	u, err := s.users.Register(ctx, name, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(PurposeMagicLink, u.ID, u.Email, s.cfg.MagicLinkTTL)
	if err != nil {
		return err
	}

	link, err := buildMagicLinkURL(s.cfg.BaseURL, token)
	if err != nil {
		return fmt.Errorf("build magic link url: %w", err)
	}

	if err := s.mailer.SendLoginLink(ctx, u.Email, u.Name, link, s.cfg.MagicLinkTTL.String()); err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

// ConsumeMagicLink exchanges a magic-link token for a session token
func (s *Service) ConsumeMagicLink(ctx context.Context, token string) (string, *user.User, error) {
	claims, err := s.tokens.Validate(token, PurposeMagicLink)
	if err != nil {
		return "", nil, err
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return "", nil, err
	}

	session, err := s.tokens.Issue(PurposeSession, u.ID, u.Email, s.cfg.SessionTTL)
	if err != nil {
		return "", nil, err
	}
	return session, u, nil
}

// ResolveSession implements middleware.SessionResolver. The user must still
// exist for the session to be valid.
func (s *Service) ResolveSession(ctx context.Context, token string) (*middleware.Identity, error) {
	claims, err := s.tokens.Validate(token, PurposeSession)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &middleware.Identity{UserID: u.ID, Email: u.Email, Name: u.Name}, nil
}

func buildMagicLinkURL(base, token string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errors.New("base url is required")
	}
	parsed, err := url.Parse(strings.TrimRight(base, "/") + "/auth/callback")
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
