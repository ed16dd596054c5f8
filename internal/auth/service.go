package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/dadhichi/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=auth

type identityProvider interface {
	SignIn(ctx context.Context, creds Credentials) (*User, error)
	SignUp(ctx context.Context, creds Credentials) (*User, error)
	SendEmailVerification(ctx context.Context, idToken string) error
}

type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"`
}

// Service delegates credential checks to the identity provider. No credentials are stored locally.
type Service struct {
	provider identityProvider
	sessions *SessionStore
	metrics  *metrics.Manager
}

func NewService(provider identityProvider, sessions *SessionStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		provider: provider,
		sessions: sessions,
		metrics:  metricsManager,
	}
}

func (s *Service) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	user, err := s.provider.SignIn(ctx, creds)
	if err != nil {
		s.countAttempt("sign_in", err)
		return nil, err
	}

	if err := s.sessions.Save(ctx, user.IDToken, user.LocalID, user.ExpiresIn); err != nil {
		s.countAttempt("sign_in", err)
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.countAttempt("sign_in", nil)
	ttl := user.ExpiresIn
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Session{
		Token:     user.IDToken,
		UserID:    user.LocalID,
		Email:     user.Email,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// SignUp creates the account and triggers the verification email.
func (s *Service) SignUp(ctx context.Context, creds Credentials) (*User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	user, err := s.provider.SignUp(ctx, creds)
	if err != nil {
		s.countAttempt("sign_up", err)
		return nil, err
	}

	if err := s.provider.SendEmailVerification(ctx, user.IDToken); err != nil {
		s.countAttempt("sign_up", err)
		return nil, fmt.Errorf("send email verification: %w", err)
	}

	s.countAttempt("sign_up", nil)
	log.Debugf("new account signed up: %s", user.LocalID)
	return user, nil
}

func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.sessions.Delete(ctx, token)
}

func (s *Service) countAttempt(op string, err error) {
	result := "ok"
	var providerErr *ProviderError
	switch {
	case err == nil:
	case errors.As(err, &providerErr):
		result = "rejected"
	default:
		result = "error"
	}
	s.metrics.CounterAuthAttempts.WithLabelValues(op, result).Inc()
}
