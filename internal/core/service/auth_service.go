package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillsync/marketplace-api/internal/api/metrics"
	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// AuthService implements registration, login and identity lookups.
type AuthService struct {
	accounts ports.AccountDirectory
	hasher   ports.CredentialHasher
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	log      zerolog.Logger

	allowAdminSignup bool
	now              func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables per-email failed login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithAuditSink records auth outcomes to sink.
func WithAuditSink(sink ports.AuditSink) AuthOption {
	return func(s *AuthService) { s.audit = sink }
}

// WithAdminRegistration allows the admin role through self-registration.
func WithAdminRegistration(allow bool) AuthOption {
	return func(s *AuthService) { s.allowAdminSignup = allow }
}

func NewAuthService(
	accounts ports.AccountDirectory,
	hasher ports.CredentialHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns a token for it. The insert is the
// last side effect before token issuance, so a failure never leaves a
// half-created account behind.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	role := domain.Role(strings.TrimSpace(in.Role))

	if email == "" || in.Password == "" || fullName == "" {
		return nil, fmt.Errorf("%w: email, password and full_name are required", domain.ErrInvalidInput)
	}
	if !s.registrable(role) {
		return nil, fmt.Errorf("%w: unsupported role %q", domain.ErrInvalidInput, in.Role)
	}

	existing, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicateAccount
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &domain.Account{
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == domain.RoleContractor {
		account.Contractor = &domain.ContractorProfile{Skills: []string{}}
	}

	id, err := s.accounts.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	token, err := s.tokens.Issue(domain.Principal{Subject: id, Role: role, Email: email})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()
	s.record(domain.AuthEvent{Type: domain.EventRegistered, Subject: id, Email: email, Role: role, IP: in.IP})
	s.log.Info().Str("account_id", id).Str("role", string(role)).Msg("account registered")

	return &ports.AuthResult{AccessToken: token, TokenType: TokenType, Role: role, UserID: id}, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			s.record(domain.AuthEvent{Type: domain.EventLoginThrottled, Email: email, IP: in.IP})
			return nil, domain.ErrTooManyAttempts
		}
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// Burn the same bcrypt time as a real comparison.
		s.hasher.Verify(in.Password, s.placeholderHash())
		return nil, s.loginFailed(ctx, email, in.IP)
	}

	if !s.hasher.Verify(in.Password, account.PasswordHash) || !account.IsActive {
		return nil, s.loginFailed(ctx, email, in.IP)
	}

	token, err := s.tokens.Issue(domain.Principal{Subject: account.ID, Role: account.Role, Email: account.Email})
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuthEvent{Type: domain.EventLoginSucceeded, Subject: account.ID, Email: email, Role: account.Role, IP: in.IP})

	return &ports.AuthResult{AccessToken: token, TokenType: TokenType, Role: account.Role, UserID: account.ID}, nil
}

// Me returns the account behind an authenticated principal.
func (s *AuthService) Me(ctx context.Context, principal domain.Principal) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, principal.Subject)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AuthService) registrable(role domain.Role) bool {
	switch role {
	case domain.RoleClient, domain.RoleContractor:
		return true
	case domain.RoleAdmin:
		return s.allowAdminSignup
	}
	return false
}

func (s *AuthService) loginFailed(ctx context.Context, email, ip string) error {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	s.record(domain.AuthEvent{Type: domain.EventLoginFailed, Email: email, IP: ip})
	return domain.ErrInvalidCredentials
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("placeholder-password")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build placeholder hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	s.audit.Record(event)
}
