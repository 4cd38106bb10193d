package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"prospectmap_backend/internal/auth/password"
	"prospectmap_backend/internal/auth/repository"
	"prospectmap_backend/internal/auth/token"
	"prospectmap_backend/internal/profiles/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/db"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"
	"prospectmap_backend/platform/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	msgInvalidCredentials = "Email ou mot de passe incorrect"
	msgTokenInvalid       = "session invalide"
	msgTokenExpired       = "session expirée"
	msgEmailTaken         = "un compte existe déjà avec cet email"

	accessTokenType = "access"
)

// Repository is the storage the auth service needs.
type Repository interface {
	CreateAccount(ctx context.Context, in repository.NewAccount) (repository.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (repository.Account, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (repository.Account, error)
	CreateRefreshToken(ctx context.Context, profileID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

// Tokens is the pair issued on sign-in, sign-up and refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// SignUpInput carries a new account's credential and profile fields.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

type Service struct {
	repo   Repository
	cfg    config.AuthServiceConfig
	phones *phone.Normalizer
	log    *logger.Logger
	now    func() time.Time
}

func New(repo Repository, cfg config.AuthServiceConfig, phones *phone.Normalizer, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, phones: phones, log: log, now: time.Now}
}

func invalidCredentials() error {
	return apperr.Unauthorized(msgInvalidCredentials)
}

// SignUp creates a commercial profile and signs it in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Tokens, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.repo.GetAccountByEmail(ctx, email); err == nil {
		s.log.AuthEvent("sign_up", email, false, "email_taken")
		return Tokens{}, apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Tokens{}, apperr.LoadFailed("auth.SignUp", err)
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return Tokens{}, apperr.SaveFailed("auth.SignUp", err)
	}

	acc, err := s.repo.CreateAccount(ctx, repository.NewAccount{
		Email:        email,
		PasswordHash: hash,
		FirstName:    sanitize.Text(in.FirstName),
		LastName:     sanitize.Text(in.LastName),
		Phone:        s.phones.E164Ptr(sanitize.TextPtr(in.Phone)),
		Role:         string(domain.RoleCommercial),
	})
	if err != nil {
		return Tokens{}, apperr.SaveFailed("auth.SignUp", db.MapError(err, msgInvalidCredentials))
	}

	s.log.AuthEvent("sign_up", email, true, "")
	return s.issueTokens(ctx, acc)
}

// SignIn checks the credentials. Unknown email, wrong password and inactive
// profiles all produce the same error.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (Tokens, error) {
	email = normalizeEmail(email)
	acc, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return Tokens{}, apperr.LoadFailed("auth.SignIn", err)
		}
		s.log.AuthEvent("sign_in", email, false, "unknown_email")
		return Tokens{}, invalidCredentials()
	}

	if err := password.Compare(acc.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "bad_password")
		return Tokens{}, invalidCredentials()
	}

	if !acc.Active {
		s.log.AuthEvent("sign_in", email, false, "inactive")
		return Tokens{}, invalidCredentials()
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return s.issueTokens(ctx, acc)
}

// Refresh rotates a refresh token. The presented token is consumed even
// when it turns out to be expired.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	profileID, expiresAt, err := s.repo.ConsumeRefreshToken(ctx, token.Digest(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
		}
		return Tokens{}, apperr.SaveFailed("auth.Refresh", err)
	}

	if s.now().After(expiresAt) {
		return Tokens{}, apperr.Unauthorized(msgTokenExpired)
	}

	acc, err := s.repo.GetAccountByID(ctx, profileID)
	if err != nil || !acc.Active {
		return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
	}
	return s.issueTokens(ctx, acc)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	if err := s.repo.RevokeRefreshToken(ctx, token.Digest(refreshToken)); err != nil {
		return apperr.SaveFailed("auth.SignOut", err)
	}
	return nil
}

func (s *Service) issueTokens(ctx context.Context, acc repository.Account) (Tokens, error) {
	accessToken, err := s.signJWT(acc.ID, []string{acc.Role}, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return Tokens{}, apperr.Wrap(apperr.KindInternal, "erreur interne", err)
	}

	refreshToken, digest, err := token.NewRefresh()
	if err != nil {
		return Tokens{}, apperr.Wrap(apperr.KindInternal, "erreur interne", err)
	}

	expiresAt := s.now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, acc.ID, digest, expiresAt); err != nil {
		return Tokens{}, apperr.SaveFailed("auth.issueTokens", err)
	}

	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
