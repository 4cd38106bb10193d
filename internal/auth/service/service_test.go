package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"prospectmap_backend/internal/auth/password"
	"prospectmap_backend/internal/auth/repository"
	"prospectmap_backend/internal/auth/token"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string         { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return time.Hour }

type storedToken struct {
	profileID uuid.UUID
	expiresAt time.Time
	revoked   bool
}

type fakeRepo struct {
	mu       sync.Mutex
	accounts map[string]repository.Account
	tokens   map[string]*storedToken
	created  []repository.NewAccount
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[string]repository.Account{}, tokens: map[string]*storedToken{}}
}

func (f *fakeRepo) CreateAccount(_ context.Context, in repository.NewAccount) (repository.Account, error) {
	f.created = append(f.created, in)
	acc := repository.Account{ID: uuid.New(), Email: in.Email, PasswordHash: in.PasswordHash, Role: in.Role, Active: true}
	f.accounts[in.Email] = acc
	return acc, nil
}

func (f *fakeRepo) GetAccountByEmail(_ context.Context, email string) (repository.Account, error) {
	acc, ok := f.accounts[email]
	if !ok {
		return repository.Account{}, repository.ErrNotFound
	}
	return acc, nil
}

func (f *fakeRepo) GetAccountByID(_ context.Context, id uuid.UUID) (repository.Account, error) {
	for _, acc := range f.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return repository.Account{}, repository.ErrNotFound
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, profileID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tokenHash] = &storedToken{profileID: profileID, expiresAt: expiresAt}
	return nil
}

func (f *fakeRepo) ConsumeRefreshToken(_ context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, ok := f.tokens[tokenHash]
	if !ok || tok.revoked {
		return uuid.UUID{}, time.Time{}, repository.ErrNotFound
	}
	tok.revoked = true
	return tok.profileID, tok.expiresAt, nil
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tok, ok := f.tokens[tokenHash]; ok {
		tok.revoked = true
	}
	return nil
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	return New(repo, testConfig{}, phone.NewNormalizer(phone.DefaultRegion), logger.Discard())
}

func seedAccount(t *testing.T, repo *fakeRepo, email, plain string, active bool) repository.Account {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	acc := repository.Account{ID: uuid.New(), Email: email, PasswordHash: hash, Role: "commercial", Active: active}
	repo.accounts[email] = acc
	return acc
}

func TestSignInIssuesAccessTokenWithRole(t *testing.T) {
	repo := newFakeRepo()
	acc := seedAccount(t, repo, "alice@example.com", "motdepasse", true)
	svc := newTestService(t, repo)

	tokens, err := svc.SignIn(context.Background(), "  Alice@Example.com ", "motdepasse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	parsed, err := jwt.Parse(tokens.AccessToken, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != acc.ID.String() || claims["type"] != "access" {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if _, ok := repo.tokens[token.Digest(tokens.RefreshToken)]; !ok {
		t.Fatal("expected refresh token hash to be stored")
	}
}

func TestSignInFailuresShareMessage(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "alice@example.com", "motdepasse", true)
	seedAccount(t, repo, "bob@example.com", "motdepasse", false)
	svc := newTestService(t, repo)

	cases := []struct{ email, pass string }{
		{"nobody@example.com", "motdepasse"},
		{"alice@example.com", "mauvais"},
		{"bob@example.com", "motdepasse"},
	}
	for _, tc := range cases {
		_, err := svc.SignIn(context.Background(), tc.email, tc.pass)
		if !apperr.Is(err, apperr.KindUnauthorized) {
			t.Fatalf("%s: expected unauthorized, got %v", tc.email, err)
		}
		if err.Error() != msgInvalidCredentials {
			t.Fatalf("%s: unexpected message %q", tc.email, err.Error())
		}
	}
	if len(repo.tokens) != 0 {
		t.Fatal("expected no session to be created")
	}
}

func TestSignUpCreatesCommercial(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	phoneInput := "06 12 34 56 78"

	if _, err := svc.SignUp(context.Background(), SignUpInput{
		Email: "New@Example.com", Password: "motdepasse", FirstName: "Nina", LastName: "<b>Roux</b>", Phone: &phoneInput,
	}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one account, got %d", len(repo.created))
	}
	created := repo.created[0]
	if created.Email != "new@example.com" || created.Role != "commercial" || created.LastName != "Roux" {
		t.Fatalf("unexpected account: %+v", created)
	}
	if created.Phone == nil || *created.Phone != "+33612345678" {
		t.Fatalf("expected normalized phone, got %v", created.Phone)
	}

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "new@example.com", Password: "motdepasse"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "alice@example.com", "motdepasse", true)
	svc := newTestService(t, repo)

	first, err := svc.SignIn(context.Background(), "alice@example.com", "motdepasse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("expected a new refresh token")
	}
	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected reused token to be rejected, got %v", err)
	}
}

func TestRefreshConsumesTokenOnce(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "alice@example.com", "motdepasse", true)
	svc := newTestService(t, repo)

	first, err := svc.SignIn(context.Background(), "alice@example.com", "motdepasse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	const attempts = 8
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Refresh(context.Background(), first.RefreshToken); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := succeeded.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh to succeed, got %d", got)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	repo := newFakeRepo()
	acc := seedAccount(t, repo, "alice@example.com", "motdepasse", true)
	repo.tokens[token.Digest("stale")] = &storedToken{profileID: acc.ID, expiresAt: time.Now().Add(-time.Minute)}
	svc := newTestService(t, repo)

	if _, err := svc.Refresh(context.Background(), "stale"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if !repo.tokens[token.Digest("stale")].revoked {
		t.Fatal("expected expired token to be revoked")
	}
}
