package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

type fakeAuthUserRepo struct {
	byEmail map[string]*types.User
}

func newFakeAuthUserRepo() *fakeAuthUserRepo {
	return &fakeAuthUserRepo{byEmail: map[string]*types.User{}}
}

func (f *fakeAuthUserRepo) Create(_ context.Context, _ *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		f.byEmail[u.Email] = u
	}
	return users, nil
}

func (f *fakeAuthUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.byEmail {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeAuthUserRepo) GetByEmails(_ context.Context, _ *gorm.DB, emails []string) ([]*types.User, error) {
	var out []*types.User
	for _, e := range emails {
		if u, ok := f.byEmail[e]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeAuthUserRepo) EmailExists(_ context.Context, _ *gorm.DB, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeAuthUserRepo) Update(_ context.Context, _ *gorm.DB, _ *types.User) error {
	return nil
}

type fakeUserTokenRepo struct {
	tokens map[uuid.UUID]*types.UserToken
}

func newFakeUserTokenRepo() *fakeUserTokenRepo {
	return &fakeUserTokenRepo{tokens: map[uuid.UUID]*types.UserToken{}}
}

func (f *fakeUserTokenRepo) Create(_ context.Context, _ *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
	for _, t := range tokens {
		t.ID = uuid.New()
		f.tokens[t.ID] = t
	}
	return tokens, nil
}

func (f *fakeUserTokenRepo) GetByUserIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range f.tokens {
		for _, id := range ids {
			if t.UserID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) GetByRefreshToken(_ context.Context, _ *gorm.DB, refreshToken string) (*types.UserToken, error) {
	for _, t := range f.tokens {
		if t.RefreshToken == refreshToken {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeUserTokenRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.tokens, id)
	}
	return nil
}

func newAuthService(users *fakeAuthUserRepo, tokens *fakeUserTokenRepo) AuthService {
	return NewAuthService(logger.NewNop(), passthroughTxRunner{}, users, tokens,
		"test-secret", time.Hour, 24*time.Hour)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	users := newFakeAuthUserRepo()
	tokens := newFakeUserTokenRepo()
	svc := newAuthService(users, tokens)

	pair, err := svc.RegisterUser(context.Background(), &types.User{
		Email:    "Aruzhan@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("register returned empty tokens")
	}

	// Registration normalizes the email, so login matches case-insensitively.
	loginPair, err := svc.LoginUser(context.Background(), "aruzhan@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rd, err := svc.ParseAccessToken(loginPair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if rd.Email != "aruzhan@example.com" {
		t.Fatalf("email = %q", rd.Email)
	}
	if rd.UserID == uuid.Nil {
		t.Fatal("parsed user id is nil")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeAuthUserRepo()
	svc := newAuthService(users, newFakeUserTokenRepo())

	if _, err := svc.RegisterUser(context.Background(), &types.User{
		Email:    "user@example.com",
		Password: "correct",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.LoginUser(context.Background(), "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.LoginUser(context.Background(), "nobody@example.com", "correct"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeAuthUserRepo(), newFakeUserTokenRepo())

	if _, err := svc.RegisterUser(context.Background(), &types.User{
		Email: "dup@example.com", Password: "p",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.RegisterUser(context.Background(), &types.User{
		Email: "dup@example.com", Password: "p",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("error = %v, want ErrEmailTaken", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	tokens := newFakeUserTokenRepo()
	svc := newAuthService(newFakeAuthUserRepo(), tokens)

	pair, err := svc.RegisterUser(context.Background(), &types.User{
		Email: "r@example.com", Password: "p",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	next, err := svc.RefreshUser(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The old refresh token is revoked by rotation.
	if _, err := svc.RefreshUser(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestParseAccessTokenRejectsForgery(t *testing.T) {
	svc := newAuthService(newFakeAuthUserRepo(), newFakeUserTokenRepo())
	other := NewAuthService(logger.NewNop(), passthroughTxRunner{}, newFakeAuthUserRepo(), newFakeUserTokenRepo(),
		"different-secret", time.Hour, 24*time.Hour)

	pair, err := other.(*authService).issueTokens(context.Background(), nil, &types.User{ID: uuid.New(), Email: "x@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}
