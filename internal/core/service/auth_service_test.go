package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

func TestRegister_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 24*time.Hour)

	user, err := svc.Register(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned user ID")
	}
	if user.PasswordHash == "hunter2" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 24*time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "other")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_EmptyCredentials(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 24*time.Hour)

	if _, err := svc.Register(context.Background(), "", "pwd"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestLogin_ReturnsTokenBoundToUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 24*time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("login returned wrong user: %+v", user)
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Fatalf("expected subject %q, got %q", registered.ID, claims.Subject)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Fatalf("expected roughly 24h expiry, got %v", ttl)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", 24*time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := svc.Login(ctx, "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 24*time.Hour)

	_, _, err := svc.Login(context.Background(), "ghost", "pwd")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
