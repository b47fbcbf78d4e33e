package usecase_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

func TestUserUseCase_Register(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.RegisterInput
		expectError error
	}{
		{
			name:  "valid registration",
			input: usecase.RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "Str0ngPass"},
		},
		{
			name:        "username too short",
			input:       usecase.RegisterInput{Username: "al", Email: "alice@example.com", Password: "Str0ngPass"},
			expectError: domain.ErrInvalidUsername,
		},
		{
			name:        "bad email",
			input:       usecase.RegisterInput{Username: "alice", Email: "not-an-email", Password: "Str0ngPass"},
			expectError: domain.ErrInvalidEmail,
		},
		{
			name:        "weak password",
			input:       usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password"},
			expectError: domain.ErrPasswordTooWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewUserUseCase(mocks.NewMockUserRepository(), nil, nil, nil)

			user, err := uc.Register(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID == 0 {
				t.Error("expected assigned user id")
			}
			if user.Email != "alice@example.com" {
				t.Errorf("expected normalized email, got %q", user.Email)
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(tt.input.Password)); err != nil {
				t.Errorf("stored hash does not verify: %v", err)
			}
		})
	}

	t.Run("duplicate username", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		uc := usecase.NewUserUseCase(repo, nil, nil, nil)
		ctx := context.Background()

		if _, err := uc.Register(ctx, usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "Str0ngPass"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := uc.Register(ctx, usecase.RegisterInput{Username: "alice", Email: "other@example.com", Password: "Str0ngPass"})
		if !errors.Is(err, domain.ErrUserExists) {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestUserUseCase_Authenticate(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	uc := usecase.NewUserUseCase(repo, nil, nil, nil)
	ctx := context.Background()

	if _, err := uc.Register(ctx, usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "Str0ngPass"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := uc.Authenticate(ctx, "alice", "Str0ngPass")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %s", user.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Authenticate(ctx, "alice", "WrongPass1")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := uc.Authenticate(ctx, "bob", "Str0ngPass")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserUseCase_ResolveUser(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	cache := mocks.NewMockCache()
	uc := usecase.NewUserUseCase(repo, cache, nil, nil)
	ctx := context.Background()

	repo.Seed(&domain.User{ID: 42, Username: "alice", Email: "alice@example.com", HashedPassword: "secret-hash"})

	t.Run("by numeric id", func(t *testing.T) {
		user, err := uc.ResolveUser(ctx, "42")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %s", user.Username)
		}
	})

	t.Run("by username", func(t *testing.T) {
		user, err := uc.ResolveUser(ctx, "alice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != 42 {
			t.Errorf("expected id 42, got %d", user.ID)
		}
	})

	t.Run("cached result omits credential hash", func(t *testing.T) {
		// The first lookups above populated the cache.
		user, err := uc.ResolveUser(ctx, "alice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.HashedPassword != "" {
			t.Error("cached user must not carry the credential hash")
		}
	})

	t.Run("cache served after the record is gone", func(t *testing.T) {
		uc := usecase.NewUserUseCase(repo, cache, nil, nil)

		repo.GetByIDFunc = func(ctx context.Context, id int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		}
		defer func() { repo.GetByIDFunc = nil }()

		user, err := uc.ResolveUser(ctx, "42")
		if err != nil {
			t.Fatalf("expected cache hit, got error: %v", err)
		}
		if user.ID != 42 {
			t.Errorf("expected id 42, got %d", user.ID)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := uc.ResolveUser(ctx, "nobody")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("blank identifier", func(t *testing.T) {
		_, err := uc.ResolveUser(ctx, "   ")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserUseCase_AuditTrail(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	audit := mocks.NewMockAuditRepository()
	uc := usecase.NewUserUseCase(repo, nil, audit, mocks.NewMockIDGenerator())
	ctx := context.Background()

	user, err := uc.Register(ctx, usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "Str0ngPass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Authenticate(ctx, "alice", "wrong-pass"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := uc.Authenticate(ctx, "alice", "Str0ngPass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(audit.Logs) != 3 {
		t.Fatalf("expected 3 audit rows, got %d", len(audit.Logs))
	}

	register := audit.Logs[0]
	if register.Action != string(domain.AuditActionUserRegister) || register.Status != string(domain.AuditStatusSuccess) {
		t.Errorf("unexpected register audit row: %+v", register)
	}
	if register.UserID != user.ID || register.ID == "" {
		t.Errorf("expected register audit row bound to user %d with an id, got %+v", user.ID, register)
	}

	failedLogin := audit.Logs[1]
	if failedLogin.Action != string(domain.AuditActionUserLogin) || failedLogin.Status != string(domain.AuditStatusFailure) {
		t.Errorf("unexpected failed login audit row: %+v", failedLogin)
	}

	login := audit.Logs[2]
	if login.Action != string(domain.AuditActionUserLogin) || login.Status != string(domain.AuditStatusSuccess) {
		t.Errorf("unexpected login audit row: %+v", login)
	}
}
