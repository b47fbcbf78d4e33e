package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/auth"
	"github.com/iho/bankledger/internal/usecase"
)

type userServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	getFn          func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *userServiceStub) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			if input.Username != "alice" {
				t.Fatalf("expected username alice, got %q", input.Username)
			}
			return &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil
		},
	}, testJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User == nil || resp.User.ID != 1 {
		t.Fatalf("expected user in response, got %+v", resp.User)
	}
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}, testJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{Username: "alice", Email: "a@b.co", Password: "s3cret-pass"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	jwtManager := testJWTManager()
	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return &domain.User{ID: 2, Username: username}, nil
		},
	}, jwtManager)

	body, _ := json.Marshal(dto.LoginRequest{Username: "bob", Password: "s3cret-pass"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	claims, err := jwtManager.Verify(resp.Token)
	if err != nil {
		t.Fatalf("expected a verifiable token: %v", err)
	}
	if claims.UserID != 2 {
		t.Fatalf("expected user id 2 in claims, got %d", claims.UserID)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}, testJWTManager())

	body, _ := json.Marshal(dto.LoginRequest{Username: "bob", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "alice"}, nil
		},
	}, testJWTManager())

	rec := httptest.NewRecorder()

	handler.Me(rec, authedRequest(http.MethodGet, "/auth/me", nil, 1))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || resp.Username != "alice" {
		t.Fatalf("expected user 1/alice, got %+v", resp)
	}
}
