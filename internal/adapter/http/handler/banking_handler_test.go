package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

type bankingServiceStub struct {
	depositFn  func(ctx context.Context, userID, amountCents int64) (*usecase.DepositResult, error)
	withdrawFn func(ctx context.Context, userID, amountCents int64) (*usecase.WithdrawResult, error)
	transferFn func(ctx context.Context, senderID, recipientID, amountCents int64) (*usecase.TransferResult, error)
}

func (s *bankingServiceStub) Deposit(ctx context.Context, userID, amountCents int64) (*usecase.DepositResult, error) {
	return s.depositFn(ctx, userID, amountCents)
}

func (s *bankingServiceStub) Withdraw(ctx context.Context, userID, amountCents int64) (*usecase.WithdrawResult, error) {
	return s.withdrawFn(ctx, userID, amountCents)
}

func (s *bankingServiceStub) Transfer(ctx context.Context, senderID, recipientID, amountCents int64) (*usecase.TransferResult, error) {
	return s.transferFn(ctx, senderID, recipientID, amountCents)
}

type balanceServiceStub struct {
	balanceFn func(ctx context.Context, userID int64) (int64, error)
}

func (s *balanceServiceStub) CurrentBalance(ctx context.Context, userID int64) (int64, error) {
	return s.balanceFn(ctx, userID)
}

type userResolverStub struct {
	resolveFn func(ctx context.Context, identifier string) (*domain.User, error)
}

func (s *userResolverStub) ResolveUser(ctx context.Context, identifier string) (*domain.User, error) {
	return s.resolveFn(ctx, identifier)
}

func authedRequest(method, target string, body []byte, userID int64) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestBankingHandler_Deposit_Success(t *testing.T) {
	var gotUserID, gotAmount int64

	handler := NewBankingHandler(&bankingServiceStub{
		depositFn: func(ctx context.Context, userID, amountCents int64) (*usecase.DepositResult, error) {
			gotUserID, gotAmount = userID, amountCents
			return &usecase.DepositResult{EntryID: 7, NewBalanceCents: 10050, PrevBalanceCents: 0}, nil
		},
	}, nil, nil)

	body, _ := json.Marshal(dto.DepositRequest{Amount: decimal.RequireFromString("100.50")})
	rec := httptest.NewRecorder()

	handler.Deposit(rec, authedRequest(http.MethodPost, "/banking/deposit", body, 1))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if gotUserID != 1 || gotAmount != 10050 {
		t.Fatalf("expected deposit of 10050 cents for user 1, got user %d amount %d", gotUserID, gotAmount)
	}

	var resp dto.DepositResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.EntryID != 7 {
		t.Fatalf("expected entry ID 7, got %d", resp.EntryID)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("expected balance 100.50, got %s", resp.Balance)
	}
}

func TestBankingHandler_Deposit_TruncatesSubCentFraction(t *testing.T) {
	var gotAmount int64

	handler := NewBankingHandler(&bankingServiceStub{
		depositFn: func(ctx context.Context, userID, amountCents int64) (*usecase.DepositResult, error) {
			gotAmount = amountCents
			return &usecase.DepositResult{EntryID: 1, NewBalanceCents: amountCents}, nil
		},
	}, nil, nil)

	body, _ := json.Marshal(dto.DepositRequest{Amount: decimal.RequireFromString("10.999")})
	rec := httptest.NewRecorder()

	handler.Deposit(rec, authedRequest(http.MethodPost, "/banking/deposit", body, 1))

	if gotAmount != 1099 {
		t.Fatalf("expected 10.999 to truncate to 1099 cents, got %d", gotAmount)
	}
}

func TestBankingHandler_Deposit_InvalidBody(t *testing.T) {
	handler := NewBankingHandler(&bankingServiceStub{
		depositFn: func(ctx context.Context, userID, amountCents int64) (*usecase.DepositResult, error) {
			t.Fatal("Deposit should not be called")
			return nil, nil
		},
	}, nil, nil)

	req := authedRequest(http.MethodPost, "/banking/deposit", []byte("{bad json"), 1)
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBankingHandler_Deposit_Unauthenticated(t *testing.T) {
	handler := NewBankingHandler(&bankingServiceStub{}, nil, nil)

	body, _ := json.Marshal(dto.DepositRequest{Amount: decimal.NewFromInt(10)})
	req := httptest.NewRequest(http.MethodPost, "/banking/deposit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBankingHandler_Withdraw_InsufficientFundsStillCreated(t *testing.T) {
	handler := NewBankingHandler(&bankingServiceStub{
		withdrawFn: func(ctx context.Context, userID, amountCents int64) (*usecase.WithdrawResult, error) {
			return &usecase.WithdrawResult{EntryID: 9, NewBalanceCents: 500, Completed: false}, nil
		},
	}, nil, nil)

	body, _ := json.Marshal(dto.WithdrawRequest{Amount: decimal.NewFromInt(100)})
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, authedRequest(http.MethodPost, "/banking/withdraw", body, 1))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for a recorded failed withdrawal, got %d", rec.Code)
	}

	var resp dto.WithdrawResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Completed {
		t.Fatal("expected completed=false")
	}
	if !resp.Balance.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("expected unchanged balance 5.00, got %s", resp.Balance)
	}
}

func TestBankingHandler_Transfer_ResolvesRecipient(t *testing.T) {
	var gotRecipientID int64

	handler := NewBankingHandler(&bankingServiceStub{
		transferFn: func(ctx context.Context, senderID, recipientID, amountCents int64) (*usecase.TransferResult, error) {
			gotRecipientID = recipientID
			return &usecase.TransferResult{OutgoingEntryID: 3, IncomingEntryID: 4, SenderNewBalance: 2500}, nil
		},
	}, nil, &userResolverStub{
		resolveFn: func(ctx context.Context, identifier string) (*domain.User, error) {
			if identifier != "bob" {
				t.Fatalf("expected identifier bob, got %q", identifier)
			}
			return &domain.User{ID: 2, Username: "bob"}, nil
		},
	})

	body, _ := json.Marshal(dto.TransferRequest{Recipient: "bob", Amount: decimal.NewFromInt(25)})
	rec := httptest.NewRecorder()

	handler.Transfer(rec, authedRequest(http.MethodPost, "/banking/transfer", body, 1))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if gotRecipientID != 2 {
		t.Fatalf("expected recipient id 2, got %d", gotRecipientID)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OutgoingEntryID != 3 || resp.IncomingEntryID != 4 {
		t.Fatalf("expected entry ids 3/4, got %+v", resp)
	}
}

func TestBankingHandler_Transfer_InsufficientFunds(t *testing.T) {
	handler := NewBankingHandler(&bankingServiceStub{
		transferFn: func(ctx context.Context, senderID, recipientID, amountCents int64) (*usecase.TransferResult, error) {
			return nil, domain.ErrInsufficientFunds
		},
	}, nil, &userResolverStub{
		resolveFn: func(ctx context.Context, identifier string) (*domain.User, error) {
			return &domain.User{ID: 2}, nil
		},
	})

	body, _ := json.Marshal(dto.TransferRequest{Recipient: "2", Amount: decimal.NewFromInt(9000)})
	rec := httptest.NewRecorder()

	handler.Transfer(rec, authedRequest(http.MethodPost, "/banking/transfer", body, 1))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestBankingHandler_Transfer_MissingRecipient(t *testing.T) {
	handler := NewBankingHandler(&bankingServiceStub{
		transferFn: func(ctx context.Context, senderID, recipientID, amountCents int64) (*usecase.TransferResult, error) {
			t.Fatal("Transfer should not be called")
			return nil, nil
		},
	}, nil, &userResolverStub{
		resolveFn: func(ctx context.Context, identifier string) (*domain.User, error) {
			t.Fatal("ResolveUser should not be called")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.TransferRequest{Amount: decimal.NewFromInt(10)})
	rec := httptest.NewRecorder()

	handler.Transfer(rec, authedRequest(http.MethodPost, "/banking/transfer", body, 1))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBankingHandler_Balance(t *testing.T) {
	handler := NewBankingHandler(nil, &balanceServiceStub{
		balanceFn: func(ctx context.Context, userID int64) (int64, error) {
			return 123456, nil
		},
	}, nil)

	rec := httptest.NewRecorder()

	handler.Balance(rec, authedRequest(http.MethodGet, "/banking/balance", nil, 5))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != 5 {
		t.Fatalf("expected user id 5, got %d", resp.UserID)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("expected balance 1234.56, got %s", resp.Balance)
	}
}
