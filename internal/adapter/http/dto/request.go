package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// RegisterRequest represents a request to register a new user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DepositRequest represents a request to deposit money. Amount is a decimal
// dollar value; sub-cent fractions are truncated toward zero.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AmountCents returns the requested amount in integer cents.
func (r *DepositRequest) AmountCents() int64 {
	return domain.ToCents(r.Amount)
}

// WithdrawRequest represents a request to withdraw money.
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AmountCents returns the requested amount in integer cents.
func (r *WithdrawRequest) AmountCents() int64 {
	return domain.ToCents(r.Amount)
}

// TransferRequest represents a request to transfer money to another user.
// Recipient accepts either a numeric user id or a username.
type TransferRequest struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

// AmountCents returns the requested amount in integer cents.
func (r *TransferRequest) AmountCents() int64 {
	return domain.ToCents(r.Amount)
}
