package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who did what to which resource, for compliance and
// debugging. Audit rows are written best effort and never block a money
// operation.
type AuditLog struct {
	ID           string
	UserID       int64
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Detail       JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionUserRegister AuditAction = "user.register"
	AuditActionUserLogin    AuditAction = "user.login"

	AuditActionDeposit  AuditAction = "ledger.deposit"
	AuditActionWithdraw AuditAction = "ledger.withdraw"
	AuditActionTransfer AuditAction = "ledger.transfer"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
