package domain

import "testing"

func TestEntryKind_Sign(t *testing.T) {
	tests := []struct {
		kind EntryKind
		want int64
	}{
		{KindDeposit, +1},
		{KindTransferIn, +1},
		{KindWithdrawal, -1},
		{KindTransferOut, -1},
		{EntryKind("refund"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Sign(); got != tt.want {
				t.Errorf("Sign() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEntry_SignedAmount(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  int64
	}{
		{
			name:  "deposit credits",
			entry: Entry{Kind: KindDeposit, AmountCents: 50000},
			want:  50000,
		},
		{
			name:  "transfer in credits",
			entry: Entry{Kind: KindTransferIn, AmountCents: 20000},
			want:  20000,
		},
		{
			name:  "withdrawal debits",
			entry: Entry{Kind: KindWithdrawal, AmountCents: 40000},
			want:  -40000,
		},
		{
			name:  "transfer out debits",
			entry: Entry{Kind: KindTransferOut, AmountCents: 20000},
			want:  -20000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.SignedAmount(); got != tt.want {
				t.Errorf("SignedAmount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr error
	}{
		{
			name:    "valid deposit",
			entry:   Entry{Kind: KindDeposit, AmountCents: 100},
			wantErr: nil,
		},
		{
			name:    "zero amount",
			entry:   Entry{Kind: KindDeposit, AmountCents: 0},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			entry:   Entry{Kind: KindWithdrawal, AmountCents: -100},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown kind",
			entry:   Entry{Kind: EntryKind("refund"), AmountCents: 100},
			wantErr: ErrUnknownEntryKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.entry.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryStatus_IsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	if !StatusCompleted.IsTerminal() {
		t.Error("completed must be terminal")
	}
	if !StatusFailed.IsTerminal() {
		t.Error("failed must be terminal")
	}
}
