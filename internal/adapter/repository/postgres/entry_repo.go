package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// signedAmountExpr maps an entry row to its signed contribution to the
// balance. Must stay in sync with domain.EntryKind.Sign.
const signedAmountExpr = `
	CASE WHEN kind IN ('deposit', 'transfer_in')
		THEN amount_cents
		ELSE -amount_cents
	END
`

// EntryRepository implements usecase.EntryRepository over an append-only
// entries table. Rows are inserted pending and flipped to a terminal status
// exactly once; no other update path exists.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a new entry and fills in the assigned id and timestamp.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO entries (user_id, amount_cents, kind, status, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING entry_id, created_at
	`

	var createdAt any
	if !entry.CreatedAt.IsZero() {
		createdAt = entry.CreatedAt
	}

	return pgxTx.QueryRow(ctx, query,
		entry.UserID,
		entry.AmountCents,
		string(entry.Kind),
		string(entry.Status),
		createdAt,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// SetStatus performs the single pending to terminal transition. Updating an
// entry that is missing or already terminal returns domain.ErrEntryNotFound.
func (r *EntryRepository) SetStatus(ctx context.Context, tx usecase.Transaction, id int64, status domain.EntryStatus) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE entries
		SET status = $2
		WHERE entry_id = $1 AND status = 'pending'
	`

	tag, err := pgxTx.Exec(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// GetByID retrieves an entry by id.
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	query := `
		SELECT entry_id, user_id, amount_cents, kind, status, created_at
		FROM entries
		WHERE entry_id = $1
	`

	var entry domain.Entry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.AmountCents,
		&entry.Kind,
		&entry.Status,
		&entry.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ListByUser retrieves a page of the user's entries ordered by
// (created_at, entry_id) descending.
func (r *EntryRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT entry_id, user_id, amount_cents, kind, status, created_at
		FROM entries
		WHERE user_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		var entry domain.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.AmountCents,
			&entry.Kind,
			&entry.Status,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// CountByUser counts all of the user's entries, failed ones included.
func (r *EntryRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM entries WHERE user_id = $1`

	var count int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)

	return count, err
}

// SumCompletedByUser computes the user's balance as one aggregate query.
func (r *EntryRepository) SumCompletedByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(` + signedAmountExpr + `), 0)
		FROM entries
		WHERE user_id = $1 AND status = 'completed'
	`

	var sum int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&sum)

	return sum, err
}

// SumCompletedByUserTx is SumCompletedByUser evaluated inside tx, after the
// caller has locked the user row.
func (r *EntryRepository) SumCompletedByUserTx(ctx context.Context, tx usecase.Transaction, userID int64) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT COALESCE(SUM(` + signedAmountExpr + `), 0)
		FROM entries
		WHERE user_id = $1 AND status = 'completed'
	`

	var sum int64
	err := pgxTx.QueryRow(ctx, query, userID).Scan(&sum)

	return sum, err
}

// SumCompletedAtEntry computes the balance up to and including the target
// entry. The row comparison orders by (created_at, entry_id), so entries
// sharing a timestamp are tie-broken by id in one consistent query.
func (r *EntryRepository) SumCompletedAtEntry(ctx context.Context, userID, entryID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(` + signedAmountExpr + `), 0)
		FROM entries
		WHERE user_id = $1
		  AND status = 'completed'
		  AND (created_at, entry_id) <= (
			SELECT created_at, entry_id FROM entries WHERE entry_id = $2
		  )
	`

	var sum int64
	err := r.pool.QueryRow(ctx, query, userID, entryID).Scan(&sum)

	return sum, err
}
