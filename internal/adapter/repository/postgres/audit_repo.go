package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts an audit log row.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			audit_id, user_id, action, resource_type, resource_id,
			ip_address, request_id, detail, status, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var detail []byte
	if log.Detail != nil {
		var err error
		detail, err = json.Marshal(log.Detail)
		if err != nil {
			return err
		}
	}

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.IPAddress,
		log.RequestID,
		detail,
		log.Status,
		log.ErrorMessage,
		log.CreatedAt,
	)

	return err
}

// List retrieves a user's audit logs, newest first.
func (r *AuditRepository) List(ctx context.Context, userID int64, limit, offset int) ([]*domain.AuditLog, error) {
	query := `
		SELECT audit_id, user_id, action, resource_type, resource_id,
			ip_address, request_id, detail, status, error_message, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log    domain.AuditLog
			detail []byte
		)
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.IPAddress,
			&log.RequestID,
			&detail,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}

		if detail != nil {
			_ = json.Unmarshal(detail, &log.Detail)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
