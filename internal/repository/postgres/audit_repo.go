package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"labadmin-service/internal/domain/audit"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordPrivilegeMutation writes one audit row. The caller does not supply an
// ID; one is minted here.
func (r *AuditRepository) RecordPrivilegeMutation(ctx context.Context, m *audit.PrivilegeMutation) error {
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}

	query := `
		INSERT INTO privilege_mutations (
			id, actor_id, target_user_id, target_email, action,
			privilege_names, succeeded, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		m.ID, m.ActorID, m.TargetUserID, m.TargetEmail, m.Action,
		m.PrivilegeNames, m.Succeeded, m.Message,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record privilege mutation: %w", err)
	}
	return nil
}

// ListRecentForTarget returns the newest mutations against one target email.
func (r *AuditRepository) ListRecentForTarget(ctx context.Context, targetEmail string, limit int) ([]audit.PrivilegeMutation, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, actor_id, target_user_id, target_email, action,
		       privilege_names, succeeded, message, created_at
		FROM privilege_mutations
		WHERE target_email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, targetEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list privilege mutations: %w", err)
	}
	defer rows.Close()

	var mutations []audit.PrivilegeMutation
	for rows.Next() {
		var m audit.PrivilegeMutation
		if err := rows.Scan(
			&m.ID, &m.ActorID, &m.TargetUserID, &m.TargetEmail, &m.Action,
			&m.PrivilegeNames, &m.Succeeded, &m.Message, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan privilege mutation: %w", err)
		}
		mutations = append(mutations, m)
	}
	return mutations, rows.Err()
}
