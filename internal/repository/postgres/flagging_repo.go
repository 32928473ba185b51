package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labadmin-service/internal/domain/flagging"
	xerrors "labadmin-service/internal/pkg/errors"
)

type FlaggingConfigRepository struct {
	db *pgxpool.Pool
}

func NewFlaggingConfigRepository(db *pgxpool.Pool) *FlaggingConfigRepository {
	return &FlaggingConfigRepository{db: db}
}

// CreateBatch inserts all configs in one transaction; either every threshold
// lands or none do.
func (r *FlaggingConfigRepository) CreateBatch(ctx context.Context, configs []*flagging.Config) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO flagging_configs (
			test_code, parameter_name, description, unit, gender,
			min_value, max_value, is_active, effective_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	for _, c := range configs {
		err := tx.QueryRow(
			ctx, query,
			c.TestCode, c.ParameterName, c.Description, c.Unit, c.Gender,
			c.Min, c.Max, c.IsActive, c.EffectiveDate,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create flagging config %s/%s: %w", c.TestCode, c.ParameterName, err)
		}
	}

	return tx.Commit(ctx)
}

// ListAll returns every flagging config, newest effective date first.
func (r *FlaggingConfigRepository) ListAll(ctx context.Context) ([]flagging.Config, error) {
	query := `
		SELECT id, test_code, parameter_name, description, unit, gender,
		       min_value, max_value, is_active, effective_date, created_at, updated_at
		FROM flagging_configs
		ORDER BY effective_date DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagging configs: %w", err)
	}
	defer rows.Close()

	var configs []flagging.Config
	for rows.Next() {
		var c flagging.Config
		if err := rows.Scan(
			&c.ID, &c.TestCode, &c.ParameterName, &c.Description, &c.Unit, &c.Gender,
			&c.Min, &c.Max, &c.IsActive, &c.EffectiveDate, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flagging config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// FindByID retrieves one config.
func (r *FlaggingConfigRepository) FindByID(ctx context.Context, id int64) (*flagging.Config, error) {
	query := `
		SELECT id, test_code, parameter_name, description, unit, gender,
		       min_value, max_value, is_active, effective_date, created_at, updated_at
		FROM flagging_configs
		WHERE id = $1
	`

	var c flagging.Config
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.TestCode, &c.ParameterName, &c.Description, &c.Unit, &c.Gender,
		&c.Min, &c.Max, &c.IsActive, &c.EffectiveDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flagging config: %w", err)
	}
	return &c, nil
}
