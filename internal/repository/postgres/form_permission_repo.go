package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"opsboard/internal/domain"
	"opsboard/internal/port"
)

type formPermissionRepo struct {
	db *sqlx.DB
}

// NewFormPermissionRepo creates a new PostgreSQL-backed FormPermissionRepository.
func NewFormPermissionRepo(db *sqlx.DB) port.FormPermissionRepository {
	return &formPermissionRepo{db: db}
}

func (r *formPermissionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PermissionRow, error) {
	var rows []domain.PermissionRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT form_id, actions FROM form_permissions WHERE user_id = $1 ORDER BY form_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("formPermissionRepo.ListByUser: %w", err)
	}
	return rows, nil
}

func (r *formPermissionRepo) Upsert(ctx context.Context, userID uuid.UUID, formID int, actions string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO form_permissions (user_id, form_id, actions)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, form_id) DO UPDATE SET actions = EXCLUDED.actions`,
		userID, formID, actions)
	if err != nil {
		return fmt.Errorf("formPermissionRepo.Upsert: %w", err)
	}
	return nil
}
