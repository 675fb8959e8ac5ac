package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"opsboard/internal/domain"
	"opsboard/internal/port"
)

type columnPrefRepo struct {
	db *sqlx.DB
}

// NewColumnPrefRepo creates a new PostgreSQL-backed ColumnPreferenceRepository.
func NewColumnPrefRepo(db *sqlx.DB) port.ColumnPreferenceRepository {
	return &columnPrefRepo{db: db}
}

func (r *columnPrefRepo) ListByScreen(ctx context.Context, screenKey string, userID uuid.UUID) ([]domain.ColumnDefinition, error) {
	var defs []domain.ColumnDefinition
	err := r.db.SelectContext(ctx, &defs,
		`SELECT column_name, display_name, is_visible, is_hidden, display_order
		 FROM column_preferences
		 WHERE screen_key = $1 AND user_id = $2
		 ORDER BY display_order ASC`,
		screenKey, userID)
	if err != nil {
		return nil, fmt.Errorf("columnPrefRepo.ListByScreen: %w", err)
	}
	return defs, nil
}

func (r *columnPrefRepo) Save(ctx context.Context, screenKey string, userID uuid.UUID, defs []domain.ColumnDefinition) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("columnPrefRepo.Save: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM column_preferences WHERE screen_key = $1 AND user_id = $2`,
		screenKey, userID)
	if err != nil {
		return fmt.Errorf("columnPrefRepo.Save: clear: %w", err)
	}

	for _, d := range defs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO column_preferences
			 (screen_key, user_id, column_name, display_name, is_visible, is_hidden, display_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			screenKey, userID, d.ColumnName, d.DisplayName, d.IsVisible, d.IsHidden, d.DisplayOrder)
		if err != nil {
			return fmt.Errorf("columnPrefRepo.Save: insert %s: %w", d.ColumnName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("columnPrefRepo.Save: commit: %w", err)
	}
	return nil
}
