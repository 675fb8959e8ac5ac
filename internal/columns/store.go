// Package columns resolves the per-user column layout of a screen's table.
package columns

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"opsboard/internal/domain"
	"opsboard/internal/port"
)

// Store fetches stored column preferences and falls back to a screen's
// hardcoded defaults when the stored set is empty or unusable. It is
// read-only: the manage-columns editor writes through its own endpoint and
// callers re-fetch after it saves.
type Store struct {
	repo port.ColumnPreferenceRepository
}

// NewStore creates a Store over the given preference repository.
func NewStore(repo port.ColumnPreferenceRepository) *Store {
	return &Store{repo: repo}
}

// Fetch loads the user's column definitions for a screen. When the stored set
// is empty, or the fetch fails, the screen's fallback defaults are returned
// instead so the table is never rendered without columns. The fallback is
// returned as-is, not persisted.
func (s *Store) Fetch(ctx context.Context, screenKey string, userID uuid.UUID, fallback []domain.ColumnDefinition) ([]domain.ColumnDefinition, error) {
	defs, err := s.repo.ListByScreen(ctx, screenKey, userID)
	if err != nil {
		return fallback, fmt.Errorf("columns.Fetch %s: %w", screenKey, err)
	}
	if len(defs) == 0 {
		return fallback, nil
	}
	return defs, nil
}

// Effective derives the displayed column set: only definitions with both
// IsVisible and IsHidden set are kept, ordered ascending by DisplayOrder.
//
// The conjunction is deliberate. The stored IsHidden flag gates visibility
// eligibility rather than hiding; the behavior is preserved for compatibility
// with existing preference rows even though the name is inverted.
func Effective(defs []domain.ColumnDefinition) []domain.ColumnDefinition {
	out := make([]domain.ColumnDefinition, 0, len(defs))
	for _, d := range defs {
		if d.IsVisible && d.IsHidden {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

// Contains reports whether the effective set includes the given raw column
// name. Used by the list controller to validate sort targets.
func Contains(defs []domain.ColumnDefinition, columnName string) bool {
	for _, d := range defs {
		if d.ColumnName == columnName {
			return true
		}
	}
	return false
}
