package port

import (
	"context"

	"github.com/google/uuid"

	"opsboard/internal/domain"
)

// EmployeeRepository provides access to operator accounts.
type EmployeeRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
}

// FormPermissionRepository loads the per-user action grants for the
// permission registry and lets administrators rewrite them.
type FormPermissionRepository interface {
	// ListByUser returns one row per screen the user has any grants on.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PermissionRow, error)
	// Upsert replaces the user's grant string for one form. The string is
	// stored raw; the registry normalizes it on load.
	Upsert(ctx context.Context, userID uuid.UUID, formID int, actions string) error
}

// ColumnPreferenceRepository stores per-user, per-screen column layouts.
type ColumnPreferenceRepository interface {
	ListByScreen(ctx context.Context, screenKey string, userID uuid.UUID) ([]domain.ColumnDefinition, error)
	// Save replaces the user's stored layout for a screen. This is the
	// manage-columns editor's write path; readers re-fetch afterwards.
	Save(ctx context.Context, screenKey string, userID uuid.UUID, defs []domain.ColumnDefinition) error
}

// DocumentSlotRepository persists vendor-document attachment slots. File
// references are written only when the enclosing form is saved; a slot
// marked for deletion is saved with its file fields cleared while Number is
// preserved.
type DocumentSlotRepository interface {
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.DocumentSlot, error)
	Upsert(ctx context.Context, slot *domain.DocumentSlot) error
}
