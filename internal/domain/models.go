package domain

import (
	"time"

	"github.com/google/uuid"
)

// Employee is an operator account that signs in to the dashboard.
type Employee struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PermissionRow is one row of the form-permissions query: the actions a user
// holds on one screen, as a raw comma-separated string.
type PermissionRow struct {
	FormID  int    `db:"form_id" json:"form_id"`
	Actions string `db:"actions" json:"actions"`
}

// ColumnDefinition describes one column of a screen's table as stored in the
// per-user column preferences.
//
// A column is rendered only when both IsVisible and IsHidden are true. The
// IsHidden name is inherited from the original preference schema and does not
// mean what it says; see the columns package.
type ColumnDefinition struct {
	ColumnName   string `db:"column_name" json:"column_name"`
	DisplayName  string `db:"display_name" json:"display_name"`
	IsVisible    bool   `db:"is_visible" json:"is_visible"`
	IsHidden     bool   `db:"is_hidden" json:"is_hidden"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

// Record is one row returned by a stored list procedure. Keys are the
// procedure's output column names. Paginated list procedures denormalize the
// full result-set size into a TotalRecords column on every row.
type Record map[string]any

// TotalRecordsField is the denormalized count column present on every row of
// a paginated list response.
const TotalRecordsField = "TotalRecords"

// TotalRecords reads the denormalized result-set size from a list row.
// Returns 0 when the field is absent or not numeric.
func (r Record) TotalRecords() int {
	switch v := r[TotalRecordsField].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// DocumentSlot is one document-attachment field of a vendor-document form,
// keyed by document-type id. Number is operator-entered metadata that must
// survive upload failures and file removal.
type DocumentSlot struct {
	ID             uuid.UUID `db:"id" json:"id"`
	VendorID       uuid.UUID `db:"vendor_id" json:"vendor_id"`
	DocumentTypeID int       `db:"document_type_id" json:"document_type_id"`
	Number         string    `db:"number" json:"number"`
	FileName       string    `db:"file_name" json:"file_name"`
	StorageKey     string    `db:"storage_key" json:"storage_key"`
	UploadedBy     uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
