package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"opsboard/internal/domain"
	"opsboard/internal/port"
)

type documentSlotRepo struct {
	db *sqlx.DB
}

// NewDocumentSlotRepo creates a new PostgreSQL-backed DocumentSlotRepository.
func NewDocumentSlotRepo(db *sqlx.DB) port.DocumentSlotRepository {
	return &documentSlotRepo{db: db}
}

func (r *documentSlotRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]domain.DocumentSlot, error) {
	var slots []domain.DocumentSlot
	err := r.db.SelectContext(ctx, &slots,
		`SELECT * FROM vendor_document_slots WHERE vendor_id = $1 ORDER BY document_type_id`,
		vendorID)
	if err != nil {
		return nil, fmt.Errorf("documentSlotRepo.ListByVendor: %w", err)
	}
	return slots, nil
}

func (r *documentSlotRepo) Upsert(ctx context.Context, slot *domain.DocumentSlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	slot.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO vendor_document_slots
		(id, vendor_id, document_type_id, number, file_name, storage_key, uploaded_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vendor_id, document_type_id)
		DO UPDATE SET number = EXCLUDED.number,
			file_name = EXCLUDED.file_name,
			storage_key = EXCLUDED.storage_key,
			uploaded_by = EXCLUDED.uploaded_by,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.VendorID, slot.DocumentTypeID, slot.Number,
		slot.FileName, slot.StorageKey, slot.UploadedBy, slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentSlotRepo.Upsert: %w", err)
	}
	return nil
}
