package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"opsboard/internal/domain"
	"opsboard/internal/port"
	"opsboard/internal/screens"
	"opsboard/internal/uploads"
)

// UploadInput describes one incoming slot upload.
type UploadInput struct {
	SlotID      int
	FileName    string
	Body        io.Reader
	Size        int64
	ContentType string
}

// UploadService drives the document slots of an upload-enabled screen
// session: per-slot metadata, the upload lifecycle, removal, and persisting
// the slots when the enclosing form is saved.
type UploadService interface {
	// OpenForm seeds the session's tracker with the vendor's persisted
	// slots, so an existing form opens showing its stored attachments.
	OpenForm(ctx context.Context, userID uuid.UUID, screenKey string, vendorID uuid.UUID) (map[int]uploads.SlotState, error)
	SetNumber(userID uuid.UUID, screenKey string, slotID int, number string) (uploads.SlotState, error)
	Upload(ctx context.Context, userID uuid.UUID, userEmail, screenKey string, in UploadInput) (uploads.SlotState, error)
	Remove(userID uuid.UUID, screenKey string, slotID int, confirmed bool) (uploads.SlotState, error)
	Slots(userID uuid.UUID, screenKey string) (map[int]uploads.SlotState, error)
	// FileURL returns a presigned download URL for a slot's stored file.
	FileURL(ctx context.Context, userID uuid.UUID, screenKey string, slotID int) (string, error)
	// SaveForm persists every touched slot for a vendor. Slots marked for
	// deletion are written with their file fields cleared; Number survives.
	// Objects the form no longer references are deleted from storage.
	SaveForm(ctx context.Context, userID uuid.UUID, screenKey string, vendorID uuid.UUID) error
}

type uploadService struct {
	manager       *screens.Manager
	slotRepo      port.DocumentSlotRepository
	notifier      port.Notifier
	maxFileBytes  int64
	presignExpiry int64
}

// NewUploadService creates a new UploadService implementation. maxFileSizeMB
// bounds individual uploads; zero disables the check. presignExpirySecs is
// the lifetime of download URLs.
func NewUploadService(manager *screens.Manager, slotRepo port.DocumentSlotRepository, notifier port.Notifier, maxFileSizeMB, presignExpirySecs int64) UploadService {
	return &uploadService{
		manager:       manager,
		slotRepo:      slotRepo,
		notifier:      notifier,
		maxFileBytes:  maxFileSizeMB * 1024 * 1024,
		presignExpiry: presignExpirySecs,
	}
}

func (s *uploadService) tracker(userID uuid.UUID, screenKey string) (*screens.Session, *uploads.Tracker, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, nil, err
	}
	if sess.Tracker == nil {
		return nil, nil, fmt.Errorf("%w: screen %s has no upload slots", domain.ErrUnknownSlot, screenKey)
	}
	return sess, sess.Tracker, nil
}

func (s *uploadService) validSlot(sess *screens.Session, slotID int) bool {
	for _, id := range sess.Screen.DocumentTypeIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

func (s *uploadService) OpenForm(ctx context.Context, userID uuid.UUID, screenKey string, vendorID uuid.UUID) (map[int]uploads.SlotState, error) {
	_, tr, err := s.tracker(userID, screenKey)
	if err != nil {
		return nil, err
	}

	persisted, err := s.slotRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("uploadService.OpenForm: %w", err)
	}
	tr.Restore(persisted)
	return tr.Slots(), nil
}

func (s *uploadService) SetNumber(userID uuid.UUID, screenKey string, slotID int, number string) (uploads.SlotState, error) {
	sess, tr, err := s.tracker(userID, screenKey)
	if err != nil {
		return uploads.SlotState{}, err
	}
	if !s.validSlot(sess, slotID) {
		return uploads.SlotState{}, domain.ErrUnknownSlot
	}
	tr.SetNumber(slotID, number)
	state, _ := tr.Slot(slotID)
	return state, nil
}

// Upload streams one file into the slot. Failures are reported to the
// operator by mail; notification errors are logged and swallowed, the upload
// outcome is what matters.
func (s *uploadService) Upload(ctx context.Context, userID uuid.UUID, userEmail, screenKey string, in UploadInput) (uploads.SlotState, error) {
	sess, tr, err := s.tracker(userID, screenKey)
	if err != nil {
		return uploads.SlotState{}, err
	}
	if !s.validSlot(sess, in.SlotID) {
		return uploads.SlotState{}, domain.ErrUnknownSlot
	}
	if s.maxFileBytes > 0 && in.Size > s.maxFileBytes {
		return uploads.SlotState{}, domain.ErrFileTooLarge
	}

	attempt := tr.SelectFile(in.SlotID, in.FileName)
	if _, err := tr.Upload(ctx, in.SlotID, attempt, in.FileName, in.Body, in.Size, in.ContentType); err != nil {
		if nerr := s.notifier.NotifyUploadFailure(ctx, userEmail, in.FileName, err.Error()); nerr != nil {
			log.Printf("uploadService: failure notification to %s: %v", userEmail, nerr)
		}
		state, _ := tr.Slot(in.SlotID)
		return state, err
	}

	state, _ := tr.Slot(in.SlotID)
	return state, nil
}

func (s *uploadService) Remove(userID uuid.UUID, screenKey string, slotID int, confirmed bool) (uploads.SlotState, error) {
	sess, tr, err := s.tracker(userID, screenKey)
	if err != nil {
		return uploads.SlotState{}, err
	}
	if !s.validSlot(sess, slotID) {
		return uploads.SlotState{}, domain.ErrUnknownSlot
	}
	tr.Remove(slotID, confirmed)
	state, _ := tr.Slot(slotID)
	return state, nil
}

func (s *uploadService) Slots(userID uuid.UUID, screenKey string) (map[int]uploads.SlotState, error) {
	_, tr, err := s.tracker(userID, screenKey)
	if err != nil {
		return nil, err
	}
	return tr.Slots(), nil
}

func (s *uploadService) FileURL(ctx context.Context, userID uuid.UUID, screenKey string, slotID int) (string, error) {
	sess, tr, err := s.tracker(userID, screenKey)
	if err != nil {
		return "", err
	}
	if !s.validSlot(sess, slotID) {
		return "", domain.ErrUnknownSlot
	}
	return tr.FileURL(ctx, slotID, s.presignExpiry)
}

func (s *uploadService) SaveForm(ctx context.Context, userID uuid.UUID, screenKey string, vendorID uuid.UUID) error {
	_, tr, err := s.tracker(userID, screenKey)
	if err != nil {
		return err
	}

	for slotID, state := range tr.Slots() {
		// Untouched slots have nothing to persist.
		if state.Status == domain.UploadIdle && !state.MarkedForDeletion && state.Number == "" {
			continue
		}
		// An in-flight or failed upload never reaches the database.
		if state.Status == domain.UploadUploading || state.Status == domain.UploadFailed {
			continue
		}

		slot := &domain.DocumentSlot{
			VendorID:       vendorID,
			DocumentTypeID: slotID,
			Number:         state.Number,
			UploadedBy:     userID,
			UpdatedAt:      time.Now(),
		}
		if !state.MarkedForDeletion {
			slot.FileName = state.FileNameRemote
			slot.StorageKey = state.StorageKey
		}
		if err := s.slotRepo.Upsert(ctx, slot); err != nil {
			return fmt.Errorf("uploadService.SaveForm slot %d: %w", slotID, err)
		}
		// The save is the point where removed and replaced files stop
		// being referenced; their objects can go now.
		tr.FlushStale(ctx, slotID)
	}
	return nil
}
