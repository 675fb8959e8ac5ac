// Package uploads tracks the lifecycle of document-slot uploads inside the
// vendor-document form. Each slot is keyed by document-type id and moves
// through idle -> uploading -> done/failed independently of every other slot
// and of the list controller.
package uploads

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"opsboard/internal/domain"
	"opsboard/internal/port"
)

// SlotState is a point-in-time view of one document slot.
type SlotState struct {
	DocumentTypeID  int                 `json:"document_type_id"`
	Status          domain.UploadStatus `json:"status"`
	ProgressPercent int                 `json:"progress_percent"`
	// ProgressVisible goes false a short grace period after completion so
	// the "Uploaded" label replaces the bar without flicker.
	ProgressVisible   bool   `json:"progress_visible"`
	FileNameLocal     string `json:"file_name_local"`
	FileNameRemote    string `json:"file_name_remote"`
	StorageKey        string `json:"-"`
	Number            string `json:"number"`
	MarkedForDeletion bool   `json:"marked_for_deletion"`
}

type slot struct {
	SlotState
	// attempt increases on every SelectFile. Progress events and
	// completions carrying a stale attempt id are discarded, so a
	// superseded upload can no longer overwrite the slot after a newer one
	// finished. The legacy screens let the last completion win; the attempt
	// id is the documented fix for that race.
	attempt int
	// staleKeys holds object keys the slot no longer references (replaced
	// files, removed files, superseded uploads). They are deleted from
	// storage only when the enclosing form is saved.
	staleKeys []string
}

// Tracker manages all slots of one open vendor-document form.
type Tracker struct {
	storage   port.ObjectStorage
	bucket    string
	keyPrefix string
	grace     time.Duration

	mu    sync.Mutex
	slots map[int]*slot
}

// DefaultGrace is how long the 100% bar stays visible after a completed
// upload before it is cleared.
const DefaultGrace = 1500 * time.Millisecond

// NewTracker creates a tracker storing uploads under the given bucket and
// key prefix. A non-positive grace falls back to DefaultGrace.
func NewTracker(storage port.ObjectStorage, bucket, keyPrefix string, grace time.Duration) *Tracker {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Tracker{
		storage:   storage,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		grace:     grace,
		slots:     map[int]*slot{},
	}
}

// Restore seeds the tracker from persisted slot rows when an existing form
// is opened. Slots with a stored file come up done with no progress bar;
// slots holding only a number come up idle. Restore replaces any state the
// tracker held before.
func (t *Tracker) Restore(persisted []domain.DocumentSlot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots = make(map[int]*slot, len(persisted))
	for _, p := range persisted {
		s := &slot{SlotState: SlotState{
			DocumentTypeID: p.DocumentTypeID,
			Status:         domain.UploadIdle,
			Number:         p.Number,
		}}
		if p.StorageKey != "" {
			s.Status = domain.UploadDone
			s.FileNameRemote = p.FileName
			s.StorageKey = p.StorageKey
		}
		t.slots[p.DocumentTypeID] = s
	}
}

// SetNumber records operator-entered metadata for a slot. The number is
// independent of the file lifecycle and survives upload failures and
// removals.
func (t *Tracker) SetNumber(slotID int, number string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensure(slotID).Number = number
}

// SelectFile registers a chosen file and optimistically transitions the slot
// to uploading at 0% before any network activity. It returns the attempt id
// the subsequent Upload call must carry.
func (t *Tracker) SelectFile(slotID int, fileName string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.ensure(slotID)
	s.attempt++
	if s.StorageKey != "" {
		// The replaced object stays in storage until the form is saved.
		s.staleKeys = append(s.staleKeys, s.StorageKey)
	}
	s.Status = domain.UploadUploading
	s.ProgressPercent = 0
	s.ProgressVisible = true
	s.FileNameLocal = fileName
	s.FileNameRemote = ""
	s.StorageKey = ""
	s.MarkedForDeletion = false
	return s.attempt
}

// Upload streams the file to object storage, driving the slot's progress as
// the body is consumed. On success the slot becomes done at 100% with the
// storage-confirmed filename, and after the grace period the progress bar is
// cleared while the filename persists. On failure the slot reverts to a
// file-less state; the slot's number metadata is never touched.
//
// Events from a stale attempt are ignored entirely.
func (t *Tracker) Upload(ctx context.Context, slotID, attempt int, fileName string, body io.Reader, size int64, contentType string) (string, error) {
	remoteName := uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
	key := fmt.Sprintf("%s/%d/%s", t.keyPrefix, slotID, remoteName)

	_, err := t.storage.Upload(ctx, port.UploadInput{
		Bucket:      t.bucket,
		Key:         key,
		Body:        body,
		ContentType: contentType,
		Size:        size,
		OnProgress: func(percent int) {
			t.setProgress(slotID, attempt, percent)
		},
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.ensure(slotID)
	if attempt != s.attempt {
		// A newer selection owns the slot now.
		if err != nil {
			log.Printf("uploads: stale attempt %d for slot %d failed: %v", attempt, slotID, err)
		} else {
			// The superseded upload landed in storage but nothing
			// references it; queue it for cleanup at form save.
			s.staleKeys = append(s.staleKeys, key)
		}
		return "", err
	}

	if err != nil {
		log.Printf("uploads: slot %d upload failed: %v", slotID, err)
		s.Status = domain.UploadFailed
		s.ProgressPercent = 0
		s.ProgressVisible = false
		s.FileNameLocal = ""
		s.FileNameRemote = ""
		s.StorageKey = ""
		return "", domain.ErrUploadFailed
	}

	s.Status = domain.UploadDone
	s.ProgressPercent = 100
	s.ProgressVisible = true
	s.FileNameRemote = remoteName
	s.StorageKey = key

	time.AfterFunc(t.grace, func() {
		t.clearProgress(slotID, attempt)
	})

	return remoteName, nil
}

// Remove clears a slot's file references and marks it for deletion. The
// caller passes the outcome of the confirmation dialog; an unconfirmed
// removal is a no-op. The stored object is only queued here; it is deleted
// from storage when the enclosing form is saved.
func (t *Tracker) Remove(slotID int, confirmed bool) {
	if !confirmed {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.ensure(slotID)
	s.attempt++
	if s.StorageKey != "" {
		s.staleKeys = append(s.staleKeys, s.StorageKey)
	}
	s.Status = domain.UploadIdle
	s.ProgressPercent = 0
	s.ProgressVisible = false
	s.FileNameLocal = ""
	s.FileNameRemote = ""
	s.StorageKey = ""
	s.MarkedForDeletion = true
}

// FileURL returns a presigned download URL for the slot's stored object.
func (t *Tracker) FileURL(ctx context.Context, slotID int, expirySeconds int64) (string, error) {
	t.mu.Lock()
	s, ok := t.slots[slotID]
	var key string
	if ok {
		key = s.StorageKey
	}
	t.mu.Unlock()

	if key == "" {
		return "", fmt.Errorf("%w: slot %d has no stored file", domain.ErrNotFound, slotID)
	}
	url, err := t.storage.GetPresignedURL(ctx, t.bucket, key, expirySeconds)
	if err != nil {
		return "", fmt.Errorf("presigning slot %d: %w", slotID, err)
	}
	return url, nil
}

// FlushStale deletes the slot's superseded objects from storage. Called
// after the enclosing form is saved; a failed delete is logged and retried
// on the next save.
func (t *Tracker) FlushStale(ctx context.Context, slotID int) {
	t.mu.Lock()
	s, ok := t.slots[slotID]
	if !ok || len(s.staleKeys) == 0 {
		t.mu.Unlock()
		return
	}
	keys := s.staleKeys
	s.staleKeys = nil
	t.mu.Unlock()

	var failed []string
	for _, key := range keys {
		if err := t.storage.Delete(ctx, t.bucket, key); err != nil {
			log.Printf("uploads: deleting stale object %s: %v", key, err)
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		t.mu.Lock()
		s.staleKeys = append(s.staleKeys, failed...)
		t.mu.Unlock()
	}
}

// Slot returns a copy of one slot's state.
func (t *Tracker) Slot(slotID int) (SlotState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.slots[slotID]
	if !ok {
		return SlotState{}, false
	}
	return s.SlotState, true
}

// Slots returns a copy of every tracked slot, keyed by document-type id.
func (t *Tracker) Slots() map[int]SlotState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]SlotState, len(t.slots))
	for id, s := range t.slots {
		out[id] = s.SlotState
	}
	return out
}

func (t *Tracker) setProgress(slotID, attempt, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.ensure(slotID)
	if attempt != s.attempt || s.Status != domain.UploadUploading {
		return
	}
	s.ProgressPercent = percent
}

func (t *Tracker) clearProgress(slotID, attempt int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.slots[slotID]
	if !ok || attempt != s.attempt || s.Status != domain.UploadDone {
		return
	}
	s.ProgressPercent = 0
	s.ProgressVisible = false
}

// ensure returns the slot, creating an idle one on first touch. Callers hold t.mu.
func (t *Tracker) ensure(slotID int) *slot {
	s, ok := t.slots[slotID]
	if !ok {
		s = &slot{SlotState: SlotState{
			DocumentTypeID: slotID,
			Status:         domain.UploadIdle,
		}}
		t.slots[slotID] = s
	}
	return s
}
