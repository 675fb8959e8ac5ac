package uploads_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"opsboard/internal/domain"
	"opsboard/internal/port"
	"opsboard/internal/uploads"
	"opsboard/mocks"
)

func newTracker(storage port.ObjectStorage, grace time.Duration) *uploads.Tracker {
	return uploads.NewTracker(storage, "test-bucket", "screens/vendor-documents/u1", grace)
}

func TestTracker_SelectFile_OptimisticUploadingState(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	tr := newTracker(storage, 0)

	tr.SelectFile(1, "pan.pdf")

	state, ok := tr.Slot(1)
	assert.True(t, ok)
	assert.Equal(t, domain.UploadUploading, state.Status)
	assert.Equal(t, 0, state.ProgressPercent)
	assert.True(t, state.ProgressVisible)
	assert.Equal(t, "pan.pdf", state.FileNameLocal)
	assert.Empty(t, state.FileNameRemote)
}

func TestTracker_Upload_SuccessThenGraceClearsProgress(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://bucket/key", ETag: "etag"}, nil)

	tr := newTracker(storage, 20*time.Millisecond)

	attempt := tr.SelectFile(2, "gst.pdf")
	remote, err := tr.Upload(context.Background(), 2, attempt, "gst.pdf",
		strings.NewReader("content"), 7, "application/pdf")

	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(remote, ".pdf"))

	state, _ := tr.Slot(2)
	assert.Equal(t, domain.UploadDone, state.Status)
	assert.Equal(t, 100, state.ProgressPercent)
	assert.True(t, state.ProgressVisible)
	assert.Equal(t, remote, state.FileNameRemote)
	assert.True(t, strings.HasPrefix(state.StorageKey, "screens/vendor-documents/u1/2/"))

	// After the grace period the bar disappears; the filename persists.
	assert.Eventually(t, func() bool {
		s, _ := tr.Slot(2)
		return !s.ProgressVisible && s.ProgressPercent == 0
	}, time.Second, 5*time.Millisecond)

	state, _ = tr.Slot(2)
	assert.Equal(t, domain.UploadDone, state.Status)
	assert.Equal(t, remote, state.FileNameRemote)
}

func TestTracker_Upload_FailureRevertsFileButKeepsNumber(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	tr := newTracker(storage, 0)
	tr.SetNumber(3, "ABCDE1234F")

	attempt := tr.SelectFile(3, "bank.pdf")
	_, err := tr.Upload(context.Background(), 3, attempt, "bank.pdf",
		strings.NewReader("content"), 7, "application/pdf")

	assert.ErrorIs(t, err, domain.ErrUploadFailed)

	state, _ := tr.Slot(3)
	assert.Equal(t, domain.UploadFailed, state.Status)
	assert.Empty(t, state.FileNameLocal)
	assert.Empty(t, state.FileNameRemote)
	assert.Empty(t, state.StorageKey)
	assert.False(t, state.ProgressVisible)
	assert.Equal(t, "ABCDE1234F", state.Number)
}

func TestTracker_Upload_StaleAttemptDiscarded(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://bucket/key"}, nil)

	tr := newTracker(storage, 0)

	stale := tr.SelectFile(4, "old.pdf")
	fresh := tr.SelectFile(4, "new.pdf")

	// The superseded upload completes after the newer selection; it must not
	// touch the slot.
	_, _ = tr.Upload(context.Background(), 4, stale, "old.pdf",
		strings.NewReader("old"), 3, "application/pdf")

	state, _ := tr.Slot(4)
	assert.Equal(t, domain.UploadUploading, state.Status)
	assert.Equal(t, "new.pdf", state.FileNameLocal)
	assert.Empty(t, state.FileNameRemote)

	remote, err := tr.Upload(context.Background(), 4, fresh, "new.pdf",
		strings.NewReader("new"), 3, "application/pdf")
	assert.NoError(t, err)

	state, _ = tr.Slot(4)
	assert.Equal(t, domain.UploadDone, state.Status)
	assert.Equal(t, remote, state.FileNameRemote)
}

func TestTracker_Upload_ProgressEventsDriveSlot(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.ProgressSteps = []int{25, 50, 75}
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	tr := newTracker(storage, 0)
	attempt := tr.SelectFile(5, "doc.pdf")

	// Progress events arrive before the failure; the failure then resets the
	// percentage along with the file references.
	_, err := tr.Upload(context.Background(), 5, attempt, "doc.pdf",
		strings.NewReader("content"), 7, "application/pdf")
	assert.Error(t, err)

	state, _ := tr.Slot(5)
	assert.Equal(t, 0, state.ProgressPercent)
}

func TestTracker_Remove_RequiresConfirmation(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{}, nil)

	tr := newTracker(storage, time.Hour)
	tr.SetNumber(1, "27AAAAA0000A1Z5")
	attempt := tr.SelectFile(1, "gst.pdf")
	_, err := tr.Upload(context.Background(), 1, attempt, "gst.pdf",
		strings.NewReader("content"), 7, "application/pdf")
	assert.NoError(t, err)

	// Dialog dismissed: nothing changes.
	tr.Remove(1, false)
	state, _ := tr.Slot(1)
	assert.Equal(t, domain.UploadDone, state.Status)
	assert.NotEmpty(t, state.FileNameRemote)
	assert.False(t, state.MarkedForDeletion)

	// Dialog confirmed: file references go, number stays.
	tr.Remove(1, true)
	state, _ = tr.Slot(1)
	assert.Equal(t, domain.UploadIdle, state.Status)
	assert.Empty(t, state.FileNameLocal)
	assert.Empty(t, state.FileNameRemote)
	assert.Empty(t, state.StorageKey)
	assert.True(t, state.MarkedForDeletion)
	assert.Equal(t, "27AAAAA0000A1Z5", state.Number)
}

func TestTracker_Restore_SeedsPersistedSlots(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	tr := newTracker(storage, 0)

	tr.Restore([]domain.DocumentSlot{
		{DocumentTypeID: 1, Number: "ABCDE1234F", FileName: "pan.pdf", StorageKey: "screens/vendor-documents/u1/1/pan.pdf"},
		{DocumentTypeID: 2, Number: "27AAAAA0000A1Z5"},
	})

	withFile, ok := tr.Slot(1)
	assert.True(t, ok)
	assert.Equal(t, domain.UploadDone, withFile.Status)
	assert.Equal(t, "pan.pdf", withFile.FileNameRemote)
	assert.Equal(t, "screens/vendor-documents/u1/1/pan.pdf", withFile.StorageKey)
	assert.False(t, withFile.ProgressVisible)

	numberOnly, ok := tr.Slot(2)
	assert.True(t, ok)
	assert.Equal(t, domain.UploadIdle, numberOnly.Status)
	assert.Equal(t, "27AAAAA0000A1Z5", numberOnly.Number)
	assert.Empty(t, numberOnly.StorageKey)
}

func TestTracker_FlushStale_DeletesReplacedObject(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", "old/key").Return(nil)

	tr := newTracker(storage, time.Hour)
	tr.Restore([]domain.DocumentSlot{
		{DocumentTypeID: 1, FileName: "old.pdf", StorageKey: "old/key"},
	})

	// Choosing a new file supersedes the stored one, but the old object
	// survives until the form is saved.
	attempt := tr.SelectFile(1, "new.pdf")
	_, err := tr.Upload(context.Background(), 1, attempt, "new.pdf",
		strings.NewReader("content"), 7, "application/pdf")
	assert.NoError(t, err)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)

	tr.FlushStale(context.Background(), 1)
	storage.AssertExpectations(t)
}

func TestTracker_FlushStale_RemovedObjectRetriedAfterFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Delete", mock.Anything, "test-bucket", "doomed/key").
		Return(assert.AnError).Once()
	storage.On("Delete", mock.Anything, "test-bucket", "doomed/key").
		Return(nil).Once()

	tr := newTracker(storage, 0)
	tr.Restore([]domain.DocumentSlot{
		{DocumentTypeID: 2, FileName: "gst.pdf", StorageKey: "doomed/key"},
	})
	tr.Remove(2, true)

	// The first flush fails and keeps the key; the second one succeeds.
	tr.FlushStale(context.Background(), 2)
	tr.FlushStale(context.Background(), 2)
	storage.AssertExpectations(t)

	// Nothing left to flush.
	tr.FlushStale(context.Background(), 2)
	storage.AssertNumberOfCalls(t, "Delete", 2)
}

func TestTracker_FileURL_PresignsStoredObject(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "stored/key", int64(900)).
		Return("https://signed.example/stored/key", nil)

	tr := newTracker(storage, 0)
	tr.Restore([]domain.DocumentSlot{
		{DocumentTypeID: 3, FileName: "bank.pdf", StorageKey: "stored/key"},
	})

	url, err := tr.FileURL(context.Background(), 3, 900)
	assert.NoError(t, err)
	assert.Equal(t, "https://signed.example/stored/key", url)
	storage.AssertExpectations(t)
}

func TestTracker_FileURL_NoStoredFile(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	tr := newTracker(storage, 0)
	tr.SetNumber(1, "ABCDE1234F")

	_, err := tr.FileURL(context.Background(), 1, 900)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTracker_Slots_ReturnsAllTouchedSlots(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	tr := newTracker(storage, 0)

	tr.SetNumber(1, "A")
	tr.SelectFile(2, "x.pdf")

	slots := tr.Slots()
	assert.Len(t, slots, 2)
	assert.Equal(t, "A", slots[1].Number)
	assert.Equal(t, domain.UploadUploading, slots[2].Status)
}
