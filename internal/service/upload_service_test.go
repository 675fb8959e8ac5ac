package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"opsboard/internal/domain"
	"opsboard/internal/permission"
	"opsboard/internal/port"
	"opsboard/internal/screens"
	"opsboard/internal/service"
	"opsboard/mocks"
)

type uploadFixture struct {
	storage  *mocks.MockObjectStorage
	slotRepo *mocks.MockDocumentSlotRepo
	notifier *mocks.MockNotifier
	manager  *screens.Manager
	svc      service.UploadService
	userID   uuid.UUID
}

func newUploadFixture(t *testing.T) *uploadFixture {
	t.Helper()

	storage := new(mocks.MockObjectStorage)
	slotRepo := new(mocks.MockDocumentSlotRepo)
	notifier := new(mocks.MockNotifier)
	invoker := new(mocks.MockProcInvoker)

	manager := screens.NewManager(invoker, permission.NewRegistry(), storage, "test-bucket", time.Hour)
	svc := service.NewUploadService(manager, slotRepo, notifier, 1, 900)

	f := &uploadFixture{
		storage:  storage,
		slotRepo: slotRepo,
		notifier: notifier,
		manager:  manager,
		svc:      svc,
		userID:   uuid.New(),
	}
	_, err := manager.Mount(f.userID, "vendor-documents")
	require.NoError(t, err)
	return f
}

func uploadInput(slot int, size int64) service.UploadInput {
	return service.UploadInput{
		SlotID:      slot,
		FileName:    "pan.pdf",
		Body:        strings.NewReader("content"),
		Size:        size,
		ContentType: "application/pdf",
	}
}

func TestUploadService_Upload_Success(t *testing.T) {
	f := newUploadFixture(t)

	f.storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://bucket/key"}, nil)

	state, err := f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents", uploadInput(1, 7))
	require.NoError(t, err)

	assert.Equal(t, domain.UploadDone, state.Status)
	assert.Equal(t, 100, state.ProgressPercent)
	assert.True(t, strings.HasSuffix(state.FileNameRemote, ".pdf"))
	f.notifier.AssertNotCalled(t, "NotifyUploadFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Upload_FileTooLarge(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents",
		uploadInput(1, 2*1024*1024))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_UnknownSlot(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents",
		uploadInput(99, 7))
	assert.ErrorIs(t, err, domain.ErrUnknownSlot)
}

func TestUploadService_Upload_FailureNotifiesOperator(t *testing.T) {
	f := newUploadFixture(t)

	f.storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	f.notifier.On("NotifyUploadFailure", mock.Anything, "op@test.com", "pan.pdf", mock.Anything).
		Return(nil)

	state, err := f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents", uploadInput(2, 7))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Equal(t, domain.UploadFailed, state.Status)
	f.notifier.AssertExpectations(t)
}

func TestUploadService_Upload_NotifierErrorIsSwallowed(t *testing.T) {
	f := newUploadFixture(t)

	f.storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	f.notifier.On("NotifyUploadFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	_, err := f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents", uploadInput(2, 7))
	// The upload error surfaces; the notifier failure only gets logged.
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestUploadService_UploadsRejectedOnScreensWithoutSlots(t *testing.T) {
	f := newUploadFixture(t)
	_, err := f.manager.Mount(f.userID, "clients")
	require.NoError(t, err)

	_, err = f.svc.Slots(f.userID, "clients")
	assert.ErrorIs(t, err, domain.ErrUnknownSlot)
}

func TestUploadService_OpenForm_HydratesPersistedSlots(t *testing.T) {
	f := newUploadFixture(t)
	vendorID := uuid.New()

	f.slotRepo.On("ListByVendor", mock.Anything, vendorID).Return([]domain.DocumentSlot{
		{VendorID: vendorID, DocumentTypeID: 1, Number: "ABCDE1234F", FileName: "pan.pdf", StorageKey: "k/1"},
		{VendorID: vendorID, DocumentTypeID: 2, Number: "27AAAAA0000A1Z5"},
	}, nil)

	slots, err := f.svc.OpenForm(context.Background(), f.userID, "vendor-documents", vendorID)
	require.NoError(t, err)

	assert.Len(t, slots, 2)
	assert.Equal(t, domain.UploadDone, slots[1].Status)
	assert.Equal(t, "pan.pdf", slots[1].FileNameRemote)
	assert.Equal(t, domain.UploadIdle, slots[2].Status)
	assert.Equal(t, "27AAAAA0000A1Z5", slots[2].Number)
	f.slotRepo.AssertExpectations(t)
}

func TestUploadService_OpenForm_RepoFailureSurfaces(t *testing.T) {
	f := newUploadFixture(t)
	vendorID := uuid.New()

	f.slotRepo.On("ListByVendor", mock.Anything, vendorID).Return(nil, assert.AnError)

	_, err := f.svc.OpenForm(context.Background(), f.userID, "vendor-documents", vendorID)
	assert.Error(t, err)
}

func TestUploadService_FileURL_PresignsStoredFile(t *testing.T) {
	f := newUploadFixture(t)
	vendorID := uuid.New()

	f.slotRepo.On("ListByVendor", mock.Anything, vendorID).Return([]domain.DocumentSlot{
		{VendorID: vendorID, DocumentTypeID: 1, FileName: "pan.pdf", StorageKey: "k/1"},
	}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "test-bucket", "k/1", int64(900)).
		Return("https://signed.example/k/1", nil)

	_, err := f.svc.OpenForm(context.Background(), f.userID, "vendor-documents", vendorID)
	require.NoError(t, err)

	url, err := f.svc.FileURL(context.Background(), f.userID, "vendor-documents", 1)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/k/1", url)
	f.storage.AssertExpectations(t)
}

func TestUploadService_FileURL_UnknownSlot(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.svc.FileURL(context.Background(), f.userID, "vendor-documents", 99)
	assert.ErrorIs(t, err, domain.ErrUnknownSlot)
}

func TestUploadService_FileURL_EmptySlot(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.svc.FileURL(context.Background(), f.userID, "vendor-documents", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadService_SaveForm_PersistsNumberOnlySlot(t *testing.T) {
	f := newUploadFixture(t)
	vendorID := uuid.New()

	_, err := f.svc.SetNumber(f.userID, "vendor-documents", 1, "ABCDE1234F")
	require.NoError(t, err)

	f.slotRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.DocumentSlot) bool {
		return s.VendorID == vendorID && s.DocumentTypeID == 1 &&
			s.Number == "ABCDE1234F" && s.FileName == "" && s.StorageKey == ""
	})).Return(nil)

	err = f.svc.SaveForm(context.Background(), f.userID, "vendor-documents", vendorID)
	assert.NoError(t, err)
	f.slotRepo.AssertExpectations(t)
}

func TestUploadService_SaveForm_DeletionClearsFileKeepsNumber(t *testing.T) {
	f := newUploadFixture(t)
	vendorID := uuid.New()

	f.storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{}, nil)
	f.storage.On("Delete", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	_, err := f.svc.SetNumber(f.userID, "vendor-documents", 2, "27AAAAA0000A1Z5")
	require.NoError(t, err)
	_, err = f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents", uploadInput(2, 7))
	require.NoError(t, err)
	_, err = f.svc.Remove(f.userID, "vendor-documents", 2, true)
	require.NoError(t, err)

	f.slotRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.DocumentSlot) bool {
		return s.DocumentTypeID == 2 && s.Number == "27AAAAA0000A1Z5" &&
			s.FileName == "" && s.StorageKey == ""
	})).Return(nil)

	err = f.svc.SaveForm(context.Background(), f.userID, "vendor-documents", vendorID)
	assert.NoError(t, err)
	f.slotRepo.AssertExpectations(t)
}

func TestUploadService_SaveForm_DeletesRemovedObjectFromStorage(t *testing.T) {
	f := newUploadFixture(t)
	vendorID := uuid.New()

	f.slotRepo.On("ListByVendor", mock.Anything, vendorID).Return([]domain.DocumentSlot{
		{VendorID: vendorID, DocumentTypeID: 1, Number: "ABCDE1234F", FileName: "pan.pdf", StorageKey: "k/old"},
	}, nil)

	_, err := f.svc.OpenForm(context.Background(), f.userID, "vendor-documents", vendorID)
	require.NoError(t, err)
	_, err = f.svc.Remove(f.userID, "vendor-documents", 1, true)
	require.NoError(t, err)

	// Removal alone touches nothing in storage; the save realizes it.
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)

	f.slotRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.DocumentSlot) bool {
		return s.DocumentTypeID == 1 && s.FileName == "" && s.StorageKey == ""
	})).Return(nil)
	f.storage.On("Delete", mock.Anything, "test-bucket", "k/old").Return(nil)

	err = f.svc.SaveForm(context.Background(), f.userID, "vendor-documents", vendorID)
	assert.NoError(t, err)
	f.storage.AssertExpectations(t)
	f.slotRepo.AssertExpectations(t)
}

func TestUploadService_SaveForm_SkipsUntouchedAndFailedSlots(t *testing.T) {
	f := newUploadFixture(t)
	vendorID := uuid.New()

	f.storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	f.notifier.On("NotifyUploadFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	// A failed upload with no number leaves nothing worth persisting.
	_, err := f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents", uploadInput(3, 7))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)

	err = f.svc.SaveForm(context.Background(), f.userID, "vendor-documents", vendorID)
	assert.NoError(t, err)
	f.slotRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUploadService_Remove_Unconfirmed(t *testing.T) {
	f := newUploadFixture(t)

	f.storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{}, nil)

	_, err := f.svc.Upload(context.Background(), f.userID, "op@test.com", "vendor-documents", uploadInput(1, 7))
	require.NoError(t, err)

	state, err := f.svc.Remove(f.userID, "vendor-documents", 1, false)
	require.NoError(t, err)
	assert.Equal(t, domain.UploadDone, state.Status)
	assert.False(t, state.MarkedForDeletion)
}
