package screens_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/internal/domain"
	"opsboard/internal/permission"
	"opsboard/internal/screens"
	"opsboard/mocks"
)

func newManager() *screens.Manager {
	return screens.NewManager(
		new(mocks.MockProcInvoker),
		permission.NewRegistry(),
		new(mocks.MockObjectStorage),
		"test-bucket",
		0,
	)
}

func TestManager_Mount_UnknownScreen(t *testing.T) {
	m := newManager()

	_, err := m.Mount(uuid.New(), "bogus")
	assert.ErrorIs(t, err, domain.ErrUnknownScreen)
}

func TestManager_Mount_CreatesTrackerOnlyForUploadScreens(t *testing.T) {
	m := newManager()
	userID := uuid.New()

	clients, err := m.Mount(userID, screens.KeyClients)
	require.NoError(t, err)
	assert.Nil(t, clients.Tracker)

	docs, err := m.Mount(userID, screens.KeyVendorDocuments)
	require.NoError(t, err)
	assert.NotNil(t, docs.Tracker)
}

func TestManager_Mount_ReplacesExistingSession(t *testing.T) {
	m := newManager()
	userID := uuid.New()

	first, err := m.Mount(userID, screens.KeyClients)
	require.NoError(t, err)

	second, err := m.Mount(userID, screens.KeyClients)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	got, err := m.Get(userID, screens.KeyClients)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestManager_SessionsAreScopedPerUser(t *testing.T) {
	m := newManager()
	alice := uuid.New()
	bob := uuid.New()

	_, err := m.Mount(alice, screens.KeyClients)
	require.NoError(t, err)

	_, err = m.Get(bob, screens.KeyClients)
	assert.ErrorIs(t, err, domain.ErrScreenNotMounted)
}

func TestManager_Unmount_DiscardsSession(t *testing.T) {
	m := newManager()
	userID := uuid.New()

	_, err := m.Mount(userID, screens.KeyClients)
	require.NoError(t, err)

	m.Unmount(userID, screens.KeyClients)
	_, err = m.Get(userID, screens.KeyClients)
	assert.ErrorIs(t, err, domain.ErrScreenNotMounted)

	// Unmounting twice is harmless.
	m.Unmount(userID, screens.KeyClients)
}

func TestCatalog_ScreensAreComplete(t *testing.T) {
	for key, screen := range screens.Catalog {
		assert.Equal(t, key, screen.Key)
		assert.NotEmpty(t, screen.Title)
		assert.NotZero(t, screen.FormID)
		assert.NotEmpty(t, screen.ListProc)
		assert.NotEmpty(t, screen.SaveProc)
		assert.NotEmpty(t, screen.DeleteProc)
		assert.NotEmpty(t, screen.DefaultColumns)
		assert.NotEmpty(t, screen.DefaultSort)
	}
}
