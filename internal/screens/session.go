package screens

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"opsboard/internal/domain"
	"opsboard/internal/listquery"
	"opsboard/internal/permission"
	"opsboard/internal/port"
	"opsboard/internal/uploads"
)

// Session is one user's mounted screen: its private list controller and,
// for screens with an upload tab, the upload tracker.
type Session struct {
	Screen     Screen
	Controller *listquery.Controller
	Tracker    *uploads.Tracker
	// Columns is the full fetched definition set; the controller holds the
	// effective subset.
	Columns []domain.ColumnDefinition
}

// Manager owns the per-user, per-screen sessions. Mounting a screen creates
// its controller; unmounting resets and discards it. The permission registry
// is shared across all sessions and reloaded on every mount.
type Manager struct {
	invoker     port.ProcInvoker
	registry    *permission.Registry
	storage     port.ObjectStorage
	bucket      string
	uploadGrace time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(invoker port.ProcInvoker, registry *permission.Registry, storage port.ObjectStorage, bucket string, uploadGrace time.Duration) *Manager {
	return &Manager{
		invoker:     invoker,
		registry:    registry,
		storage:     storage,
		bucket:      bucket,
		uploadGrace: uploadGrace,
		sessions:    map[string]*Session{},
	}
}

func sessionKey(userID uuid.UUID, screenKey string) string {
	return userID.String() + "/" + screenKey
}

// Mount creates (or replaces) the user's session for a screen. The previous
// session for the same screen, if any, is discarded: remounting a screen
// starts from a clean controller.
func (m *Manager) Mount(userID uuid.UUID, screenKey string) (*Session, error) {
	screen, ok := Lookup(screenKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScreen, screenKey)
	}

	sess := &Session{
		Screen:     screen,
		Controller: listquery.New(screen.Config, m.invoker, m.registry),
	}
	if screen.HasUploadSlots {
		prefix := fmt.Sprintf("screens/%s/%s", screen.Key, userID)
		sess.Tracker = uploads.NewTracker(m.storage, m.bucket, prefix, m.uploadGrace)
	}

	m.mu.Lock()
	m.sessions[sessionKey(userID, screenKey)] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get returns the user's mounted session for a screen.
func (m *Manager) Get(userID uuid.UUID, screenKey string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionKey(userID, screenKey)]
	if !ok {
		return nil, domain.ErrScreenNotMounted
	}
	return sess, nil
}

// Unmount resets and discards the user's session for a screen. Unmounting a
// screen that was never mounted is harmless.
func (m *Manager) Unmount(userID uuid.UUID, screenKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(userID, screenKey)
	if sess, ok := m.sessions[key]; ok {
		sess.Controller.Reset()
		delete(m.sessions, key)
	}
}
