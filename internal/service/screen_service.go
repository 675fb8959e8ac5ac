package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"opsboard/internal/columns"
	"opsboard/internal/domain"
	"opsboard/internal/export"
	"opsboard/internal/listquery"
	"opsboard/internal/permission"
	"opsboard/internal/port"
	"opsboard/internal/screens"
)

// MountResult is everything a screen needs to render its shell: granted
// actions, the column layout, and the initial (hidden) table state.
type MountResult struct {
	Screen    string                    `json:"screen"`
	Title     string                    `json:"title"`
	Actions   []domain.Action           `json:"actions"`
	Columns   []domain.ColumnDefinition `json:"columns"`
	Effective []domain.ColumnDefinition `json:"effective_columns"`
	PageSizes []int                     `json:"page_sizes"`
	State     listquery.State           `json:"state"`
}

// TableResult is the table view's contract: query state plus the rows of the
// last fetch.
type TableResult struct {
	State listquery.State `json:"state"`
	Rows  []domain.Record `json:"rows"`
}

// ExportResult carries a rendered export payload. A nil Payload means
// nothing was produced (no rows, or permission denied).
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ScreenService drives the management screens: mount lifecycle, list
// queries, column layout and record CRUD through the generic procedure
// transport.
type ScreenService interface {
	Mount(ctx context.Context, userID uuid.UUID, screenKey string) (*MountResult, error)
	Unmount(userID uuid.UUID, screenKey string)
	ApplyFilter(userID uuid.UUID, screenKey, column, value string) (*listquery.State, error)
	Search(ctx context.Context, userID uuid.UUID, screenKey string) (*TableResult, error)
	ChangePage(ctx context.Context, userID uuid.UUID, screenKey string, page int) (*TableResult, error)
	ChangePageSize(ctx context.Context, userID uuid.UUID, screenKey string, size int) (*TableResult, error)
	ChangeSort(ctx context.Context, userID uuid.UUID, screenKey, column string) (*TableResult, error)
	Export(ctx context.Context, userID uuid.UUID, screenKey string, format domain.ExportFormat) (*ExportResult, error)
	SaveColumns(ctx context.Context, userID uuid.UUID, screenKey string, defs []domain.ColumnDefinition) ([]domain.ColumnDefinition, error)
	SaveRecord(ctx context.Context, userID uuid.UUID, screenKey string, record domain.Record, isEdit bool) error
	DeleteRecord(ctx context.Context, userID uuid.UUID, screenKey, recordID string) error
	// UpdateGrants rewrites one user's action grants on one form. Role
	// gating happens at the route; takes effect on the user's next mount.
	UpdateGrants(ctx context.Context, targetUserID uuid.UUID, formID int, actions string) error
}

type screenService struct {
	manager  *screens.Manager
	registry *permission.Registry
	store    *columns.Store
	permRepo port.FormPermissionRepository
	colRepo  port.ColumnPreferenceRepository
	invoker  port.ProcInvoker
}

// NewScreenService creates a new ScreenService implementation.
func NewScreenService(
	manager *screens.Manager,
	registry *permission.Registry,
	store *columns.Store,
	permRepo port.FormPermissionRepository,
	colRepo port.ColumnPreferenceRepository,
	invoker port.ProcInvoker,
) ScreenService {
	return &screenService{
		manager:  manager,
		registry: registry,
		store:    store,
		permRepo: permRepo,
		colRepo:  colRepo,
		invoker:  invoker,
	}
}

// Mount reloads the shared permission registry, creates the screen session,
// and resolves the column layout. The registry load and the column fetch run
// concurrently and fail soft independently of each other: a failed
// permission fetch resets the registry so every check fails closed rather
// than running on another screen's grants, and a failed column fetch falls
// back to the catalog defaults.
func (s *screenService) Mount(ctx context.Context, userID uuid.UUID, screenKey string) (*MountResult, error) {
	sess, err := s.manager.Mount(userID, screenKey)
	if err != nil {
		return nil, err
	}
	screen := sess.Screen

	var defs []domain.ColumnDefinition
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.permRepo.ListByUser(gctx, userID)
		if err != nil {
			log.Printf("screenService.Mount %s: permissions fetch failed, denying all: %v", screenKey, err)
			s.registry.Reset()
			return nil
		}
		s.registry.Load(rows)
		return nil
	})
	g.Go(func() error {
		var err error
		defs, err = s.store.Fetch(gctx, screenKey, userID, screen.DefaultColumns)
		if err != nil {
			log.Printf("screenService.Mount %s: column fetch failed, using defaults: %v", screenKey, err)
		}
		return nil
	})
	_ = g.Wait()

	effective := columns.Effective(defs)
	sess.Columns = defs
	sess.Controller.SetColumns(effective)

	return &MountResult{
		Screen:    screen.Key,
		Title:     screen.Title,
		Actions:   s.registry.Actions(screen.FormID),
		Columns:   defs,
		Effective: effective,
		PageSizes: domain.PageSizes,
		State:     sess.Controller.Snapshot(),
	}, nil
}

func (s *screenService) Unmount(userID uuid.UUID, screenKey string) {
	s.manager.Unmount(userID, screenKey)
}

func (s *screenService) ApplyFilter(userID uuid.UUID, screenKey, column, value string) (*listquery.State, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, err
	}
	sess.Controller.ApplyFilter(column, value)
	state := sess.Controller.Snapshot()
	return &state, nil
}

// Search triggers an explicit search. When the search permission is denied
// the trigger is a no-op and the table stays hidden; no fetch is issued.
func (s *screenService) Search(ctx context.Context, userID uuid.UUID, screenKey string) (*TableResult, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, err
	}
	sess.Controller.TriggerSearch()
	return s.refetch(ctx, sess)
}

func (s *screenService) ChangePage(ctx context.Context, userID uuid.UUID, screenKey string, page int) (*TableResult, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, err
	}
	sess.Controller.ChangePage(page)
	return s.refetch(ctx, sess)
}

func (s *screenService) ChangePageSize(ctx context.Context, userID uuid.UUID, screenKey string, size int) (*TableResult, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, err
	}
	sess.Controller.ChangePageSize(size)
	return s.refetch(ctx, sess)
}

func (s *screenService) ChangeSort(ctx context.Context, userID uuid.UUID, screenKey, column string) (*TableResult, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, err
	}
	sess.Controller.ChangeSort(column)
	return s.refetch(ctx, sess)
}

// refetch issues a fetch only once the table has been revealed by a
// successful search trigger; before that it just reports state.
func (s *screenService) refetch(ctx context.Context, sess *screens.Session) (*TableResult, error) {
	if sess.Controller.Snapshot().Revealed {
		sess.Controller.FetchPage(ctx)
	}
	state := sess.Controller.Snapshot()
	return &TableResult{State: state, Rows: sess.Controller.Rows()}, nil
}

func (s *screenService) Export(ctx context.Context, userID uuid.UUID, screenKey string, format domain.ExportFormat) (*ExportResult, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, err
	}

	payload, err := sess.Controller.ExportAll(ctx, format)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return &ExportResult{}, nil
	}
	return &ExportResult{
		Payload:     payload,
		ContentType: export.ContentType(format),
		Filename:    export.BuildFilename(sess.Screen.Title, format),
	}, nil
}

// SaveColumns is the manage-columns editor's write path. After the save the
// layout is re-fetched and installed on the live controller, mirroring the
// editor-closes-then-refetch flow of the screens.
func (s *screenService) SaveColumns(ctx context.Context, userID uuid.UUID, screenKey string, defs []domain.ColumnDefinition) ([]domain.ColumnDefinition, error) {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return nil, err
	}
	if !s.registry.CanManageColumns(sess.Screen.FormID) {
		return nil, domain.ErrForbidden
	}

	if err := s.colRepo.Save(ctx, screenKey, userID, defs); err != nil {
		return nil, fmt.Errorf("screenService.SaveColumns: %w", err)
	}

	fresh, err := s.store.Fetch(ctx, screenKey, userID, sess.Screen.DefaultColumns)
	if err != nil {
		log.Printf("screenService.SaveColumns %s: refetch failed, using defaults: %v", screenKey, err)
	}
	sess.Columns = fresh
	sess.Controller.SetColumns(columns.Effective(fresh))
	return fresh, nil
}

func (s *screenService) SaveRecord(ctx context.Context, userID uuid.UUID, screenKey string, record domain.Record, isEdit bool) error {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return err
	}

	mode := "Add"
	allowed := s.registry.CanAdd(sess.Screen.FormID)
	if isEdit {
		mode = "Edit"
		allowed = s.registry.CanEdit(sess.Screen.FormID)
	}
	if !allowed {
		return domain.ErrForbidden
	}

	para := domain.Record{"ActionMode": mode, "UserId": userID.String()}
	for k, v := range record {
		para[k] = v
	}
	if _, err := s.invoker.Invoke(ctx, sess.Screen.SaveProc, para); err != nil {
		return fmt.Errorf("screenService.SaveRecord: %w", err)
	}
	return nil
}

func (s *screenService) DeleteRecord(ctx context.Context, userID uuid.UUID, screenKey, recordID string) error {
	sess, err := s.manager.Get(userID, screenKey)
	if err != nil {
		return err
	}
	if !s.registry.CanDelete(sess.Screen.FormID) {
		return domain.ErrForbidden
	}

	para := domain.Record{"Id": recordID, "UserId": userID.String()}
	if _, err := s.invoker.Invoke(ctx, sess.Screen.DeleteProc, para); err != nil {
		return fmt.Errorf("screenService.DeleteRecord: %w", err)
	}
	return nil
}

func (s *screenService) UpdateGrants(ctx context.Context, targetUserID uuid.UUID, formID int, actions string) error {
	known := false
	for _, screen := range screens.Catalog {
		if screen.FormID == formID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: form %d", domain.ErrUnknownScreen, formID)
	}

	if err := s.permRepo.Upsert(ctx, targetUserID, formID, actions); err != nil {
		return fmt.Errorf("screenService.UpdateGrants: %w", err)
	}
	return nil
}
