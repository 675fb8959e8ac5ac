// Package listquery implements the shared list controller behind every
// management screen: pagination, sort, filter and search state, the single
// well-formed list fetch derived from it, and the unpaginated export fetch.
// Screens differ only by configuration, not by code.
package listquery

import (
	"context"
	"log"
	"sync"

	"opsboard/internal/columns"
	"opsboard/internal/domain"
	"opsboard/internal/export"
	"opsboard/internal/port"
)

// Config parameterizes one screen's controller.
type Config struct {
	ScreenKey string
	FormID    int
	// ListProc is the stored procedure serving both the paginated list and
	// the unpaginated export (ActionMode="Export").
	ListProc string
	// SortColumns is the fixed allow-list of sortable columns.
	SortColumns []string
	// DateColumns are rendered through the human-readable date formatter on
	// export.
	DateColumns []string
	// DefaultColumns is the hardcoded layout fallback used when the stored
	// preference set is empty.
	DefaultColumns []domain.ColumnDefinition
	DefaultSort    string
}

// PermissionChecker is the narrow slice of the permission registry the
// controller needs. Export deliberately reuses the search permission.
type PermissionChecker interface {
	CanSearch(formID int) bool
}

// State is the controller's query state, exposed to the table view.
type State struct {
	CurrentPage      int                  `json:"current_page"`
	PageSize         int                  `json:"page_size"`
	TotalCount       int                  `json:"total_count"`
	TotalPages       int                  `json:"total_pages"`
	SortColumn       string               `json:"sort_column"`
	SortDirection    domain.SortDirection `json:"sort_direction"`
	FilterColumn     string               `json:"filter_column"`
	SearchTerm       string               `json:"search_term"`
	SearchGeneration int                  `json:"search_generation"`
	// Revealed is false until the first explicit search; the table is
	// hidden until then.
	Revealed bool `json:"revealed"`
}

// ListParams is the parameter object handed to the list procedure.
type ListParams struct {
	Start        int    `json:"Start"`
	Length       int    `json:"Length"`
	SortColumn   string `json:"SortColumn"`
	SortDir      string `json:"SortDir"`
	Search       string `json:"Search,omitempty"`
	FilterColumn string `json:"FilterColumn,omitempty"`
	FilterValue  string `json:"FilterValue,omitempty"`
	ActionMode   string `json:"ActionMode,omitempty"`
}

// Controller owns one screen's list state. Instances are private to a
// session's screen, so there is no cross-screen contention; the mutex only
// guards against overlapping requests on the same session.
type Controller struct {
	cfg     Config
	invoker port.ProcInvoker
	perms   PermissionChecker

	mu        sync.Mutex
	state     State
	rows      []domain.Record
	displayed []domain.ColumnDefinition
}

// New creates a controller in its initial state: page 1, smallest page size,
// default sort ascending, table hidden until the first search.
func New(cfg Config, invoker port.ProcInvoker, perms PermissionChecker) *Controller {
	return &Controller{
		cfg:     cfg,
		invoker: invoker,
		perms:   perms,
		state: State{
			CurrentPage:   1,
			PageSize:      domain.PageSizes[0],
			TotalPages:    1,
			SortColumn:    cfg.DefaultSort,
			SortDirection: domain.SortAsc,
		},
	}
}

// SetColumns installs the effective (displayed) column set, normally after
// the column layout is fetched or re-fetched. Sort validation and export
// rendering use this set.
func (c *Controller) SetColumns(defs []domain.ColumnDefinition) {
	c.mu.Lock()
	c.displayed = defs
	c.mu.Unlock()
}

// ApplyFilter sets the filter column and term. Changing the filter column
// discards the previous search term. The page resets to 1. No fetch is
// issued; that is TriggerSearch's job.
func (c *Controller) ApplyFilter(column, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if column != c.state.FilterColumn {
		c.state.SearchTerm = ""
	}
	c.state.FilterColumn = column
	c.state.SearchTerm = value
	c.state.CurrentPage = 1
}

// TriggerSearch marks an explicit search action: page resets to 1, the table
// is revealed, and the search generation advances. Denied search permission
// makes this a no-op, not an error.
func (c *Controller) TriggerSearch() {
	if !c.perms.CanSearch(c.cfg.FormID) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CurrentPage = 1
	c.state.Revealed = true
	c.state.SearchGeneration++
}

// ChangeSort selects or toggles the sort column. Columns outside the
// allow-list, or not currently displayed, are ignored. A re-click of the
// active column flips the direction; a new column starts ascending. The page
// resets to 1. Sort is single-column; ties keep backend order.
func (c *Controller) ChangeSort(column string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sortable(column) || !columns.Contains(c.displayed, column) {
		return
	}
	if c.state.SortColumn == column {
		c.state.SortDirection = c.state.SortDirection.Toggle()
	} else {
		c.state.SortColumn = column
		c.state.SortDirection = domain.SortAsc
	}
	c.state.CurrentPage = 1
}

// ChangePage moves to page n. Values outside [1, totalPages] are ignored.
func (c *Controller) ChangePage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > c.state.TotalPages {
		return
	}
	c.state.CurrentPage = n
}

// ChangePageSize switches the page size and resets to page 1. Sizes outside
// the selectable set are ignored.
func (c *Controller) ChangePageSize(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !domain.ValidPageSize(n) {
		return
	}
	c.state.PageSize = n
	c.state.CurrentPage = 1
}

// FetchPage issues exactly one list request for the current state and
// interprets the response. An empty result or no-records sentinel is a
// terminal, displayable state, not an error. Transport and parse failures
// degrade to the same empty state with a diagnostic log; they are never
// surfaced to the view layer.
func (c *Controller) FetchPage(ctx context.Context) {
	c.mu.Lock()
	params := c.buildParams(false)
	proc := c.cfg.ListProc
	c.mu.Unlock()

	rows, err := c.invoker.Invoke(ctx, proc, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Printf("listquery.FetchPage %s: %v", c.cfg.ScreenKey, err)
		c.rows = []domain.Record{}
		c.state.TotalCount = 0
		c.recalcPages()
		return
	}
	if len(rows) == 0 || rows[0].TotalRecords() == 0 {
		c.rows = []domain.Record{}
		c.state.TotalCount = 0
		c.recalcPages()
		return
	}
	c.rows = rows
	c.state.TotalCount = rows[0].TotalRecords()
	c.recalcPages()
}

// ExportAll re-issues the list request with ActionMode="Export" and no
// pagination bounds against the current filter and sort state, then renders
// the full result with the same effective column set as the table. A denied
// search permission or an empty result produces no output. Gating on the
// search permission mirrors the screens' existing behavior; there is no
// separate export permission.
func (c *Controller) ExportAll(ctx context.Context, format domain.ExportFormat) ([]byte, error) {
	if !c.perms.CanSearch(c.cfg.FormID) {
		return nil, nil
	}

	c.mu.Lock()
	params := c.buildParams(true)
	proc := c.cfg.ListProc
	cols := make([]domain.ColumnDefinition, len(c.displayed))
	copy(cols, c.displayed)
	c.mu.Unlock()

	rows, err := c.invoker.Invoke(ctx, proc, params)
	if err != nil {
		log.Printf("listquery.ExportAll %s: %v", c.cfg.ScreenKey, err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return export.Render(format, rows, cols, c.cfg.DateColumns)
}

// Reset returns the controller to its initial state. Used on unmount and on
// filter-clear.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{
		CurrentPage:   1,
		PageSize:      domain.PageSizes[0],
		TotalPages:    1,
		SortColumn:    c.cfg.DefaultSort,
		SortDirection: domain.SortAsc,
	}
	c.rows = nil
}

// Snapshot returns a copy of the current query state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rows returns the rows of the last fetch.
func (c *Controller) Rows() []domain.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// buildParams derives request parameters from the current state. Free text
// with no filter column routes to the generic contains parameter; a chosen
// filter column routes it to the column-specific pair. Callers hold c.mu.
func (c *Controller) buildParams(forExport bool) ListParams {
	p := ListParams{
		SortColumn: c.state.SortColumn,
		SortDir:    string(c.state.SortDirection),
	}
	if forExport {
		p.ActionMode = "Export"
	} else {
		p.Start = (c.state.CurrentPage - 1) * c.state.PageSize
		p.Length = c.state.PageSize
	}
	if c.state.FilterColumn == "" {
		p.Search = c.state.SearchTerm
	} else {
		p.FilterColumn = c.state.FilterColumn
		p.FilterValue = c.state.SearchTerm
	}
	return p
}

// recalcPages recomputes totalPages (floored to 1) and clamps the current
// page into range. Callers hold c.mu.
func (c *Controller) recalcPages() {
	pages := (c.state.TotalCount + c.state.PageSize - 1) / c.state.PageSize
	if pages < 1 {
		pages = 1
	}
	c.state.TotalPages = pages
	if c.state.CurrentPage > pages {
		c.state.CurrentPage = pages
	}
	if c.state.CurrentPage < 1 {
		c.state.CurrentPage = 1
	}
}

func (c *Controller) sortable(column string) bool {
	for _, s := range c.cfg.SortColumns {
		if s == column {
			return true
		}
	}
	return false
}
