// Package permission holds the per-screen action grants loaded from the
// form-permissions query. The registry is a single shared instance for the
// whole process: every screen reloads it on mount because another screen's
// load may have overwritten it. All lookups fail closed.
package permission

import (
	"strings"
	"sync"

	"opsboard/internal/domain"
)

// Registry maps form ids to the set of actions granted on that screen.
// The zero value denies everything; construct with NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	grants map[int]map[domain.Action]struct{}
}

// NewRegistry creates an empty registry. Until Load is called every Can
// query returns false.
func NewRegistry() *Registry {
	return &Registry{grants: map[int]map[domain.Action]struct{}{}}
}

// Load replaces the entire registry atomically with the given permission
// rows. Each row's action string is split on commas; entries are trimmed and
// lowercased. A row with an empty or malformed action string grants nothing
// for its form id. Rows are never merged with the previous contents.
func (r *Registry) Load(rows []domain.PermissionRow) {
	grants := make(map[int]map[domain.Action]struct{}, len(rows))
	for _, row := range rows {
		set, ok := grants[row.FormID]
		if !ok {
			set = map[domain.Action]struct{}{}
			grants[row.FormID] = set
		}
		for _, raw := range strings.Split(row.Actions, ",") {
			action := domain.NormalizeAction(raw)
			if action == "" {
				continue
			}
			set[action] = struct{}{}
		}
	}

	r.mu.Lock()
	r.grants = grants
	r.mu.Unlock()
}

// Reset empties the registry, denying every action for every form id.
// Used when a permissions fetch returns an unusable payload.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.grants = map[int]map[domain.Action]struct{}{}
	r.mu.Unlock()
}

// Can reports whether the given action is granted on the given screen.
// The queried action is normalized the same way Load normalizes stored ones.
// Unknown form ids and unknown actions return false, never an error.
func (r *Registry) Can(formID int, action domain.Action) bool {
	normalized := domain.NormalizeAction(string(action))

	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.grants[formID]
	if !ok {
		return false
	}
	_, ok = set[normalized]
	return ok
}

// Fixed aliases over Can for the known actions.

func (r *Registry) CanAdd(formID int) bool    { return r.Can(formID, domain.ActionAdd) }
func (r *Registry) CanEdit(formID int) bool   { return r.Can(formID, domain.ActionEdit) }
func (r *Registry) CanDelete(formID int) bool { return r.Can(formID, domain.ActionDelete) }
func (r *Registry) CanSearch(formID int) bool { return r.Can(formID, domain.ActionSearch) }

func (r *Registry) CanAdvancedSearch(formID int) bool {
	return r.Can(formID, domain.ActionAdvanceSearch)
}

func (r *Registry) CanManageColumns(formID int) bool {
	return r.Can(formID, domain.ActionManageColumns)
}

// Actions returns the normalized action set for a form id, for handing the
// grants back to a screen on mount. The result is a copy.
func (r *Registry) Actions(formID int) []domain.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.grants[formID]
	if !ok {
		return nil
	}
	out := make([]domain.Action, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	return out
}
