package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opsboard/internal/domain"
	"opsboard/internal/permission"
)

func TestRegistry_FailClosedBeforeLoad(t *testing.T) {
	reg := permission.NewRegistry()

	assert.False(t, reg.Can(1, domain.ActionAdd))
	assert.False(t, reg.CanAdd(42))
	assert.False(t, reg.CanSearch(0))
}

func TestRegistry_Load_ParsesCommaSeparatedActions(t *testing.T) {
	reg := permission.NewRegistry()
	reg.Load([]domain.PermissionRow{
		{FormID: 5, Actions: "Add, Edit , delete"},
	})

	assert.True(t, reg.Can(5, "edit"))
	assert.True(t, reg.Can(5, "Edit"), "lookup must be case insensitive")
	assert.True(t, reg.Can(5, " delete "))
	assert.True(t, reg.CanAdd(5))
	assert.False(t, reg.Can(5, "export"))
	assert.False(t, reg.Can(6, "add"), "unknown form id denies all")
}

func TestRegistry_Load_ReplacesNotMerges(t *testing.T) {
	reg := permission.NewRegistry()
	reg.Load([]domain.PermissionRow{{FormID: 1, Actions: "add,edit"}})
	reg.Load([]domain.PermissionRow{{FormID: 2, Actions: "search"}})

	assert.False(t, reg.Can(1, domain.ActionAdd), "previous load must be overwritten")
	assert.True(t, reg.Can(2, domain.ActionSearch))
}

func TestRegistry_Load_MalformedActionStringGrantsNothing(t *testing.T) {
	reg := permission.NewRegistry()
	reg.Load([]domain.PermissionRow{
		{FormID: 7, Actions: ""},
		{FormID: 8, Actions: " , ,, "},
	})

	assert.False(t, reg.Can(7, domain.ActionAdd))
	assert.False(t, reg.Can(8, domain.ActionEdit))
}

func TestRegistry_HyphenatedActions(t *testing.T) {
	reg := permission.NewRegistry()
	reg.Load([]domain.PermissionRow{
		{FormID: 3, Actions: "search,Advance-Search,manage-columns"},
	})

	assert.True(t, reg.CanAdvancedSearch(3))
	assert.True(t, reg.CanManageColumns(3))
	assert.False(t, reg.CanEdit(3))
}

func TestRegistry_Reset_DeniesEverything(t *testing.T) {
	reg := permission.NewRegistry()
	reg.Load([]domain.PermissionRow{{FormID: 1, Actions: "add"}})
	reg.Reset()

	assert.False(t, reg.Can(1, domain.ActionAdd))
}

func TestRegistry_Actions_ReturnsGrantedSet(t *testing.T) {
	reg := permission.NewRegistry()
	reg.Load([]domain.PermissionRow{{FormID: 4, Actions: "add,search"}})

	actions := reg.Actions(4)
	assert.Len(t, actions, 2)
	assert.ElementsMatch(t, []domain.Action{domain.ActionAdd, domain.ActionSearch}, actions)
	assert.Nil(t, reg.Actions(99))
}
