package columns_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"opsboard/internal/columns"
	"opsboard/internal/domain"
	"opsboard/mocks"
)

func col(name string, visible, hidden bool, order int) domain.ColumnDefinition {
	return domain.ColumnDefinition{
		ColumnName:   name,
		DisplayName:  name,
		IsVisible:    visible,
		IsHidden:     hidden,
		DisplayOrder: order,
	}
}

func TestEffective_RequiresBothFlags(t *testing.T) {
	defs := []domain.ColumnDefinition{
		col("A", true, true, 2),
		col("B", true, false, 1),
		col("C", false, true, 3),
		col("D", false, false, 4),
		col("E", true, true, 1),
	}

	eff := columns.Effective(defs)

	assert.Len(t, eff, 2)
	assert.Equal(t, "E", eff[0].ColumnName, "ordered ascending by display order")
	assert.Equal(t, "A", eff[1].ColumnName)
}

func TestEffective_EmptyInput(t *testing.T) {
	assert.Empty(t, columns.Effective(nil))
}

func TestContains(t *testing.T) {
	defs := []domain.ColumnDefinition{col("EmailId", true, true, 1)}

	assert.True(t, columns.Contains(defs, "EmailId"))
	assert.False(t, columns.Contains(defs, "UserName"))
}

func TestStore_Fetch_ReturnsStoredDefinitions(t *testing.T) {
	repo := new(mocks.MockColumnPreferenceRepo)
	store := columns.NewStore(repo)
	userID := uuid.New()
	stored := []domain.ColumnDefinition{col("Name", true, true, 1)}
	fallback := []domain.ColumnDefinition{col("Default", true, true, 1)}

	repo.On("ListByScreen", mock.Anything, "clients", userID).Return(stored, nil)

	defs, err := store.Fetch(context.Background(), "clients", userID, fallback)

	assert.NoError(t, err)
	assert.Equal(t, stored, defs)
	repo.AssertExpectations(t)
}

func TestStore_Fetch_EmptySetFallsBackToDefaults(t *testing.T) {
	repo := new(mocks.MockColumnPreferenceRepo)
	store := columns.NewStore(repo)
	userID := uuid.New()
	fallback := []domain.ColumnDefinition{col("Default", true, true, 1)}

	repo.On("ListByScreen", mock.Anything, "clients", userID).Return([]domain.ColumnDefinition{}, nil)

	defs, err := store.Fetch(context.Background(), "clients", userID, fallback)

	assert.NoError(t, err)
	assert.Equal(t, fallback, defs, "empty stored set must deterministically yield the fallback")
}

func TestStore_Fetch_ErrorFallsBackToDefaults(t *testing.T) {
	repo := new(mocks.MockColumnPreferenceRepo)
	store := columns.NewStore(repo)
	userID := uuid.New()
	fallback := []domain.ColumnDefinition{col("Default", true, true, 1)}

	repo.On("ListByScreen", mock.Anything, "clients", userID).Return(nil, errors.New("boom"))

	defs, err := store.Fetch(context.Background(), "clients", userID, fallback)

	assert.Error(t, err)
	assert.Equal(t, fallback, defs, "caller still gets a renderable column set")
}
