package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/seaplane/core/model"
)

func TestTable_UpsertAllReplaces(t *testing.T) {
	tbl := New(model.Vehicle.Key)
	tbl.UpsertAll([]model.Vehicle{{Name: "a", CrateCapacity: 5}, {Name: "b", CrateCapacity: 7}})
	require.Equal(t, 2, tbl.Len())

	tbl.UpsertAll([]model.Vehicle{{Name: "c", CrateCapacity: 3}})
	assert.Equal(t, 1, tbl.Len())
	assert.False(t, tbl.Has("a"))
	v, ok := tbl.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v.CrateCapacity)
}

func TestTable_GetMissing(t *testing.T) {
	tbl := New(model.Client.Key)
	_, ok := tbl.Get(42)
	assert.False(t, ok)
}

func TestTable_DuplicateKeyLastWins(t *testing.T) {
	tbl := New(model.Vehicle.Key)
	tbl.UpsertAll([]model.Vehicle{{Name: "a", CrateCapacity: 5}, {Name: "a", CrateCapacity: 9}})
	v, _ := tbl.Get("a")
	assert.Equal(t, 9, v.CrateCapacity)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_ListOrderedAndFilter(t *testing.T) {
	tbl := New(model.Vehicle.Key)
	tbl.UpsertAll([]model.Vehicle{
		{Name: "c", Status: model.StatusDocked},
		{Name: "a", Status: model.StatusFlying},
		{Name: "b", Status: model.StatusDocked},
	})
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Keys())
	docked := tbl.Filter(model.Vehicle.Available)
	require.Len(t, docked, 2)
	assert.Equal(t, "b", docked[0].Name)
	assert.Equal(t, "c", docked[1].Name)
}
