package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/seaplane/core/model"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]model.Vehicle{
		{Name: "a", Status: model.StatusDocked, CrateCapacity: 10, Fuel: 50, FuelCapacity: 100, Location: &model.Point{}},
		{Name: "b", Status: model.StatusDocked, CrateCapacity: 20, Fuel: 10, FuelCapacity: 100, Location: &model.Point{}},
		{Name: "c", Status: model.StatusFlying, CrateCapacity: 30},
		{Name: "d", Status: model.StatusMaintenance, CrateCapacity: 40, Location: &model.Point{}},
	})
	assert.Equal(t, 4, s.Vehicles)
	assert.Equal(t, 2, s.Docked)
	assert.Equal(t, 1, s.Flying)
	assert.Equal(t, 1, s.Maintenance)
	assert.Equal(t, 1, s.Unlocated)
	assert.InDelta(t, 25, s.MeanCrateCapacity, 1e-9)
	assert.Equal(t, 30, s.DockedCrateCapacity)
	assert.InDelta(t, 30, s.MeanFuelPercent, 1e-9)
	assert.Equal(t, []string{"b"}, s.LowFuel)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}
