package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/selection"
)

func TestValidate(t *testing.T) {
	v10 := &model.Vehicle{Name: "v", CrateCapacity: 10}
	v6 := &model.Vehicle{Name: "v", CrateCapacity: 6}
	v8 := &model.Vehicle{Name: "v", CrateCapacity: 8}
	demand := selection.Demand{Crates: 8, Orders: 2}

	tests := []struct {
		name    string
		demand  selection.Demand
		vehicle *model.Vehicle
		want    Outcome
	}{
		{"fits", demand, v10, OK},
		{"over", demand, v6, OverCapacity},
		{"exact", demand, v8, OK},
		{"no orders", selection.Demand{}, v10, NoOrdersChosen},
		{"no orders no vehicle", selection.Demand{}, nil, NoOrdersChosen},
		{"no vehicle", demand, nil, NoVehicleChosen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.demand, tt.vehicle)
			assert.Equal(t, tt.want, got.Outcome)
			assert.Equal(t, tt.demand, got.Demand)
			assert.Equal(t, got, Validate(tt.demand, tt.vehicle))
		})
	}
}

func TestResultCapacityAndMessage(t *testing.T) {
	res := Validate(selection.Demand{Crates: 8, Orders: 2}, &model.Vehicle{CrateCapacity: 6})
	require.NotNil(t, res.Capacity)
	assert.Equal(t, 6, *res.Capacity)
	assert.Equal(t, "Total crates (8) exceeds seaplane capacity (6)", res.Message())
	assert.False(t, res.OK())

	res = Validate(selection.Demand{Crates: 1, Orders: 1}, nil)
	assert.Nil(t, res.Capacity)
	assert.Equal(t, "Please select a seaplane", res.Message())

	res = Validate(selection.Demand{}, nil)
	assert.Equal(t, "Please select at least one order", res.Message())
	assert.Equal(t, "no-orders-chosen", res.Outcome.String())
}
