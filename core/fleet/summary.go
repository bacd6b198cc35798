package fleet

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/seaplane/core/model"
)

// Summary aggregates the state of the seaplane fleet.
type Summary struct {
	Vehicles            int      `json:"vehicles"`
	Docked              int      `json:"docked"`
	Flying              int      `json:"flying"`
	Maintenance         int      `json:"maintenance"`
	UnknownStatus       int      `json:"unknown_status"`
	Unlocated           int      `json:"unlocated"`
	MeanCrateCapacity   float64  `json:"mean_crate_capacity"`
	DockedCrateCapacity int      `json:"docked_crate_capacity"`
	MeanFuelPercent     float64  `json:"mean_fuel_percent"`
	LowFuel             []string `json:"low_fuel,omitempty"`
}

// Summarize computes the fleet summary. Vehicles without a fuel capacity are
// left out of the fuel mean.
func Summarize(vehicles []model.Vehicle) Summary {
	s := Summary{Vehicles: len(vehicles)}
	if len(vehicles) == 0 {
		return s
	}
	caps := make([]float64, 0, len(vehicles))
	fuel := make([]float64, 0, len(vehicles))
	var docked []float64
	for _, v := range vehicles {
		switch v.Status {
		case model.StatusDocked:
			s.Docked++
			docked = append(docked, float64(v.CrateCapacity))
		case model.StatusFlying:
			s.Flying++
		case model.StatusMaintenance:
			s.Maintenance++
		default:
			s.UnknownStatus++
		}
		if v.Location == nil {
			s.Unlocated++
		}
		caps = append(caps, float64(v.CrateCapacity))
		if v.FuelCapacity > 0 {
			fuel = append(fuel, v.FuelPercent())
		}
		if v.LowFuel() {
			s.LowFuel = append(s.LowFuel, v.Name)
		}
	}
	s.MeanCrateCapacity = stat.Mean(caps, nil)
	s.DockedCrateCapacity = int(floats.Sum(docked))
	if len(fuel) > 0 {
		s.MeanFuelPercent = stat.Mean(fuel, nil)
	}
	slices.Sort(s.LowFuel)
	return s
}
