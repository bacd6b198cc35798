package model

import "fmt"

// LowFuelPercent is the fuel level under which a seaplane is flagged.
const LowFuelPercent = 25.0

// Vehicle represents a seaplane as returned by the backend. Records are
// replaced wholesale on every fetch and never patched locally.
type Vehicle struct {
	Name          string  `json:"name"`
	Status        Status  `json:"status"`
	Location      *Point  `json:"location,omitempty"` // nil while in flight
	CrateCapacity int     `json:"crate_capacity"`
	Crates        int     `json:"crates"`
	Fuel          float64 `json:"fuel"`
	FuelCapacity  float64 `json:"fuel_capacity"`

	// Optional model metadata shown in the detail panel.
	ModelName       string  `json:"model_name,omitempty"`
	Manufacturer    string  `json:"manufacturer,omitempty"`
	FuelConsumption float64 `json:"fuel_consumption_l_per_km,omitempty"`
	AverageSpeedKmh float64 `json:"average_speed_kmh,omitempty"`
	CostPerKmUSD    float64 `json:"cost_per_km_usd,omitempty"`
}

// Validate checks that the vehicle can take part in planning.
func (v Vehicle) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("vehicle name is required")
	}
	if v.CrateCapacity <= 0 {
		return fmt.Errorf("vehicle %s: crate capacity must be positive", v.Name)
	}
	if v.Location != nil {
		if err := v.Location.Validate(); err != nil {
			return fmt.Errorf("vehicle %s: %w", v.Name, err)
		}
	}
	return nil
}

// Key returns the registry key of the vehicle.
func (v Vehicle) Key() string { return v.Name }

func (v Vehicle) Kind() Kind { return KindVehicle }

func (v Vehicle) State() Status { return v.Status }

func (v Vehicle) Position() *Point { return v.Location }

// Available reports whether the seaplane can be assigned a new delivery.
func (v Vehicle) Available() bool { return v.Status == StatusDocked }

// LocationLabel returns the location name or InFlight when unplaced.
func (v Vehicle) LocationLabel() string {
	if v.Location == nil {
		return InFlight
	}
	return v.Location.Label()
}

// ManufacturerLabel returns the manufacturer name or "-".
func (v Vehicle) ManufacturerLabel() string {
	if v.Manufacturer == "" {
		return "-"
	}
	return v.Manufacturer
}

// FuelPercent returns the fuel level relative to the tank capacity.
// An unknown capacity yields zero.
func (v Vehicle) FuelPercent() float64 {
	if v.FuelCapacity <= 0 {
		return 0
	}
	return v.Fuel / v.FuelCapacity * 100
}

// LowFuel reports whether the fuel level is under LowFuelPercent.
func (v Vehicle) LowFuel() bool {
	return v.FuelCapacity > 0 && v.FuelPercent() < LowFuelPercent
}

// OptionLabel is the text used when offering the seaplane for a delivery.
func (v Vehicle) OptionLabel() string {
	return fmt.Sprintf("%s (%d crates)", v.Name, v.CrateCapacity)
}
