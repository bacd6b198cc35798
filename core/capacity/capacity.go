package capacity

import (
	"fmt"

	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/selection"
)

// Outcome is the result of comparing demand with a vehicle's capacity.
type Outcome int

const (
	OK Outcome = iota
	OverCapacity
	NoVehicleChosen
	NoOrdersChosen
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case OverCapacity:
		return "over-capacity"
	case NoVehicleChosen:
		return "no-vehicle-chosen"
	case NoOrdersChosen:
		return "no-orders-chosen"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result is the ValidationOutcome exposed to the presentation layer.
type Result struct {
	Demand selection.Demand `json:"demand"`
	// Capacity is nil when no vehicle is chosen.
	Capacity *int    `json:"capacity,omitempty"`
	Outcome  Outcome `json:"outcome"`
}

// OK reports whether a delivery may be submitted.
func (r Result) OK() bool { return r.Outcome == OK }

// Message is the user-facing explanation of the outcome. It is empty for OK.
func (r Result) Message() string {
	switch r.Outcome {
	case NoOrdersChosen:
		return "Please select at least one order"
	case NoVehicleChosen:
		return "Please select a seaplane"
	case OverCapacity:
		return fmt.Sprintf("Total crates (%d) exceeds seaplane capacity (%d)", r.Demand.Crates, *r.Capacity)
	default:
		return ""
	}
}

// Validate compares demand against the capacity of vehicle, nil meaning no
// vehicle is chosen. An empty selection is reported first. Demand equal to
// capacity is valid.
func Validate(demand selection.Demand, vehicle *model.Vehicle) Result {
	res := Result{Demand: demand}
	if vehicle != nil {
		c := vehicle.CrateCapacity
		res.Capacity = &c
	}
	switch {
	case demand.Empty():
		res.Outcome = NoOrdersChosen
	case vehicle == nil:
		res.Outcome = NoVehicleChosen
	case demand.Crates > vehicle.CrateCapacity:
		res.Outcome = OverCapacity
	default:
		res.Outcome = OK
	}
	return res
}
