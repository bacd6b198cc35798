package planning

import (
	"errors"
	"fmt"

	"github.com/kilianp07/seaplane/core/capacity"
)

var (
	// ErrUnknownOrder is returned when selecting an order that is not pending.
	ErrUnknownOrder = errors.New("unknown order")
	// ErrUnknownVehicle is returned when choosing a vehicle absent from the registry.
	ErrUnknownVehicle = errors.New("unknown vehicle")
	// ErrVehicleUnavailable is returned when choosing a vehicle that is not docked.
	ErrVehicleUnavailable = errors.New("vehicle not available")
	// ErrSubmissionInFlight is returned when the session is waiting for a submission.
	ErrSubmissionInFlight = errors.New("submission in flight")
	// ErrNotSubmittable is wrapped by NotSubmittableError.
	ErrNotSubmittable = errors.New("delivery not submittable")
	// ErrStaleResponse is returned when a response belongs to a superseded request.
	ErrStaleResponse = errors.New("stale response")
)

// NotSubmittableError carries the validation result that blocked a submission.
type NotSubmittableError struct {
	Result capacity.Result
}

func (e *NotSubmittableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotSubmittable, e.Result.Outcome)
}

func (e *NotSubmittableError) Unwrap() error { return ErrNotSubmittable }
