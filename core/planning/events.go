package planning

import (
	"time"

	"github.com/kilianp07/seaplane/core/capacity"
	"github.com/kilianp07/seaplane/core/model"
)

// EventKind identifies a session event.
type EventKind int

const (
	EventDataLoaded EventKind = iota
	EventSelectionChanged
	EventSubmissionStarted
	EventSubmissionResolved
	EventSubmissionFailed
	EventStaleResponse
)

func (k EventKind) String() string {
	switch k {
	case EventDataLoaded:
		return "data_loaded"
	case EventSelectionChanged:
		return "selection_changed"
	case EventSubmissionStarted:
		return "submission_started"
	case EventSubmissionResolved:
		return "submission_resolved"
	case EventSubmissionFailed:
		return "submission_failed"
	case EventStaleResponse:
		return "stale_response"
	default:
		return "unknown"
	}
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event describes a completed session transition.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"session_id"`
	Time      time.Time `json:"time"`

	// Data loads.
	Category  Category `json:"category,omitempty"`
	Seq       uint64   `json:"seq,omitempty"`
	Count     int      `json:"count,omitempty"`
	Clusters  int      `json:"clusters,omitempty"`
	Unlocated int      `json:"unlocated,omitempty"`

	// Selection and submissions.
	Validation capacity.Result       `json:"validation"`
	OrderIDs   []string              `json:"order_ids,omitempty"`
	Vehicle    string                `json:"vehicle,omitempty"`
	Result     *model.DeliveryResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
	Latency    time.Duration         `json:"latency,omitempty"`
}
