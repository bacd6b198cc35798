package metrics

import "time"

// ValidationEvent is recorded whenever the selection or vehicle changes.
type ValidationEvent struct {
	SessionID string
	Vehicle   string
	Outcome   string
	Crates    int
	Orders    int
	// Capacity is zero when no vehicle is chosen.
	Capacity int
	Time     time.Time
}

// MetricsSink records planner activity for observability purposes.
type MetricsSink interface {
	RecordValidation(ev ValidationEvent) error
}

// SubmissionEvent captures the outcome of a delivery submission.
type SubmissionEvent struct {
	SessionID     string
	DeliveryID    string
	Vehicle       string
	Orders        int
	Resolved      bool
	Error         string
	Latency       time.Duration
	DistanceKm    float64
	DurationHours float64
	Time          time.Time
}

// SubmissionRecorder records submission outcomes.
type SubmissionRecorder interface {
	RecordSubmission(ev SubmissionEvent) error
}

// DataLoadEvent captures a registry replacement.
type DataLoadEvent struct {
	Category  string
	Count     int
	Clusters  int
	Unlocated int
	Time      time.Time
}

// DataLoadRecorder records data loads.
type DataLoadRecorder interface {
	RecordDataLoad(ev DataLoadEvent) error
}

// StaleResponseRecorder counts responses dropped because a newer request was issued.
type StaleResponseRecorder interface {
	RecordStaleResponse(category string) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordValidation(ValidationEvent) error { return nil }
func (NopSink) RecordSubmission(SubmissionEvent) error { return nil }
func (NopSink) RecordDataLoad(DataLoadEvent) error     { return nil }
func (NopSink) RecordStaleResponse(string) error       { return nil }
