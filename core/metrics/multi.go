package metrics

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordValidation forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordValidation(ev ValidationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordValidation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSubmission forwards submission events when supported by the sink.
func (m *MultiSink) RecordSubmission(ev SubmissionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SubmissionRecorder); ok {
			if err := rec.RecordSubmission(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDataLoad forwards data load events when supported by the sink.
func (m *MultiSink) RecordDataLoad(ev DataLoadEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DataLoadRecorder); ok {
			if err := rec.RecordDataLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordStaleResponse forwards stale response counts when supported by the sink.
func (m *MultiSink) RecordStaleResponse(category string) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(StaleResponseRecorder); ok {
			if err := rec.RecordStaleResponse(category); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
