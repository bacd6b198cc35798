package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/seaplane/core/capacity"
	coremetrics "github.com/kilianp07/seaplane/core/metrics"
	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/core/selection"
	"github.com/kilianp07/seaplane/infra/logger"
	"github.com/kilianp07/seaplane/internal/eventbus"
)

type captureSink struct {
	mu          sync.Mutex
	validations []coremetrics.ValidationEvent
	submissions []coremetrics.SubmissionEvent
	loads       []coremetrics.DataLoadEvent
	stale       []string
}

func (c *captureSink) RecordValidation(ev coremetrics.ValidationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validations = append(c.validations, ev)
	return nil
}

func (c *captureSink) RecordSubmission(ev coremetrics.SubmissionEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submissions = append(c.submissions, ev)
	return nil
}

func (c *captureSink) RecordDataLoad(ev coremetrics.DataLoadEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads = append(c.loads, ev)
	return nil
}

func (c *captureSink) RecordStaleResponse(category string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = append(c.stale, category)
	return nil
}

func (c *captureSink) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.validations) + len(c.submissions) + len(c.loads) + len(c.stale)
}

func TestRecord_Conversions(t *testing.T) {
	sink := &captureSink{}
	capTen := 10
	require.NoError(t, Record(sink, planning.Event{
		Kind:    planning.EventSelectionChanged,
		Vehicle: "Skyhawk",
		Validation: capacity.Result{
			Demand:   selection.Demand{Crates: 12, Orders: 2},
			Capacity: &capTen,
			Outcome:  capacity.OverCapacity,
		},
	}))
	require.NoError(t, Record(sink, planning.Event{
		Kind:     planning.EventSubmissionResolved,
		Vehicle:  "Skyhawk",
		OrderIDs: []string{"A", "B"},
		Result:   &model.DeliveryResult{ID: "d-1", DistanceKm: 40},
		Latency:  time.Second,
	}))
	require.NoError(t, Record(sink, planning.Event{Kind: planning.EventDataLoaded, Category: planning.CategoryPorts, Count: 3}))
	require.NoError(t, Record(sink, planning.Event{Kind: planning.EventStaleResponse, Category: planning.CategoryOrders}))
	require.NoError(t, Record(sink, planning.Event{Kind: planning.EventSubmissionStarted}))

	require.Len(t, sink.validations, 1)
	assert.Equal(t, "over-capacity", sink.validations[0].Outcome)
	assert.Equal(t, 10, sink.validations[0].Capacity)
	assert.Equal(t, 12, sink.validations[0].Crates)

	require.Len(t, sink.submissions, 1)
	assert.True(t, sink.submissions[0].Resolved)
	assert.Equal(t, "d-1", sink.submissions[0].DeliveryID)
	assert.Equal(t, 2, sink.submissions[0].Orders)

	require.Len(t, sink.loads, 1)
	assert.Equal(t, "ports", sink.loads[0].Category)
	assert.Equal(t, []string{"orders"}, sink.stale)
}

func TestRecord_ValidationOnlySink(t *testing.T) {
	sink := coremetrics.NopSink{}
	assert.NoError(t, Record(sink, planning.Event{Kind: planning.EventSubmissionFailed, Error: "boom"}))
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.NewTyped[planning.Event]()
	sink := &captureSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink, logger.NopLogger{})

	bus.Publish(planning.Event{Kind: planning.EventStaleResponse, Category: planning.CategoryVehicles})
	bus.Publish(planning.Event{Kind: planning.EventDataLoaded, Category: planning.CategoryVehicles, Count: 2})

	assert.Eventually(t, func() bool { return sink.total() == 2 }, time.Second, 10*time.Millisecond)
}
