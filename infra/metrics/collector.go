package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/seaplane/core/metrics"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/logger"
	"github.com/kilianp07/seaplane/internal/eventbus"
)

// StartEventCollector subscribes to the planner event bus and records metrics
// for each event. It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[planning.Event], sink coremetrics.MetricsSink, log logger.Logger) {
	if bus == nil || sink == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := Record(sink, ev); err != nil {
					log.Warnf("record %s: %v", ev.Kind, err)
				}
			}
		}
	}()
}

// Record converts a planner event into the sink calls it supports.
func Record(sink coremetrics.MetricsSink, ev planning.Event) error {
	switch ev.Kind {
	case planning.EventSelectionChanged:
		v := ev.Validation
		capacity := 0
		if v.Capacity != nil {
			capacity = *v.Capacity
		}
		return sink.RecordValidation(coremetrics.ValidationEvent{
			SessionID: ev.SessionID,
			Vehicle:   ev.Vehicle,
			Outcome:   v.Outcome.String(),
			Crates:    v.Demand.Crates,
			Orders:    v.Demand.Orders,
			Capacity:  capacity,
			Time:      ev.Time,
		})
	case planning.EventDataLoaded:
		if r, ok := sink.(coremetrics.DataLoadRecorder); ok {
			return r.RecordDataLoad(coremetrics.DataLoadEvent{
				Category:  ev.Category.String(),
				Count:     ev.Count,
				Clusters:  ev.Clusters,
				Unlocated: ev.Unlocated,
				Time:      ev.Time,
			})
		}
	case planning.EventSubmissionResolved, planning.EventSubmissionFailed:
		if r, ok := sink.(coremetrics.SubmissionRecorder); ok {
			se := coremetrics.SubmissionEvent{
				SessionID: ev.SessionID,
				Vehicle:   ev.Vehicle,
				Orders:    len(ev.OrderIDs),
				Resolved:  ev.Kind == planning.EventSubmissionResolved,
				Error:     ev.Error,
				Latency:   ev.Latency,
				Time:      ev.Time,
			}
			if ev.Result != nil {
				se.DeliveryID = ev.Result.ID
				se.DistanceKm = ev.Result.DistanceKm
				se.DurationHours = ev.Result.DurationHours
			}
			return r.RecordSubmission(se)
		}
	case planning.EventStaleResponse:
		if r, ok := sink.(coremetrics.StaleResponseRecorder); ok {
			return r.RecordStaleResponse(ev.Category.String())
		}
	}
	return nil
}
