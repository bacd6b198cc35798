package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/seaplane/config"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/logger"
	"github.com/kilianp07/seaplane/internal/eventbus"
)

const appendTimeout = 5 * time.Second

// Open creates the store selected by cfg.Backend.
func Open(cfg config.JournalConfig) (Store, error) {
	switch cfg.Backend {
	case "jsonl":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "none", "":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown journal backend %s", cfg.Backend)
	}
}

// RecordFrom builds the journal entry of a completed submission. ok is false
// for any other event.
func RecordFrom(ev planning.Event) (Record, bool) {
	if ev.Kind != planning.EventSubmissionResolved && ev.Kind != planning.EventSubmissionFailed {
		return Record{}, false
	}
	r := Record{
		ID:        uuid.NewString(),
		SessionID: ev.SessionID,
		Timestamp: ev.Time,
		Vehicle:   ev.Vehicle,
		OrderIDs:  ev.OrderIDs,
		Crates:    ev.Validation.Demand.Crates,
		Resolved:  ev.Kind == planning.EventSubmissionResolved,
		Delivery:  ev.Result,
		Error:     ev.Error,
		LatencyMS: ev.Latency.Milliseconds(),
	}
	if ev.Validation.Capacity != nil {
		r.Capacity = *ev.Validation.Capacity
	}
	return r, true
}

// StartRecorder appends every completed submission seen on bus to store
// until ctx is canceled or the bus is closed.
func StartRecorder(ctx context.Context, bus *eventbus.TypedBus[planning.Event], store Store, log logger.Logger) {
	if bus == nil || store == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.SubscribeBuffered(eventbus.DurableBuffer)
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
				rec, ok := RecordFrom(ev)
				if !ok {
					continue
				}
				actx, cancel := context.WithTimeout(context.Background(), appendTimeout)
				if err := store.Append(actx, rec); err != nil {
					log.Errorf("journal append: %v", err)
				}
				cancel()
			}
		}
	}()
}
