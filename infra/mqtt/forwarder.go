package mqtt

import (
	"context"
	"time"

	"github.com/google/uuid"

	coremqtt "github.com/kilianp07/seaplane/core/mqtt"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/logger"
	"github.com/kilianp07/seaplane/internal/eventbus"
)

// publishTimeout bounds each delivery announcement.
const publishTimeout = 10 * time.Second

// DeliveryEventFrom builds the broadcast payload for a resolved submission.
// ok is false for any other event.
func DeliveryEventFrom(ev planning.Event) (coremqtt.DeliveryEvent, bool) {
	if ev.Kind != planning.EventSubmissionResolved || ev.Result == nil {
		return coremqtt.DeliveryEvent{}, false
	}
	return coremqtt.DeliveryEvent{
		EventID:       uuid.NewString(),
		SessionID:     ev.SessionID,
		DeliveryID:    ev.Result.ID,
		Vehicle:       ev.Vehicle,
		OrderIDs:      ev.OrderIDs,
		Route:         ev.Result.Route,
		DistanceKm:    ev.Result.DistanceKm,
		DurationHours: ev.Result.DurationHours,
		Message:       ev.Result.Message,
		Time:          ev.Time,
	}, true
}

// StartDeliveryForwarder publishes every resolved submission seen on bus
// until ctx is canceled or the bus is closed.
func StartDeliveryForwarder(ctx context.Context, bus *eventbus.TypedBus[planning.Event], pub coremqtt.Publisher, log logger.Logger) {
	if bus == nil || pub == nil {
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
				de, ok := DeliveryEventFrom(ev)
				if !ok {
					continue
				}
				pctx, cancel := context.WithTimeout(ctx, publishTimeout)
				if err := pub.PublishDelivery(pctx, de); err != nil {
					log.Errorf("forward delivery %s: %v", de.DeliveryID, err)
				}
				cancel()
			}
		}
	}()
}
