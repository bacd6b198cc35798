package planning

import (
	"context"

	"github.com/kilianp07/seaplane/core/capacity"
	"github.com/kilianp07/seaplane/core/cluster"
	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/selection"
)

// Presenter renders the outputs of the session.
type Presenter interface {
	// RenderClusters is called whenever the cluster index is rebuilt.
	RenderClusters(clusters []cluster.Cluster)
	// RenderSelectionSummary is called after every selection or vehicle change.
	RenderSelectionSummary(demand selection.Demand, result capacity.Result)
}

// SubmissionRenderer is implemented by presenters that display submission
// outcomes. errMsg is the collaborator error, unmodified.
type SubmissionRenderer interface {
	RenderSubmission(result *model.DeliveryResult, errMsg string)
}

// Submitter performs the delivery creation against the backend.
type Submitter interface {
	SubmitDelivery(ctx context.Context, orderIDs []string, vehicle string) (model.DeliveryResult, error)
}

// Publisher receives session events. eventbus.TypedBus[Event] implements it.
type Publisher interface {
	Publish(Event)
}

// NopPresenter discards every render call.
type NopPresenter struct{}

func (NopPresenter) RenderClusters([]cluster.Cluster)                         {}
func (NopPresenter) RenderSelectionSummary(selection.Demand, capacity.Result) {}
func (NopPresenter) RenderSubmission(*model.DeliveryResult, string)           {}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
