package planner

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/journal"
	"github.com/kilianp07/seaplane/infra/logger"
)

// Planner is the session host the API drives. app.Planner implements it.
type Planner interface {
	Do(ctx context.Context, fn func(*planning.Session)) error
	Toggle(ctx context.Context, orderID string) (planning.Snapshot, error)
	ClearSelection(ctx context.Context) (planning.Snapshot, error)
	ChooseVehicle(ctx context.Context, name string) (planning.Snapshot, error)
	ClearVehicle(ctx context.Context) (planning.Snapshot, error)
	Submit(ctx context.Context) (model.DeliveryResult, error)
	CreateOrder(ctx context.Context, req model.OrderRequest) (model.OrderResult, error)
	Refresh(ctx context.Context, categories ...planning.Category) error
}

type handlers struct {
	planner Planner
	journal journal.Store
	token   string
	log     logger.Logger
}

// NewRouter returns the HTTP API of the planner. A nil store disables the
// journal route. token, when non-empty, guards the journal route.
func NewRouter(p Planner, store journal.Store, token string, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	h := &handlers{planner: p, journal: store, token: token, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", h.getSnapshot)
		r.Get("/clusters", h.getClusters)
		r.Get("/clusters/unlocated", h.getUnlocated)
		r.Get("/orders", h.getOrders)
		r.Get("/vehicles", h.getVehicles)
		r.Get("/vehicles/{name}", h.getVehicle)
		r.Get("/fleet", h.getFleet)
		r.Get("/clients", h.getClients)
		r.Get("/warehouses", h.getWarehouses)

		r.Post("/selection/{orderID}", h.toggleOrder)
		r.Delete("/selection", h.clearSelection)
		r.Put("/vehicle/{name}", h.chooseVehicle)
		r.Delete("/vehicle", h.clearVehicle)

		r.Post("/deliveries", h.submitDelivery)
		r.Post("/orders", h.createOrder)
		r.Post("/refresh", h.refresh)

		if store != nil {
			r.Get("/journal", h.getJournal)
		}
	})
	return r
}
