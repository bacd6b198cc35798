package planner

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/seaplane/core/cluster"
	"github.com/kilianp07/seaplane/core/fleet"
	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/journal"
)

// VehicleDetails is a vehicle with its display labels.
type VehicleDetails struct {
	model.Vehicle
	StatusLabel   string  `json:"status_label"`
	LocationLabel string  `json:"location_label"`
	FuelPercent   float64 `json:"fuel_percent"`
	LowFuel       bool    `json:"low_fuel"`
	Available     bool    `json:"available"`
}

func detailsOf(v model.Vehicle) VehicleDetails {
	return VehicleDetails{
		Vehicle:       v,
		StatusLabel:   v.Status.Label(),
		LocationLabel: v.LocationLabel(),
		FuelPercent:   v.FuelPercent(),
		LowFuel:       v.LowFuel(),
		Available:     v.Available(),
	}
}

// OrderView is a pending order with its display labels.
type OrderView struct {
	model.PendingOrder
	ShortID    string `json:"short_id"`
	RouteLabel string `json:"route_label"`
	Selected   bool   `json:"selected"`
}

// Unlocated is an entity without a position.
type Unlocated struct {
	Name   string       `json:"name"`
	Kind   model.Kind   `json:"kind"`
	Status model.Status `json:"status"`
	Label  string       `json:"label"`
}

func (h *handlers) getSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap planning.Snapshot
	if !h.read(w, r, func(s *planning.Session) { snap = s.Snapshot() }) {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handlers) getClusters(w http.ResponseWriter, r *http.Request) {
	var out []cluster.Cluster
	if !h.read(w, r, func(s *planning.Session) { out = s.Index().Clusters() }) {
		return
	}
	if out == nil {
		out = []cluster.Cluster{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getUnlocated(w http.ResponseWriter, r *http.Request) {
	out := []Unlocated{}
	if !h.read(w, r, func(s *planning.Session) {
		for _, e := range s.Index().Unlocated() {
			out = append(out, Unlocated{Name: e.Key(), Kind: e.Kind(), Status: e.State(), Label: model.InFlight})
		}
	}) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getOrders(w http.ResponseWriter, r *http.Request) {
	out := []OrderView{}
	if !h.read(w, r, func(s *planning.Session) {
		selected := s.Snapshot().OrderIDs
		for _, o := range s.Registries().Orders.List() {
			out = append(out, OrderView{
				PendingOrder: o,
				ShortID:      o.ShortID(),
				RouteLabel:   o.RouteLabel(),
				Selected:     slices.Contains(selected, o.ID),
			})
		}
	}) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getVehicles(w http.ResponseWriter, r *http.Request) {
	available := r.URL.Query().Get("available") == "true"
	out := []VehicleDetails{}
	if !h.read(w, r, func(s *planning.Session) {
		for _, v := range s.Registries().Vehicles.List() {
			if available && !v.Available() {
				continue
			}
			out = append(out, detailsOf(v))
		}
	}) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getVehicle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		v  model.Vehicle
		ok bool
	)
	if !h.read(w, r, func(s *planning.Session) { v, ok = s.Registries().Vehicles.Get(name) }) {
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, planning.ErrUnknownVehicle.Error())
		return
	}
	writeJSON(w, http.StatusOK, detailsOf(v))
}

func (h *handlers) getFleet(w http.ResponseWriter, r *http.Request) {
	var sum fleet.Summary
	if !h.read(w, r, func(s *planning.Session) { sum = fleet.Summarize(s.Registries().Vehicles.List()) }) {
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *handlers) getClients(w http.ResponseWriter, r *http.Request) {
	var out []model.Client
	if !h.read(w, r, func(s *planning.Session) { out = s.Registries().Clients.List() }) {
		return
	}
	if out == nil {
		out = []model.Client{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getWarehouses(w http.ResponseWriter, r *http.Request) {
	var out []model.Warehouse
	if !h.read(w, r, func(s *planning.Session) { out = s.Registries().Warehouses.List() }) {
		return
	}
	if out == nil {
		out = []model.Warehouse{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) toggleOrder(w http.ResponseWriter, r *http.Request) {
	snap, err := h.planner.Toggle(r.Context(), chi.URLParam(r, "orderID"))
	h.respondSnapshot(w, snap, err)
}

func (h *handlers) clearSelection(w http.ResponseWriter, r *http.Request) {
	snap, err := h.planner.ClearSelection(r.Context())
	h.respondSnapshot(w, snap, err)
}

func (h *handlers) chooseVehicle(w http.ResponseWriter, r *http.Request) {
	snap, err := h.planner.ChooseVehicle(r.Context(), chi.URLParam(r, "name"))
	h.respondSnapshot(w, snap, err)
}

func (h *handlers) clearVehicle(w http.ResponseWriter, r *http.Request) {
	snap, err := h.planner.ClearVehicle(r.Context())
	h.respondSnapshot(w, snap, err)
}

func (h *handlers) submitDelivery(w http.ResponseWriter, r *http.Request) {
	res, err := h.planner.Submit(r.Context())
	if err != nil {
		var ns *planning.NotSubmittableError
		if errors.As(err, &ns) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":      ns.Result.Message(),
				"validation": ns.Result,
			})
			return
		}
		h.fail(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ClientID == 0 || req.WarehouseID == 0 {
		writeError(w, http.StatusBadRequest, "client_id and warehouse_id are required")
		return
	}
	res, err := h.planner.CreateOrder(r.Context(), req)
	if err != nil {
		h.fail(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Refresh(r.Context()); err != nil {
		h.fail(w, err, http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) getJournal(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	q := journal.Query{
		Vehicle: r.URL.Query().Get("vehicle"),
		OrderID: r.URL.Query().Get("order_id"),
	}
	if s := r.URL.Query().Get("start"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.Start = t
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.End = t
		}
	}
	if s := r.URL.Query().Get("resolved"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid resolved flag")
			return
		}
		q.Resolved = &b
	}
	records, err := h.journal.Query(r.Context(), q)
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []journal.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// read runs fn on the planner and reports whether the response may proceed.
func (h *handlers) read(w http.ResponseWriter, r *http.Request, fn func(*planning.Session)) bool {
	if err := h.planner.Do(r.Context(), fn); err != nil {
		h.fail(w, err, http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (h *handlers) respondSnapshot(w http.ResponseWriter, snap planning.Snapshot, err error) {
	if err != nil {
		h.fail(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// fail maps err onto a status code. Errors without a known mapping use
// fallback.
func (h *handlers) fail(w http.ResponseWriter, err error, fallback int) {
	code := statusOf(err, fallback)
	if code >= http.StatusInternalServerError {
		h.log.Errorf("api: %v", err)
	}
	writeError(w, code, err.Error())
}

func statusOf(err error, fallback int) int {
	switch {
	case errors.Is(err, planning.ErrUnknownOrder), errors.Is(err, planning.ErrUnknownVehicle):
		return http.StatusNotFound
	case errors.Is(err, planning.ErrVehicleUnavailable), errors.Is(err, planning.ErrSubmissionInFlight),
		errors.Is(err, planning.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, planning.ErrNotSubmittable), errors.Is(err, model.ErrLockerCapacity),
		errors.Is(err, model.ErrUnknownClient), errors.Is(err, model.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity
	default:
		return fallback
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
