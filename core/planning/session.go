package planning

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/seaplane/core/capacity"
	"github.com/kilianp07/seaplane/core/cluster"
	"github.com/kilianp07/seaplane/core/logger"
	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/registry"
	"github.com/kilianp07/seaplane/core/selection"
)

// State is the phase of a planning session.
type State int

const (
	StateEmpty State = iota
	StateSelecting
	StateValidated
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSelecting:
		return "selecting"
	case StateValidated:
		return "validated"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Registries holds the lookup tables the session reads from. They are owned
// by the session once passed to NewSession.
type Registries struct {
	Vehicles   *registry.Table[string, model.Vehicle]
	Ports      *registry.Table[string, model.Port]
	Orders     *registry.Table[string, model.PendingOrder]
	Clients    *registry.Table[int, model.Client]
	Warehouses *registry.Table[int, model.Warehouse]
}

// NewRegistries returns empty registries.
func NewRegistries() *Registries {
	return &Registries{
		Vehicles:   registry.New(model.Vehicle.Key),
		Ports:      registry.New(model.Port.Key),
		Orders:     registry.New(model.PendingOrder.Key),
		Clients:    registry.New(model.Client.Key),
		Warehouses: registry.New(model.Warehouse.Key),
	}
}

// Request is the payload handed to the submission collaborator.
type Request struct {
	Seq      uint64   `json:"seq"`
	OrderIDs []string `json:"order_ids"`
	Vehicle  string   `json:"vehicle"`
	started  time.Time
	result   capacity.Result
}

// Submission is the outcome of the last completed submission.
type Submission struct {
	Seq      uint64                `json:"seq"`
	OrderIDs []string              `json:"order_ids"`
	Vehicle  string                `json:"vehicle"`
	Resolved bool                  `json:"resolved"`
	Result   *model.DeliveryResult `json:"result,omitempty"`
	Error    string                `json:"error,omitempty"`
	At       time.Time             `json:"at"`
}

// Snapshot is an immutable view of the session.
type Snapshot struct {
	SessionID  string          `json:"session_id"`
	State      State           `json:"state"`
	OrderIDs   []string        `json:"order_ids"`
	Vehicle    string          `json:"vehicle,omitempty"`
	Validation capacity.Result `json:"validation"`
	Last       *Submission     `json:"last,omitempty"`
}

// Session composes the selection, the chosen vehicle and the validation
// outcome. It is not safe for concurrent use: the host must run one event
// handler at a time.
type Session struct {
	id         string
	reg        *Registries
	index      *cluster.Index
	sel        *selection.Set
	vehicle    string
	pending    *Request
	last       *Submission
	seq        *Sequencer
	presenter  Presenter
	pub        Publisher
	log        logger.Logger
	dockedOnly bool
	now        func() time.Time
}

// NewSession creates an empty session over reg. A nil presenter, publisher or
// logger is replaced by a no-op implementation.
func NewSession(reg *Registries, presenter Presenter, pub Publisher, log logger.Logger, dockedOnly bool) *Session {
	if reg == nil {
		reg = NewRegistries()
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if pub == nil {
		pub = nopPublisher{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Session{
		id:         uuid.NewString(),
		reg:        reg,
		index:      cluster.NewIndex(),
		sel:        selection.New(),
		seq:        NewSequencer(),
		presenter:  presenter,
		pub:        pub,
		log:        log,
		dockedOnly: dockedOnly,
		now:        time.Now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Registries exposes the tables backing the session.
func (s *Session) Registries() *Registries { return s.reg }

// Index exposes the current cluster index.
func (s *Session) Index() *cluster.Index { return s.index }

// Begin issues a request number for a fetch of category c. The matching
// response must be applied with the same number.
func (s *Session) Begin(c Category) uint64 { return s.seq.Next(c) }

func (s *Session) accept(c Category, seq uint64) error {
	if s.seq.Accept(c, seq) {
		return nil
	}
	s.log.Debugw("dropping stale response", map[string]any{"category": c.String(), "seq": seq, "latest": s.seq.Current(c)})
	s.emit(Event{Kind: EventStaleResponse, Category: c, Seq: seq})
	return ErrStaleResponse
}

// LoadVehicles replaces the vehicle registry and rebuilds the clusters.
func (s *Session) LoadVehicles(seq uint64, vehicles []model.Vehicle) error {
	if err := s.accept(CategoryVehicles, seq); err != nil {
		return err
	}
	s.reg.Vehicles.UpsertAll(keep(vehicles, s.log, "vehicle"))
	if s.vehicle != "" {
		if _, err := s.lookupVehicle(s.vehicle); err != nil {
			s.log.Infof("chosen vehicle %s dropped after refresh: %v", s.vehicle, err)
			s.vehicle = ""
		}
	}
	s.rebuild()
	s.emit(Event{Kind: EventDataLoaded, Category: CategoryVehicles, Seq: seq, Count: s.reg.Vehicles.Len()})
	s.summarize()
	return nil
}

// LoadPorts replaces the port registry and rebuilds the clusters.
func (s *Session) LoadPorts(seq uint64, ports []model.Port) error {
	if err := s.accept(CategoryPorts, seq); err != nil {
		return err
	}
	s.reg.Ports.UpsertAll(keep(ports, s.log, "port"))
	s.rebuild()
	s.emit(Event{Kind: EventDataLoaded, Category: CategoryPorts, Seq: seq, Count: s.reg.Ports.Len()})
	return nil
}

// LoadOrders replaces the pending order list. Selected ids that disappeared
// are pruned.
func (s *Session) LoadOrders(seq uint64, orders []model.PendingOrder) error {
	if err := s.accept(CategoryOrders, seq); err != nil {
		return err
	}
	s.reg.Orders.UpsertAll(keep(orders, s.log, "order"))
	if n := s.sel.Prune(s.reg.Orders.List()); n > 0 {
		s.log.Infof("pruned %d stale orders from selection", n)
	}
	s.emit(Event{Kind: EventDataLoaded, Category: CategoryOrders, Seq: seq, Count: s.reg.Orders.Len()})
	s.summarize()
	return nil
}

// LoadClients replaces the client registry.
func (s *Session) LoadClients(seq uint64, clients []model.Client) error {
	if err := s.accept(CategoryClients, seq); err != nil {
		return err
	}
	s.reg.Clients.UpsertAll(clients)
	s.emit(Event{Kind: EventDataLoaded, Category: CategoryClients, Seq: seq, Count: s.reg.Clients.Len()})
	return nil
}

// LoadWarehouses replaces the warehouse registry.
func (s *Session) LoadWarehouses(seq uint64, warehouses []model.Warehouse) error {
	if err := s.accept(CategoryWarehouses, seq); err != nil {
		return err
	}
	s.reg.Warehouses.UpsertAll(warehouses)
	s.emit(Event{Kind: EventDataLoaded, Category: CategoryWarehouses, Seq: seq, Count: s.reg.Warehouses.Len()})
	return nil
}

// Toggle adds or removes an order from the selection and reports whether it
// is selected afterwards. Stale ids may be removed but not added.
func (s *Session) Toggle(orderID string) (bool, error) {
	if s.pending != nil {
		return s.sel.Contains(orderID), ErrSubmissionInFlight
	}
	if !s.sel.Contains(orderID) && !s.reg.Orders.Has(orderID) {
		return false, ErrUnknownOrder
	}
	selected := s.sel.Toggle(orderID)
	s.changed()
	return selected, nil
}

// ClearSelection deselects every order.
func (s *Session) ClearSelection() error {
	if s.pending != nil {
		return ErrSubmissionInFlight
	}
	s.sel.Clear()
	s.changed()
	return nil
}

// ChooseVehicle sets the vehicle the delivery will use.
func (s *Session) ChooseVehicle(name string) error {
	if s.pending != nil {
		return ErrSubmissionInFlight
	}
	if _, err := s.lookupVehicle(name); err != nil {
		return err
	}
	s.vehicle = name
	s.changed()
	return nil
}

// ClearVehicle unsets the chosen vehicle.
func (s *Session) ClearVehicle() error {
	if s.pending != nil {
		return ErrSubmissionInFlight
	}
	s.vehicle = ""
	s.changed()
	return nil
}

// Validate computes the validation outcome from the current registries.
func (s *Session) Validate() capacity.Result {
	demand := s.sel.AggregateDemand(s.reg.Orders.List())
	var v *model.Vehicle
	if s.vehicle != "" {
		if veh, ok := s.reg.Vehicles.Get(s.vehicle); ok {
			v = &veh
		}
	}
	return capacity.Validate(demand, v)
}

// Snapshot returns the current state of the session. It is recomputed on
// every call.
func (s *Session) Snapshot() Snapshot {
	res := s.Validate()
	snap := Snapshot{
		SessionID:  s.id,
		State:      s.state(res),
		OrderIDs:   s.selectedOrders(),
		Vehicle:    s.vehicle,
		Validation: res,
	}
	if s.last != nil {
		last := *s.last
		last.OrderIDs = slices.Clone(last.OrderIDs)
		snap.Last = &last
	}
	return snap
}

// BeginSubmit moves the session to submitting and returns the request to
// hand to the submission collaborator. It fails unless validation is OK.
func (s *Session) BeginSubmit() (Request, error) {
	if s.pending != nil {
		return Request{}, ErrSubmissionInFlight
	}
	res := s.Validate()
	if !res.OK() {
		return Request{}, &NotSubmittableError{Result: res}
	}
	req := Request{
		Seq:      s.seq.Next(CategorySubmit),
		OrderIDs: s.selectedOrders(),
		Vehicle:  s.vehicle,
		started:  s.now(),
		result:   res,
	}
	s.pending = &req
	s.emit(Event{Kind: EventSubmissionStarted, Seq: req.Seq, Validation: res,
		OrderIDs: slices.Clone(req.OrderIDs), Vehicle: req.Vehicle})
	out := req
	out.OrderIDs = slices.Clone(req.OrderIDs)
	return out, nil
}

// Resolve records a successful submission: the selection is cleared and the
// vehicle choice invalidated.
func (s *Session) Resolve(seq uint64, result model.DeliveryResult) error {
	req, err := s.complete(seq)
	if err != nil {
		return err
	}
	s.sel.Clear()
	s.vehicle = ""
	s.last = &Submission{Seq: seq, OrderIDs: req.OrderIDs, Vehicle: req.Vehicle, Resolved: true, Result: &result, At: s.now()}
	s.log.Infof("delivery %s created with %s for %d orders", result.ShortID(), req.Vehicle, len(req.OrderIDs))
	s.emit(Event{Kind: EventSubmissionResolved, Seq: seq, OrderIDs: req.OrderIDs, Vehicle: req.Vehicle,
		Result: &result, Latency: s.now().Sub(req.started), Validation: req.result})
	if r, ok := s.presenter.(SubmissionRenderer); ok {
		r.RenderSubmission(&result, "")
	}
	s.summarize()
	return nil
}

// Fail records a failed submission. The selection and vehicle are preserved
// so the user can adjust and retry.
func (s *Session) Fail(seq uint64, cause error) error {
	req, err := s.complete(seq)
	if err != nil {
		return err
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	s.last = &Submission{Seq: seq, OrderIDs: req.OrderIDs, Vehicle: req.Vehicle, Error: msg, At: s.now()}
	s.log.Warnf("delivery submission with %s failed: %s", req.Vehicle, msg)
	s.emit(Event{Kind: EventSubmissionFailed, Seq: seq, OrderIDs: req.OrderIDs, Vehicle: req.Vehicle,
		Error: msg, Latency: s.now().Sub(req.started), Validation: req.result})
	if r, ok := s.presenter.(SubmissionRenderer); ok {
		r.RenderSubmission(nil, msg)
	}
	s.summarize()
	return nil
}

// Submit runs a full submission round trip with sub. It is meant for hosts
// that can block the session for the duration of the call.
func (s *Session) Submit(ctx context.Context, sub Submitter) (model.DeliveryResult, error) {
	req, err := s.BeginSubmit()
	if err != nil {
		return model.DeliveryResult{}, err
	}
	res, err := sub.SubmitDelivery(ctx, slices.Clone(req.OrderIDs), req.Vehicle)
	if err != nil {
		_ = s.Fail(req.Seq, err)
		return model.DeliveryResult{}, err
	}
	if err := s.Resolve(req.Seq, res); err != nil {
		return model.DeliveryResult{}, err
	}
	return res, nil
}

func (s *Session) complete(seq uint64) (*Request, error) {
	if s.pending == nil || s.pending.Seq != seq || !s.seq.Accept(CategorySubmit, seq) {
		s.log.Debugw("dropping stale submission response", map[string]any{"seq": seq})
		s.emit(Event{Kind: EventStaleResponse, Category: CategorySubmit, Seq: seq})
		return nil, ErrStaleResponse
	}
	req := s.pending
	s.pending = nil
	return req, nil
}

func (s *Session) lookupVehicle(name string) (model.Vehicle, error) {
	v, ok := s.reg.Vehicles.Get(name)
	if !ok {
		return model.Vehicle{}, ErrUnknownVehicle
	}
	if s.dockedOnly && !v.Available() {
		return model.Vehicle{}, ErrVehicleUnavailable
	}
	return v, nil
}

// selectedOrders returns the selected ids that still match a pending order.
func (s *Session) selectedOrders() []string {
	ids := s.sel.IDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.reg.Orders.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Session) state(res capacity.Result) State {
	switch {
	case s.pending != nil:
		return StateSubmitting
	case res.Demand.Empty() && s.vehicle == "":
		return StateEmpty
	case res.Outcome == capacity.OK || res.Outcome == capacity.OverCapacity:
		return StateValidated
	default:
		return StateSelecting
	}
}

func (s *Session) rebuild() {
	ents := cluster.Vehicles(s.reg.Vehicles.List())
	ents = append(ents, cluster.Ports(s.reg.Ports.List())...)
	s.index.Rebuild(ents)
	s.presenter.RenderClusters(s.index.Clusters())
}

func (s *Session) changed() {
	res := s.summarize()
	s.emit(Event{Kind: EventSelectionChanged, Validation: res, OrderIDs: s.selectedOrders(), Vehicle: s.vehicle})
}

func (s *Session) summarize() capacity.Result {
	res := s.Validate()
	s.presenter.RenderSelectionSummary(res.Demand, res)
	return res
}

func (s *Session) emit(ev Event) {
	ev.SessionID = s.id
	if ev.Kind == EventDataLoaded {
		ev.Clusters = s.index.Len()
		ev.Unlocated = len(s.index.Unlocated())
	}
	if ev.Time.IsZero() {
		ev.Time = s.now()
	}
	s.pub.Publish(ev)
}

type validator interface{ Validate() error }

// keep returns the records passing Validate, logging each one it drops.
func keep[T validator](records []T, log logger.Logger, what string) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			log.Warnf("skipping invalid %s record: %v", what, err)
			continue
		}
		out = append(out, r)
	}
	return out
}
