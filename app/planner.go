package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/logger"
)

// ErrPlannerStopped is returned by Do once Run has exited.
var ErrPlannerStopped = errors.New("planner stopped")

// Backend is the network collaborator of the planner. infra/graphql.Client
// implements it.
type Backend interface {
	planning.Submitter
	FetchVehicles(ctx context.Context) ([]model.Vehicle, error)
	FetchPendingOrders(ctx context.Context) ([]model.PendingOrder, error)
	FetchPorts(ctx context.Context) ([]model.Port, error)
	FetchClients(ctx context.Context) ([]model.Client, error)
	FetchWarehouses(ctx context.Context) ([]model.Warehouse, error)
	CreateOrder(ctx context.Context, req model.OrderRequest) (model.OrderResult, error)
}

// AllCategories lists every fetchable data category.
var AllCategories = []planning.Category{
	planning.CategoryVehicles,
	planning.CategoryPorts,
	planning.CategoryOrders,
	planning.CategoryClients,
	planning.CategoryWarehouses,
}

type op struct {
	fn   func(*planning.Session)
	done chan struct{}
}

// Planner hosts a planning session. Every access to the session goes through
// Do and runs on the Run goroutine, one handler at a time.
type Planner struct {
	session            *planning.Session
	backend            Backend
	log                logger.Logger
	refreshAfterSubmit bool

	ops     chan op
	stopped chan struct{}
	once    sync.Once
}

// NewPlanner creates a planner around session.
func NewPlanner(session *planning.Session, backend Backend, log logger.Logger, refreshAfterSubmit bool) *Planner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Planner{
		session:            session,
		backend:            backend,
		log:                log,
		refreshAfterSubmit: refreshAfterSubmit,
		ops:                make(chan op),
		stopped:            make(chan struct{}),
	}
}

// Run processes queued handlers until ctx is canceled.
func (p *Planner) Run(ctx context.Context) {
	defer p.once.Do(func() { close(p.stopped) })
	for {
		select {
		case <-ctx.Done():
			return
		case o := <-p.ops:
			o.fn(p.session)
			close(o.done)
		}
	}
}

// Do runs fn against the session on the planner goroutine and waits for it
// to return.
func (p *Planner) Do(ctx context.Context, fn func(*planning.Session)) error {
	o := op{fn: fn, done: make(chan struct{})}
	select {
	case p.ops <- o:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPlannerStopped
	}
	select {
	case <-o.done:
		return nil
	case <-p.stopped:
		return ErrPlannerStopped
	}
}

// Snapshot returns the current session snapshot.
func (p *Planner) Snapshot(ctx context.Context) (planning.Snapshot, error) {
	var snap planning.Snapshot
	err := p.Do(ctx, func(s *planning.Session) { snap = s.Snapshot() })
	return snap, err
}

// Refresh fetches the given categories concurrently and applies each
// response if no newer fetch of the same category was issued meanwhile. A
// failed fetch leaves the matching registry untouched.
func (p *Planner) Refresh(ctx context.Context, categories ...planning.Category) error {
	if len(categories) == 0 {
		categories = AllCategories
	}
	seqs := make(map[planning.Category]uint64, len(categories))
	if err := p.Do(ctx, func(s *planning.Session) {
		for _, c := range categories {
			seqs[c] = s.Begin(c)
		}
	}); err != nil {
		return err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, c := range categories {
		wg.Add(1)
		go func(c planning.Category, seq uint64) {
			defer wg.Done()
			if err := p.load(ctx, c, seq); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(c, seqs[c])
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (p *Planner) load(ctx context.Context, c planning.Category, seq uint64) error {
	apply, err := p.fetch(ctx, c)
	if err != nil {
		p.log.Errorf("fetch %s: %v", c, err)
		return fmt.Errorf("fetch %s: %w", c, err)
	}
	var aerr error
	if err := p.Do(ctx, func(s *planning.Session) { aerr = apply(s, seq) }); err != nil {
		return err
	}
	if errors.Is(aerr, planning.ErrStaleResponse) {
		return nil
	}
	return aerr
}

// fetch performs the network call for c and returns the function applying
// its result to the session.
func (p *Planner) fetch(ctx context.Context, c planning.Category) (func(*planning.Session, uint64) error, error) {
	switch c {
	case planning.CategoryVehicles:
		v, err := p.backend.FetchVehicles(ctx)
		return func(s *planning.Session, seq uint64) error { return s.LoadVehicles(seq, v) }, err
	case planning.CategoryPorts:
		v, err := p.backend.FetchPorts(ctx)
		return func(s *planning.Session, seq uint64) error { return s.LoadPorts(seq, v) }, err
	case planning.CategoryOrders:
		v, err := p.backend.FetchPendingOrders(ctx)
		return func(s *planning.Session, seq uint64) error { return s.LoadOrders(seq, v) }, err
	case planning.CategoryClients:
		v, err := p.backend.FetchClients(ctx)
		return func(s *planning.Session, seq uint64) error { return s.LoadClients(seq, v) }, err
	case planning.CategoryWarehouses:
		v, err := p.backend.FetchWarehouses(ctx)
		return func(s *planning.Session, seq uint64) error { return s.LoadWarehouses(seq, v) }, err
	default:
		return nil, fmt.Errorf("unsupported category %s", c)
	}
}

// RefreshEvery refreshes every category at the given interval until ctx is
// canceled. A non-positive interval disables the loop.
func (p *Planner) RefreshEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
				p.log.Warnf("periodic refresh: %v", err)
			}
		}
	}
}

// Toggle flips the selection of orderID.
func (p *Planner) Toggle(ctx context.Context, orderID string) (planning.Snapshot, error) {
	return p.mutate(ctx, func(s *planning.Session) error {
		_, err := s.Toggle(orderID)
		return err
	})
}

// ClearSelection deselects every order.
func (p *Planner) ClearSelection(ctx context.Context) (planning.Snapshot, error) {
	return p.mutate(ctx, (*planning.Session).ClearSelection)
}

// ChooseVehicle sets the delivery vehicle.
func (p *Planner) ChooseVehicle(ctx context.Context, name string) (planning.Snapshot, error) {
	return p.mutate(ctx, func(s *planning.Session) error { return s.ChooseVehicle(name) })
}

// ClearVehicle unsets the delivery vehicle.
func (p *Planner) ClearVehicle(ctx context.Context) (planning.Snapshot, error) {
	return p.mutate(ctx, (*planning.Session).ClearVehicle)
}

func (p *Planner) mutate(ctx context.Context, fn func(*planning.Session) error) (planning.Snapshot, error) {
	var (
		snap planning.Snapshot
		ferr error
	)
	if err := p.Do(ctx, func(s *planning.Session) {
		ferr = fn(s)
		snap = s.Snapshot()
	}); err != nil {
		return planning.Snapshot{}, err
	}
	return snap, ferr
}

// Submit creates a delivery from the current selection. The session stays in
// the submitting state while the backend call runs, so other handlers keep
// being served. Mutations are never retried.
func (p *Planner) Submit(ctx context.Context) (model.DeliveryResult, error) {
	var (
		req  planning.Request
		berr error
	)
	if err := p.Do(ctx, func(s *planning.Session) { req, berr = s.BeginSubmit() }); err != nil {
		return model.DeliveryResult{}, err
	}
	if berr != nil {
		return model.DeliveryResult{}, berr
	}

	// The outcome must reach the session even if the caller gave up.
	done := context.WithoutCancel(ctx)
	res, serr := p.backend.SubmitDelivery(ctx, slices.Clone(req.OrderIDs), req.Vehicle)
	var cerr error
	if err := p.Do(done, func(s *planning.Session) {
		if serr != nil {
			cerr = s.Fail(req.Seq, serr)
			return
		}
		cerr = s.Resolve(req.Seq, res)
	}); err != nil {
		return model.DeliveryResult{}, err
	}
	if serr != nil {
		return model.DeliveryResult{}, serr
	}
	if cerr != nil {
		return model.DeliveryResult{}, cerr
	}
	if p.refreshAfterSubmit {
		if err := p.Refresh(done, planning.CategoryOrders, planning.CategoryVehicles); err != nil {
			p.log.Warnf("refresh after delivery %s: %v", res.ShortID(), err)
		}
	}
	return res, nil
}

// CreateOrder places a new order after checking the client's locker has
// room for it, then reloads the pending orders.
func (p *Planner) CreateOrder(ctx context.Context, req model.OrderRequest) (model.OrderResult, error) {
	var verr error
	if err := p.Do(ctx, func(s *planning.Session) {
		c, ok := s.Registries().Clients.Get(req.ClientID)
		if !ok {
			verr = fmt.Errorf("%w: %d", model.ErrUnknownClient, req.ClientID)
			return
		}
		verr = c.CheckQuantity(req.CrateQuantity)
	}); err != nil {
		return model.OrderResult{}, err
	}
	if verr != nil {
		return model.OrderResult{}, verr
	}
	res, err := p.backend.CreateOrder(ctx, req)
	if err != nil {
		return model.OrderResult{}, err
	}
	if err := p.Refresh(ctx, planning.CategoryOrders, planning.CategoryClients); err != nil {
		p.log.Warnf("refresh after order %s: %v", res.ID, err)
	}
	return res, nil
}
