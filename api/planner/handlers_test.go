package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/seaplane/core/fleet"
	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/journal"
)

type stubSubmitter struct {
	res model.DeliveryResult
	err error
}

func (s stubSubmitter) SubmitDelivery(context.Context, []string, string) (model.DeliveryResult, error) {
	return s.res, s.err
}

// fakePlanner serialises access to a session with a mutex.
type fakePlanner struct {
	mu         sync.Mutex
	s          *planning.Session
	sub        stubSubmitter
	orderErr   error
	refreshErr error
	orders     []model.OrderRequest
}

func newFakePlanner(t *testing.T) *fakePlanner {
	t.Helper()
	s := planning.NewSession(planning.NewRegistries(), nil, nil, nil, true)
	nassau := &model.Point{Name: "Nassau", Latitude: 25.06, Longitude: -77.34}
	require.NoError(t, s.LoadVehicles(s.Begin(planning.CategoryVehicles), []model.Vehicle{
		{Name: "Skyhawk", Status: model.StatusDocked, Location: nassau, CrateCapacity: 10, Fuel: 10, FuelCapacity: 100},
		{Name: "Albatross", Status: model.StatusFlying, CrateCapacity: 20},
		{Name: "Pelican", Status: model.StatusMaintenance, Location: nassau, CrateCapacity: 8},
	}))
	require.NoError(t, s.LoadPorts(s.Begin(planning.CategoryPorts), []model.Port{
		{Name: "Freeport", Latitude: 26.53, Longitude: -78.69},
	}))
	require.NoError(t, s.LoadOrders(s.Begin(planning.CategoryOrders), []model.PendingOrder{
		{ID: "order-0001", CrateQuantity: 4},
		{ID: "order-0002", CrateQuantity: 7},
	}))
	return &fakePlanner{s: s, sub: stubSubmitter{res: model.DeliveryResult{ID: "d-1", Route: []string{"Nassau"}}}}
}

func (f *fakePlanner) Do(_ context.Context, fn func(*planning.Session)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.s)
	return nil
}

func (f *fakePlanner) mutate(fn func() error) (planning.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := fn()
	return f.s.Snapshot(), err
}

func (f *fakePlanner) Toggle(_ context.Context, id string) (planning.Snapshot, error) {
	return f.mutate(func() error { _, err := f.s.Toggle(id); return err })
}

func (f *fakePlanner) ClearSelection(context.Context) (planning.Snapshot, error) {
	return f.mutate(f.s.ClearSelection)
}

func (f *fakePlanner) ChooseVehicle(_ context.Context, name string) (planning.Snapshot, error) {
	return f.mutate(func() error { return f.s.ChooseVehicle(name) })
}

func (f *fakePlanner) ClearVehicle(context.Context) (planning.Snapshot, error) {
	return f.mutate(f.s.ClearVehicle)
}

func (f *fakePlanner) Submit(ctx context.Context) (model.DeliveryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s.Submit(ctx, f.sub)
}

func (f *fakePlanner) CreateOrder(_ context.Context, req model.OrderRequest) (model.OrderResult, error) {
	if err := (model.Client{ID: req.ClientID}).CheckQuantity(req.CrateQuantity); err != nil {
		return model.OrderResult{}, err
	}
	f.orders = append(f.orders, req)
	if f.orderErr != nil {
		return model.OrderResult{}, f.orderErr
	}
	return model.OrderResult{ID: "order-0003", CrateQuantity: req.CrateQuantity, Status: "pending"}, nil
}

func (f *fakePlanner) Refresh(context.Context, ...planning.Category) error { return f.refreshErr }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestRouter_ReadRoutes(t *testing.T) {
	h := NewRouter(newFakePlanner(t), nil, "", nil)

	rr := do(t, h, http.MethodGet, "/api/clusters", "")
	require.Equal(t, http.StatusOK, rr.Code)
	clusters := decode[[]map[string]any](t, rr)
	require.Len(t, clusters, 2)
	assert.Equal(t, "maintenance", clusters[0]["indicator"])
	assert.Equal(t, float64(2), clusters[0]["badge"])
	assert.Equal(t, "port", clusters[1]["indicator"])

	rr = do(t, h, http.MethodGet, "/api/clusters/unlocated", "")
	unlocated := decode[[]Unlocated](t, rr)
	require.Len(t, unlocated, 1)
	assert.Equal(t, "Albatross", unlocated[0].Name)
	assert.Equal(t, model.InFlight, unlocated[0].Label)

	rr = do(t, h, http.MethodGet, "/api/vehicles?available=true", "")
	vehicles := decode[[]map[string]any](t, rr)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Skyhawk", vehicles[0]["name"])
	assert.Equal(t, true, vehicles[0]["low_fuel"])

	rr = do(t, h, http.MethodGet, "/api/vehicles/Albatross", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.InFlight, decode[map[string]any](t, rr)["location_label"])

	rr = do(t, h, http.MethodGet, "/api/vehicles/Ghost", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/fleet", "")
	sum := decode[fleet.Summary](t, rr)
	assert.Equal(t, 3, sum.Vehicles)
	assert.Equal(t, 1, sum.Docked)

	rr = do(t, h, http.MethodGet, "/api/orders", "")
	orders := decode[[]map[string]any](t, rr)
	require.Len(t, orders, 2)
	assert.Equal(t, "order-00", orders[0]["short_id"])

	rr = do(t, h, http.MethodGet, "/api/clients", "")
	assert.Equal(t, "[]\n", rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/journal", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_PlanningFlow(t *testing.T) {
	p := newFakePlanner(t)
	h := NewRouter(p, nil, "", nil)

	rr := do(t, h, http.MethodPost, "/api/selection/order-0001", "")
	require.Equal(t, http.StatusOK, rr.Code)
	snap := decode[map[string]any](t, rr)
	assert.Equal(t, "selecting", snap["state"])

	rr = do(t, h, http.MethodPost, "/api/deliveries", "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Please select a seaplane", decode[map[string]any](t, rr)["error"])

	rr = do(t, h, http.MethodPut, "/api/vehicle/Albatross", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = do(t, h, http.MethodPut, "/api/vehicle/Ghost", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, h, http.MethodPost, "/api/selection/order-9999", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/selection/order-0002", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, http.MethodPut, "/api/vehicle/Skyhawk", "")
	require.Equal(t, http.StatusOK, rr.Code)
	snap = decode[map[string]any](t, rr)
	assert.Equal(t, "validated", snap["state"])
	assert.Equal(t, "over-capacity", snap["validation"].(map[string]any)["outcome"])

	rr = do(t, h, http.MethodPost, "/api/deliveries", "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Total crates (11) exceeds seaplane capacity (10)", decode[map[string]any](t, rr)["error"])

	rr = do(t, h, http.MethodPost, "/api/selection/order-0002", "")
	require.Equal(t, http.StatusOK, rr.Code)

	p.sub.err = errors.New("Seaplane is not docked")
	rr = do(t, h, http.MethodPost, "/api/deliveries", "")
	require.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "Seaplane is not docked", decode[map[string]string](t, rr)["error"])

	p.sub.err = nil
	rr = do(t, h, http.MethodPost, "/api/deliveries", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "d-1", decode[model.DeliveryResult](t, rr).ID)

	rr = do(t, h, http.MethodGet, "/api/snapshot", "")
	snap = decode[map[string]any](t, rr)
	assert.Equal(t, "empty", snap["state"])
	assert.Equal(t, true, snap["last"].(map[string]any)["resolved"])

	rr = do(t, h, http.MethodDelete, "/api/selection", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, http.MethodDelete, "/api/vehicle", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_CreateOrder(t *testing.T) {
	p := newFakePlanner(t)
	h := NewRouter(p, nil, "", nil)

	rr := do(t, h, http.MethodPost, "/api/orders", "{")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(t, h, http.MethodPost, "/api/orders", `{"crate_quantity":3}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/orders", `{"client_id":1,"warehouse_id":2,"crate_quantity":3}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "order-0003", decode[model.OrderResult](t, rr).ID)
	assert.Equal(t, model.OrderRequest{ClientID: 1, WarehouseID: 2, CrateQuantity: 3}, p.orders[0])

	rr = do(t, h, http.MethodPost, "/api/orders", `{"client_id":1,"warehouse_id":2,"crate_quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "crate quantity must be positive")
	assert.Len(t, p.orders, 1)

	p.orderErr = model.ErrLockerCapacity
	rr = do(t, h, http.MethodPost, "/api/orders", `{"client_id":1,"warehouse_id":2,"crate_quantity":30}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRouter_Refresh(t *testing.T) {
	p := newFakePlanner(t)
	h := NewRouter(p, nil, "", nil)
	rr := do(t, h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	p.refreshErr = errors.New("fetch orders: connection refused")
	rr = do(t, h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestRouter_Journal(t *testing.T) {
	store, err := journal.NewSQLiteStore(filepath.Join(t.TempDir(), "j.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	now := time.Now()
	require.NoError(t, store.Append(context.Background(), journal.Record{ID: "1", Timestamp: now, Vehicle: "Skyhawk", Resolved: true}))
	require.NoError(t, store.Append(context.Background(), journal.Record{ID: "2", Timestamp: now, Vehicle: "Skyhawk", Error: "boom"}))

	h := NewRouter(newFakePlanner(t), store, "secret", nil)

	rr := do(t, h, http.MethodGet, "/api/journal", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/journal?resolved=false", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[[]journal.Record](t, rec)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/journal?resolved=maybe", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusOf(t *testing.T) {
	ns := &planning.NotSubmittableError{}
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(ns, 500))
	assert.Equal(t, http.StatusConflict, statusOf(planning.ErrSubmissionInFlight, 500))
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(model.Client{ID: 1}.CheckQuantity(0), http.StatusBadGateway))
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(model.ErrLockerCapacity, http.StatusBadGateway))
	assert.Equal(t, http.StatusBadGateway, statusOf(errors.New("x"), http.StatusBadGateway))
}
