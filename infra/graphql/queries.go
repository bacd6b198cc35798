package graphql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/seaplane/core/model"
)

const vehiclesQuery = `query {
  seaplanes {
    name
    fuel
    crates
    status { value }
    location { name latitude longitude }
    model {
      name
      crate_capacity
      fuel_consumption_L_per_km
      fuel_capacity_L
      cost_per_km_USD
      average_speed_kmh
      manufacturer { name }
    }
  }
}`

const pendingOrdersQuery = `query {
  ordersByStatus(status: "pending") {
    id
    crate_quantity
    client { name locker { port { name } } }
    warehouse { name port { name } }
    created_at
  }
}`

const portsQuery = `query {
  ports {
    name
    latitude
    longitude
    island { name }
  }
}`

const clientsQuery = `query {
  clients {
    id
    name
    specialty
    locker { id capacity remaining_capacity }
  }
}`

const warehousesQuery = `query {
  warehouses {
    id
    name
    port { name }
  }
}`

const createDeliveryMutation = `mutation CreateDelivery($orderIds: [String!]!, $seaplaneName: String!) {
  createDelivery(orderIds: $orderIds, seaplaneName: $seaplaneName) {
    success
    message
    delivery {
      id
      route
      total_distance_km
      estimated_duration_hours
    }
  }
}`

const createOrderMutation = `mutation CreateOrder($clientId: Int!, $warehouseId: Int!, $crateQuantity: Int!) {
  createOrder(client_id: $clientId, warehouse_id: $warehouseId, crateQuantity: $crateQuantity) {
    success
    message
    order { id crate_quantity status }
  }
}`

type named struct {
	Name string `json:"name"`
}

type wireVehicle struct {
	Name   string  `json:"name"`
	Fuel   float64 `json:"fuel"`
	Crates int     `json:"crates"`
	Status *struct {
		Value string `json:"value"`
	} `json:"status"`
	Location *struct {
		Name      string   `json:"name"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"location"`
	Model *struct {
		Name            string  `json:"name"`
		CrateCapacity   int     `json:"crate_capacity"`
		FuelConsumption float64 `json:"fuel_consumption_L_per_km"`
		FuelCapacity    float64 `json:"fuel_capacity_L"`
		CostPerKm       float64 `json:"cost_per_km_USD"`
		AverageSpeed    float64 `json:"average_speed_kmh"`
		Manufacturer    *named  `json:"manufacturer"`
	} `json:"model"`
}

func (w wireVehicle) toModel() model.Vehicle {
	v := model.Vehicle{Name: w.Name, Fuel: w.Fuel, Crates: w.Crates}
	if w.Status != nil {
		v.Status = model.ParseStatus(w.Status.Value)
	}
	// A location without coordinates cannot be placed on the map.
	if l := w.Location; l != nil && l.Latitude != nil && l.Longitude != nil {
		v.Location = &model.Point{Name: l.Name, Latitude: *l.Latitude, Longitude: *l.Longitude}
	}
	if m := w.Model; m != nil {
		v.ModelName = m.Name
		v.CrateCapacity = m.CrateCapacity
		v.FuelConsumption = m.FuelConsumption
		v.FuelCapacity = m.FuelCapacity
		v.CostPerKmUSD = m.CostPerKm
		v.AverageSpeedKmh = m.AverageSpeed
		if m.Manufacturer != nil {
			v.Manufacturer = m.Manufacturer.Name
		}
	}
	return v
}

type wireOrder struct {
	ID            string `json:"id"`
	CrateQuantity int    `json:"crate_quantity"`
	Client        *struct {
		Name   string `json:"name"`
		Locker *struct {
			Port *named `json:"port"`
		} `json:"locker"`
	} `json:"client"`
	Warehouse *struct {
		Name string `json:"name"`
		Port *named `json:"port"`
	} `json:"warehouse"`
	CreatedAt string `json:"created_at"`
}

func (w wireOrder) toModel() model.PendingOrder {
	o := model.PendingOrder{ID: w.ID, CrateQuantity: w.CrateQuantity, CreatedAt: parseTime(w.CreatedAt)}
	if c := w.Client; c != nil {
		o.Destination.Client = c.Name
		if c.Locker != nil && c.Locker.Port != nil {
			o.Destination.Port = c.Locker.Port.Name
		}
	}
	if wh := w.Warehouse; wh != nil {
		o.Origin.Name = wh.Name
		if wh.Port != nil {
			o.Origin.Port = wh.Port.Name
		}
	}
	return o
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"}

// parseTime accepts RFC 3339 and the naive ISO timestamps the backend emits.
// Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type wirePort struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Island    *named   `json:"island"`
}

func (w wirePort) toModel() model.Port {
	p := model.Port{Name: w.Name}
	if w.Latitude != nil && w.Longitude != nil {
		p.Latitude, p.Longitude = *w.Latitude, *w.Longitude
	} else {
		p.Unlocated = true
	}
	if w.Island != nil {
		p.Island = w.Island.Name
	}
	return p
}

type wireWarehouse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Port *named `json:"port"`
}

func (w wireWarehouse) toModel() model.Warehouse {
	wh := model.Warehouse{ID: w.ID, Name: w.Name}
	if w.Port != nil {
		wh.Port = w.Port.Name
	}
	return wh
}

func convert[W any, M any](in []W, f func(W) M) []M {
	out := make([]M, len(in))
	for i, w := range in {
		out[i] = f(w)
	}
	return out
}

// FetchVehicles returns every seaplane known to the backend.
func (c *Client) FetchVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var data struct {
		Seaplanes []wireVehicle `json:"seaplanes"`
	}
	if err := c.query(ctx, vehiclesQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch vehicles: %w", err)
	}
	return convert(data.Seaplanes, wireVehicle.toModel), nil
}

// FetchPendingOrders returns the orders waiting for a delivery.
func (c *Client) FetchPendingOrders(ctx context.Context) ([]model.PendingOrder, error) {
	var data struct {
		Orders []wireOrder `json:"ordersByStatus"`
	}
	if err := c.query(ctx, pendingOrdersQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch pending orders: %w", err)
	}
	return convert(data.Orders, wireOrder.toModel), nil
}

// FetchPorts returns every port.
func (c *Client) FetchPorts(ctx context.Context) ([]model.Port, error) {
	var data struct {
		Ports []wirePort `json:"ports"`
	}
	if err := c.query(ctx, portsQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch ports: %w", err)
	}
	return convert(data.Ports, wirePort.toModel), nil
}

// FetchClients returns the clients with their locker capacity.
func (c *Client) FetchClients(ctx context.Context) ([]model.Client, error) {
	var data struct {
		Clients []model.Client `json:"clients"`
	}
	if err := c.query(ctx, clientsQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}
	return data.Clients, nil
}

// FetchWarehouses returns the order origins.
func (c *Client) FetchWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	var data struct {
		Warehouses []wireWarehouse `json:"warehouses"`
	}
	if err := c.query(ctx, warehousesQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch warehouses: %w", err)
	}
	return convert(data.Warehouses, wireWarehouse.toModel), nil
}

// SubmitDelivery creates a delivery carrying orderIDs on vehicle. Backend
// rejections are returned as *RejectedError with the backend message.
func (c *Client) SubmitDelivery(ctx context.Context, orderIDs []string, vehicle string) (model.DeliveryResult, error) {
	var data struct {
		CreateDelivery *struct {
			Success  bool    `json:"success"`
			Message  string  `json:"message"`
			Delivery *struct {
				ID            string   `json:"id"`
				Route         []string `json:"route"`
				DistanceKm    float64  `json:"total_distance_km"`
				DurationHours float64  `json:"estimated_duration_hours"`
			} `json:"delivery"`
		} `json:"createDelivery"`
	}
	vars := map[string]any{"orderIds": orderIDs, "seaplaneName": vehicle}
	if err := c.mutate(ctx, createDeliveryMutation, vars, &data); err != nil {
		return model.DeliveryResult{}, err
	}
	res := data.CreateDelivery
	if res == nil {
		return model.DeliveryResult{}, &ResponseError{Messages: []string{"createDelivery returned no payload"}}
	}
	if !res.Success {
		return model.DeliveryResult{}, &RejectedError{Message: res.Message}
	}
	out := model.DeliveryResult{Message: res.Message}
	if d := res.Delivery; d != nil {
		out.ID = d.ID
		out.Route = d.Route
		out.DistanceKm = d.DistanceKm
		out.DurationHours = d.DurationHours
	}
	return out, nil
}

// CreateOrder places a new order. Backend rejections are returned as
// *RejectedError with the backend message.
func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) (model.OrderResult, error) {
	var data struct {
		CreateOrder *struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			Order   *struct {
				ID            string `json:"id"`
				CrateQuantity int    `json:"crate_quantity"`
				Status        string `json:"status"`
			} `json:"order"`
		} `json:"createOrder"`
	}
	vars := map[string]any{"clientId": req.ClientID, "warehouseId": req.WarehouseID, "crateQuantity": req.CrateQuantity}
	if err := c.mutate(ctx, createOrderMutation, vars, &data); err != nil {
		return model.OrderResult{}, err
	}
	res := data.CreateOrder
	if res == nil {
		return model.OrderResult{}, &ResponseError{Messages: []string{"createOrder returned no payload"}}
	}
	if !res.Success {
		return model.OrderResult{}, &RejectedError{Message: res.Message}
	}
	out := model.OrderResult{Message: res.Message}
	if o := res.Order; o != nil {
		out.ID = o.ID
		out.CrateQuantity = o.CrateQuantity
		out.Status = o.Status
	}
	return out, nil
}
