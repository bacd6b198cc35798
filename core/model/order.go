package model

import (
	"fmt"
	"time"
)

// PendingOrder is an order waiting to be assigned to a delivery.
type PendingOrder struct {
	ID            string      `json:"id"`
	CrateQuantity int         `json:"crate_quantity"`
	Origin        Facility    `json:"origin"`
	Destination   Destination `json:"destination"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Facility is the warehouse an order ships from.
type Facility struct {
	Name string `json:"name,omitempty"`
	Port string `json:"port,omitempty"`
}

// Destination is the client receiving an order.
type Destination struct {
	Client string `json:"client,omitempty"`
	Port   string `json:"port,omitempty"`
}

// Validate checks the invariants of an order record.
func (o PendingOrder) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order id is required")
	}
	if o.CrateQuantity <= 0 {
		return fmt.Errorf("order %s: crate quantity must be positive", o.ID)
	}
	return nil
}

func (o PendingOrder) Key() string { return o.ID }

// ShortID returns the first eight characters of the identifier.
func (o PendingOrder) ShortID() string { return shortID(o.ID) }

// RouteLabel describes the order as "warehouse (port) → client (port)".
func (o PendingOrder) RouteLabel() string {
	return fmt.Sprintf("%s (%s) → %s (%s)",
		orUnknown(o.Origin.Name), orUnknown(o.Origin.Port),
		orUnknown(o.Destination.Client), orUnknown(o.Destination.Port))
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
