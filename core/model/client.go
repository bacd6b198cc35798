package model

import (
	"errors"
	"fmt"
)

// ErrLockerCapacity is returned when an order does not fit the client locker.
var ErrLockerCapacity = errors.New("crate quantity exceeds locker capacity")

// ErrUnknownClient is returned when an order names a client that is not known.
var ErrUnknownClient = errors.New("unknown client")

// ErrInvalidQuantity is returned for an order of zero or fewer crates.
var ErrInvalidQuantity = errors.New("crate quantity must be positive")

// Client receives orders in a locker at a port.
type Client struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty,omitempty"`
	Locker    *Locker `json:"locker,omitempty"`
}

// Locker stores delivered crates for a client.
type Locker struct {
	ID                int `json:"id"`
	Capacity          int `json:"capacity"`
	RemainingCapacity int `json:"remaining_capacity"`
}

func (c Client) Key() int { return c.ID }

// OptionLabel is the text used in the order form.
func (c Client) OptionLabel() string {
	return fmt.Sprintf("%s (%s)", c.Name, orUnknown(c.Specialty))
}

// LockerLabel returns the remaining locker capacity or a no-locker notice.
func (c Client) LockerLabel() string {
	if c.Locker == nil {
		return "No locker assigned"
	}
	return fmt.Sprintf("%d", c.Locker.RemainingCapacity)
}

// CheckQuantity verifies that qty crates fit in the client's locker. Clients
// without a locker are left to the backend to reject.
func (c Client) CheckQuantity(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	if c.Locker != nil && qty > c.Locker.RemainingCapacity {
		return fmt.Errorf("%w: %d > %d", ErrLockerCapacity, qty, c.Locker.RemainingCapacity)
	}
	return nil
}

// Warehouse is an order origin.
type Warehouse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Port string `json:"port,omitempty"`
}

func (w Warehouse) Key() int { return w.ID }

// OptionLabel is the text used in the order form.
func (w Warehouse) OptionLabel() string {
	return fmt.Sprintf("%s (%s)", w.Name, orUnknown(w.Port))
}

// OrderRequest is submitted to create a new order.
type OrderRequest struct {
	ClientID      int `json:"client_id"`
	WarehouseID   int `json:"warehouse_id"`
	CrateQuantity int `json:"crate_quantity"`
}

// OrderResult is the backend answer to an OrderRequest.
type OrderResult struct {
	ID            string `json:"id"`
	CrateQuantity int    `json:"crate_quantity"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}
