package model

import (
	"fmt"
	"strings"
)

// DeliveryResult is returned by the backend once a delivery is created.
type DeliveryResult struct {
	ID            string   `json:"id"`
	Message       string   `json:"message,omitempty"`
	Route         []string `json:"route"`
	DistanceKm    float64  `json:"total_distance_km"`
	DurationHours float64  `json:"estimated_duration_hours"`
}

// ShortID returns the first eight characters of the identifier.
func (d DeliveryResult) ShortID() string { return shortID(d.ID) }

// RouteLabel joins the route stops with arrows.
func (d DeliveryResult) RouteLabel() string { return strings.Join(d.Route, " → ") }

// Summary renders the confirmation shown after a successful submission.
func (d DeliveryResult) Summary() string {
	var b strings.Builder
	if d.Message != "" {
		b.WriteString(d.Message)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Delivery ID: %s\n", d.ShortID())
	fmt.Fprintf(&b, "Route: %s\n", d.RouteLabel())
	fmt.Fprintf(&b, "Distance: %.2f km\n", d.DistanceKm)
	fmt.Fprintf(&b, "Est. Duration: %.2f hours", d.DurationHours)
	return b.String()
}
