package mqtt

import (
	"context"
	"time"
)

// DeliveryEvent is broadcast to the fleet once the backend created a delivery.
type DeliveryEvent struct {
	EventID       string    `json:"event_id"`
	SessionID     string    `json:"session_id"`
	DeliveryID    string    `json:"delivery_id"`
	Vehicle       string    `json:"vehicle"`
	OrderIDs      []string  `json:"order_ids"`
	Route         []string  `json:"route,omitempty"`
	DistanceKm    float64   `json:"total_distance_km"`
	DurationHours float64   `json:"estimated_duration_hours"`
	Message       string    `json:"message,omitempty"`
	Time          time.Time `json:"time"`
}

// Publisher sends planner notifications to the MQTT broker.
type Publisher interface {
	// PublishDelivery announces a created delivery. It retries transient
	// failures until ctx is done.
	PublishDelivery(ctx context.Context, ev DeliveryEvent) error

	// Disconnect closes the connection to the broker.
	Disconnect()
}
