package cluster

import (
	"fmt"

	"github.com/kilianp07/seaplane/core/model"
)

// Entity is a map entity that may carry a position.
type Entity interface {
	Key() string
	Kind() model.Kind
	State() model.Status
	Position() *model.Point
}

// Key identifies a cluster by exact coordinates. Two points belong to the same
// cluster only when both floats compare equal; no tolerance is applied.
type Key struct {
	Lat float64
	Lon float64
}

// KeyOf returns the cluster key of p.
func KeyOf(p model.Point) Key { return Key{Lat: p.Latitude, Lon: p.Longitude} }

// String renders the key with full float precision.
func (k Key) String() string { return fmt.Sprintf("%v,%v", k.Lat, k.Lon) }

func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Indicator is the dominant visual state of a cluster marker.
type Indicator int

const (
	IndicatorDefault Indicator = iota
	IndicatorInTransit
	IndicatorMaintenance
	IndicatorPort
)

func (i Indicator) String() string {
	switch i {
	case IndicatorInTransit:
		return "in_transit"
	case IndicatorMaintenance:
		return "maintenance"
	case IndicatorPort:
		return "port"
	default:
		return "default"
	}
}

func (i Indicator) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// Icon returns the glyph drawn in the marker.
func (i Indicator) Icon() string {
	switch i {
	case IndicatorInTransit:
		return "🛫"
	case IndicatorMaintenance:
		return "🔧"
	case IndicatorPort:
		return "⚓"
	default:
		return "✈️"
	}
}

// Color returns the marker background colour.
func (i Indicator) Color() string {
	switch i {
	case IndicatorInTransit:
		return "#17a2b8"
	case IndicatorMaintenance:
		return "#ffc107"
	case IndicatorPort:
		return "#28a745"
	default:
		return "#1e3a5f"
	}
}

// statusIndicator maps a single member status onto an indicator.
func statusIndicator(s model.Status) Indicator {
	switch s {
	case model.StatusMaintenance:
		return IndicatorMaintenance
	case model.StatusFlying:
		return IndicatorInTransit
	default:
		return IndicatorDefault
	}
}

// Member is one entity of a cluster.
type Member struct {
	Name   string       `json:"name"`
	Kind   model.Kind   `json:"kind"`
	Status model.Status `json:"status"`
}

// Cluster groups the entities located at the same exact point.
type Cluster struct {
	Key       Key         `json:"key"`
	Location  model.Point `json:"location"`
	Members   []Member    `json:"members"`
	Indicator Indicator   `json:"indicator"`
	// Badge is the member count, zero when the cluster holds one entity.
	Badge int   `json:"badge,omitempty"`
	Popup Popup `json:"popup"`
}

// Size returns the number of members.
func (c Cluster) Size() int { return len(c.Members) }

// dominant derives the indicator: maintenance beats flying which beats the
// default. A cluster made only of ports gets the port indicator.
func dominant(members []Member) Indicator {
	var maint, flying bool
	ports := 0
	for _, m := range members {
		if m.Kind == model.KindPort {
			ports++
			continue
		}
		switch m.Status {
		case model.StatusMaintenance:
			maint = true
		case model.StatusFlying:
			flying = true
		}
	}
	switch {
	case maint:
		return IndicatorMaintenance
	case flying:
		return IndicatorInTransit
	case ports == len(members):
		return IndicatorPort
	default:
		return IndicatorDefault
	}
}

func badge(n int) int {
	if n > 1 {
		return n
	}
	return 0
}
