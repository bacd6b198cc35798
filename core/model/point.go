package model

import "fmt"

// Unknown is the placeholder rendered for absent optional fields.
const Unknown = "Unknown"

// InFlight is the location label of a vehicle without a position.
const InFlight = "In flight"

// Point is a named coordinate shared by vehicles and ports.
type Point struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges.
func (p Point) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", p.Longitude)
	}
	return nil
}

// Label returns the point name or Unknown.
func (p Point) Label() string { return orUnknown(p.Name) }

// Kind distinguishes the entities placed on the map.
type Kind int

const (
	KindVehicle Kind = iota
	KindPort
)

func (k Kind) String() string {
	if k == KindPort {
		return "port"
	}
	return "vehicle"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
