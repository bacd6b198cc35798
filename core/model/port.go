package model

import "fmt"

// Port is a docking point attached to an island.
type Port struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Island    string  `json:"island,omitempty"`
	// Unlocated is set when the backend returned no coordinates.
	Unlocated bool `json:"unlocated,omitempty"`
}

// Validate checks that the port is named and, when located, in range.
func (p Port) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("port name is required")
	}
	if p.Unlocated {
		return nil
	}
	if err := (Point{Latitude: p.Latitude, Longitude: p.Longitude}).Validate(); err != nil {
		return fmt.Errorf("port %s: %w", p.Name, err)
	}
	return nil
}

func (p Port) Key() string { return p.Name }

func (p Port) Kind() Kind { return KindPort }

func (p Port) State() Status { return StatusUnknown }

func (p Port) Position() *Point {
	if p.Unlocated {
		return nil
	}
	return &Point{Name: p.Name, Latitude: p.Latitude, Longitude: p.Longitude}
}

// IslandLabel returns the island name or Unknown.
func (p Port) IslandLabel() string { return orUnknown(p.Island) }

// CoordinatesLabel formats the coordinates with four decimals.
func (p Port) CoordinatesLabel() string {
	if p.Unlocated {
		return Unknown
	}
	return fmt.Sprintf("%.4f, %.4f", p.Latitude, p.Longitude)
}
