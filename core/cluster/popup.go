package cluster

import (
	"fmt"

	"github.com/kilianp07/seaplane/core/model"
)

// PopupKind selects how a cluster popup is laid out.
type PopupKind int

const (
	// PopupDetail shows a single entity directly.
	PopupDetail PopupKind = iota
	// PopupList lets the user pick one of several entities.
	PopupList
)

func (k PopupKind) String() string {
	if k == PopupList {
		return "list"
	}
	return "detail"
}

func (k PopupKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Popup is the presentation-neutral content of a marker popup.
type Popup struct {
	Kind     PopupKind  `json:"kind"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	Hint     string     `json:"hint,omitempty"`
	Rows     []PopupRow `json:"rows,omitempty"`
}

// PopupRow is one selectable entry of a list popup.
type PopupRow struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Icon   string `json:"icon"`
}

// PortDetails is the extra information rendered in a single-port popup.
type PortDetails interface {
	IslandLabel() string
	CoordinatesLabel() string
}

func buildPopup(loc model.Point, members []Member, ports map[string]PortDetails) Popup {
	if len(members) == 1 {
		m := members[0]
		if m.Kind == model.KindPort {
			p := Popup{Kind: PopupDetail, Title: "⚓ " + m.Name}
			if d, ok := ports[m.Name]; ok {
				p.Subtitle = "📍 " + d.IslandLabel()
				p.Hint = "Coordinates: " + d.CoordinatesLabel()
			}
			return p
		}
		return Popup{
			Kind:     PopupDetail,
			Title:    m.Name,
			Subtitle: "📍 " + loc.Label(),
			Hint:     "Click for details",
		}
	}
	rows := make([]PopupRow, 0, len(members))
	for _, m := range members {
		row := PopupRow{Name: m.Name, Status: m.Status.Label(), Icon: statusIndicator(m.Status).Icon()}
		if m.Kind == model.KindPort {
			row.Status = "Port"
			row.Icon = IndicatorPort.Icon()
		}
		rows = append(rows, row)
	}
	return Popup{
		Kind:  PopupList,
		Title: fmt.Sprintf("📍 %s (%d %s)", loc.Label(), len(members), noun(members)),
		Rows:  rows,
	}
}

func noun(members []Member) string {
	for _, m := range members {
		if m.Kind != model.KindVehicle {
			return "entities"
		}
	}
	return "seaplanes"
}
