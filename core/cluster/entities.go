package cluster

import "github.com/kilianp07/seaplane/core/model"

// Vehicles adapts a vehicle list for Rebuild.
func Vehicles(vs []model.Vehicle) []Entity {
	out := make([]Entity, 0, len(vs))
	for _, v := range vs {
		out = append(out, v)
	}
	return out
}

// Ports adapts a port list for Rebuild.
func Ports(ps []model.Port) []Entity {
	out := make([]Entity, 0, len(ps))
	for _, p := range ps {
		out = append(out, p)
	}
	return out
}
