package cluster

import (
	"math"
	"slices"

	"github.com/kilianp07/seaplane/core/model"
)

// Index groups located entities into clusters. It is rebuilt from scratch on
// every data load and never patched incrementally.
type Index struct {
	clusters  []Cluster
	byKey     map[Key]int
	entities  map[string]Entity
	unlocated []Entity
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byKey: map[Key]int{}, entities: map[string]Entity{}}
}

// Rebuild replaces the index content with the given entities. Entities without
// a usable position are kept aside and reported by Unlocated.
func (x *Index) Rebuild(entities []Entity) {
	groups := map[Key][]Entity{}
	var order []Key
	var unlocated []Entity
	all := make(map[string]Entity, len(entities))
	ports := map[string]PortDetails{}
	for _, e := range entities {
		all[entityID(e)] = e
		if d, ok := e.(PortDetails); ok && e.Kind() == model.KindPort {
			ports[e.Key()] = d
		}
		p := e.Position()
		if p == nil || math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
			unlocated = append(unlocated, e)
			continue
		}
		k := KeyOf(*p)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	slices.SortFunc(order, compareKeys)
	clusters := make([]Cluster, 0, len(order))
	byKey := make(map[Key]int, len(order))
	for _, k := range order {
		members := groups[k]
		loc := *members[0].Position()
		ms := make([]Member, 0, len(members))
		for _, e := range members {
			ms = append(ms, Member{Name: e.Key(), Kind: e.Kind(), Status: e.State()})
		}
		byKey[k] = len(clusters)
		clusters = append(clusters, Cluster{
			Key:       k,
			Location:  loc,
			Members:   ms,
			Indicator: dominant(ms),
			Badge:     badge(len(ms)),
			Popup:     buildPopup(loc, ms, ports),
		})
	}
	x.clusters = clusters
	x.byKey = byKey
	x.entities = all
	x.unlocated = unlocated
}

// Clusters returns the clusters ordered by latitude then longitude.
func (x *Index) Clusters() []Cluster { return slices.Clone(x.clusters) }

// At returns the cluster at k.
func (x *Index) At(k Key) (Cluster, bool) {
	i, ok := x.byKey[k]
	if !ok {
		return Cluster{}, false
	}
	return x.clusters[i], true
}

// Unlocated returns the entities that have no position, e.g. seaplanes in flight.
func (x *Index) Unlocated() []Entity { return slices.Clone(x.unlocated) }

// Lookup resolves an entity picked from a popup row.
func (x *Index) Lookup(kind model.Kind, name string) (Entity, bool) {
	e, ok := x.entities[kind.String()+"/"+name]
	return e, ok
}

// Len returns the number of clusters.
func (x *Index) Len() int { return len(x.clusters) }

func entityID(e Entity) string { return e.Kind().String() + "/" + e.Key() }

func compareKeys(a, b Key) int {
	switch {
	case a.Lat < b.Lat:
		return -1
	case a.Lat > b.Lat:
		return 1
	case a.Lon < b.Lon:
		return -1
	case a.Lon > b.Lon:
		return 1
	}
	return 0
}
