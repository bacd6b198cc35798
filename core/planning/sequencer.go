package planning

// Category is a family of requests whose responses supersede each other.
type Category int

const (
	CategoryVehicles Category = iota
	CategoryPorts
	CategoryOrders
	CategoryClients
	CategoryWarehouses
	CategorySubmit
)

func (c Category) String() string {
	switch c {
	case CategoryVehicles:
		return "vehicles"
	case CategoryPorts:
		return "ports"
	case CategoryOrders:
		return "orders"
	case CategoryClients:
		return "clients"
	case CategoryWarehouses:
		return "warehouses"
	case CategorySubmit:
		return "submit"
	default:
		return "unknown"
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Sequencer hands out monotonic request numbers per category so that a
// response to an older request can be recognised and dropped.
type Sequencer struct {
	latest map[Category]uint64
}

// NewSequencer returns a sequencer with no request issued.
func NewSequencer() *Sequencer { return &Sequencer{latest: map[Category]uint64{}} }

// Next issues a new request number for c.
func (s *Sequencer) Next(c Category) uint64 {
	s.latest[c]++
	return s.latest[c]
}

// Current returns the last number issued for c, zero if none.
func (s *Sequencer) Current(c Category) uint64 { return s.latest[c] }

// Accept reports whether seq is the most recent request of c.
func (s *Sequencer) Accept(c Category, seq uint64) bool {
	return seq != 0 && seq == s.latest[c]
}
