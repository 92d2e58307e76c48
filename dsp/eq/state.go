package eq

// StateKind tags a band's filter memory.
type StateKind uint8

const (
	// Uninitialized: no block has been processed since the band was added or
	// the chain was reset. The next block seeds the delay line from its first
	// sample.
	Uninitialized StateKind = iota
	// Active: Delay holds the trailing state of the previous block.
	Active
)

func (k StateKind) String() string {
	switch k {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// State is the per-band delay line. Delay is only meaningful when Kind is
// Active.
type State struct {
	Kind  StateKind
	Delay [2]float64
}
