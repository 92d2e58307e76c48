// Package kernel holds the block-processing kernels for a single biquad
// section and the registry that picks one for the running CPU.
package kernel

import (
	"sync"

	"github.com/cwbudde/algo-eq/internal/cpu"
)

// Coefficients are biquad transfer coefficients (a0 normalized to 1).
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// ProcessBlockFn filters buf in place with one DF-II transposed section
// starting from state and returns the trailing state.
type ProcessBlockFn func(c Coefficients, state [2]float64, buf []float64) [2]float64

// Entry is one registered kernel.
type Entry struct {
	Name         string
	SIMDLevel    cpu.SIMDLevel
	Priority     int
	ProcessBlock ProcessBlockFn
}

// Registry stores the available kernels ordered by priority.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	sorted  bool
}

// Global is the registry populated by this package's init functions.
var Global = &Registry{}

// Register adds a kernel.
func (r *Registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority kernel runnable with features, or nil.
func (r *Registry) Lookup(features cpu.Features) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}

	for i := range r.entries {
		if cpu.Supports(features, r.entries[i].SIMDLevel) {
			entry := r.entries[i]
			return &entry
		}
	}

	return nil
}

// Names lists registered kernels in priority order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}

	names := make([]string, len(r.entries))
	for i := range r.entries {
		names[i] = r.entries[i].Name
	}
	return names
}

// insertion sort, descending priority; stable for equal priorities
func (r *Registry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}
