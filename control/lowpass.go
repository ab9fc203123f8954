// Package control holds the small signal-processing blocks the servoing core
// composes each tick: currently just the per-joint position low-pass filter.
package control

import "sync"

// LowPassFilter is a first-order IIR filter parameterized by a single
// coefficient c: y_k = (x_k + c*y_{k-1}) / (1+c). Reset re-seeds the filter's
// history so its very next output equals the seed exactly, which is what
// keeps servoing free of position jumps across pause/halt transitions.
type LowPassFilter struct {
	mu           sync.Mutex
	filterCoeff  float64
	prevFiltered float64
}

// NewLowPassFilter builds a filter for the given coefficient. Larger
// coefficients track the input more slowly.
func NewLowPassFilter(filterCoeff float64) *LowPassFilter {
	f := &LowPassFilter{filterCoeff: filterCoeff}
	f.Reset(0)
	return f
}

// Reset seeds the filter history with value so the next call to Filter
// returns value unchanged.
func (f *LowPassFilter) Reset(value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prevFiltered = value
}

// Filter pushes a new raw sample through the filter and returns the smoothed
// value.
func (f *LowPassFilter) Filter(value float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	filtered := (value + f.filterCoeff*f.prevFiltered) / (1 + f.filterCoeff)
	f.prevFiltered = filtered
	return filtered
}

// Bank holds one LowPassFilter per active joint.
type Bank struct {
	filters []*LowPassFilter
}

// NewBank allocates a filter for each of n joints using the shared
// coefficient.
func NewBank(n int, filterCoeff float64) *Bank {
	b := &Bank{filters: make([]*LowPassFilter, n)}
	for i := range b.filters {
		b.filters[i] = NewLowPassFilter(filterCoeff)
	}
	return b
}

// Filter smooths positions in place, one component per joint.
func (b *Bank) Filter(positions []float64) {
	for i, f := range b.filters {
		if i >= len(positions) {
			return
		}
		positions[i] = f.Filter(positions[i])
	}
}

// Reset re-seeds every joint's filter from seed, so the bank's next output
// equals seed exactly. This must run on every cycle that does not commit a
// freshly-computed delta.
func (b *Bank) Reset(seed []float64) {
	for i, f := range b.filters {
		if i >= len(seed) {
			return
		}
		f.Reset(seed[i])
	}
}

// Len reports how many joints the bank was constructed for.
func (b *Bank) Len() int { return len(b.filters) }
