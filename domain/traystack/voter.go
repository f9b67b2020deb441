package traystack

// Voting defaults.
const (
	DefaultStableWindow        = 10
	DefaultStableRequiredRatio = 0.80
	minStableSamples           = 6
)

// StabilityWindow is a fixed-capacity ring buffer of recent raw counts used
// as a majority-vote filter. Not safe for concurrent use.
type StabilityWindow struct {
	buf  []int
	next int
	n    int
}

// NewStabilityWindow returns a window holding the last capacity values.
// Capacity below one is coerced to the default.
func NewStabilityWindow(capacity int) *StabilityWindow {
	if capacity < 1 {
		capacity = DefaultStableWindow
	}
	return &StabilityWindow{buf: make([]int, capacity)}
}

// Push appends v, evicting the oldest value when full.
func (w *StabilityWindow) Push(v int) {
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
	if w.n < len(w.buf) {
		w.n++
	}
}

// Len returns the number of stored values.
func (w *StabilityWindow) Len() int { return w.n }

// Cap returns the window capacity.
func (w *StabilityWindow) Cap() int { return len(w.buf) }

// Reset empties the window.
func (w *StabilityWindow) Reset() {
	w.next, w.n = 0, 0
	for i := range w.buf {
		w.buf[i] = 0
	}
}

// Vote returns the most frequent stored value and its share of the window.
// Ties go to the value pushed most recently. An empty window votes (0, 0).
func (w *StabilityWindow) Vote() (mode int, ratio float64) {
	if w.n == 0 {
		return 0, 0
	}
	counts := make(map[int]int, w.n)
	for i := 0; i < w.n; i++ {
		counts[w.at(i)]++
	}
	best := -1
	for i := 0; i < w.n; i++ {
		v := w.at(i)
		if c := counts[v]; c > best {
			mode, best = v, c
		}
	}
	return mode, float64(best) / float64(w.n)
}

// at returns the i-th most recent value (0 is the newest).
func (w *StabilityWindow) at(i int) int {
	idx := (w.next - 1 - i + 2*len(w.buf)) % len(w.buf)
	return w.buf[idx]
}

// Stable reports whether the window has enough samples, agrees on a
// positive mode and the mode's share reaches required.
func (w *StabilityWindow) Stable(required float64) bool {
	minLen := minStableSamples
	if len(w.buf) < minLen {
		minLen = len(w.buf)
	}
	if w.n < minLen {
		return false
	}
	mode, ratio := w.Vote()
	return mode > 0 && ratio >= required
}
