package monitor

// Window is a fixed-capacity FIFO buffer of recent metric values, oldest
// first. Once full, pushing evicts the oldest value.
type Window struct {
	values []float64
	head   int
	size   int
}

// NewWindow creates a window holding at most capacity values.
func NewWindow(capacity int) *Window {
	if capacity < 2 {
		capacity = 2
	}
	return &Window{values: make([]float64, capacity)}
}

// Push appends a value, evicting the oldest when full.
func (w *Window) Push(value float64) {
	idx := (w.head + w.size) % len(w.values)
	w.values[idx] = value
	if w.size < len(w.values) {
		w.size++
	} else {
		w.head = (w.head + 1) % len(w.values)
	}
}

// Len returns the number of buffered values.
func (w *Window) Len() int {
	return w.size
}

// Values returns the buffered values oldest to newest.
func (w *Window) Values() []float64 {
	out := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.values[(w.head+i)%len(w.values)]
	}
	return out
}

// Last returns the newest value; ok is false when the window is empty.
func (w *Window) Last() (value float64, ok bool) {
	if w.size == 0 {
		return 0, false
	}
	return w.values[(w.head+w.size-1)%len(w.values)], true
}

// LastPair returns the two newest values as (previous, current); ok is false
// until the window holds at least two values.
func (w *Window) LastPair() (previous, current float64, ok bool) {
	if w.size < 2 {
		return 0, 0, false
	}
	previous = w.values[(w.head+w.size-2)%len(w.values)]
	current = w.values[(w.head+w.size-1)%len(w.values)]
	return previous, current, true
}
