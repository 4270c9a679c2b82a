package audio

import "sync"

// Queue is a sample FIFO fed by a decoder goroutine and drained by the
// speaker. An empty queue plays silence so the track stays in the mix.
type Queue struct {
	mu      sync.Mutex
	samples [][2]float64
	limit   int
}

// NewQueue creates a queue holding at most limit samples. Pushing past the
// limit drops the oldest samples.
func NewQueue(limit int) *Queue {
	return &Queue{limit: limit}
}

// Push appends decoded samples.
func (q *Queue) Push(s [][2]float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.samples = append(q.samples, s...)
	if over := len(q.samples) - q.limit; q.limit > 0 && over > 0 {
		q.samples = append(q.samples[:0], q.samples[over:]...)
	}
}

// Len returns the number of buffered samples.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.samples)
}

// Reset drops every buffered sample.
func (q *Queue) Reset() {
	q.mu.Lock()
	q.samples = q.samples[:0]
	q.mu.Unlock()
}

// Stream implements beep.Streamer.
func (q *Queue) Stream(samples [][2]float64) (int, bool) {
	q.mu.Lock()
	n := copy(samples, q.samples)
	q.samples = append(q.samples[:0], q.samples[n:]...)
	q.mu.Unlock()

	clear(samples[n:])
	return len(samples), true
}

// Err implements beep.Streamer.
func (q *Queue) Err() error { return nil }
