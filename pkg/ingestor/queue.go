package ingestor

import "sync"

// Queue is an unbounded FIFO of lines. Enqueue never blocks on consumers.
type Queue struct {
	mu    sync.Mutex
	lines []Line
}

// Enqueue appends line.
func (q *Queue) Enqueue(line Line) {
	q.mu.Lock()
	q.lines = append(q.lines, line)
	q.mu.Unlock()
}

// Drain removes and returns every queued line in arrival order.
func (q *Queue) Drain() []Line {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.lines
	q.lines = nil
	return out
}

// Len returns the number of queued lines.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

// Clear drops every queued line.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.lines = nil
	q.mu.Unlock()
}
