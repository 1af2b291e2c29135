package ingestor

// DedupWindow is how many recent lines Deduper remembers.
const DedupWindow = 3

// Deduper drops a line that equals one of the last DedupWindow accepted
// lines. It is not safe for concurrent use.
type Deduper struct {
	recent [DedupWindow]string
	next   int
	filled int
}

// Seen reports whether raw is a recent duplicate. New lines are remembered.
func (d *Deduper) Seen(raw string) bool {
	for i := 0; i < d.filled; i++ {
		if d.recent[i] == raw {
			return true
		}
	}
	d.recent[d.next] = raw
	d.next = (d.next + 1) % DedupWindow
	if d.filled < DedupWindow {
		d.filled++
	}
	return false
}
