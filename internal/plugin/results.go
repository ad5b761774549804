package plugin

import (
	"container/heap"
	"math"

	"github.com/kolkov/aardwolf/internal/aarddata"
)

// LocalizationItem is one plugin hypothesis: a location, the statement at
// its root, a finite suspiciousness score, and a non-empty rationale.
type LocalizationItem struct {
	Loc       aarddata.Loc
	RootStmt  aarddata.StmtHandle
	Score     float32
	Rationale Rationale

	seq int // insertion order, for stable tie-breaking
}

// NewLocalizationItem validates and builds a LocalizationItem. A
// non-finite score or an empty rationale are programmer errors in a
// plugin, not data to tolerate.
func NewLocalizationItem(loc aarddata.Loc, root aarddata.StmtHandle, score float32, rationale Rationale) (LocalizationItem, error) {
	if math.IsNaN(float64(score)) || math.IsInf(float64(score), 0) {
		return LocalizationItem{}, errInner("localization item score must be finite")
	}
	if len(rationale) == 0 {
		return LocalizationItem{}, errInner("localization item rationale must not be empty")
	}
	return LocalizationItem{Loc: loc, RootStmt: root, Score: score, Rationale: rationale}, nil
}

// Results is a bounded top-N ranked buffer: a min-heap by score, so a
// lower-scoring item is always the cheapest one to evict once the buffer
// is at capacity. Ties break by insertion order (earlier wins), giving
// every plugin's output a deterministic iteration order.
type Results struct {
	cap  int
	heap itemHeap
	next int
}

// NewResults creates an empty buffer that retains at most capacity items.
// capacity <= 0 means unbounded.
func NewResults(capacity int) *Results {
	return &Results{cap: capacity}
}

// Add inserts item, evicting the lowest-scoring entry if the buffer is at
// capacity and item outscores it.
func (r *Results) Add(item LocalizationItem) {
	item.seq = r.next
	r.next++

	if r.cap > 0 && len(r.heap) >= r.cap {
		if item.Score <= r.heap[0].Score {
			return
		}
		heap.Pop(&r.heap)
	}
	heap.Push(&r.heap, item)
}

// Len reports how many items are currently buffered.
func (r *Results) Len() int { return len(r.heap) }

// Iter returns every buffered item ordered by score descending, with
// insertion order breaking ties.
func (r *Results) Iter() []LocalizationItem {
	out := make([]LocalizationItem, len(r.heap))
	copy(out, r.heap)
	sortDescending(out)
	return out
}

// Normalize divides every score by the current maximum, leaving an empty
// buffer or an all-zero buffer untouched.
func (r *Results) Normalize() {
	var max float32
	for _, it := range r.heap {
		if it.Score > max {
			max = it.Score
		}
	}
	if max <= 0 {
		return
	}
	for i := range r.heap {
		r.heap[i].Score /= max
	}
}

func sortDescending(items []LocalizationItem) {
	// insertion sort: result sets are small (top-N), and this keeps the
	// tie-break (lower seq first) trivially stable without a second key
	// comparator.
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && less(items[j], items[j-1]) {
			items[j], items[j-1] = items[j-1], items[j]
			j--
		}
	}
}

// less reports whether a should sort before b in descending-score order:
// higher score first, lower insertion sequence breaking ties.
func less(a, b LocalizationItem) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.seq < b.seq
}

// itemHeap implements container/heap.Interface as a min-heap on Score,
// with insertion order breaking ties (later insertion sorts first, so
// Add's eviction prefers discarding the most recently added of equal
// scores).
type itemHeap []LocalizationItem

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].seq > h[j].seq
}
func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(LocalizationItem))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
