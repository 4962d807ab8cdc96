package dsatur

// indexedHeap is a binary min-heap over dense int ids in [0, n), supporting
// O(log n) update-key in addition to push/pop by tracking each id's
// position within the heap slice.
type indexedHeap struct {
	key  []float64
	heap []int
	pos  []int // pos[v] = index of v within heap, or -1 if not present
}

func newIndexedHeap(n int) *indexedHeap {
	h := &indexedHeap{
		key:  make([]float64, n),
		heap: make([]int, 0, n),
		pos:  make([]int, n),
	}
	for v := range h.pos {
		h.pos[v] = -1
	}
	return h
}

func (h *indexedHeap) empty() bool { return len(h.heap) == 0 }

// push inserts v with the given key. v must not already be in the heap.
func (h *indexedHeap) push(v int, key float64) {
	h.key[v] = key
	h.heap = append(h.heap, v)
	idx := len(h.heap) - 1
	h.pos[v] = idx
	h.shiftUp(idx)
}

// updateKey lowers or raises v's key, re-heapifying around it.
func (h *indexedHeap) updateKey(v int, key float64) {
	h.key[v] = key
	idx := h.pos[v]
	h.shiftUp(idx)
	h.shiftDown(idx)
}

// pop removes and returns the vertex with the minimum key.
func (h *indexedHeap) pop() int {
	top := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	h.pos[top] = -1
	if len(h.heap) > 0 {
		h.shiftDown(0)
	}
	return top
}

func (h *indexedHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i]] = i
	h.pos[h.heap[j]] = j
}

func (h *indexedHeap) shiftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if h.key[h.heap[parent]] <= h.key[h.heap[idx]] {
			return
		}
		h.swap(parent, idx)
		idx = parent
	}
}

func (h *indexedHeap) shiftDown(idx int) {
	n := len(h.heap)
	for {
		left, right := 2*idx+1, 2*idx+2
		smallest := idx
		if left < n && h.key[h.heap[left]] < h.key[h.heap[smallest]] {
			smallest = left
		}
		if right < n && h.key[h.heap[right]] < h.key[h.heap[smallest]] {
			smallest = right
		}
		if smallest == idx {
			return
		}
		h.swap(idx, smallest)
		idx = smallest
	}
}
