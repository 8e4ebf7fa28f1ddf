package core

// AdjacencyTable holds the precomputed 4-neighborhood of every cell of a
// W×H board. Mountains are not excluded; blocking is a legality concern.
type AdjacencyTable struct {
	w, h  int
	start []int // neighbors of idx are flat[start[idx]:start[idx+1]]
	flat  []int
}

// NewAdjacencyTable builds the table for a w×h board. Neighbors are listed
// in N, E, S, W order.
func NewAdjacencyTable(w, h int) *AdjacencyTable {
	size := w * h
	t := &AdjacencyTable{
		w:     w,
		h:     h,
		start: make([]int, size+1),
		flat:  make([]int, 0, 4*size),
	}
	for idx := 0; idx < size; idx++ {
		t.start[idx] = len(t.flat)
		c := FromIndex(idx, w)
		for d := North; d <= West; d++ {
			n := c.Step(d)
			if n.IsValid(w, h) {
				t.flat = append(t.flat, n.ToIndex(w))
			}
		}
	}
	t.start[size] = len(t.flat)
	return t
}

func (t *AdjacencyTable) Width() int  { return t.w }
func (t *AdjacencyTable) Height() int { return t.h }
func (t *AdjacencyTable) Size() int   { return t.w * t.h }

// Neighbors returns the in-bounds neighbors of idx. The returned slice
// aliases the table and must not be modified.
func (t *AdjacencyTable) Neighbors(idx int) []int {
	if idx < 0 || idx >= t.Size() {
		return nil
	}
	return t.flat[t.start[idx]:t.start[idx+1]:t.start[idx+1]]
}

// Contains reports whether to is a neighbor of from.
func (t *AdjacencyTable) Contains(from, to int) bool {
	for _, n := range t.Neighbors(from) {
		if n == to {
			return true
		}
	}
	return false
}

// Fits reports whether the table was built for b's dimensions.
func (t *AdjacencyTable) Fits(b *Board) bool {
	return t.w == b.W && t.h == b.H
}
