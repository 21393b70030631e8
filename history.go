package gridcalc

// History keeps undo and redo stacks of grid snapshots. The live grid state
// is never stored on either stack.
//
// History never records on its own: Undo and Redo restore through
// Grid.Restore, so the only recording path is an explicit Record call made
// by the mutating code.
type History struct {
	undo  []Snapshot
	redo  []Snapshot
	limit int // max undo depth, 0 = unbounded
}

// NewHistory creates a History. A limit of 0 keeps every snapshot.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 0)}
}

// Record pushes the current grid state onto the undo stack and clears the
// redo stack. Call it immediately before mutating g.
func (h *History) Record(g *Grid) {
	h.push(&h.undo, g.Snapshot())
	h.redo = nil
}

// Undo restores the most recent snapshot. It returns false, leaving g
// unchanged, when there is nothing to undo.
func (h *History) Undo(g *Grid) bool {
	return h.step(g, &h.undo, &h.redo)
}

// Redo re-applies the most recently undone state.
func (h *History) Redo(g *Grid) bool {
	return h.step(g, &h.redo, &h.undo)
}

func (h *History) step(g *Grid, from, to *[]Snapshot) bool {
	if len(*from) == 0 {
		return false
	}
	last := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	h.push(to, g.Snapshot())
	g.Restore(last)
	return true
}

func (h *History) push(stack *[]Snapshot, s Snapshot) {
	if h.limit > 0 && len(*stack) >= h.limit {
		// Evict oldest
		*stack = append((*stack)[:0], (*stack)[1:]...)
	}
	*stack = append(*stack, s)
}

// CanUndo returns true if there are states to undo.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo returns true if there are states to redo.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
