package layout

// History keeps undo and redo stacks of tree snapshots.
// Snapshots are shared, not copied, which is safe because trees are never mutated.
// A History is not safe for concurrent use.
type History struct {
	current *Node
	undo    []*Node
	redo    []*Node
	limit   int
}

// NewHistory starts a history at root. A positive limit caps the undo stack depth.
func NewHistory(root *Node, limit int) *History {
	return &History{current: root, limit: limit}
}

// Current returns the current snapshot.
func (h *History) Current() *Node {
	return h.current
}

// Push records next as the current snapshot and clears the redo stack.
// Pushing the current snapshot again is ignored.
func (h *History) Push(next *Node) {
	if next == nil || next == h.current {
		return
	}
	h.undo = append(h.undo, h.current)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = h.redo[:0]
	h.current = next
}

// Undo steps back one snapshot. Returns false when there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	h.redo = append(h.redo, h.current)
	h.current = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return true
}

// Redo re-applies the last undone snapshot. Returns false when there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	h.undo = append(h.undo, h.current)
	h.current = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
