package hierarchy

// Hierarchy is a forest of gate ids: each id has at most one parent, and a
// parent tracks its children in insertion order. There is no single root —
// any node with no parent is a root (§4.G state machine: Detached/Root are
// the same "no parent" state from the structure's point of view; the
// distinction is only meaningful to the embedding application).
type Hierarchy struct {
	parent   map[string]string
	children map[string][]string
	known    map[string]bool
}

// New returns an empty Hierarchy.
func New() *Hierarchy {
	return &Hierarchy{
		parent:   make(map[string]string),
		children: make(map[string][]string),
		known:    make(map[string]bool),
	}
}

// AddNode registers id as a detached root with no children. Returns
// ErrDuplicateGateId if id is already known.
func (h *Hierarchy) AddNode(id string) error {
	if h.known[id] {
		return ErrDuplicateGateId
	}
	h.known[id] = true
	return nil
}

func (h *Hierarchy) ensure(id string) {
	if !h.known[id] {
		h.known[id] = true
	}
}

// AddChild attaches child under parent, auto-registering either id if
// unknown. If child already has a parent, it is unlinked first. Returns
// false without modifying the hierarchy if the edge would create a cycle
// (parent == child, or parent is already a descendant of child) (§4.G).
func (h *Hierarchy) AddChild(parent, child string) bool {
	if parent == child {
		return false
	}
	if h.known[child] && h.isAncestor(child, parent) {
		return false
	}
	h.ensure(parent)
	h.ensure(child)

	if oldParent, ok := h.parent[child]; ok {
		h.children[oldParent] = removeID(h.children[oldParent], child)
	}
	h.parent[child] = parent
	h.children[parent] = append(h.children[parent], child)
	return true
}

// Reparent moves gate under newParent, equivalent to AddChild(newParent,
// gate). Since children pointers are untouched, this already reparents
// gate's entire subtree (§4.G "reparent_subtree").
func (h *Hierarchy) Reparent(gate, newParent string) bool {
	return h.AddChild(newParent, gate)
}

// ReparentSubtree is an alias for Reparent: moving a subtree's root under a
// new parent moves the whole subtree, since child links are untouched.
func (h *Hierarchy) ReparentSubtree(root, newParent string) bool {
	return h.AddChild(newParent, root)
}

// isAncestor reports whether candidate is an ancestor of node (walking
// node's parent chain). Used to reject cycle-creating edges by descendant
// scan rather than owning back-pointers (§9 Design Notes).
func (h *Hierarchy) isAncestor(candidate, node string) bool {
	cur := node
	seen := map[string]bool{}
	for {
		p, ok := h.parent[cur]
		if !ok || seen[p] {
			return false
		}
		if p == candidate {
			return true
		}
		seen[p] = true
		cur = p
	}
}

// CloneSubtree deep-copies the subtree rooted at root into a new Hierarchy,
// renaming every id via idMapper. Returns ErrGateNotFound if root is
// unknown.
func (h *Hierarchy) CloneSubtree(root string, idMapper func(oldID string) string) (*Hierarchy, error) {
	if !h.known[root] {
		return nil, ErrGateNotFound
	}
	clone := New()
	newRoot := idMapper(root)
	if err := clone.AddNode(newRoot); err != nil {
		return nil, err
	}

	type pending struct{ oldID, newParentID string }
	queue := []pending{}
	for _, c := range h.children[root] {
		queue = append(queue, pending{oldID: c, newParentID: newRoot})
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		newID := idMapper(cur.oldID)
		clone.AddChild(cur.newParentID, newID)
		for _, c := range h.children[cur.oldID] {
			queue = append(queue, pending{oldID: c, newParentID: newID})
		}
	}
	return clone, nil
}

// DeleteSubtree removes root and every descendant, returning the removed
// ids (root first, then BFS order). Returns ErrGateNotFound if root is
// unknown.
func (h *Hierarchy) DeleteSubtree(root string) ([]string, error) {
	if !h.known[root] {
		return nil, ErrGateNotFound
	}
	removed := h.GetDescendants(root)
	removed = append([]string{root}, removed...)
	if p, ok := h.parent[root]; ok {
		h.children[p] = removeID(h.children[p], root)
	}
	for _, id := range removed {
		delete(h.children, id)
		delete(h.parent, id)
		delete(h.known, id)
	}
	return removed, nil
}

// DeleteNodeKeepChildren removes id, reparenting its children to newParent
// (or, if newParent is empty, to id's own parent — making the children
// roots if id had none). Returns the reparented child ids. Returns
// ErrGateNotFound if id is unknown.
func (h *Hierarchy) DeleteNodeKeepChildren(id, newParent string) ([]string, error) {
	if !h.known[id] {
		return nil, ErrGateNotFound
	}
	target := newParent
	if target == "" {
		target = h.parent[id]
	}

	kids := append([]string(nil), h.children[id]...)
	for _, kid := range kids {
		delete(h.parent, kid)
		if target != "" {
			h.AddChild(target, kid)
		}
	}

	if p, ok := h.parent[id]; ok {
		h.children[p] = removeID(h.children[p], id)
	}
	delete(h.children, id)
	delete(h.parent, id)
	delete(h.known, id)
	return kids, nil
}

func removeID(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
