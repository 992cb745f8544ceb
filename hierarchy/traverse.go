package hierarchy

// GetParent returns id's parent and whether it has one.
func (h *Hierarchy) GetParent(id string) (string, bool) {
	p, ok := h.parent[id]
	return p, ok
}

// GetChildren returns id's children in insertion order.
func (h *Hierarchy) GetChildren(id string) []string {
	return append([]string(nil), h.children[id]...)
}

// GetAncestors returns id's ancestors, closest first (§4.G).
func (h *Hierarchy) GetAncestors(id string) []string {
	var out []string
	cur := id
	seen := map[string]bool{}
	for {
		p, ok := h.parent[cur]
		if !ok || seen[p] {
			return out
		}
		out = append(out, p)
		seen[p] = true
		cur = p
	}
}

// GetDescendants returns id's descendants in breadth-first order (§4.G).
func (h *Hierarchy) GetDescendants(id string) []string {
	var out []string
	queue := append([]string(nil), h.children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		queue = append(queue, h.children[cur]...)
	}
	return out
}

// GetChainToRoot returns the path from id's root down to and including id
// (root-first, inclusive) (§4.G).
func (h *Hierarchy) GetChainToRoot(id string) []string {
	ancestors := h.GetAncestors(id)
	chain := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}
	chain = append(chain, id)
	return chain
}

// GetRoots returns every known id with no parent.
func (h *Hierarchy) GetRoots() []string {
	var out []string
	for id := range h.known {
		if _, ok := h.parent[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// GetLeaves returns every known id with no children.
func (h *Hierarchy) GetLeaves() []string {
	var out []string
	for id := range h.known {
		if len(h.children[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// GetDepth returns the number of ancestors between id and its root (a root
// has depth 0).
func (h *Hierarchy) GetDepth(id string) int {
	return len(h.GetAncestors(id))
}

// IsRoot reports whether id has no parent.
func (h *Hierarchy) IsRoot(id string) bool {
	_, ok := h.parent[id]
	return !ok
}

// IsLeaf reports whether id has no children.
func (h *Hierarchy) IsLeaf(id string) bool {
	return len(h.children[id]) == 0
}

// dfsState marks a node White (unvisited), Gray (in progress), or Black
// (finished) during traversal, the same three-color scheme dfs.TopologicalSort
// uses on core.Graph.
const (
	white = 0
	gray  = 1
	black = 2
)

// TopologicalSort returns a total order of every known id such that a
// parent always precedes its children, or ErrCycleDetected if the
// structure somehow contains a cycle (§4.G; §8 Hierarchy acyclicity —
// AddChild/Reparent already reject cycles at mutation time, so this is the
// second, independent check).
func (h *Hierarchy) TopologicalSort() ([]string, error) {
	state := make(map[string]int, len(h.known))
	order := make([]string, 0, len(h.known))

	ids := make([]string, 0, len(h.known))
	for id := range h.known {
		ids = append(ids, id)
	}
	sortStrings(ids)

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case gray:
			return ErrCycleDetected
		case black:
			return nil
		}
		state[id] = gray
		for _, c := range h.children[id] {
			if err := visit(c); err != nil {
				return err
			}
		}
		state[id] = black
		order = append(order, id)
		return nil
	}

	for _, id := range ids {
		if state[id] == white {
			if err := visit(id); err != nil {
				return nil, err
			}
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// IterDFS returns the pre-order depth-first traversal starting at root
// (root itself, then its subtree).
func (h *Hierarchy) IterDFS(root string) []string {
	var out []string
	var visit func(id string)
	visit = func(id string) {
		out = append(out, id)
		for _, c := range h.children[id] {
			visit(c)
		}
	}
	if h.known[root] {
		visit(root)
	}
	return out
}

// IterTopological is TopologicalSort with the error discarded, for callers
// that have already validated acyclicity.
func (h *Hierarchy) IterTopological() []string {
	order, err := h.TopologicalSort()
	if err != nil {
		return nil
	}
	return order
}

// sortStrings is a deterministic insertion sort, avoiding a sort.Strings
// import for what is typically a small id set (mirrors numeric's small-set
// insertion-sort helpers).
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}
