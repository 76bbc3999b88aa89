package dom

// Arena owns every node of one document. Slots of deleted nodes go on a free
// list and are handed out again, so ids stay small and stable while a node lives.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	nodes []*Node
	free  []NodeID
	live  int
}

// NewArena returns an arena holding a single document node with id 0.
func NewArena() *Arena {
	a := &Arena{}
	doc := a.alloc(newNode(KindDocument))
	doc.Flags |= FlagInDocument
	// The document can become an inline root, which needs somewhere to keep
	// its payload.
	doc.Element = &ElementData{TagName: "#document", Attributes: map[string]string{}}
	return a
}

// Document returns the id of the document node.
func (a *Arena) Document() NodeID { return 0 }

// Len returns the number of live nodes.
func (a *Arena) Len() int { return a.live }

// Cap returns the number of slots ever allocated, live or free.
func (a *Arena) Cap() int { return len(a.nodes) }

// Get returns the node for id, or nil when id is out of range or deleted.
func (a *Arena) Get(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// MustGet is Get for ids the caller knows are live.
func (a *Arena) MustGet(id NodeID) *Node {
	n := a.Get(id)
	if n == nil {
		panic("dom: no live node with that id")
	}
	return n
}

func (a *Arena) alloc(n *Node) *Node {
	if k := len(a.free); k > 0 {
		n.ID = a.free[k-1]
		a.free = a.free[:k-1]
		a.nodes[n.ID] = n
	} else {
		n.ID = NodeID(len(a.nodes))
		a.nodes = append(a.nodes, n)
	}
	a.live++
	return n
}

// CreateElement allocates a detached element.
func (a *Arena) CreateElement(tag string, attrs map[string]string) NodeID {
	n := newNode(KindElement)
	if attrs == nil {
		attrs = make(map[string]string)
	}
	n.Element = &ElementData{TagName: tag, Attributes: attrs}
	return a.alloc(n).ID
}

// CreateText allocates a detached text node.
func (a *Arena) CreateText(text string) NodeID {
	n := newNode(KindText)
	n.Text = text
	return a.alloc(n).ID
}

// CreateComment allocates a detached comment node.
func (a *Arena) CreateComment(text string) NodeID {
	n := newNode(KindComment)
	n.Text = text
	return a.alloc(n).ID
}

// CreateAnonymousBlock allocates a box-tree-only block owned by owner. It is
// never listed among the owner's DOM children.
func (a *Arena) CreateAnonymousBlock(owner NodeID, origin Origin) NodeID {
	n := newNode(KindAnonymousBlock)
	n.Origin = origin
	n.Parent = owner
	n.LayoutParent = owner
	n.Element = &ElementData{Attributes: map[string]string{}}
	return a.alloc(n).ID
}

// delete frees a single slot.
func (a *Arena) delete(id NodeID) {
	if a.Get(id) == nil || id == a.Document() {
		return
	}
	a.nodes[id] = nil
	a.free = append(a.free, id)
	a.live--
}

// RemoveSubtree deletes id and everything it owns: children parented to it,
// its pseudo-element nodes and the anonymous boxes in its layout child list.
// Children that an anonymous block merely groups stay alive, since their
// parent is still the element they came from.
func (a *Arena) RemoveSubtree(id NodeID) {
	n := a.Get(id)
	if n == nil {
		return
	}
	if p := a.Get(n.Parent); p != nil {
		p.Children = removeID(p.Children, id)
	}
	a.removeOwned(id)
}

func (a *Arena) removeOwned(id NodeID) {
	n := a.Get(id)
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if child := a.Get(c); child != nil && child.Parent == id {
			a.removeOwned(c)
		}
	}
	for _, p := range []NodeID{n.Before, n.After} {
		if p != None {
			a.removeOwned(p)
		}
	}
	for _, c := range n.LayoutChildren {
		if child := a.Get(c); child != nil && child.Origin == FromAnonymous && child.Parent == id {
			a.removeOwned(c)
		}
	}
	a.delete(id)
}

// Walk visits id and its DOM descendants in document order. Returning false
// from fn skips the node's children.
func (a *Arena) Walk(id NodeID, fn func(n *Node) bool) {
	n := a.Get(id)
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		a.Walk(c, fn)
	}
}

// Ancestors returns the DOM ancestors of id, nearest first. The walk is bounded
// by the arena size so a corrupted parent chain cannot loop forever.
func (a *Arena) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	n := a.Get(id)
	for steps := 0; n != nil && n.Parent != None && steps < len(a.nodes); steps++ {
		out = append(out, n.Parent)
		n = a.Get(n.Parent)
	}
	return out
}

// Connected reports whether id hangs off the document node.
func (a *Arena) Connected(id NodeID) bool {
	if id == a.Document() {
		return true
	}
	anc := a.Ancestors(id)
	return len(anc) > 0 && anc[len(anc)-1] == a.Document()
}

// ElementByID finds the first element in document order whose id attribute
// matches.
func (a *Arena) ElementByID(value string) NodeID {
	found := None
	a.Walk(a.Document(), func(n *Node) bool {
		if found != None {
			return false
		}
		if v, ok := n.Attr("id"); ok && v == value && n.Kind == KindElement {
			found = n.ID
			return false
		}
		return true
	})
	return found
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	for i, c := range ids {
		if c == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
