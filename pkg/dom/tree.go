package dom

// CloneSubtree copies id into a new detached node. With deep set the DOM
// descendants are copied too. Box-tree state (pseudo nodes, layout children,
// payloads) is not copied; the clone starts fully damaged.
func (a *Arena) CloneSubtree(id NodeID, deep bool) NodeID {
	n := a.Get(id)
	if n == nil || n.Origin != FromDOM || n.Kind == KindDocument {
		return None
	}
	clone := newNode(n.Kind)
	clone.Text = n.Text
	if n.Element != nil {
		attrs := make(map[string]string, len(n.Element.Attributes))
		for k, v := range n.Element.Attributes {
			attrs[k] = v
		}
		clone.Element = &ElementData{TagName: n.Element.TagName, Attributes: attrs}
	}
	cid := a.alloc(clone).ID
	if deep {
		for _, c := range n.Children {
			if cc := a.CloneSubtree(c, true); cc != None {
				a.Get(cc).Parent = cid
				clone.Children = append(clone.Children, cc)
			}
		}
	}
	return cid
}

// Contains reports whether other is id or one of its DOM descendants.
func (a *Arena) Contains(id, other NodeID) bool {
	if id == other {
		return a.Get(id) != nil
	}
	for _, anc := range a.Ancestors(other) {
		if anc == id {
			return true
		}
	}
	return false
}

// IndexInParent returns the position of id among its parent's children, or -1
// for a detached node.
func (a *Arena) IndexInParent(id NodeID) int {
	n := a.Get(id)
	if n == nil {
		return -1
	}
	p := a.Get(n.Parent)
	if p == nil {
		return -1
	}
	for i, c := range p.Children {
		if c == id {
			return i
		}
	}
	return -1
}
