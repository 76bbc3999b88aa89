package dom

import "errors"

var (
	ErrNoNode         = errors.New("dom: node does not exist")
	ErrNotChild       = errors.New("dom: reference node is not a child of this parent")
	ErrHierarchy      = errors.New("dom: insertion would create a cycle")
	ErrNotInsertable  = errors.New("dom: node kind cannot be inserted")
	ErrNotTextualNode = errors.New("dom: node does not hold text")
)

// The mutators below are the only sanctioned way to change the tree after box
// construction has run. Each one leaves box damage on the changed node and
// descendant damage on its ancestors.

// AppendChild moves child to the end of parent's children.
func (a *Arena) AppendChild(parent, child NodeID) error {
	return a.InsertBefore(parent, child, None)
}

// InsertBefore moves child in front of ref among parent's children. A None ref
// appends.
func (a *Arena) InsertBefore(parent, child, ref NodeID) error {
	p, c := a.Get(parent), a.Get(child)
	if p == nil || c == nil {
		return ErrNoNode
	}
	if c.Origin != FromDOM || c.Kind == KindDocument {
		return ErrNotInsertable
	}
	if child == parent {
		return ErrHierarchy
	}
	for _, anc := range a.Ancestors(parent) {
		if anc == child {
			return ErrHierarchy
		}
	}
	idx := len(p.Children)
	if ref != None {
		idx = -1
		for i, id := range p.Children {
			if id == ref {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotChild
		}
	}

	if c.Parent != None {
		if old := a.Get(c.Parent); old != nil {
			if old == p {
				for i, id := range p.Children {
					if id == child && i < idx {
						idx--
						break
					}
				}
			}
			old.Children = removeID(old.Children, child)
			a.MarkDirty(old.ID)
		}
	}

	p.Children = append(p.Children, None)
	copy(p.Children[idx+1:], p.Children[idx:])
	p.Children[idx] = child
	c.Parent = parent
	c.Damage |= DamageAll
	a.MarkDirty(parent)
	return nil
}

// RemoveChild detaches child from parent. The node stays in the arena so it can
// be inserted again; use RemoveSubtree to free it.
func (a *Arena) RemoveChild(parent, child NodeID) error {
	p, c := a.Get(parent), a.Get(child)
	if p == nil || c == nil {
		return ErrNoNode
	}
	if c.Parent != parent {
		return ErrNotChild
	}
	p.Children = removeID(p.Children, child)
	c.Parent = None
	c.LayoutParent = None
	a.clearInDocument(child)
	a.MarkDirty(parent)
	return nil
}

// SetText replaces the data of a text or comment node.
func (a *Arena) SetText(id NodeID, text string) error {
	n := a.Get(id)
	if n == nil {
		return ErrNoNode
	}
	if n.Kind != KindText && n.Kind != KindComment {
		return ErrNotTextualNode
	}
	if n.Text == text {
		return nil
	}
	n.Text = text
	a.MarkDirty(id)
	return nil
}

// SetAttribute sets an attribute. Attributes such as colspan, type and the
// replaced-element size hints feed box construction directly, so every change
// counts as structural.
func (a *Arena) SetAttribute(id NodeID, name, value string) error {
	n := a.Get(id)
	if n == nil || n.Kind != KindElement {
		return ErrNoNode
	}
	if old, ok := n.Element.Attributes[name]; ok && old == value {
		return nil
	}
	n.Element.Attributes[name] = value
	a.MarkDirty(id)
	return nil
}

// RemoveAttribute deletes an attribute.
func (a *Arena) RemoveAttribute(id NodeID, name string) error {
	n := a.Get(id)
	if n == nil || n.Kind != KindElement {
		return ErrNoNode
	}
	if _, ok := n.Element.Attributes[name]; !ok {
		return nil
	}
	delete(n.Element.Attributes, name)
	a.MarkDirty(id)
	return nil
}

func (a *Arena) clearInDocument(id NodeID) {
	a.Walk(id, func(n *Node) bool {
		n.Flags &^= FlagInDocument
		return true
	})
}
