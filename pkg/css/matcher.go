package css

import (
	"strconv"
	"strings"

	"boxtree/pkg/dom"
)

// MatchesSelector returns true if the element matches the complex selector,
// ignoring any pseudo-element on it.
func MatchesSelector(a *dom.Arena, id dom.NodeID, selector Selector) bool {
	n := a.Get(id)
	if n == nil || n.Kind != dom.KindElement || len(selector.Parts) == 0 {
		return false
	}
	return matchesCompoundSelector(a, n, selector, len(selector.Parts)-1)
}

// matchesCompoundSelector matches the part at partIndex against n, then walks
// left through the combinators.
func matchesCompoundSelector(a *dom.Arena, n *dom.Node, selector Selector, partIndex int) bool {
	if !matchesSelectorPart(a, n, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	prev := partIndex - 1
	switch selector.Combinators[prev] {
	case DescendantCombinator:
		for _, anc := range a.Ancestors(n.ID) {
			if p := a.Get(anc); p.Kind == dom.KindElement && matchesCompoundSelector(a, p, selector, prev) {
				return true
			}
		}
	case ChildCombinator:
		if p := a.Get(n.Parent); p != nil && p.Kind == dom.KindElement {
			return matchesCompoundSelector(a, p, selector, prev)
		}
	case AdjacentSiblingCombinator:
		if sib := previousElementSibling(a, n); sib != nil {
			return matchesCompoundSelector(a, sib, selector, prev)
		}
	case GeneralSiblingCombinator:
		for sib := previousElementSibling(a, n); sib != nil; sib = previousElementSibling(a, sib) {
			if matchesCompoundSelector(a, sib, selector, prev) {
				return true
			}
		}
	}
	return false
}

// matchesSelectorPart checks if a node matches a single compound selector.
func matchesSelectorPart(a *dom.Arena, n *dom.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && n.TagName() != part.Element {
		return false
	}
	if part.ID != "" {
		if id, ok := n.Attr("id"); !ok || id != part.ID {
			return false
		}
	}
	if len(part.Classes) > 0 {
		classAttr, _ := n.Attr("class")
		have := strings.Fields(classAttr)
		for _, want := range part.Classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttributeSelector(n, attr) {
			return false
		}
	}
	for _, pc := range part.PseudoClasses {
		if !matchesStructuralPseudoClass(a, n, pc) {
			return false
		}
	}
	return true
}

// matchesStructuralPseudoClass handles the tree-structural pseudo-classes.
// Dynamic ones (hover, focus...) never match without user interaction.
func matchesStructuralPseudoClass(a *dom.Arena, n *dom.Node, pc string) bool {
	switch pc {
	case "first-child":
		return previousElementSibling(a, n) == nil
	case "last-child":
		return nextElementSibling(a, n) == nil
	case "only-child":
		return previousElementSibling(a, n) == nil && nextElementSibling(a, n) == nil
	case "root":
		p := a.Get(n.Parent)
		return p != nil && p.Kind == dom.KindDocument
	case "empty":
		for _, c := range n.Children {
			if k := a.Get(c).Kind; k == dom.KindElement || k == dom.KindText && a.Get(c).Text != "" {
				return false
			}
		}
		return true
	}
	if strings.HasPrefix(pc, "nth-child") {
		// Only the integer form is supported.
		arg := strings.TrimSuffix(strings.TrimPrefix(pc, "nth-child("), ")")
		want, err := strconv.Atoi(arg)
		if err != nil {
			return false
		}
		idx := 1
		for sib := previousElementSibling(a, n); sib != nil; sib = previousElementSibling(a, sib) {
			idx++
		}
		return idx == want
	}
	return false
}

func matchesAttributeSelector(n *dom.Node, attr AttributeSelector) bool {
	value, ok := n.Attr(attr.Name)
	if !ok {
		return false
	}
	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return strings.HasPrefix(value, attr.Value)
	case "$=":
		return strings.HasSuffix(value, attr.Value)
	case "*=":
		return strings.Contains(value, attr.Value)
	case "~=":
		return contains(strings.Fields(value), attr.Value)
	case "|=":
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}

func previousElementSibling(a *dom.Arena, n *dom.Node) *dom.Node {
	p := a.Get(n.Parent)
	if p == nil {
		return nil
	}
	var prev *dom.Node
	for _, c := range p.Children {
		if c == n.ID {
			return prev
		}
		if s := a.Get(c); s.Kind == dom.KindElement {
			prev = s
		}
	}
	return nil
}

func nextElementSibling(a *dom.Arena, n *dom.Node) *dom.Node {
	p := a.Get(n.Parent)
	if p == nil {
		return nil
	}
	seen := false
	for _, c := range p.Children {
		if c == n.ID {
			seen = true
			continue
		}
		if s := a.Get(c); seen && s.Kind == dom.KindElement {
			return s
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// QuerySelectorAll returns the elements under root matching a selector list,
// in document order.
func QuerySelectorAll(a *dom.Arena, root dom.NodeID, selectors string) []dom.NodeID {
	var sels []Selector
	for _, raw := range strings.Split(selectors, ",") {
		if sel, ok := parseSelector(raw); ok && sel.PseudoElement == "" {
			sels = append(sels, sel)
		}
	}
	var out []dom.NodeID
	a.Walk(root, func(n *dom.Node) bool {
		if n.ID == root || n.Kind != dom.KindElement {
			return true
		}
		for _, sel := range sels {
			if MatchesSelector(a, n.ID, sel) {
				out = append(out, n.ID)
				break
			}
		}
		return true
	})
	return out
}

// Matches reports whether id matches any selector of a selector list.
// Selectors with a pseudo-element never match an element.
func Matches(a *dom.Arena, id dom.NodeID, selectors string) bool {
	for _, raw := range strings.Split(selectors, ",") {
		if sel, ok := parseSelector(raw); ok && sel.PseudoElement == "" && MatchesSelector(a, id, sel) {
			return true
		}
	}
	return false
}
