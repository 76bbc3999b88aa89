package layout

import (
	"strings"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

// displayOf returns a node's display. A node without a style handle groups
// like inline content, except anonymous blocks and the document, which are
// blocks by construction.
func displayOf(n *dom.Node) style.Display {
	if n.Style != nil {
		return n.Style.Display()
	}
	switch n.Kind {
	case dom.KindAnonymousBlock, dom.KindDocument:
		return style.DisplayBlock
	}
	return style.DisplayInline
}

func positionOf(n *dom.Node) style.Position {
	if n.Style == nil {
		return style.PositionStatic
	}
	return n.Style.Position()
}

func floatOf(n *dom.Node) style.Float {
	if n.Style == nil {
		return style.FloatNone
	}
	return n.Style.Float()
}

// isOutOfFlow reports absolutely positioned, fixed and floated boxes.
func isOutOfFlow(n *dom.Node) bool {
	return !positionOf(n).InFlow() || floatOf(n) != style.FloatNone
}

// isReplaced reports elements whose content is not box-tree content: they are
// always atomic inside an inline formatting context.
func isReplaced(n *dom.Node) bool {
	switch n.TagName() {
	case "img", "svg", "input", "textarea", "button", "select",
		"video", "canvas", "iframe", "object", "embed":
		return true
	}
	return false
}

func isHiddenInput(n *dom.Node) bool {
	if n.TagName() != "input" {
		return false
	}
	t, _ := n.Attr("type")
	return strings.EqualFold(strings.TrimSpace(t), "hidden")
}

// boxChildren lists the content of a node in box order: the ::before node, the
// DOM children, then the ::after node.
func boxChildren(n *dom.Node) []dom.NodeID {
	out := make([]dom.NodeID, 0, len(n.Children)+2)
	if n.Before != dom.None {
		out = append(out, n.Before)
	}
	out = append(out, n.Children...)
	if n.After != dom.None {
		out = append(out, n.After)
	}
	return out
}

// LayoutMembers returns the boxes the numeric solver lays out directly under
// id: the layout children, or for an inline root the atomic boxes embedded in
// its paragraph.
func LayoutMembers(a *dom.Arena, id dom.NodeID) []dom.NodeID {
	n := a.Get(id)
	if n == nil {
		return nil
	}
	if n.HasFlag(dom.FlagInlineRoot) {
		if il := InlineLayoutOf(n); il != nil {
			return il.Embedded
		}
		return nil
	}
	return n.LayoutChildren
}

// InlineLayoutOf returns the inline layout of an inline root, or nil.
func InlineLayoutOf(n *dom.Node) *InlineLayout {
	il, _ := n.Special().(*InlineLayout)
	return il
}

// TableContextOf returns the table context of a table root, or nil.
func TableContextOf(n *dom.Node) *TableContext {
	tc, _ := n.Special().(*TableContext)
	return tc
}
