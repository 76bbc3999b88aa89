// Package dom holds the document tree in an index-addressed arena together with
// the per-node state that box construction caches between passes: damage,
// construction flags, the layout child list and the formatting-context payload.
package dom

import "boxtree/pkg/style"

// NodeID is a stable arena index. Ids of deleted nodes are reused.
type NodeID int

// None is the null node id.
const None NodeID = -1

// NodeKind is the structural kind of a node.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindElement
	KindAnonymousBlock
	KindText
	KindComment
)

func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindAnonymousBlock:
		return "anonymous"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// Origin records who created a node. Only DOM nodes are visible to scripts;
// pseudo and anonymous nodes belong to the box tree.
type Origin int

const (
	FromDOM Origin = iota
	FromPseudo
	FromAnonymous
)

// Flags are construction flags recomputed on every rebuild of a node.
type Flags uint8

const (
	FlagInlineRoot Flags = 1 << iota
	FlagTableRoot
	FlagInDocument
)

// SpecialKind identifies the formatting-context payload held by an element.
type SpecialKind int

const (
	SpecialNone SpecialKind = iota
	SpecialTableRoot
	SpecialInlineLayout
	SpecialImage
)

// SpecialData is the per-element payload produced by box construction: a shared
// table context, an inline layout or a replaced-element description.
type SpecialData interface {
	SpecialKind() SpecialKind
}

// ReplacedImage is the payload of an img element.
type ReplacedImage struct {
	Src     string
	Width   float64
	Height  float64
	HasSize bool
}

func (*ReplacedImage) SpecialKind() SpecialKind { return SpecialImage }

// ElementData is carried by elements and anonymous blocks.
type ElementData struct {
	TagName    string
	Attributes map[string]string
	Special    SpecialData
}

// Node is one arena entry.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Children []NodeID
	Kind     NodeKind
	Origin   Origin
	Element  *ElementData
	Text     string

	Style style.Computed

	Before NodeID
	After  NodeID

	Damage Damage
	Flags  Flags

	// LayoutChildren is nil until the node has been through box construction.
	// Inline roots leave it nil; their content lives in the inline layout.
	LayoutChildren []NodeID
	LayoutParent   NodeID
}

func newNode(kind NodeKind) *Node {
	return &Node{
		Parent:       None,
		Kind:         kind,
		Before:       None,
		After:        None,
		LayoutParent: None,
		Damage:       DamageAll,
	}
}

// IsElement reports elements and anonymous blocks.
func (n *Node) IsElement() bool {
	return n.Kind == KindElement || n.Kind == KindAnonymousBlock
}

// TagName returns the lower-case tag name, or "" for non-elements.
func (n *Node) TagName() string {
	if n.Element == nil {
		return ""
	}
	return n.Element.TagName
}

// Attr returns an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	if n.Element == nil || n.Element.Attributes == nil {
		return "", false
	}
	v, ok := n.Element.Attributes[name]
	return v, ok
}

// Special returns the element payload, or nil.
func (n *Node) Special() SpecialData {
	if n.Element == nil {
		return nil
	}
	return n.Element.Special
}

// SetSpecial replaces the element payload. It is a no-op on non-elements.
func (n *Node) SetSpecial(data SpecialData) {
	if n.Element != nil {
		n.Element.Special = data
	}
}

// HasFlag reports whether every bit of f is set.
func (n *Node) HasFlag(f Flags) bool { return n.Flags&f == f }

// IsWhitespace reports a text node made only of spaces, tabs and newlines.
// Empty text counts.
func (n *Node) IsWhitespace() bool {
	if n.Kind != KindText {
		return false
	}
	for i := 0; i < len(n.Text); i++ {
		switch n.Text[i] {
		case ' ', '\t', '\n':
		default:
			return false
		}
	}
	return true
}
