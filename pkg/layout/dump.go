package layout

import (
	"fmt"
	"strconv"
	"strings"

	"boxtree/pkg/dom"
	"boxtree/pkg/text"
)

// Dump renders the resolved box tree under root, one box per line, indented by
// depth. Inline roots show their paragraph text and table roots their grid.
func Dump(a *dom.Arena, root dom.NodeID) string {
	var sb strings.Builder
	dumpNode(&sb, a, root, 0, make(map[dom.NodeID]bool))
	return sb.String()
}

func dumpNode(sb *strings.Builder, a *dom.Arena, id dom.NodeID, depth int, seen map[dom.NodeID]bool) {
	n := a.Get(id)
	if n == nil || seen[id] || depth > DefaultMaxDepth {
		return
	}
	seen[id] = true

	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(Label(n))
	if il := InlineLayoutOf(n); il != nil && n.HasFlag(dom.FlagInlineRoot) && il.Paragraph != nil {
		fmt.Fprintf(sb, " inline %q", il.Paragraph.Text)
	}
	if tc := TableContextOf(n); tc != nil {
		fmt.Fprintf(sb, " table cols=%d rows=%d", len(tc.Columns), tc.Rows)
	}
	if lp := a.Get(n.LayoutParent); lp != nil && lp.HasFlag(dom.FlagInlineRoot) {
		if il := InlineLayoutOf(lp); il != nil && il.Paragraph != nil {
			for _, b := range il.Paragraph.Boxes {
				if b.Node == id {
					fmt.Fprintf(sb, " atomic@%d", b.Offset)
					if b.Kind != text.InlineBoxInFlow {
						sb.WriteString(" " + b.Kind.String())
					}
				}
			}
		}
	}
	sb.WriteByte('\n')

	for _, m := range LayoutMembers(a, id) {
		dumpNode(sb, a, m, depth+1, seen)
	}
}

// Label names a node the way the dump prints it: tag#id.class for elements,
// quoted text for text nodes.
func Label(n *dom.Node) string {
	switch n.Kind {
	case dom.KindDocument:
		return "#document"
	case dom.KindText:
		return strconv.Quote(n.Text)
	case dom.KindComment:
		return "<!--" + n.Text + "-->"
	case dom.KindAnonymousBlock:
		if n.Origin == dom.FromPseudo {
			return n.TagName()
		}
		return "anonymous"
	}
	var sb strings.Builder
	sb.WriteString(n.TagName())
	if v, ok := n.Attr("id"); ok && v != "" {
		sb.WriteString("#" + v)
	}
	if v, ok := n.Attr("class"); ok {
		for _, c := range strings.Fields(v) {
			sb.WriteString("." + c)
		}
	}
	return sb.String()
}
