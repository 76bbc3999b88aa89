package dom

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// InnerHTML serializes the DOM children of id.
func (a *Arena) InnerHTML(id NodeID) string {
	var sb strings.Builder
	if n := a.Get(id); n != nil {
		for _, c := range n.Children {
			a.serialize(&sb, c)
		}
	}
	return sb.String()
}

// OuterHTML serializes id and its DOM descendants.
func (a *Arena) OuterHTML(id NodeID) string {
	var sb strings.Builder
	a.serialize(&sb, id)
	return sb.String()
}

// TextContent concatenates the text of every descendant text node.
func (a *Arena) TextContent(id NodeID) string {
	var sb strings.Builder
	a.Walk(id, func(n *Node) bool {
		if n.Kind == KindText {
			sb.WriteString(n.Text)
		}
		return true
	})
	return sb.String()
}

func (a *Arena) serialize(sb *strings.Builder, id NodeID) {
	n := a.Get(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case KindText:
		sb.WriteString(html.EscapeString(n.Text))
		return
	case KindComment:
		sb.WriteString("<!--")
		sb.WriteString(n.Text)
		sb.WriteString("-->")
		return
	case KindDocument:
		for _, c := range n.Children {
			a.serialize(sb, c)
		}
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName())
	keys := make([]string, 0, len(n.Element.Attributes))
	for k := range n.Element.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(n.Element.Attributes[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	if IsVoidElement(n.TagName()) {
		return
	}
	for _, c := range n.Children {
		a.serialize(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName())
	sb.WriteByte('>')
}

// IsVoidElement reports elements that never have children or an end tag.
func IsVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}
