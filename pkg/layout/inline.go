package layout

import (
	"boxtree/pkg/dom"
	"boxtree/pkg/style"
	"boxtree/pkg/text"
)

// InlineLayout is the payload of an inline root: one paragraph plus the atomic
// boxes embedded in it, which are laid out as boxes of their own.
type InlineLayout struct {
	Paragraph *text.Paragraph
	Embedded  []dom.NodeID
}

func (*InlineLayout) SpecialKind() dom.SpecialKind { return dom.SpecialInlineLayout }

// buildInlineContext turns n into an inline root. Its inline descendants are
// flattened into a paragraph; they are consumed and will not be visited.
func (p *pass) buildInlineContext(n *dom.Node) {
	b := p.shaping.NewBuilder(n.Style)
	il := &InlineLayout{}
	p.flattenInline(n, b, il, 0)
	il.Paragraph = b.Build()

	n.Flags |= dom.FlagInlineRoot
	n.SetSpecial(il)
	p.stats.InlineRoots++
}

func (p *pass) flattenInline(parent *dom.Node, b *text.Builder, il *InlineLayout, depth int) {
	if depth > p.maxDepth {
		p.log.Warn("inline nesting too deep, truncating")
		return
	}
	for _, c := range boxChildren(parent) {
		cn := p.a.Get(c)
		switch cn.Kind {
		case dom.KindComment:
			p.consume(cn)
			continue
		case dom.KindText:
			cn.LayoutParent = parent.ID
			b.PushText(cn.Text)
			p.consume(cn)
			continue
		}

		d := displayOf(cn)
		switch {
		case d.IsNone() || isHiddenInput(cn):
			p.consume(cn)

		case d.IsTablePart():
			p.consume(cn)

		case d.IsContents():
			p.syncPseudoElements(c)
			p.consume(cn)
			cn.LayoutParent = parent.ID
			p.flattenInline(cn, b, il, depth+1)

		case isOutOfFlow(cn):
			kind := text.InlineBoxOutOfFlow
			if floatOf(cn) != style.FloatNone && positionOf(cn).InFlow() {
				kind = text.InlineBoxFloat
			}
			p.embed(b, il, c, kind)

		case d.IsInlineFlow() && isReplaced(cn):
			p.embed(b, il, c, text.InlineBoxInFlow)

		case cn.TagName() == "br" && cn.Origin == dom.FromDOM:
			cn.LayoutParent = parent.ID
			b.PushLineBreak()
			p.consume(cn)

		case d.IsInlineFlow() && p.holdsOutOfFlowBlock(cn, 0):
			p.embed(b, il, c, text.InlineBoxInFlow)

		case d.IsInlineFlow():
			p.syncPseudoElements(c)
			p.consume(cn)
			cn.LayoutParent = parent.ID
			b.PushStyleSpan(cn.Style)
			p.flattenInline(cn, b, il, depth+1)
			b.PopStyleSpan()

		default:
			// inline-block, inline-flex and friends are atomic.
			p.embed(b, il, c, text.InlineBoxInFlow)
		}
	}
}

// embed places an atomic box in the paragraph. The box keeps its damage: the
// driver visits it as a member of the inline root.
func (p *pass) embed(b *text.Builder, il *InlineLayout, id dom.NodeID, kind text.InlineBoxKind) {
	b.PushInlineBox(id, kind)
	il.Embedded = append(il.Embedded, id)
}

// holdsOutOfFlowBlock reports an inline whose inline content contains a
// floated or positioned block. Such an inline cannot be flattened into text,
// so it is embedded whole.
func (p *pass) holdsOutOfFlowBlock(n *dom.Node, depth int) bool {
	if depth > p.maxDepth {
		return false
	}
	for _, c := range boxChildren(n) {
		cn := p.a.Get(c)
		if !cn.IsElement() {
			continue
		}
		d := displayOf(cn)
		if d.IsNone() {
			continue
		}
		if isOutOfFlow(cn) && d.IsBlockLevel() {
			return true
		}
		if (d.IsInlineFlow() || d.IsContents()) && !isReplaced(cn) && p.holdsOutOfFlowBlock(cn, depth+1) {
			return true
		}
	}
	return false
}
