package layout

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

// computeLayoutChildren regroups the content of id into the boxes the solver
// will see. It returns nil when id becomes an inline root, whose content is
// the paragraph instead.
func (p *pass) computeLayoutChildren(id dom.NodeID) []dom.NodeID {
	n := p.a.Get(id)
	n.Flags &^= dom.FlagInlineRoot | dom.FlagTableRoot
	if p.a.Connected(id) {
		n.Flags |= dom.FlagInDocument
	} else {
		n.Flags &^= dom.FlagInDocument
	}
	if sd := n.Special(); sd != nil && sd.SpecialKind() != dom.SpecialImage {
		n.SetSpecial(nil)
	}
	if n.TagName() == "img" && n.Origin == dom.FromDOM {
		p.attachReplacedImage(n)
	}

	if len(n.Children) == 0 && n.Before == dom.None && n.After == dom.None {
		return []dom.NodeID{}
	}

	d := displayOf(n)
	switch d.Inside {
	case style.InsideNone:
		return []dom.NodeID{}
	case style.InsideContents:
		return p.passthrough(p.effectiveChildren(n, nil))
	case style.InsideFlex, style.InsideGrid:
		return p.flexOrGridChildren(n)
	case style.InsideTable:
		return p.tableChildren(n)
	default:
		return p.blockContainerChildren(n)
	}
}

// effectiveChildren lists the box content of n with every display: contents
// element replaced by its own content, recursively. The contents elements
// themselves are consumed here.
func (p *pass) effectiveChildren(n *dom.Node, out []dom.NodeID) []dom.NodeID {
	for _, c := range boxChildren(n) {
		cn := p.a.Get(c)
		if cn.Kind == dom.KindElement && displayOf(cn).IsContents() {
			p.syncPseudoElements(c)
			p.consume(cn)
			cn.LayoutParent = n.ID
			out = p.effectiveChildren(cn, out)
			continue
		}
		out = append(out, c)
	}
	return out
}

// blockContainerChildren handles flow, flow-root and table-cell containers.
func (p *pass) blockContainerChildren(n *dom.Node) []dom.NodeID {
	kids := p.effectiveChildren(n, nil)

	allInline, allBlock, allOutOfFlow := true, true, true
	for _, c := range kids {
		cn := p.a.Get(c)
		switch cn.Kind {
		case dom.KindComment:
			continue
		case dom.KindText:
			if cn.IsWhitespace() {
				continue
			}
			allOutOfFlow = false
			allBlock = false
			continue
		}

		d := displayOf(cn)
		if d.IsNone() || d.IsTablePart() || isOutOfFlow(cn) {
			continue
		}
		allOutOfFlow = false
		if d.IsBlockLevel() {
			allInline = false
			continue
		}
		allBlock = false
		if p.isOrContainsBlock(cn, 0) {
			allInline = false
		}
	}

	switch {
	case allOutOfFlow, allBlock:
		return p.passthrough(kids)
	case allInline:
		p.buildInlineContext(n)
		return nil
	}
	return p.wrapChildren(n, kids, p.needsBlockWrap, false)
}

// flexOrGridChildren keeps element children as flex or grid items and wraps
// runs of bare text in anonymous items.
func (p *pass) flexOrGridChildren(n *dom.Node) []dom.NodeID {
	kids := p.effectiveChildren(n, nil)
	hasText := false
	for _, c := range kids {
		if cn := p.a.Get(c); cn.Kind == dom.KindText && !cn.IsWhitespace() {
			hasText = true
			break
		}
	}
	if !hasText {
		return p.passthrough(kids)
	}
	return p.wrapChildren(n, kids, func(cn *dom.Node) bool { return cn.Kind == dom.KindText }, true)
}

func (p *pass) tableChildren(n *dom.Node) []dom.NodeID {
	tc := p.buildTableContext(n)
	n.Flags |= dom.FlagTableRoot
	n.SetSpecial(tc)

	out := make([]dom.NodeID, 0, len(tc.Cells)+2)
	if n.Before != dom.None {
		out = append(out, n.Before)
	}
	out = append(out, tc.Cells...)
	if n.After != dom.None {
		out = append(out, n.After)
	}
	return out
}

// skippable reports children that never become boxes of a container's list:
// comments, display: none elements and table parts outside a table.
func skippable(cn *dom.Node) bool {
	if cn.Kind == dom.KindComment {
		return true
	}
	if !cn.IsElement() {
		return false
	}
	d := displayOf(cn)
	return d.IsNone() || d.IsTablePart()
}

// passthrough keeps the children as they are, minus white space and the
// skippable ones.
func (p *pass) passthrough(kids []dom.NodeID) []dom.NodeID {
	out := make([]dom.NodeID, 0, len(kids))
	for _, c := range kids {
		cn := p.a.Get(c)
		if skippable(cn) || cn.IsWhitespace() {
			p.consume(cn)
			continue
		}
		out = append(out, c)
	}
	return out
}

// wrapChildren walks the children once, collecting consecutive children that
// need wrapping into anonymous blocks. A wrapper holding nothing but white
// space is deleted as soon as it closes. With hideWhitespace, white space is
// dropped unless a wrapper is open.
func (p *pass) wrapChildren(n *dom.Node, kids []dom.NodeID, needsWrap func(*dom.Node) bool, hideWhitespace bool) []dom.NodeID {
	out := make([]dom.NodeID, 0, len(kids))
	anon := dom.None

	closeAnon := func() {
		if anon == dom.None {
			return
		}
		if p.onlyWhitespace(anon) {
			for _, c := range p.a.Get(anon).Children {
				p.consume(p.a.Get(c))
			}
			p.a.RemoveSubtree(anon)
			out = out[:len(out)-1]
			p.stats.AnonymousDiscarded++
		}
		anon = dom.None
	}

	for _, c := range kids {
		cn := p.a.Get(c)
		if skippable(cn) || hideWhitespace && anon == dom.None && cn.IsWhitespace() {
			p.consume(cn)
			continue
		}
		if needsWrap(cn) {
			if anon == dom.None {
				anon = p.newAnonymousBlock(n)
				out = append(out, anon)
			}
			an := p.a.Get(anon)
			an.Children = append(an.Children, c)
			continue
		}
		closeAnon()
		out = append(out, c)
	}
	closeAnon()
	return out
}

// needsBlockWrap selects the children of a mixed block container that go into
// anonymous blocks: text and in-flow inline-level boxes. An inline that holds
// a block stands on its own, and so do floats and positioned boxes.
func (p *pass) needsBlockWrap(cn *dom.Node) bool {
	if cn.Kind == dom.KindText {
		return true
	}
	if isOutOfFlow(cn) {
		return false
	}
	return displayOf(cn).Outside == style.OutsideInline && !p.isOrContainsBlock(cn, 0)
}

func (p *pass) newAnonymousBlock(owner *dom.Node) dom.NodeID {
	id := p.a.CreateAnonymousBlock(owner.ID, dom.FromAnonymous)
	an := p.a.Get(id)
	if owner.Style != nil {
		an.Style = owner.Style.Anonymous()
	}
	p.stats.AnonymousCreated++
	return id
}

func (p *pass) onlyWhitespace(anon dom.NodeID) bool {
	for _, c := range p.a.Get(anon).Children {
		if !p.a.Get(c).IsWhitespace() {
			return false
		}
	}
	return true
}

// isOrContainsBlock reports an in-flow block-level box, or an inline whose
// inline content holds one. Atomic inlines contain their blocks.
func (p *pass) isOrContainsBlock(n *dom.Node, depth int) bool {
	if !n.IsElement() || depth > p.maxDepth {
		return false
	}
	d := displayOf(n)
	if d.IsNone() || isOutOfFlow(n) {
		return false
	}
	if d.IsBlockLevel() {
		return !d.IsTablePart()
	}
	if d.IsContents() || d.IsInlineFlow() && !isReplaced(n) {
		for _, c := range boxChildren(n) {
			if p.isOrContainsBlock(p.a.Get(c), depth+1) {
				return true
			}
		}
	}
	return false
}

// consume clears the construction damage of a node that is folded into its
// container and will never be visited on its own. Layout children it built
// while it was a box of its own are dropped.
func (p *pass) consume(n *dom.Node) {
	n.Damage &^= dom.DamageConstruct
	if n.LayoutChildren != nil {
		p.discardAnonymous(n)
	}
}

// attachReplacedImage records the intrinsic size of an img element from its
// width and height attributes, asking the image source for anything missing.
func (p *pass) attachReplacedImage(n *dom.Node) {
	img := &dom.ReplacedImage{}
	img.Src, _ = n.Attr("src")
	w, hasW := parsePixels(n, "width")
	h, hasH := parsePixels(n, "height")
	if (!hasW || !hasH) && img.Src != "" && p.images != nil {
		size, err := p.images.Size(img.Src)
		if err != nil {
			p.log.Debug("image size unavailable", zap.String("src", img.Src), zap.Error(err))
		} else if size.Width > 0 && size.Height > 0 {
			ratio := float64(size.Height) / float64(size.Width)
			switch {
			case hasW:
				h, hasH = w*ratio, true
			case hasH:
				w, hasW = h/ratio, true
			default:
				w, h, hasW, hasH = float64(size.Width), float64(size.Height), true, true
			}
		}
	}
	img.Width, img.Height = w, h
	img.HasSize = hasW && hasH
	n.SetSpecial(img)
}

func parsePixels(n *dom.Node, attr string) (float64, bool) {
	v, ok := n.Attr(attr)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
