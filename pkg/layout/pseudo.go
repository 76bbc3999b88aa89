package layout

import (
	"strings"

	"go.uber.org/zap"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

// syncPseudoElements makes the ::before and ::after nodes of id agree with the
// cascade. It runs before the node's children are regrouped.
func (p *pass) syncPseudoElements(id dom.NodeID) {
	p.syncPseudo(id, style.PseudoBefore)
	p.syncPseudo(id, style.PseudoAfter)
}

func (p *pass) syncPseudo(id dom.NodeID, kind style.PseudoKind) {
	n := p.a.Get(id)
	if n == nil || !n.IsElement() {
		return
	}
	slot := &n.Before
	if kind == style.PseudoAfter {
		slot = &n.After
	}

	var ps style.Computed
	if n.Style != nil {
		ps = n.Style.Pseudo(kind)
	}

	switch existing := *slot; {
	case existing != dom.None && ps == nil:
		p.a.RemoveSubtree(existing)
		*slot = dom.None
		n.Damage |= dom.DamageAll
		p.stats.PseudoRemoved++

	case existing == dom.None && ps != nil:
		pid := p.a.CreateAnonymousBlock(id, dom.FromPseudo)
		pn := p.a.Get(pid)
		pn.Element.TagName = kind.String()
		pn.Style = ps
		pn.Damage = dom.DamageAll
		p.materializeContent(pn, n)
		*slot = pid
		n.Damage |= dom.DamageAll
		p.stats.PseudoCreated++

	case existing != dom.None:
		pn := p.a.Get(existing)
		if pn.Style == ps {
			return
		}
		pn.Style = ps
		for _, c := range append([]dom.NodeID(nil), pn.Children...) {
			p.a.RemoveSubtree(c)
		}
		p.materializeContent(pn, n)
		pn.Damage |= dom.DamageAll
		p.log.Debug("pseudo-element restyled",
			zap.Int("node", int(id)), zap.Stringer("pseudo", kind))
	}
}

// materializeContent gives a pseudo node a text child holding its generated
// text, if the content resolves to any.
func (p *pass) materializeContent(pn, owner *dom.Node) {
	txt := resolveContent(pn.Style, owner)
	if txt == "" {
		return
	}
	tid := p.a.CreateText(txt)
	tn := p.a.Get(tid)
	tn.Origin = dom.FromPseudo
	tn.Parent = pn.ID
	pn.Children = append(pn.Children, tid)
}

// resolveContent evaluates the content items that produce text. Counters and
// images generate nothing here.
func resolveContent(ps style.Computed, owner *dom.Node) string {
	var sb strings.Builder
	open, close := ps.Quotes()
	for _, item := range ps.Content() {
		switch item.Kind {
		case style.ContentString:
			sb.WriteString(item.Value)
		case style.ContentAttr:
			if v, ok := owner.Attr(item.Value); ok {
				sb.WriteString(v)
			}
		case style.ContentOpenQuote:
			sb.WriteString(open)
		case style.ContentCloseQuote:
			sb.WriteString(close)
		}
	}
	return sb.String()
}
