package layout

import "boxtree/pkg/dom"

// InvalidateInlineContexts damages every inline root so the next pass reshapes
// all paragraphs, as needed after the shaper or its fonts change. An anonymous
// inline root cannot be rebuilt on its own; its layout parent is damaged
// instead, which recreates it.
func InvalidateInlineContexts(a *dom.Arena) int {
	count := 0
	for id := dom.NodeID(0); int(id) < a.Cap(); id++ {
		n := a.Get(id)
		if n == nil || !n.HasFlag(dom.FlagInlineRoot) {
			continue
		}
		target := id
		if n.Origin == dom.FromAnonymous {
			target = n.LayoutParent
		}
		tn := a.Get(target)
		if tn == nil || !tn.HasFlag(dom.FlagInDocument) {
			continue
		}
		a.MarkDirty(target)
		tn.Damage |= dom.DamageAll
		count++
	}
	return count
}
