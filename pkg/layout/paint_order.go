package layout

import (
	"sort"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

// StackingContext is a node whose positioned descendants with a z-index are
// painted relative to it rather than in tree order.
type StackingContext struct {
	Node   dom.NodeID // dom.None for the root context
	ZIndex int

	// Child contexts by z-index. Negative and Positive are sorted ascending;
	// Zero keeps document order.
	Negative []*StackingContext
	Zero     []*StackingContext
	Positive []*StackingContext
}

func (sc *StackingContext) add(child *StackingContext) {
	switch {
	case child.ZIndex < 0:
		sc.Negative = append(sc.Negative, child)
	case child.ZIndex > 0:
		sc.Positive = append(sc.Positive, child)
	default:
		sc.Zero = append(sc.Zero, child)
	}
}

func (sc *StackingContext) sort() {
	for _, list := range [][]*StackingContext{sc.Negative, sc.Positive} {
		sort.SliceStable(list, func(i, j int) bool { return list[i].ZIndex < list[j].ZIndex })
	}
}

// PaintOrder is the order in which a painter visits the box tree. It is derived
// from the layout members and never changes them.
type PaintOrder struct {
	Root *StackingContext

	lists    map[dom.NodeID][]dom.NodeID
	contexts map[dom.NodeID]*StackingContext
}

// Children returns the paint list of id: its members minus those hoisted into a
// stacking context, stable-sorted by paint layer.
func (po *PaintOrder) Children(id dom.NodeID) []dom.NodeID { return po.lists[id] }

// Context returns the stacking context created by id, or nil.
func (po *PaintOrder) Context(id dom.NodeID) *StackingContext { return po.contexts[id] }

// BuildPaintOrder computes the paint order of the resolved box tree under root.
func BuildPaintOrder(a *dom.Arena, root dom.NodeID) *PaintOrder {
	po := &PaintOrder{
		Root:     &StackingContext{Node: dom.None},
		lists:    make(map[dom.NodeID][]dom.NodeID),
		contexts: make(map[dom.NodeID]*StackingContext),
	}
	po.collect(a, root, po.Root, make(map[dom.NodeID]bool), 0)
	po.Root.sort()
	return po
}

func (po *PaintOrder) collect(a *dom.Arena, id dom.NodeID, ctx *StackingContext, seen map[dom.NodeID]bool, depth int) {
	n := a.Get(id)
	if n == nil || seen[id] || depth > DefaultMaxDepth {
		return
	}
	seen[id] = true

	var list []dom.NodeID
	for _, m := range LayoutMembers(a, id) {
		mn := a.Get(m)
		if mn == nil {
			continue
		}
		if z, ok := createsStackingContext(mn); ok {
			child := &StackingContext{Node: m, ZIndex: z}
			ctx.add(child)
			po.contexts[m] = child
			if z == 0 {
				list = append(list, m)
			}
			po.collect(a, m, child, seen, depth+1)
			child.sort()
			continue
		}
		list = append(list, m)
		po.collect(a, m, ctx, seen, depth+1)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return paintKey(n, a.Get(list[i])) < paintKey(n, a.Get(list[j]))
	})
	if len(list) > 0 {
		po.lists[id] = list
	}
}

// createsStackingContext reports a positioned box with a z-index.
func createsStackingContext(n *dom.Node) (int, bool) {
	if n.Style == nil || positionOf(n) == style.PositionStatic {
		return 0, false
	}
	return n.Style.ZIndex()
}

// paintKey orders siblings for painting. Flex and grid items follow their order
// property; elsewhere floats paint above in-flow boxes and positioned boxes
// above floats.
func paintKey(parent, child *dom.Node) int {
	pos := positionOf(child)
	if parent.Style != nil {
		switch parent.Style.Display().Inside {
		case style.InsideFlex, style.InsideGrid:
			if pos == style.PositionAbsolute || pos == style.PositionFixed || child.Style == nil {
				return 0
			}
			return child.Style.Order()
		}
	}
	key := 0
	if pos == style.PositionAbsolute || pos == style.PositionFixed {
		key += 2
	}
	if floatOf(child) != style.FloatNone {
		key++
	}
	return key
}
