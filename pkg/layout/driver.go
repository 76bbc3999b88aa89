// Package layout turns a styled document into the box tree the numeric layout
// engine consumes. Each pass walks the arena from a root, rebuilding the layout
// children of damaged nodes and reusing the cached lists of clean ones.
package layout

import (
	"fmt"

	"go.uber.org/zap"

	"boxtree/pkg/dom"
	"boxtree/pkg/images"
	"boxtree/pkg/text"
)

// DefaultMaxDepth bounds every recursive walk of a pass.
const DefaultMaxDepth = 512

// ImageSource reports the intrinsic size of an image source. *images.Cache
// implements it.
type ImageSource interface {
	Size(src string) (images.Size, error)
}

// Options configure a Driver.
type Options struct {
	// MaxDepth bounds the box-tree depth a pass will descend. Zero means
	// DefaultMaxDepth.
	MaxDepth int
	// Strict turns construction invariant violations into panics instead of
	// error logs.
	Strict bool
	// Images sizes img elements that lack width or height attributes. It may
	// be nil.
	Images ImageSource
	Logger *zap.Logger
}

// Stats counts what one pass did.
type Stats struct {
	Visited            int
	Rebuilt            int
	Reused             int
	Skipped            int
	InlineRoots        int
	Tables             int
	AnonymousCreated   int
	AnonymousDiscarded int
	PseudoCreated      int
	PseudoRemoved      int
}

// Driver runs box-construction passes over one arena.
type Driver struct {
	arena  *dom.Arena
	shaper *text.Shaper
	opts   Options
	log    *zap.Logger
}

// NewDriver returns a driver for a. A nil shaper uses the built-in face.
func NewDriver(a *dom.Arena, shaper *text.Shaper, opts Options) *Driver {
	if shaper == nil {
		shaper = text.NewShaper(nil)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{arena: a, shaper: shaper, opts: opts, log: log.Named("layout")}
}

// Resolve brings the box tree under root up to date with the damage recorded in
// the arena, then clears that damage.
func (d *Driver) Resolve(root dom.NodeID) Stats {
	var stats Stats
	p := &pass{
		a:        d.arena,
		shaping:  d.shaper.Acquire(),
		stats:    &stats,
		log:      d.log,
		maxDepth: d.opts.MaxDepth,
		strict:   d.opts.Strict,
		images:   d.opts.Images,
		visited:  make(map[dom.NodeID]struct{}),
	}
	defer p.shaping.Release()

	p.visit(root, dom.None, 0)

	d.log.Debug("box tree resolved",
		zap.Int("visited", stats.Visited),
		zap.Int("rebuilt", stats.Rebuilt),
		zap.Int("reused", stats.Reused),
		zap.Int("anonymous_created", stats.AnonymousCreated),
		zap.Int("anonymous_discarded", stats.AnonymousDiscarded))
	return stats
}

// pass is the state of one Resolve call.
type pass struct {
	a        *dom.Arena
	shaping  *text.Context
	stats    *Stats
	log      *zap.Logger
	maxDepth int
	strict   bool
	images   ImageSource
	visited  map[dom.NodeID]struct{}
}

func (p *pass) visit(id dom.NodeID, layoutParent dom.NodeID, depth int) {
	n := p.a.Get(id)
	if n == nil {
		p.invariant("layout member %d is not a live node", id)
		return
	}
	if _, seen := p.visited[id]; seen {
		p.log.Error("node reached twice in one pass, stopping", zap.Int("node", int(id)))
		return
	}
	p.visited[id] = struct{}{}
	if depth > p.maxDepth {
		p.log.Warn("box tree too deep, stopping", zap.Int("node", int(id)), zap.Int("depth", depth))
		return
	}
	p.stats.Visited++
	if layoutParent != dom.None {
		n.LayoutParent = layoutParent
	}

	if n.Kind == dom.KindText || n.Kind == dom.KindComment {
		p.consume(n)
		return
	}

	switch {
	case p.stale(n):
		p.rebuild(n)
	case n.Damage.Has(dom.DamageDescendant):
		p.stats.Reused++
	default:
		p.stats.Skipped++
		return
	}

	for _, m := range LayoutMembers(p.a, id) {
		p.visit(m, id, depth+1)
	}
	n.Damage &^= dom.DamageConstruct
	p.checkTable(n)
}

// stale reports whether n needs new layout children. Besides its own damage,
// damage on a node that n folded into itself (text in its paragraph, a row of
// its table, a skipped child that might now count) is damage to n.
func (p *pass) stale(n *dom.Node) bool {
	if n.Damage.Has(dom.DamageBox | dom.DamageFormattingContext) {
		return true
	}
	if n.LayoutChildren == nil && !n.HasFlag(dom.FlagInlineRoot) {
		return true
	}
	if !n.Damage.Has(dom.DamageDescendant) {
		return false
	}
	members := make(map[dom.NodeID]struct{})
	for _, m := range LayoutMembers(p.a, n.ID) {
		members[m] = struct{}{}
	}
	if tc := TableContextOf(n); tc != nil {
		for _, it := range tc.Items {
			if in := p.a.Get(it.Node); in == nil || in.Damage.Has(dom.DamageBox) {
				return true
			}
		}
	}
	return p.absorbedDamage(n, members, 0)
}

func (p *pass) absorbedDamage(n *dom.Node, members map[dom.NodeID]struct{}, depth int) bool {
	if depth > p.maxDepth {
		return false
	}
	for _, c := range boxChildren(n) {
		if _, ok := members[c]; ok {
			continue
		}
		cn := p.a.Get(c)
		if cn == nil {
			return true
		}
		if cn.Damage.Has(dom.DamageBox | dom.DamageFormattingContext) {
			return true
		}
		if cn.Damage.Has(dom.DamageDescendant) && p.absorbedDamage(cn, members, depth+1) {
			return true
		}
	}
	return false
}

// rebuild throws away the old layout children of n, anonymous boxes included,
// and computes new ones.
func (p *pass) rebuild(n *dom.Node) {
	p.stats.Rebuilt++
	p.discardAnonymous(n)

	p.syncPseudoElements(n.ID)
	n.LayoutChildren = p.computeLayoutChildren(n.ID)
	n.Damage &^= dom.DamageConstruct
}

// discardAnonymous deletes the anonymous blocks n made for its old layout
// children and forgets the list.
func (p *pass) discardAnonymous(n *dom.Node) {
	for _, c := range n.LayoutChildren {
		if cn := p.a.Get(c); cn != nil && cn.Origin == dom.FromAnonymous && cn.Parent == n.ID {
			p.a.RemoveSubtree(c)
			p.stats.AnonymousDiscarded++
		}
	}
	n.LayoutChildren = nil
}

func (p *pass) checkTable(n *dom.Node) {
	if n.HasFlag(dom.FlagTableRoot) && TableContextOf(n) == nil {
		p.invariant("table root %d has no table context", n.ID)
	}
}

// invariant reports a construction bug. Strict drivers panic.
func (p *pass) invariant(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.strict {
		panic("layout: " + msg)
	}
	p.log.Error("box construction invariant violated", zap.String("detail", msg))
}
