package dom

import "strings"

// Damage is the per-node invalidation bit-set. The low bits are reserved for
// relayout and repaint, which box construction never reads.
type Damage uint8

const (
	DamageRelayout Damage = 0b0000_1000

	// DamageBox asks for the node's own layout children to be rebuilt.
	DamageBox Damage = 0b0001_0000
	// DamageFormattingContext asks for the node's inline or table structure to
	// be rebuilt.
	DamageFormattingContext Damage = 0b0010_0000
	// DamageDescendant says some descendant needs rebuilding.
	DamageDescendant Damage = 0b0100_0000

	DamageAll Damage = 0b0111_1111

	// DamageConstruct is every bit that box construction consumes.
	DamageConstruct = DamageBox | DamageFormattingContext | DamageDescendant
)

// Has reports whether any bit of d is set.
func (d Damage) Has(bits Damage) bool { return d&bits != 0 }

func (d Damage) String() string {
	if d == 0 {
		return "none"
	}
	var parts []string
	if d.Has(DamageBox) {
		parts = append(parts, "box")
	}
	if d.Has(DamageFormattingContext) {
		parts = append(parts, "fc")
	}
	if d.Has(DamageDescendant) {
		parts = append(parts, "descendant")
	}
	if d&^DamageConstruct != 0 {
		parts = append(parts, "layout")
	}
	return strings.Join(parts, "|")
}

// MarkDirty records a structural change on id: the node itself needs its boxes
// rebuilt and every ancestor needs to be walked.
func (a *Arena) MarkDirty(id NodeID) {
	n := a.Get(id)
	if n == nil {
		return
	}
	n.Damage |= DamageBox
	a.markAncestors(n.Parent)
}

// AddDamage ors bits into a node's damage without touching ancestors.
func (a *Arena) AddDamage(id NodeID, bits Damage) {
	if n := a.Get(id); n != nil {
		n.Damage |= bits
	}
}

// ClearDamage removes bits from a node's damage.
func (a *Arena) ClearDamage(id NodeID, bits Damage) {
	if n := a.Get(id); n != nil {
		n.Damage &^= bits
	}
}

func (a *Arena) markAncestors(id NodeID) {
	for steps := 0; id != None && steps < a.Cap(); steps++ {
		n := a.Get(id)
		if n == nil {
			return
		}
		n.Damage |= DamageDescendant
		id = n.Parent
	}
}
