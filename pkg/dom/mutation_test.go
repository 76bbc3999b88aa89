package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanTree builds doc > div > (p > text, span) with all damage cleared.
func cleanTree(t *testing.T) (a *Arena, div, p, txt, span NodeID) {
	t.Helper()
	a = NewArena()
	div = a.CreateElement("div", nil)
	p = a.CreateElement("p", nil)
	txt = a.CreateText("hello")
	span = a.CreateElement("span", nil)
	require.NoError(t, a.AppendChild(a.Document(), div))
	require.NoError(t, a.AppendChild(div, p))
	require.NoError(t, a.AppendChild(p, txt))
	require.NoError(t, a.AppendChild(div, span))
	for id := NodeID(0); int(id) < a.Cap(); id++ {
		a.ClearDamage(id, DamageAll)
	}
	return a, div, p, txt, span
}

func TestMarkDirty(t *testing.T) {
	a, div, p, txt, span := cleanTree(t)

	a.MarkDirty(txt)
	assert.Equal(t, DamageBox, a.Get(txt).Damage)
	assert.Equal(t, DamageDescendant, a.Get(p).Damage)
	assert.Equal(t, DamageDescendant, a.Get(div).Damage)
	assert.Equal(t, DamageDescendant, a.Get(a.Document()).Damage)
	assert.Equal(t, Damage(0), a.Get(span).Damage, "siblings untouched")
}

func TestInsertBefore(t *testing.T) {
	a, div, p, _, span := cleanTree(t)
	em := a.CreateElement("em", nil)

	require.NoError(t, a.InsertBefore(div, em, span))
	assert.Equal(t, []NodeID{p, em, span}, a.Get(div).Children)
	assert.Equal(t, div, a.Get(em).Parent)
	assert.Equal(t, DamageAll, a.Get(em).Damage)
	assert.True(t, a.Get(div).Damage.Has(DamageBox))
	assert.True(t, a.Get(a.Document()).Damage.Has(DamageDescendant))
}

func TestInsertBefore_MoveWithinParent(t *testing.T) {
	a, div, p, _, span := cleanTree(t)

	require.NoError(t, a.InsertBefore(div, span, p))
	assert.Equal(t, []NodeID{span, p}, a.Get(div).Children)

	require.NoError(t, a.AppendChild(div, span))
	assert.Equal(t, []NodeID{p, span}, a.Get(div).Children)
}

func TestInsertBefore_MoveAcrossParents(t *testing.T) {
	a, div, p, txt, span := cleanTree(t)

	require.NoError(t, a.AppendChild(span, txt))
	assert.Empty(t, a.Get(p).Children)
	assert.True(t, a.Get(p).Damage.Has(DamageBox), "old parent damaged")
	assert.True(t, a.Get(span).Damage.Has(DamageBox), "new parent damaged")
	assert.Equal(t, []NodeID{p, span}, a.Get(div).Children)
}

func TestInsertBefore_Errors(t *testing.T) {
	a, div, p, _, span := cleanTree(t)

	assert.ErrorIs(t, a.AppendChild(p, div), ErrHierarchy)
	assert.ErrorIs(t, a.AppendChild(div, div), ErrHierarchy)
	assert.ErrorIs(t, a.InsertBefore(div, a.CreateText("x"), a.CreateText("y")), ErrNotChild)
	assert.ErrorIs(t, a.AppendChild(div, a.Document()), ErrNotInsertable)
	assert.ErrorIs(t, a.AppendChild(div, a.CreateAnonymousBlock(div, FromAnonymous)), ErrNotInsertable)
	assert.ErrorIs(t, a.AppendChild(div, 1000), ErrNoNode)
	assert.Equal(t, []NodeID{p, span}, a.Get(div).Children)
}

func TestRemoveChild(t *testing.T) {
	a, div, p, txt, span := cleanTree(t)
	a.Get(p).Flags |= FlagInDocument
	a.Get(txt).Flags |= FlagInDocument
	a.Get(p).LayoutParent = div

	require.NoError(t, a.RemoveChild(div, p))
	assert.Equal(t, []NodeID{span}, a.Get(div).Children)
	assert.NotNil(t, a.Get(p), "detached nodes stay alive")
	assert.Equal(t, None, a.Get(p).Parent)
	assert.Equal(t, None, a.Get(p).LayoutParent)
	assert.False(t, a.Get(p).HasFlag(FlagInDocument))
	assert.False(t, a.Get(txt).HasFlag(FlagInDocument))
	assert.True(t, a.Get(div).Damage.Has(DamageBox))

	assert.ErrorIs(t, a.RemoveChild(div, p), ErrNotChild)
}

func TestSetTextAndAttributes(t *testing.T) {
	a, div, p, txt, _ := cleanTree(t)

	require.NoError(t, a.SetText(txt, "hello"))
	assert.Equal(t, Damage(0), a.Get(txt).Damage, "unchanged text is not damage")

	require.NoError(t, a.SetText(txt, "bye"))
	assert.True(t, a.Get(txt).Damage.Has(DamageBox))
	assert.True(t, a.Get(p).Damage.Has(DamageDescendant))
	assert.ErrorIs(t, a.SetText(div, "x"), ErrNotTextualNode)

	require.NoError(t, a.SetAttribute(p, "colspan", "2"))
	assert.True(t, a.Get(p).Damage.Has(DamageBox))
	v, ok := a.Get(p).Attr("colspan")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, a.RemoveAttribute(p, "colspan"))
	_, ok = a.Get(p).Attr("colspan")
	assert.False(t, ok)
	assert.ErrorIs(t, a.SetAttribute(txt, "a", "b"), ErrNoNode)
}

func TestDamageString(t *testing.T) {
	assert.Equal(t, "none", Damage(0).String())
	assert.Equal(t, "box|descendant", (DamageBox | DamageDescendant).String())
	assert.Equal(t, "box|fc|descendant|layout", DamageAll.String())
}

func TestSerialize(t *testing.T) {
	a, div, _, _, span := cleanTree(t)
	require.NoError(t, a.SetAttribute(span, "title", `a"b`))
	require.NoError(t, a.AppendChild(span, a.CreateElement("br", nil)))
	require.NoError(t, a.AppendChild(span, a.CreateText("x < y")))

	assert.Equal(t, `<p>hello</p><span title="a&#34;b"><br>x &lt; y</span>`, a.InnerHTML(div))
	assert.Equal(t, "hellox < y", a.TextContent(div))
}
