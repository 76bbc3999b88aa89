package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArena(t *testing.T) {
	a := NewArena()
	doc := a.Get(a.Document())
	require.NotNil(t, doc)
	assert.Equal(t, KindDocument, doc.Kind)
	assert.Equal(t, 1, a.Len())
	assert.True(t, doc.HasFlag(FlagInDocument))
	assert.Equal(t, None, doc.Parent)
}

func TestArena_ReusesFreedSlots(t *testing.T) {
	a := NewArena()
	div := a.CreateElement("div", nil)
	require.NoError(t, a.AppendChild(a.Document(), div))

	a.RemoveSubtree(div)
	assert.Nil(t, a.Get(div))
	assert.Equal(t, 1, a.Len())
	assert.Empty(t, a.Get(a.Document()).Children)

	again := a.CreateText("x")
	assert.Equal(t, div, again, "freed id handed out again")
	assert.Equal(t, 2, a.Cap())
}

func TestArena_RemoveSubtreeFreesOwnedNodes(t *testing.T) {
	a := NewArena()
	div := a.CreateElement("div", nil)
	span := a.CreateElement("span", nil)
	txt := a.CreateText("hi")
	require.NoError(t, a.AppendChild(a.Document(), div))
	require.NoError(t, a.AppendChild(div, span))
	require.NoError(t, a.AppendChild(span, txt))

	before := a.CreateAnonymousBlock(div, FromPseudo)
	a.Get(div).Before = before
	anon := a.CreateAnonymousBlock(div, FromAnonymous)
	// The anonymous block only groups span; span stays parented to div.
	a.Get(anon).Children = []NodeID{span}
	a.Get(div).LayoutChildren = []NodeID{anon}

	a.RemoveSubtree(div)
	assert.Equal(t, 1, a.Len())
	for _, id := range []NodeID{div, span, txt, before, anon} {
		assert.Nil(t, a.Get(id))
	}
}

func TestArena_RemoveAnonymousKeepsBorrowedChildren(t *testing.T) {
	a := NewArena()
	div := a.CreateElement("div", nil)
	txt := a.CreateText("x")
	require.NoError(t, a.AppendChild(div, txt))

	anon := a.CreateAnonymousBlock(div, FromAnonymous)
	a.Get(anon).Children = []NodeID{txt}

	a.RemoveSubtree(anon)
	assert.Nil(t, a.Get(anon))
	assert.NotNil(t, a.Get(txt))
	assert.Equal(t, []NodeID{txt}, a.Get(div).Children)
}

func TestArena_CreateAnonymousBlock(t *testing.T) {
	a := NewArena()
	div := a.CreateElement("div", nil)
	anon := a.CreateAnonymousBlock(div, FromAnonymous)

	n := a.Get(anon)
	assert.Equal(t, KindAnonymousBlock, n.Kind)
	assert.Equal(t, div, n.Parent)
	assert.Equal(t, div, n.LayoutParent)
	assert.True(t, n.IsElement())
	assert.NotContains(t, a.Get(div).Children, anon)
}

func TestArena_ConnectedAndAncestors(t *testing.T) {
	a := NewArena()
	div := a.CreateElement("div", nil)
	p := a.CreateElement("p", nil)
	require.NoError(t, a.AppendChild(div, p))
	assert.False(t, a.Connected(p))

	require.NoError(t, a.AppendChild(a.Document(), div))
	assert.True(t, a.Connected(p))
	assert.Equal(t, []NodeID{div, a.Document()}, a.Ancestors(p))
}

func TestArena_ElementByID(t *testing.T) {
	a := NewArena()
	first := a.CreateElement("div", map[string]string{"id": "x"})
	second := a.CreateElement("div", map[string]string{"id": "x"})
	require.NoError(t, a.AppendChild(a.Document(), first))
	require.NoError(t, a.AppendChild(a.Document(), second))

	assert.Equal(t, first, a.ElementByID("x"))
	assert.Equal(t, None, a.ElementByID("missing"))
}

func TestNode_IsWhitespace(t *testing.T) {
	a := NewArena()
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{" \t\n", true},
		{"\u00a0", false},
		{" x ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Get(a.CreateText(tt.text)).IsWhitespace(), "%q", tt.text)
	}
	assert.False(t, a.Get(a.CreateElement("div", nil)).IsWhitespace())
}

func TestCloneSubtree(t *testing.T) {
	a := NewArena()
	div := a.CreateElement("div", map[string]string{"class": "a"})
	txt := a.CreateText("hi")
	require.NoError(t, a.AppendChild(div, txt))

	shallow := a.CloneSubtree(div, false)
	assert.Empty(t, a.Get(shallow).Children)

	deep := a.CloneSubtree(div, true)
	dn := a.Get(deep)
	require.Len(t, dn.Children, 1)
	assert.Equal(t, "hi", a.Get(dn.Children[0]).Text)
	assert.Equal(t, deep, a.Get(dn.Children[0]).Parent)
	assert.Equal(t, None, dn.Parent)

	a.Get(div).Element.Attributes["class"] = "b"
	v, _ := dn.Attr("class")
	assert.Equal(t, "a", v, "attributes are copied")
}

func TestContainsAndIndexInParent(t *testing.T) {
	a := NewArena()
	div := a.CreateElement("div", nil)
	x := a.CreateElement("x", nil)
	y := a.CreateElement("y", nil)
	require.NoError(t, a.AppendChild(div, x))
	require.NoError(t, a.AppendChild(div, y))

	assert.True(t, a.Contains(div, y))
	assert.True(t, a.Contains(div, div))
	assert.False(t, a.Contains(x, y))
	assert.Equal(t, 1, a.IndexInParent(y))
	assert.Equal(t, -1, a.IndexInParent(div))
}
