package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxtree/pkg/dom"
)

func labels(a *dom.Arena, ids []dom.NodeID) []string {
	var out []string
	for _, id := range ids {
		out = append(out, Label(a.Get(id)))
	}
	return out
}

func contextLabels(a *dom.Arena, list []*StackingContext) []string {
	var out []string
	for _, sc := range list {
		out = append(out, Label(a.Get(sc.Node)))
	}
	return out
}

func TestPaintOrder_LayersAndStackingContexts(t *testing.T) {
	f := newFixture(t, `<div id="root">`+
		`<div id="a" style="position:relative;z-index:2"><div id="a1" style="position:absolute;z-index:5"></div></div>`+
		`<div id="e" style="position:relative;z-index:1"></div>`+
		`<div id="b" style="float:left"></div>`+
		`<div id="c"></div>`+
		`<div id="d" style="position:absolute"></div>`+
		`<div id="n" style="position:relative;z-index:-1"></div>`+
		`<div id="z" style="position:relative;z-index:0"></div>`+
		`</div>`, "")

	po := BuildPaintOrder(f.a, f.a.Document())

	assert.Equal(t, []string{"div#root"}, labels(f.a, po.Children(f.a.Document())))
	assert.Equal(t, []string{"div#c", "div#z", "div#b", "div#d"}, labels(f.a, po.Children(f.id("root"))))

	assert.Equal(t, []string{"div#n"}, contextLabels(f.a, po.Root.Negative))
	assert.Equal(t, []string{"div#z"}, contextLabels(f.a, po.Root.Zero))
	assert.Equal(t, []string{"div#e", "div#a"}, contextLabels(f.a, po.Root.Positive))

	ctx := po.Context(f.id("a"))
	require.NotNil(t, ctx)
	assert.Equal(t, 2, ctx.ZIndex)
	assert.Equal(t, []string{"div#a1"}, contextLabels(f.a, ctx.Positive))
	assert.Nil(t, po.Children(f.id("a")), "a1 is painted by its context")
	assert.Nil(t, po.Context(f.id("c")))
	assert.Nil(t, po.Context(f.id("d")), "no z-index, no context")
}

func TestPaintOrder_FlexItemsFollowOrder(t *testing.T) {
	f := newFixture(t, `<div id="f" style="display:flex">`+
		`<div id="x" style="order:2"></div><div id="y"></div><div id="w" style="order:-1"></div></div>`, "")

	po := BuildPaintOrder(f.a, f.a.Document())
	assert.Equal(t, []string{"div#w", "div#y", "div#x"}, labels(f.a, po.Children(f.id("f"))))
}

func TestPaintOrder_LeavesMembersAlone(t *testing.T) {
	f := newFixture(t, `<div id="root"><div id="d" style="position:absolute"></div><div id="c"></div></div>`, "")
	members := append([]dom.NodeID(nil), LayoutMembers(f.a, f.id("root"))...)

	po := BuildPaintOrder(f.a, f.a.Document())
	assert.Equal(t, []string{"div#c", "div#d"}, labels(f.a, po.Children(f.id("root"))))
	assert.Equal(t, members, LayoutMembers(f.a, f.id("root")))
}

func TestDump(t *testing.T) {
	f := newFixture(t,
		`<div id="c" class="k j"><div id="a"></div>t<table id="t"><tr><td>x</td></tr></table></div>`+
			`<p id="p">a <span id="ib" style="display:inline-block">b</span> c<img id="im" width="10" height="5"><br>d`+
			`<span id="fl" style="float:left">f</span></p>`, "")

	want := `#document
  div#c.k.j
    div#a
    anonymous inline "t"
    table#t table cols=1 rows=1
      td inline "x"
  p#p inline "a  c\nd"
    span#ib inline "b" atomic@2
    img#im atomic@4
    span#fl inline "f" atomic@6 float
`
	assert.Equal(t, want, Dump(f.a, f.a.Document()))
}

func TestLabel(t *testing.T) {
	a := dom.NewArena()
	div := a.CreateElement("div", nil)
	tests := []struct {
		id   dom.NodeID
		want string
	}{
		{a.Document(), "#document"},
		{a.CreateText("hi"), `"hi"`},
		{a.CreateComment("c"), "<!--c-->"},
		{a.CreateAnonymousBlock(div, dom.FromAnonymous), "anonymous"},
		{a.CreateElement("span", map[string]string{"id": "s", "class": " a  b "}), "span#s.a.b"},
		{div, "div"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(a.Get(tt.id)))
	}
}

func TestInvalidateInlineContexts(t *testing.T) {
	f := newFixture(t,
		`<div id="c"><div id="a"></div>t</div><p id="p">a<span id="ib" style="display:inline-block">b</span></p>`, "")
	old := paragraphOf(t, f, "p")

	assert.Equal(t, 3, InvalidateInlineContexts(f.a))
	assert.True(t, f.node("c").Damage.Has(dom.DamageBox), "wrapper's owner damaged instead")
	assert.True(t, f.node("p").Damage.Has(dom.DamageBox))

	stats := f.resolve()
	assert.Equal(t, 3, stats.InlineRoots)
	assert.NotSame(t, old, paragraphOf(t, f, "p"))
	assert.Equal(t, "a", paragraphOf(t, f, "p").Text)
}

func TestInvalidateInlineContexts_SkipsDetached(t *testing.T) {
	f := newFixture(t, `<div id="c"><div id="a"></div>t</div><p id="p">a<span id="ib" style="display:inline-block">b</span></p>`, "")

	require.NoError(t, f.a.RemoveChild(f.a.Document(), f.id("c")))
	assert.Equal(t, 2, InvalidateInlineContexts(f.a))
}
