package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

func styled(t *testing.T, markup, sheet string) (*Engine, *dom.Arena) {
	t.Helper()
	a := parseDoc(t, markup)
	e := NewEngine(800, 600, zaptest.NewLogger(t))
	if sheet != "" {
		require.NoError(t, e.AddStylesheet(sheet))
	}
	e.Restyle(a)
	return e, a
}

func styleOf(a *dom.Arena, id dom.NodeID) *Style {
	s, _ := a.Get(id).Style.(*Style)
	return s
}

func TestCascade_SpecificityAndOrder(t *testing.T) {
	_, a := styled(t,
		`<div id="header" class="highlight"></div><div class="highlight"></div><div></div>`,
		`div { color: red } .highlight { color: blue } #header { color: green } div { color: gray }`)

	kids := a.Get(a.Document()).Children
	assert.Equal(t, "green", styleOf(a, kids[0]).Properties["color"])
	assert.Equal(t, "blue", styleOf(a, kids[1]).Properties["color"])
	assert.Equal(t, "gray", styleOf(a, kids[2]).Properties["color"], "later rule wins on equal specificity")
}

func TestCascade_InlineStyleWins(t *testing.T) {
	_, a := styled(t, `<p id="x" style="color: orange"></p>`, `#x { color: red }`)
	assert.Equal(t, "orange", styleOf(a, a.ElementByID("x")).Properties["color"])
}

func TestCascade_AuthorOverridesUserAgent(t *testing.T) {
	_, a := styled(t, `<div id="d"></div><span id="s"></span>`, `#d { display: inline-block }`)
	assert.Equal(t, style.Display{Outside: style.OutsideInline, Inside: style.InsideFlowRoot}, styleOf(a, a.ElementByID("d")).Display())
	assert.Equal(t, style.DisplayInline, styleOf(a, a.ElementByID("s")).Display())
}

func TestCascade_InheritanceKeywords(t *testing.T) {
	_, a := styled(t,
		`<div id="p"><span id="a"></span><span id="b"></span><span id="c"></span></div>`,
		`#p { color: red; font-size: 20px; padding-top: 3px }
		 #b { color: initial; padding-top: inherit }
		 #c { font-size: unset }`)

	sa, sb, sc := styleOf(a, a.ElementByID("a")), styleOf(a, a.ElementByID("b")), styleOf(a, a.ElementByID("c"))
	assert.Equal(t, "red", sa.Properties["color"])
	assert.NotContains(t, sa.Properties, "padding-top", "padding is not inherited")
	assert.NotContains(t, sb.Properties, "color")
	assert.Equal(t, "3px", sb.Properties["padding-top"])
	assert.Equal(t, 16.0, sc.FontSize())
}

func TestCascade_MediaRules(t *testing.T) {
	_, a := styled(t, `<p id="x"></p>`,
		`@media (max-width: 500px) { p { color: red } } @media (min-width: 500px) { p { color: blue } }`)
	assert.Equal(t, "blue", styleOf(a, a.ElementByID("x")).Properties["color"])
}

func TestCascade_PseudoElementStyles(t *testing.T) {
	_, a := styled(t,
		`<p id="a"></p><p id="b"></p><p id="c"></p><q id="q"></q>`,
		`#a::before { content: "x"; color: red }
		 #b::after { color: red }
		 #c::before { content: "y"; display: none }`)

	ps := styleOf(a, a.ElementByID("a")).Pseudo(style.PseudoBefore)
	require.NotNil(t, ps)
	assert.Equal(t, []style.ContentItem{{Kind: style.ContentString, Value: "x"}}, ps.Content())
	assert.Nil(t, styleOf(a, a.ElementByID("a")).Pseudo(style.PseudoAfter))
	assert.Nil(t, styleOf(a, a.ElementByID("b")).Pseudo(style.PseudoAfter), "no content, no pseudo-element")
	assert.Nil(t, styleOf(a, a.ElementByID("c")).Pseudo(style.PseudoBefore), "display none, no pseudo-element")

	q := styleOf(a, a.ElementByID("q"))
	assert.NotNil(t, q.Pseudo(style.PseudoBefore))
	assert.NotNil(t, q.Pseudo(style.PseudoAfter))
}

func TestRestyle_KeepsHandleWhenUnchanged(t *testing.T) {
	e, a := styled(t, `<div id="d"><p id="p">x</p></div>`, `p::before { content: "a" }`)
	d, p := a.ElementByID("d"), a.ElementByID("p")
	for id := dom.NodeID(0); int(id) < a.Cap(); id++ {
		a.ClearDamage(id, dom.DamageAll)
	}
	before := a.Get(p).Style
	pseudo := before.Pseudo(style.PseudoBefore)

	stats := e.Restyle(a)
	assert.Equal(t, 0, stats.Changed)
	assert.Same(t, before.(*Style), a.Get(p).Style.(*Style))
	assert.Same(t, pseudo.(*Style), a.Get(p).Style.Pseudo(style.PseudoBefore).(*Style))
	assert.Equal(t, dom.Damage(0), a.Get(d).Damage)
}

func TestRestyle_DamagesChangedElements(t *testing.T) {
	e, a := styled(t, `<div id="d"><p id="p">x</p><p id="q">y</p></div>`, ``)
	d, p, q := a.ElementByID("d"), a.ElementByID("p"), a.ElementByID("q")
	for id := dom.NodeID(0); int(id) < a.Cap(); id++ {
		a.ClearDamage(id, dom.DamageAll)
	}

	require.NoError(t, e.AddStylesheet(`#p { color: red }`))
	stats := e.Restyle(a)
	assert.Equal(t, 1, stats.Changed)
	assert.True(t, a.Get(p).Damage.Has(dom.DamageBox))
	assert.Equal(t, dom.DamageDescendant, a.Get(d).Damage, "color does not regroup the parent")
	assert.Equal(t, dom.Damage(0), a.Get(q).Damage)

	require.NoError(t, e.AddStylesheet(`#q { position: absolute }`))
	e.Restyle(a)
	assert.True(t, a.Get(d).Damage.Has(dom.DamageBox), "position change regroups the parent")
}

func TestRestyle_DisplayChangeReachesPastInlineAncestors(t *testing.T) {
	e, a := styled(t, `<div id="o"><div id="c"><span id="s"><b id="b">x</b></span></div></div>`, ``)
	o, c, s := a.ElementByID("o"), a.ElementByID("c"), a.ElementByID("s")
	for id := dom.NodeID(0); int(id) < a.Cap(); id++ {
		a.ClearDamage(id, dom.DamageAll)
	}

	require.NoError(t, e.AddStylesheet(`#b { display: block }`))
	e.Restyle(a)
	assert.True(t, a.Get(s).Damage.Has(dom.DamageBox))
	assert.True(t, a.Get(c).Damage.Has(dom.DamageBox), "the block holding the span regroups")
	assert.Equal(t, dom.DamageDescendant, a.Get(o).Damage)
}
