package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxtree/pkg/dom"
)

func children(doc *Document, id dom.NodeID) []*dom.Node {
	var out []*dom.Node
	for _, c := range doc.Arena.Get(id).Children {
		out = append(out, doc.Arena.Get(c))
	}
	return out
}

func TestParser_SingleElement(t *testing.T) {
	doc, err := Parse("<div></div>")
	require.NoError(t, err)

	kids := children(doc, doc.Root())
	require.Len(t, kids, 1)
	assert.Equal(t, "div", kids[0].TagName())
}

func TestParser_WithAttributes(t *testing.T) {
	doc, err := Parse(`<div style="color: red" ID="x"></div>`)
	require.NoError(t, err)

	div := children(doc, doc.Root())[0]
	v, ok := div.Attr("style")
	assert.True(t, ok)
	assert.Equal(t, "color: red", v)
	v, _ = div.Attr("id")
	assert.Equal(t, "x", v, "attribute names are lower-cased")
}

func TestParser_NestedElements(t *testing.T) {
	doc, err := Parse(`<div><section><p>Deep</p></section></div>`)
	require.NoError(t, err)

	div := children(doc, doc.Root())[0]
	section := children(doc, div.ID)[0]
	p := children(doc, section.ID)[0]
	txt := children(doc, p.ID)
	require.Len(t, txt, 1)
	assert.Equal(t, dom.KindText, txt[0].Kind)
	assert.Equal(t, "Deep", txt[0].Text)

	assert.Equal(t, section.ID, p.Parent)
	assert.Equal(t, doc.Root(), div.Parent)
}

func TestParser_KeepsWhitespaceText(t *testing.T) {
	doc, err := Parse("<div> <p>a</p>\n</div>")
	require.NoError(t, err)

	kids := children(doc, children(doc, doc.Root())[0].ID)
	require.Len(t, kids, 3)
	assert.Equal(t, " ", kids[0].Text)
	assert.Equal(t, "p", kids[1].TagName())
	assert.Equal(t, "\n", kids[2].Text)
}

func TestParser_DecodesEntitiesAndMergesText(t *testing.T) {
	doc, err := Parse(`<p>a &amp; b<!--c-->d</p>`)
	require.NoError(t, err)

	kids := children(doc, children(doc, doc.Root())[0].ID)
	require.Len(t, kids, 3)
	assert.Equal(t, "a & b", kids[0].Text)
	assert.Equal(t, dom.KindComment, kids[1].Kind)
	assert.Equal(t, "d", kids[2].Text)
}

func TestParser_VoidAndSelfClosing(t *testing.T) {
	doc, err := Parse(`<p>a<br>b<img src="x.png"/>c</p>`)
	require.NoError(t, err)

	kids := children(doc, children(doc, doc.Root())[0].ID)
	var tags []string
	for _, k := range kids {
		if k.Kind == dom.KindText {
			tags = append(tags, "#"+k.Text)
			continue
		}
		tags = append(tags, k.TagName())
	}
	assert.Equal(t, []string{"#a", "br", "#b", "img", "#c"}, tags)
}

func TestParser_AutoClosesParagraph(t *testing.T) {
	doc, err := Parse(`<p>one<div>two</div>`)
	require.NoError(t, err)

	kids := children(doc, doc.Root())
	require.Len(t, kids, 2)
	assert.Equal(t, "p", kids[0].TagName())
	assert.Equal(t, "div", kids[1].TagName())
}

func TestParser_StrayEndTagIgnored(t *testing.T) {
	doc, err := Parse(`<div>a</span>b</div>`)
	require.NoError(t, err)

	div := children(doc, doc.Root())[0]
	assert.Equal(t, "ab", doc.Arena.TextContent(div.ID))
}

func TestParser_StyleAndScriptExtracted(t *testing.T) {
	doc, err := Parse(`
		<style>div > p { color: red; }</style>
		<div></div>
		<script>if (a < b) { x(); }</script>
	`)
	require.NoError(t, err)

	for _, n := range children(doc, doc.Root()) {
		assert.NotContains(t, []string{"style", "script"}, n.TagName())
	}
	assert.Equal(t, []string{"div > p { color: red; }"}, doc.Stylesheets)
	assert.Equal(t, []string{"if (a < b) { x(); }"}, doc.Scripts)
}

func TestParser_LinkDataStylesheet(t *testing.T) {
	doc, err := Parse(`<link rel="stylesheet" href="data:text/css,p%20%7B%20color%3A%20red%20%7D">`)
	require.NoError(t, err)
	assert.Equal(t, []string{"p { color: red }"}, doc.Stylesheets)
}

func TestParser_SkipsDoctype(t *testing.T) {
	doc, err := Parse("<!DOCTYPE html><html><body></body></html>")
	require.NoError(t, err)

	kids := children(doc, doc.Root())
	require.Len(t, kids, 1)
	assert.Equal(t, "html", kids[0].TagName())
}

func TestParseFragment(t *testing.T) {
	doc, err := Parse(`<div id="host">old</div>`)
	require.NoError(t, err)
	host := doc.Arena.ElementByID("host")

	require.NoError(t, ParseFragment(doc.Arena, host, "<b>new</b> text"))
	assert.Equal(t, "oldnew text", doc.Arena.TextContent(host))
	assert.Equal(t, dom.ErrNoNode, ParseFragment(doc.Arena, 999, "<b></b>"))
}
