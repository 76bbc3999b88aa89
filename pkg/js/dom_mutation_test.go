package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxtree/pkg/dom"
)

func TestAppendChildMovesNode(t *testing.T) {
	e, doc := setup(t, `<div id="a"><span id="s"></span></div><div id="b"></div>`)
	a := doc.Arena
	settle(a)

	eval(t, e, `document.getElementById("b").appendChild(document.getElementById("s"))`)

	assert.Empty(t, a.Get(a.ElementByID("a")).Children)
	assert.Equal(t, `<span id="s"></span>`, a.InnerHTML(a.ElementByID("b")))
	assert.True(t, a.Get(a.ElementByID("a")).Damage.Has(dom.DamageBox), "old parent is damaged too")
	assert.True(t, a.Get(a.ElementByID("b")).Damage.Has(dom.DamageBox))
}

func TestRemoveChildKeepsNodeAlive(t *testing.T) {
	e, doc := setup(t, `<div id="a"><span id="s">x</span></div>`)
	a := doc.Arena
	s := a.ElementByID("s")

	assert.Equal(t, false, eval(t, e, `
		var s = document.getElementById("s");
		document.getElementById("a").removeChild(s);
		s.isConnected;
	`))
	require.NotNil(t, a.Get(s))
	assert.False(t, a.Get(s).HasFlag(dom.FlagInDocument))

	eval(t, e, `document.getElementById("a").appendChild(s)`)
	assert.True(t, a.Connected(s))
}

func TestInsertBeforeAndReplaceChild(t *testing.T) {
	e, doc := setup(t, `<ul id="l"><li id="one"></li><li id="three"></li></ul>`)
	a := doc.Arena

	eval(t, e, `
		var l = document.getElementById("l");
		var two = document.createElement("li");
		two.id = "two";
		l.insertBefore(two, document.getElementById("three"));
		var last = document.createElement("li");
		last.id = "end";
		l.insertBefore(last, null);
	`)
	assert.Equal(t, `<li id="one"></li><li id="two"></li><li id="three"></li><li id="end"></li>`,
		a.InnerHTML(a.ElementByID("l")))

	assert.Equal(t, "three", eval(t, e, `
		var n = document.createElement("li");
		n.id = "3";
		l.replaceChild(n, document.getElementById("three")).id;
	`))
	assert.Equal(t, `<li id="one"></li><li id="two"></li><li id="3"></li><li id="end"></li>`,
		a.InnerHTML(a.ElementByID("l")))
}

func TestMutationErrorsThrow(t *testing.T) {
	e, _ := setup(t, `<div id="outer"><div id="inner"></div></div><p id="p"></p>`)

	assert.Equal(t, "TypeError", eval(t, e, `
		var caught = "";
		try {
			document.getElementById("inner").appendChild(document.getElementById("outer"));
		} catch (err) { caught = err.name; }
		caught;
	`))
	assert.Equal(t, "TypeError", eval(t, e, `
		caught = "";
		try { document.getElementById("p").appendChild("text"); } catch (err) { caught = err.name; }
		caught;
	`))
	assert.Equal(t, "TypeError", eval(t, e, `
		caught = "";
		try {
			document.getElementById("p").insertBefore(document.createElement("i"), document.getElementById("inner"));
		} catch (err) { caught = err.name; }
		caught;
	`))
}

func TestTextContentAndInnerHTML(t *testing.T) {
	e, doc := setup(t, `<div id="d"><b>old</b></div>`)
	a := doc.Arena
	d := a.ElementByID("d")
	old := a.Get(d).Children[0]

	eval(t, e, `document.getElementById("d").textContent = "a < b"`)
	assert.Equal(t, "a &lt; b", a.InnerHTML(d))
	assert.NotNil(t, a.Get(old), "detached children stay in the arena")

	eval(t, e, `document.getElementById("d").innerHTML = "<i>x</i>y"`)
	assert.Equal(t, "<i>x</i>y", eval(t, e, `document.getElementById("d").innerHTML`))
	assert.Equal(t, "xy", eval(t, e, `document.getElementById("d").textContent`))
	assert.Equal(t, `<div id="d"><i>x</i>y</div>`, eval(t, e, `document.getElementById("d").outerHTML`))

	eval(t, e, `document.getElementById("d").innerHTML = ""`)
	assert.Empty(t, a.Get(d).Children)
}

func TestTextNodeData(t *testing.T) {
	e, doc := setup(t, `<p id="p">one</p>`)
	a := doc.Arena
	settle(a)

	assert.EqualValues(t, 3, eval(t, e, `
		var t = document.getElementById("p").firstChild;
		t.data = "two";
		t.nodeType;
	`))
	text := a.Get(a.ElementByID("p")).Children[0]
	assert.Equal(t, "two", a.Get(text).Text)
	assert.True(t, a.Get(text).Damage.Has(dom.DamageBox))
	assert.Equal(t, "#text", eval(t, e, `t.nodeName`))
}

func TestConvenienceInsertion(t *testing.T) {
	e, doc := setup(t, `<div id="d"><i id="i"></i></div>`)
	a := doc.Arena
	d := a.ElementByID("d")

	eval(t, e, `
		var d = document.getElementById("d");
		var i = document.getElementById("i");
		d.prepend("a", "b");
		d.append("z");
		i.before("<");
		i.after(">", document.createElement("br"));
	`)
	assert.Equal(t, `ab&lt;<i id="i"></i>&gt;<br>z`, a.InnerHTML(d))

	eval(t, e, `i.replaceWith("I")`)
	assert.Equal(t, `ab&lt;I&gt;<br>z`, a.InnerHTML(d))
	assert.Equal(t, false, eval(t, e, `i.isConnected`))

	eval(t, e, `d.replaceChildren(i, "!")`)
	assert.Equal(t, `<i id="i"></i>!`, a.InnerHTML(d))

	eval(t, e, `i.remove()`)
	assert.Equal(t, `!`, a.InnerHTML(d))
}

func TestCloneNode(t *testing.T) {
	e, doc := setup(t, `<div id="d" class="k"><span>x</span></div>`)
	a := doc.Arena

	eval(t, e, `
		var d = document.getElementById("d");
		var shallow = d.cloneNode(false);
		var deep = d.cloneNode(true);
		deep.id = "copy";
		document.appendChild(deep);
	`)
	assert.EqualValues(t, 0, eval(t, e, `shallow.childNodes.length`))
	assert.Equal(t, false, eval(t, e, `shallow.isConnected`))
	copied := a.ElementByID("copy")
	require.NotEqual(t, dom.None, copied)
	assert.Equal(t, `<span>x</span>`, a.InnerHTML(copied))
	assert.Equal(t, "k", eval(t, e, `deep.className`))
}

func TestAttributes(t *testing.T) {
	e, doc := setup(t, `<td id="c" colspan="1">x</td>`)
	a := doc.Arena
	settle(a)

	eval(t, e, `
		var c = document.getElementById("c");
		c.setAttribute("COLSPAN", "2");
	`)
	c := a.Get(a.ElementByID("c"))
	v, _ := c.Attr("colspan")
	assert.Equal(t, "2", v)
	assert.True(t, c.Damage.Has(dom.DamageBox))

	assert.Equal(t, "2", eval(t, e, `c.getAttribute("colspan")`))
	assert.Nil(t, eval(t, e, `c.getAttribute("rowspan")`))
	assert.Equal(t, false, eval(t, e, `c.removeAttribute("colspan"); c.hasAttribute("colspan")`))
}

func TestStyleProperty(t *testing.T) {
	e, doc := setup(t, `<div id="d" style="display: block"></div>`)
	a := doc.Arena
	settle(a)

	eval(t, e, `
		var d = document.getElementById("d");
		d.style.marginTop = "4px";
		d.style.cssFloat = "left";
		d.style.display = "";
	`)
	v, _ := a.Get(a.ElementByID("d")).Attr("style")
	assert.Equal(t, "float: left; margin-top: 4px", v)
	assert.True(t, a.Get(a.ElementByID("d")).Damage.Has(dom.DamageBox))
	assert.Equal(t, "left", eval(t, e, `d.style.float`))
	assert.Equal(t, "4px", eval(t, e, `d.style.marginTop`))
}
