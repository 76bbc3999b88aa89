package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const selectorDoc = `<div id="root" class="box">
	<ul class="list"><li class="item first">a</li><li class="item">b</li></ul>
	<p id="p"><span class="item">c</span></p>
</div>`

func TestQuerySelector(t *testing.T) {
	e, _ := setup(t, selectorDoc)

	assert.Equal(t, "a", eval(t, e, `document.querySelector(".item").textContent`))
	assert.Nil(t, eval(t, e, `document.querySelector(".missing")`))
	assert.EqualValues(t, 3, eval(t, e, `document.querySelectorAll(".item").length`))
	assert.EqualValues(t, 2, eval(t, e, `document.querySelectorAll("li.item, #nope").length`))
	assert.Equal(t, "SPAN", eval(t, e, `document.querySelector("p > .item").tagName`))
}

func TestElementQuerySelectorExcludesSelf(t *testing.T) {
	e, _ := setup(t, selectorDoc)

	assert.EqualValues(t, 2, eval(t, e, `document.querySelector("ul").querySelectorAll(".item").length`))
	assert.Nil(t, eval(t, e, `document.getElementById("p").querySelector("p")`))
}

func TestMatchesAndClosest(t *testing.T) {
	e, _ := setup(t, selectorDoc)

	assert.Equal(t, true, eval(t, e, `document.querySelector("li").matches(".first")`))
	assert.Equal(t, true, eval(t, e, `document.querySelector("li").matches("span, .list > li")`))
	assert.Equal(t, false, eval(t, e, `document.querySelector("li").matches("p *")`))

	assert.Equal(t, "root", eval(t, e, `document.querySelector("span").closest(".box").id`))
	assert.Equal(t, "SPAN", eval(t, e, `document.querySelector("span").closest(".item").tagName`))
	assert.Nil(t, eval(t, e, `document.querySelector("span").closest("ul")`))
}

func TestSelectorArgumentRequired(t *testing.T) {
	e, _ := setup(t, selectorDoc)
	_, err := e.Value(`document.querySelector()`)
	assert.Error(t, err)
}
