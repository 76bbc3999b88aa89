package js

import (
	"github.com/dop251/goja"

	"boxtree/pkg/dom"
)

func (e *nodeAccessor) firstChild() goja.Value {
	kids := e.node().Children
	if len(kids) == 0 {
		return goja.Null()
	}
	return e.ctx.proxy(kids[0])
}

func (e *nodeAccessor) lastChild() goja.Value {
	kids := e.node().Children
	if len(kids) == 0 {
		return goja.Null()
	}
	return e.ctx.proxy(kids[len(kids)-1])
}

func (e *nodeAccessor) firstElementChild() goja.Value {
	for _, c := range e.node().Children {
		if e.ctx.a.Get(c).Kind == dom.KindElement {
			return e.ctx.proxy(c)
		}
	}
	return goja.Null()
}

func (e *nodeAccessor) lastElementChild() goja.Value {
	kids := e.node().Children
	for i := len(kids) - 1; i >= 0; i-- {
		if e.ctx.a.Get(kids[i]).Kind == dom.KindElement {
			return e.ctx.proxy(kids[i])
		}
	}
	return goja.Null()
}

// sibling steps through the parent's children in direction dir, optionally
// skipping everything but elements.
func (e *nodeAccessor) sibling(dir int, elementsOnly bool) goja.Value {
	a := e.ctx.a
	parent := a.Get(e.node().Parent)
	if parent == nil {
		return goja.Null()
	}
	i := a.IndexInParent(e.id)
	if i < 0 {
		return goja.Null()
	}
	for i += dir; i >= 0 && i < len(parent.Children); i += dir {
		c := parent.Children[i]
		if !elementsOnly || a.Get(c).Kind == dom.KindElement {
			return e.ctx.proxy(c)
		}
	}
	return goja.Null()
}

// registerDocumentProperties adds documentElement, head and body. They are
// looked up when the script starts; documents without those elements get
// null, and body falls back to the first element so fragments still work.
func registerDocumentProperties(ctx *domContext, docObj *goja.Object) {
	a := ctx.a
	find := func(tag string) dom.NodeID {
		found := elementsByTagName(a, a.Document(), tag)
		if len(found) == 0 {
			return dom.None
		}
		return found[0]
	}

	docObj.Set("documentElement", ctx.proxyOrNull(find("html")))
	docObj.Set("head", ctx.proxyOrNull(find("head")))

	body := find("body")
	if body == dom.None {
		for _, c := range a.Get(a.Document()).Children {
			if a.Get(c).Kind == dom.KindElement {
				body = c
				break
			}
		}
	}
	docObj.Set("body", ctx.proxyOrNull(body))
	docObj.Set("childNodes", ctx.nodeArray(a.Get(a.Document()).Children))
}
