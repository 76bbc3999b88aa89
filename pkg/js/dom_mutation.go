package js

import (
	"github.com/dop251/goja"

	"boxtree/pkg/dom"
	"boxtree/pkg/html"
)

// insert places the node behind val under parent before ref, moving it out of
// its old parent first. Errors from the arena surface as script exceptions.
func (ctx *domContext) insert(op string, parent dom.NodeID, val goja.Value, ref dom.NodeID) goja.Value {
	child := ctx.unwrap(val)
	if child == dom.None {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': parameter is not a Node", op))
	}
	if err := ctx.a.InsertBefore(parent, child, ref); err != nil {
		ctx.throw(op, err)
	}
	return ctx.proxy(child)
}

// nodeOrText unwraps a node argument; anything else becomes a new text node,
// as the convenience methods (append, before, ...) require.
func (ctx *domContext) nodeOrText(val goja.Value) dom.NodeID {
	if id := ctx.unwrap(val); id != dom.None {
		return id
	}
	return ctx.a.CreateText(val.String())
}

func (e *nodeAccessor) appendChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': 1 argument required"))
		}
		return e.ctx.insert("appendChild", e.id, call.Arguments[0], dom.None)
	}
}

func (e *nodeAccessor) removeChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		child := e.ctx.unwrap(call.Argument(0))
		if child == dom.None {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': parameter is not a Node"))
		}
		if err := e.ctx.a.RemoveChild(e.id, child); err != nil {
			e.ctx.throw("removeChild", err)
		}
		return e.ctx.proxy(child)
	}
}

func (e *nodeAccessor) insertBeforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': 1 argument required"))
		}
		ref := e.ctx.unwrap(call.Argument(1))
		return e.ctx.insert("insertBefore", e.id, call.Arguments[0], ref)
	}
}

func (e *nodeAccessor) replaceChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		old := e.ctx.unwrap(call.Argument(1))
		if old == dom.None {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'replaceChild': parameter 2 is not a Node"))
		}
		e.ctx.insert("replaceChild", e.id, call.Argument(0), old)
		if err := e.ctx.a.RemoveChild(e.id, old); err != nil {
			e.ctx.throw("replaceChild", err)
		}
		return e.ctx.proxy(old)
	}
}

// detachChildren removes every child of the node. Detached nodes stay alive so
// scripts holding them can reinsert them.
func (e *nodeAccessor) detachChildren() {
	a := e.ctx.a
	n := e.node()
	for len(n.Children) > 0 {
		if err := a.RemoveChild(e.id, n.Children[len(n.Children)-1]); err != nil {
			e.ctx.throw("replaceChildren", err)
		}
	}
}

func (e *nodeAccessor) setTextContent(text string) {
	n := e.node()
	if n.Kind == dom.KindText || n.Kind == dom.KindComment {
		if err := e.ctx.a.SetText(e.id, text); err != nil {
			e.ctx.throw("textContent", err)
		}
		return
	}
	e.detachChildren()
	if text != "" {
		if err := e.ctx.a.AppendChild(e.id, e.ctx.a.CreateText(text)); err != nil {
			e.ctx.throw("textContent", err)
		}
	}
}

// setInnerHTML parses markup and replaces the node's children with the result.
func (e *nodeAccessor) setInnerHTML(markup string) {
	if e.node().Kind != dom.KindElement {
		return
	}
	e.detachChildren()
	if markup == "" {
		return
	}
	if err := html.ParseFragment(e.ctx.a, e.id, markup); err != nil {
		e.ctx.throw("innerHTML", err)
	}
}

func (e *nodeAccessor) appendFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			if err := e.ctx.a.AppendChild(e.id, e.ctx.nodeOrText(arg)); err != nil {
				e.ctx.throw("append", err)
			}
		}
		return goja.Undefined()
	}
}

func (e *nodeAccessor) prependFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		first := dom.None
		if kids := e.node().Children; len(kids) > 0 {
			first = kids[0]
		}
		for _, arg := range call.Arguments {
			if err := e.ctx.a.InsertBefore(e.id, e.ctx.nodeOrText(arg), first); err != nil {
				e.ctx.throw("prepend", err)
			}
		}
		return goja.Undefined()
	}
}

func (e *nodeAccessor) beforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node().Parent
		if parent == dom.None {
			return goja.Undefined()
		}
		for _, arg := range call.Arguments {
			if err := e.ctx.a.InsertBefore(parent, e.ctx.nodeOrText(arg), e.id); err != nil {
				e.ctx.throw("before", err)
			}
		}
		return goja.Undefined()
	}
}

func (e *nodeAccessor) afterFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		a := e.ctx.a
		parent := e.node().Parent
		if parent == dom.None {
			return goja.Undefined()
		}
		ref := dom.None
		kids := a.Get(parent).Children
		if i := a.IndexInParent(e.id); i >= 0 && i+1 < len(kids) {
			ref = kids[i+1]
		}
		for _, arg := range call.Arguments {
			if err := a.InsertBefore(parent, e.ctx.nodeOrText(arg), ref); err != nil {
				e.ctx.throw("after", err)
			}
		}
		return goja.Undefined()
	}
}

func (e *nodeAccessor) replaceWithFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node().Parent
		if parent == dom.None {
			return goja.Undefined()
		}
		for _, arg := range call.Arguments {
			if err := e.ctx.a.InsertBefore(parent, e.ctx.nodeOrText(arg), e.id); err != nil {
				e.ctx.throw("replaceWith", err)
			}
		}
		if err := e.ctx.a.RemoveChild(parent, e.id); err != nil {
			e.ctx.throw("replaceWith", err)
		}
		return goja.Undefined()
	}
}

func (e *nodeAccessor) replaceChildrenFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		e.detachChildren()
		for _, arg := range call.Arguments {
			if err := e.ctx.a.AppendChild(e.id, e.ctx.nodeOrText(arg)); err != nil {
				e.ctx.throw("replaceChildren", err)
			}
		}
		return goja.Undefined()
	}
}
