package js

import (
	"github.com/dop251/goja"

	"boxtree/pkg/css"
	"boxtree/pkg/dom"
)

// registerQuerySelectors adds querySelector and querySelectorAll to the
// document object.
func registerQuerySelectors(ctx *domContext, obj *goja.Object, root dom.NodeID) {
	obj.Set("querySelector", querySelectorFn(ctx, root))
	obj.Set("querySelectorAll", querySelectorAllFn(ctx, root))
}

func querySelectorFn(ctx *domContext, root dom.NodeID) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelector': 1 argument required"))
		}
		found := css.QuerySelectorAll(ctx.a, root, call.Arguments[0].String())
		if len(found) == 0 {
			return goja.Null()
		}
		return ctx.proxy(found[0])
	}
}

func querySelectorAllFn(ctx *domContext, root dom.NodeID) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelectorAll': 1 argument required"))
		}
		return ctx.nodeArray(css.QuerySelectorAll(ctx.a, root, call.Arguments[0].String()))
	}
}

func matchesFn(ctx *domContext, id dom.NodeID) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'matches': 1 argument required"))
		}
		return ctx.vm.ToValue(css.Matches(ctx.a, id, call.Arguments[0].String()))
	}
}

// closestFn walks from the element up through its ancestors and returns the
// first that matches.
func closestFn(ctx *domContext, id dom.NodeID) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'closest': 1 argument required"))
		}
		selectors := call.Arguments[0].String()
		for _, cur := range append([]dom.NodeID{id}, ctx.a.Ancestors(id)...) {
			if n := ctx.a.Get(cur); n.Kind == dom.KindElement && css.Matches(ctx.a, cur, selectors) {
				return ctx.proxy(cur)
			}
		}
		return goja.Null()
	}
}
