package js

import (
	"slices"
	"strings"

	"github.com/dop251/goja"
)

// newClassListProxy creates a DOMTokenList view over an element's class
// attribute. Every write goes through the arena so the element is damaged.
func newClassListProxy(e *nodeAccessor) goja.Value {
	return e.ctx.vm.NewDynamicObject(&classList{el: e})
}

type classList struct {
	el *nodeAccessor
}

func (cl *classList) tokens() []string {
	v, _ := cl.el.node().Attr("class")
	return strings.Fields(v)
}

func (cl *classList) write(op string, tokens []string) {
	cl.el.setAttr(op, "class", strings.Join(tokens, " "))
}

func (cl *classList) Get(key string) goja.Value {
	vm := cl.el.ctx.vm
	tokens := cl.tokens()

	switch key {
	case "length":
		return vm.ToValue(len(tokens))
	case "value":
		return vm.ToValue(strings.Join(tokens, " "))
	case "add":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls := cl.tokens()
			for _, arg := range call.Arguments {
				if t := arg.String(); !containsToken(cls, t) {
					cls = append(cls, t)
				}
			}
			cl.write("add", cls)
			return goja.Undefined()
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls := cl.tokens()
			for _, arg := range call.Arguments {
				cls = removeToken(cls, arg.String())
			}
			cl.write("remove", cls)
			return goja.Undefined()
		})
	case "toggle":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'toggle': 1 argument required"))
			}
			token := call.Arguments[0].String()
			cls := cl.tokens()
			want := !containsToken(cls, token)
			if len(call.Arguments) > 1 {
				want = call.Arguments[1].ToBoolean()
			}
			if want {
				if !containsToken(cls, token) {
					cls = append(cls, token)
				}
			} else {
				cls = removeToken(cls, token)
			}
			cl.write("toggle", cls)
			return vm.ToValue(want)
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(len(call.Arguments) > 0 && containsToken(tokens, call.Arguments[0].String()))
		})
	case "replace":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'replace': 2 arguments required"))
			}
			cls := cl.tokens()
			i := slices.Index(cls, call.Arguments[0].String())
			if i < 0 {
				return vm.ToValue(false)
			}
			cls[i] = call.Arguments[1].String()
			cl.write("replace", cls)
			return vm.ToValue(true)
		})
	case "item":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			i := int(call.Argument(0).ToInteger())
			if i < 0 || i >= len(tokens) {
				return goja.Null()
			}
			return vm.ToValue(tokens[i])
		})
	case "toString":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(strings.Join(tokens, " "))
		})
	}
	if i, ok := index(key); ok && i < len(tokens) {
		return vm.ToValue(tokens[i])
	}
	return goja.Undefined()
}

func (cl *classList) Set(key string, val goja.Value) bool {
	if key != "value" {
		return false
	}
	cl.el.setAttr("classList", "class", val.String())
	return true
}

func (cl *classList) Has(key string) bool {
	if slices.Contains(classListKeys, key) {
		return true
	}
	i, ok := index(key)
	return ok && i < len(cl.tokens())
}

func (cl *classList) Delete(string) bool { return false }

func (cl *classList) Keys() []string { return classListKeys }

var classListKeys = []string{
	"length", "value", "add", "remove", "toggle",
	"contains", "replace", "item", "toString",
}

func containsToken(tokens []string, token string) bool {
	return slices.Contains(tokens, token)
}

func removeToken(tokens []string, token string) []string {
	return slices.DeleteFunc(tokens, func(t string) bool { return t == token })
}
