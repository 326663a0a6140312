package js

import (
	"github.com/chrisuehlinger/videostory/dom"
	"github.com/dop251/goja"
)

// DOMBinder exposes a dom.Document to scripts. Element handles carry the Go
// element in a _goElement property, so a handle passed back from a script
// resolves to the same *dom.Element.
type DOMBinder struct {
	runtime  *Runtime
	document *dom.Document
	nodeMap  map[*dom.Node]*goja.Object // same JS object for the same element
}

// NewDOMBinder creates a binder for runtime.
func NewDOMBinder(runtime *Runtime) *DOMBinder {
	return &DOMBinder{
		runtime: runtime,
		nodeMap: make(map[*dom.Node]*goja.Object),
	}
}

// BindDocument installs doc as the global document.
func (b *DOMBinder) BindDocument(doc *dom.Document) *goja.Object {
	vm := b.runtime.vm
	b.document = doc
	jsDoc := vm.NewObject()
	jsDoc.Set("_goDoc", doc)
	jsDoc.Set("nodeType", int(dom.DocumentNode))

	jsDoc.DefineAccessorProperty("URL", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.URL())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("title", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.Title())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("head", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.elementValue(doc.Head())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("body", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.elementValue(doc.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return b.elementValue(doc.GetElementById(call.Arguments[0].String()))
	})
	jsDoc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return b.elementValue(doc.QuerySelector(call.Arguments[0].String()))
	})
	jsDoc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.NewArray()
		}
		return b.elementList(doc.QuerySelectorAll(call.Arguments[0].String()))
	})
	jsDoc.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.NewArray()
		}
		return b.elementList(doc.GetElementsByTagName(call.Arguments[0].String()))
	})
	jsDoc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("createElement: tag name required"))
		}
		return b.BindElement(doc.CreateElement(call.Arguments[0].String()))
	})

	vm.Set("document", jsDoc)
	return jsDoc
}

// Document returns the bound document, or nil.
func (b *DOMBinder) Document() *dom.Document {
	return b.document
}

func (b *DOMBinder) elementValue(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return b.BindElement(el)
}

func (b *DOMBinder) elementList(els []*dom.Element) goja.Value {
	vals := make([]interface{}, len(els))
	for i, el := range els {
		vals[i] = b.BindElement(el)
	}
	return b.runtime.vm.NewArray(vals...)
}

// BindElement returns the handle for el.
func (b *DOMBinder) BindElement(el *dom.Element) *goja.Object {
	if el == nil {
		return nil
	}
	node := el.AsNode()
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsEl := vm.NewObject()
	jsEl.Set("_goElement", el)
	jsEl.Set("nodeType", int(dom.ElementNode))

	jsEl.DefineAccessorProperty("tagName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.TagName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("id", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Id())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetId(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("className", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ClassName())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetClassName(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.TextContent())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetTextContent(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("innerHTML", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.InnerHTML())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			if err := el.SetInnerHTML(call.Arguments[0].String()); err != nil {
				panic(vm.NewGoError(err))
			}
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("parentNode", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.elementValue(el.AsNode().ParentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || !el.HasAttribute(call.Arguments[0].String()) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(call.Arguments[0].String()))
	})
	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 2 {
			el.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
		}
		return goja.Undefined()
	})
	jsEl.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("appendChild: argument required"))
		}
		child := b.GoElement(call.Arguments[0])
		if child == nil {
			panic(vm.NewTypeError("appendChild: argument is not an element"))
		}
		if _, err := el.AsNode().AppendChildWithError(child.AsNode()); err != nil {
			panic(vm.NewGoError(err))
		}
		return call.Arguments[0]
	})
	jsEl.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return b.elementValue(el.QuerySelector(call.Arguments[0].String()))
	})

	b.nodeMap[node] = jsEl
	return jsEl
}

// GoElement returns the element behind a handle, or nil if v is not one.
func (b *DOMBinder) GoElement(v goja.Value) *dom.Element {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	ref := obj.Get("_goElement")
	if ref == nil || goja.IsUndefined(ref) {
		return nil
	}
	el, _ := ref.Export().(*dom.Element)
	return el
}
