package script

import (
	"fmt"
	"strconv"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
	"github.com/chrisuehlinger/turbo/geom"
	"github.com/chrisuehlinger/turbo/turbo"
)

func (r *Runtime) setupTurbo() {
	t := r.vm.NewObject()
	doc := r.mgr.Document()
	t.Set("document", r.bindNode(doc.AsNode()))

	t.Set("query", func(call goja.FunctionCall) goja.Value {
		el := doc.QuerySelector(call.Argument(0).String())
		if el == nil {
			return goja.Null()
		}
		return r.bindNode(el.AsNode())
	})

	t.Set("on", func(call goja.FunctionCall) goja.Value {
		target := r.nodeArg(call.Argument(0))
		kind := r.kindArg(call.Argument(1))
		fn := r.funcArg(call.Argument(2))
		id := r.mgr.OnKind(target, kind, r.listener(fn), r.listenOptions(call.Argument(3))...)
		return r.vm.ToValue(int(id))
	})

	t.Set("off", func(call goja.FunctionCall) goja.Value {
		target := r.nodeArg(call.Argument(0))
		kind := r.kindArg(call.Argument(1))
		id := event.ListenerID(call.Argument(2).ToInteger())
		return r.vm.ToValue(r.mgr.Off(target, r.mgr.Name(kind), id))
	})

	t.Set("addTool", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		el := r.elementArg(call.Argument(1))
		key := ""
		if k := call.Argument(2); !goja.IsUndefined(k) {
			key = k.String()
		}
		r.mgr.AddTool(name, el, key)
		return goja.Undefined()
	})

	t.Set("removeTool", func(call goja.FunctionCall) goja.Value {
		r.mgr.RemoveTool(call.Argument(0).String(), r.elementArg(call.Argument(1)))
		return goja.Undefined()
	})

	t.Set("setTool", func(call goja.FunctionCall) goja.Value {
		r.mgr.SetTool(call.Argument(0).String(), r.modeArg(call.Argument(1)))
		return goja.Undefined()
	})

	t.Set("currentTool", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(r.mgr.CurrentTool(r.modeArg(call.Argument(0))))
	})

	t.Set("mapKey", func(call goja.FunctionCall) goja.Value {
		r.mgr.MapKeyToTool(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})

	t.Set("addToolBehavior", func(call goja.FunctionCall) goja.Value {
		tool := call.Argument(0).String()
		kind := r.kindArg(call.Argument(1))
		fn := r.funcArg(call.Argument(2))
		id := r.mgr.AddToolBehavior(tool, r.mgr.Name(kind), r.behavior(fn), r.listenOptions(call.Argument(3))...)
		return r.vm.ToValue(int(id))
	})

	t.Set("removeToolBehavior", func(call goja.FunctionCall) goja.Value {
		tool := call.Argument(0).String()
		kind := r.kindArg(call.Argument(1))
		id := event.ListenerID(call.Argument(2).ToInteger())
		return r.vm.ToValue(r.mgr.RemoveToolBehavior(tool, r.mgr.Name(kind), id))
	})

	t.Set("ignoreTool", func(call goja.FunctionCall) goja.Value {
		target := r.nodeArg(call.Argument(0))
		var types []string
		for _, v := range call.Arguments[min(3, len(call.Arguments)):] {
			types = append(types, r.mgr.Name(r.kindArg(v)))
		}
		r.mgr.IgnoreTool(target, call.Argument(1).String(), call.Argument(2).ToBoolean(), types...)
		return goja.Undefined()
	})

	t.Set("lock", func(call goja.FunctionCall) goja.Value {
		r.mgr.Lock(r.nodeArg(call.Argument(0)), r.flagsArg(call.Argument(1)))
		return goja.Undefined()
	})

	t.Set("unlock", func(call goja.FunctionCall) goja.Value {
		r.mgr.Unlock()
		return goja.Undefined()
	})

	t.Set("dispatch", func(call goja.FunctionCall) goja.Value {
		el := r.elementArg(call.Argument(0))
		kind := r.kindArg(call.Argument(1))
		pos := geom.Pt(call.Argument(2).ToFloat(), call.Argument(3).ToFloat())
		ev := r.mgr.Dispatch(el, kind, pos, nil)
		if ev == nil {
			return goja.Null()
		}
		return r.bindEvent(ev)
	})

	t.Set("keys", func(call goja.FunctionCall) goja.Value {
		return r.stringArray(r.mgr.Keys())
	})

	r.vm.Set("turbo", t)
}

func (r *Runtime) throwType(format string, args ...any) {
	panic(r.vm.NewTypeError(fmt.Sprintf(format, args...)))
}

func (r *Runtime) nodeArg(v goja.Value) *dom.Node {
	if s, ok := v.Export().(string); ok {
		el := r.mgr.Document().QuerySelector(s)
		if el == nil {
			r.throwType("turbo: no element matches %q", s)
		}
		return el.AsNode()
	}
	if obj, ok := v.(*goja.Object); ok {
		if n, ok := r.objects[obj]; ok {
			return n
		}
	}
	r.throwType("turbo: %s is not a node", v)
	return nil
}

func (r *Runtime) elementArg(v goja.Value) *dom.Element {
	el, ok := r.nodeArg(v).AsElement()
	if !ok {
		r.throwType("turbo: %s is not an element", v)
	}
	return el
}

func (r *Runtime) kindArg(v goja.Value) event.Kind {
	k, err := event.ParseKind(v.String())
	if err != nil {
		r.throwType("%v", err)
	}
	return k
}

func (r *Runtime) modeArg(v goja.Value) event.ClickMode {
	if goja.IsUndefined(v) {
		return event.ClickLeft
	}
	m, err := event.ParseClickMode(v.String())
	if err != nil {
		r.throwType("%v", err)
	}
	return m
}

func (r *Runtime) funcArg(v goja.Value) goja.Callable {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		r.throwType("turbo: %s is not a function", v)
	}
	return fn
}

func (r *Runtime) listenOptions(v goja.Value) []event.ListenOption {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	var opts []event.ListenOption
	if b := obj.Get("capture"); b != nil && b.ToBoolean() {
		opts = append(opts, event.Capture())
	}
	if b := obj.Get("once"); b != nil && b.ToBoolean() {
		opts = append(opts, event.Once())
	}
	if s := obj.Get("tool"); s != nil && !goja.IsUndefined(s) {
		opts = append(opts, event.ForTool(s.String()))
	}
	return opts
}

// flagsArg reads a lock record. Missing fields stay true so the baseline
// value applies.
func (r *Runtime) flagsArg(v goja.Value) event.Flags {
	f := event.AllFlags()
	obj, ok := v.(*goja.Object)
	if !ok {
		return f
	}
	for name, dst := range map[string]*bool{
		"enabled":             &f.Enabled,
		"preventDefaultMouse": &f.PreventDefaultMouse,
		"preventDefaultTouch": &f.PreventDefaultTouch,
		"preventDefaultWheel": &f.PreventDefaultWheel,
	} {
		if b := obj.Get(name); b != nil && !goja.IsUndefined(b) {
			*dst = b.ToBoolean()
		}
	}
	return f
}

// listener adapts a script function. Returning true marks the event
// handled; a thrown exception is re-raised for the manager to report.
func (r *Runtime) listener(fn goja.Callable) event.Listener {
	return func(ev *event.Event, target *dom.Node) event.Result {
		res, err := fn(goja.Undefined(), r.bindEvent(ev), r.bindNode(target))
		if err != nil {
			panic(fmt.Errorf("script: %s listener: %w", ev.Type(), err))
		}
		return result(res)
	}
}

func (r *Runtime) behavior(fn goja.Callable) event.Behavior {
	return func(ev *event.Event, target *dom.Node, ctx event.BehaviorContext) event.Result {
		c := r.vm.NewObject()
		c.Set("tool", ctx.Tool)
		c.Set("phase", phaseName(ctx.Phase))
		c.Set("embedded", ctx.Embedded)
		res, err := fn(goja.Undefined(), r.bindEvent(ev), r.bindNode(target), c)
		if err != nil {
			panic(fmt.Errorf("script: %s behavior for %s: %w", ev.Type(), ctx.Tool, err))
		}
		return result(res)
	}
}

func result(v goja.Value) event.Result {
	if v != nil && v.ToBoolean() {
		return event.Handled
	}
	return event.NotHandled
}

func phaseName(p event.BehaviorPhase) string {
	if p == event.PhaseCapture {
		return "capture"
	}
	return "bubble"
}

func (r *Runtime) point(p geom.Point) *goja.Object {
	o := r.vm.NewObject()
	o.Set("x", p.X)
	o.Set("y", p.Y)
	return o
}

func (r *Runtime) stringArray(ss []string) *goja.Object {
	vals := make([]any, len(ss))
	for i, s := range ss {
		vals[i] = s
	}
	return r.vm.NewArray(vals...)
}

// bindEvent builds a fresh script view of ev. Scaled values are computed
// when first read.
func (r *Runtime) bindEvent(ev *event.Event) *goja.Object {
	o := r.vm.NewObject()
	o.Set("type", ev.Type())
	o.Set("kind", ev.Kind().String())
	o.Set("toolName", ev.ToolName)
	o.Set("clickMode", ev.ClickMode.String())
	o.Set("keys", r.stringArray(ev.Keys))
	o.Set("key", ev.Key)
	o.Set("position", r.point(ev.Position))
	o.Set("pointerCount", ev.PointerCount())
	if t := ev.Target(); t != nil {
		o.Set("target", r.bindNode(t))
	}

	positions := r.vm.NewObject()
	if ev.Positions != nil {
		for id, p := range ev.Positions.All() {
			positions.Set(strconv.Itoa(id), r.point(p))
		}
	}
	o.Set("positions", positions)

	if ev.Drag != nil {
		o.Set("origin", r.point(ev.OriginPosition()))
		o.Set("deltaPosition", r.point(ev.DeltaPosition()))
		o.Set("totalDelta", r.point(ev.TotalDelta()))
	}
	if ev.Wheel != nil {
		o.Set("delta", r.point(ev.Wheel.Delta))
	}

	o.Set("scaledPosition", func(goja.FunctionCall) goja.Value {
		return r.point(ev.ScaledPosition())
	})
	o.Set("scaledDeltaPosition", func(goja.FunctionCall) goja.Value {
		return r.point(ev.ScaledDeltaPosition())
	})
	o.Set("hasKey", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(ev.HasKey(call.Argument(0).String()))
	})
	o.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	return o
}

// bindNode returns the script object for n, the same object every time.
func (r *Runtime) bindNode(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := r.nodes[n]; ok {
		return obj
	}
	s := turbo.Wrap(n, r.mgr)
	o := r.vm.NewObject()
	o.Set("nodeName", n.NodeName())

	o.Set("id", func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(s.Attribute("id"))
	})
	o.Set("addClass", func(call goja.FunctionCall) goja.Value {
		if err := s.AddClassWithError(argStrings(call)...); err != nil {
			r.throwType("%v", err)
		}
		return o
	})
	o.Set("removeClass", func(call goja.FunctionCall) goja.Value {
		if err := s.RemoveClassWithError(argStrings(call)...); err != nil {
			r.throwType("%v", err)
		}
		return o
	})
	o.Set("toggleClass", func(call goja.FunctionCall) goja.Value {
		var force []bool
		if f := call.Argument(1); !goja.IsUndefined(f) {
			force = append(force, f.ToBoolean())
		}
		on, err := s.ToggleClassWithError(call.Argument(0).String(), force...)
		if err != nil {
			r.throwType("%v", err)
		}
		return r.vm.ToValue(on)
	})
	o.Set("hasClass", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(s.HasClass(call.Argument(0).String()))
	})
	o.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(s.Attribute(call.Argument(0).String()))
	})
	o.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if err := s.SetAttributeWithError(call.Argument(0).String(), call.Argument(1).String()); err != nil {
			r.throwType("%v", err)
		}
		return o
	})
	o.Set("setStyle", func(call goja.FunctionCall) goja.Value {
		s.SetStyle(call.Argument(0).String(), call.Argument(1).String())
		return o
	})
	o.Set("text", func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(s.Text())
	})
	o.Set("setText", func(call goja.FunctionCall) goja.Value {
		s.SetText(call.Argument(0).String())
		return o
	})
	o.Set("find", func(call goja.FunctionCall) goja.Value {
		found := s.Find(call.Argument(0).String())
		return r.bindNode(found.Node())
	})
	o.Set("parent", func(goja.FunctionCall) goja.Value {
		return r.bindNode(s.Parent().Node())
	})

	r.nodes[n] = o
	r.objects[o] = n
	return o
}

func argStrings(call goja.FunctionCall) []string {
	out := make([]string, len(call.Arguments))
	for i, v := range call.Arguments {
		out[i] = v.String()
	}
	return out
}
