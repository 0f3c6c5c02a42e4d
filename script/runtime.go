// Package script exposes an event manager to JavaScript through goja. A
// runtime installs a global turbo object whose functions bind listeners,
// register tools and behaviors, and lock the manager, so widget logic can
// be written as scripts against a live document.
package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
)

// Runtime wraps a goja runtime bound to one event manager. It is not safe
// for concurrent use; call it from the goroutine that delivers events.
type Runtime struct {
	vm      *goja.Runtime
	mgr     *event.Manager
	logger  *slog.Logger
	nodes   map[*dom.Node]*goja.Object
	objects map[*goja.Object]*dom.Node
	errors  []error
	onError func(error)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger console output is written to. The default is
// the manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// New creates a runtime with the turbo and console globals installed.
func New(mgr *event.Manager, opts ...Option) *Runtime {
	r := &Runtime{
		vm:      goja.New(),
		mgr:     mgr,
		logger:  mgr.Logger(),
		nodes:   make(map[*dom.Node]*goja.Object),
		objects: make(map[*goja.Object]*dom.Node),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.setupConsole()
	r.setupTurbo()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime { return r.vm }

// Manager returns the bound manager.
func (r *Runtime) Manager() *event.Manager { return r.mgr }

// SetOnError sets a callback for script errors raised by Execute and
// ExecuteScript. Errors thrown by listeners and behaviors go through the
// manager's OnError instead.
func (r *Runtime) SetOnError(fn func(error)) { r.onError = fn }

// Execute runs code and returns its completion value.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script: execution panic: %v", p)
			r.record(err)
		}
	}()
	result, err = r.vm.RunString(code)
	if err != nil {
		r.record(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code, naming it src in stack traces.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script: compilation panic in %s: %v", src, p)
			r.record(err)
		}
	}()
	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.record(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.record(err)
	}
	return err
}

func (r *Runtime) record(err error) {
	r.errors = append(r.errors, err)
	r.logger.Error("script: error", "err", err)
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns the errors recorded so far.
func (r *Runtime) Errors() []error {
	return append([]error(nil), r.errors...)
}

// ClearErrors forgets recorded errors.
func (r *Runtime) ClearErrors() { r.errors = r.errors[:0] }

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	levels := map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range levels {
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.logger.Log(context.Background(), level, formatArgs(call.Arguments), "source", "console")
			return goja.Undefined()
		})
	}
	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg += ": " + formatArgs(call.Arguments[1:])
			}
			r.logger.Error(msg, "source", "console")
		}
		return goja.Undefined()
	})
	r.vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		switch {
		case arg == nil || goja.IsUndefined(arg):
			parts[i] = "undefined"
		case goja.IsNull(arg):
			parts[i] = "null"
		default:
			parts[i] = arg.String()
		}
	}
	return strings.Join(parts, " ")
}
