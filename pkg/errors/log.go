package errors

import (
	"sync"

	"go.uber.org/zap"
)

// LogHandler is an ErrorHandler that writes errors to a zap logger.
type LogHandler struct {
	// Logger receives the entries. A development logger writing to stderr
	// is created on first use when nil.
	Logger *zap.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool

	once sync.Once
}

func (h *LogHandler) logger() *zap.Logger {
	h.once.Do(func() {
		if h.Logger == nil {
			l, err := zap.NewDevelopment()
			if err != nil {
				l = zap.NewNop()
			}
			h.Logger = l
		}
	})
	return h.Logger
}

// HandleError logs a ReconcileError.
func (h *LogHandler) HandleError(err *ReconcileError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Node != "" {
		fields = append(fields, zap.String("node", err.Node))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("vdom error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("vdom panic", fields...)
}

// HandleLifecycleError logs a LifecycleError.
func (h *LogHandler) HandleLifecycleError(err *LifecycleError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("component", err.Component),
		zap.String("hook", err.Hook),
		zap.String("error", err.Error()),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("vdom lifecycle error", fields...)
}
