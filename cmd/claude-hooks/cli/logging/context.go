package logging

import (
	"context"
	"log/slog"
)

// Context keys for logging values.
// Using private types to avoid key collisions.
type contextKey int

const (
	componentKey contextKey = iota
	phaseKey
	toolKey
)

// WithComponent adds a component name to the context.
// Component names identify the subsystem generating logs (e.g., "resolver", "runner", "cli").
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithPhase adds a hook event phase to the context (e.g., "pre-tool").
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey, phase)
}

// WithTool adds the triggering tool name to the context (e.g., "Write").
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, toolKey, tool)
}

// ComponentFromContext extracts the component name from the context.
// Returns empty string if not set.
func ComponentFromContext(ctx context.Context) string {
	return stringFromContext(ctx, componentKey)
}

// PhaseFromContext extracts the phase from the context.
// Returns empty string if not set.
func PhaseFromContext(ctx context.Context) string {
	return stringFromContext(ctx, phaseKey)
}

// ToolFromContext extracts the tool name from the context.
// Returns empty string if not set.
func ToolFromContext(ctx context.Context) string {
	return stringFromContext(ctx, toolKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// attrsFromContext extracts logging attributes from a context.
func attrsFromContext(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	if s := ComponentFromContext(ctx); s != "" {
		attrs = append(attrs, slog.String("component", s))
	}
	if s := PhaseFromContext(ctx); s != "" {
		attrs = append(attrs, slog.String("phase", s))
	}
	if s := ToolFromContext(ctx); s != "" {
		attrs = append(attrs, slog.String("tool", s))
	}
	return attrs
}
