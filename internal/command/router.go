// Package command owns the chat command table: prefix parsing, alias
// resolution and safe handler execution.
package command

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Handler executes one invocation. invoker is the chat name of the caller;
// args excludes the command token itself. The returned string is the reply.
type Handler func(ctx context.Context, invoker string, args []string) (string, error)

// Replier delivers a reply back through the side the command arrived on.
type Replier func(ctx context.Context, text string) error

type Router struct {
	prefix  string
	byAlias map[string]Handler
	log     *zap.Logger
}

func NewRouter(prefix string, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		prefix:  prefix,
		byAlias: make(map[string]Handler),
		log:     log,
	}
}

// Register adds a command under one or more aliases. A duplicate alias is a
// configuration error, not a silent override.
func (r *Router) Register(handler Handler, aliases ...string) error {
	if handler == nil || len(aliases) == 0 {
		return fmt.Errorf("command needs a handler and at least one alias")
	}
	for _, a := range aliases {
		key := strings.ToLower(strings.TrimSpace(a))
		if key == "" {
			return fmt.Errorf("empty command alias")
		}
		if _, exists := r.byAlias[key]; exists {
			return fmt.Errorf("duplicate command alias %q", key)
		}
		r.byAlias[key] = handler
	}
	return nil
}

// IsCommand reports whether content is command-shaped.
func (r *Router) IsCommand(content string) bool {
	return strings.HasPrefix(content, r.prefix) && len(content) > len(r.prefix)
}

// Dispatch parses and runs a command-shaped line. Unknown commands are
// ignored silently. Handler failures are logged and produce no reply, so
// upstream error text never leaks into chat.
func (r *Router) Dispatch(ctx context.Context, invoker, content string, reply Replier) {
	if !r.IsCommand(content) {
		return
	}
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}
	key := strings.ToLower(strings.TrimPrefix(parts[0], r.prefix))
	handler, ok := r.byAlias[key]
	if !ok {
		return
	}
	args := parts[1:]

	out, err := r.safeExecute(ctx, handler, invoker, args)
	if err != nil {
		r.log.Warn("command failed",
			zap.String("command", key),
			zap.String("invoker", invoker),
			zap.Error(err))
		return
	}
	if out == "" {
		return
	}
	if err := reply(ctx, out); err != nil {
		r.log.Warn("command reply failed", zap.String("command", key), zap.Error(err))
	}
}

// safeExecute shields the dispatch loop from handler panics as well as
// returned errors.
func (r *Router) safeExecute(ctx context.Context, h Handler, invoker string, args []string) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(ctx, invoker, args)
}
