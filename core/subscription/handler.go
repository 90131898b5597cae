package subscription

import (
	"context"
	"fmt"
	"reflect"
)

// Handler receives events fired on a List. Any conforming type serves as a
// handler: a named struct, a method value wrapper, or a func adapted via
// NewHandler. Handlers carry no identity in the registry; the same handler
// value may be subscribed multiple times and occupies one slot per
// subscription.
type Handler interface {
	// Name identifies the handler in logs and aggregated errors.
	Name() string

	// Handle reacts to a single event. A returned error (or panic) is
	// isolated by the dispatch loop and never aborts delivery to the
	// remaining handlers in the same pass.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a type-safe function signature for handling events of type T.
type HandlerFunc[T any] func(context.Context, T) error

// NewHandler wraps an untyped function as a Handler.
//
// The returned value is a pointer, so it compares equal only to itself;
// keep it if you intend to call List.Unsubscribe with it later, or use the
// Subscription handle returned by Subscribe instead.
func NewHandler(name string, fn func(context.Context, any) error) Handler {
	return &handlerFunc{name: name, fn: fn}
}

// NewHandlerFunc wraps a typed function as a Handler. The handler name is
// derived from the payload type name. Events of any other type produce an
// ErrUnexpectedEvent handler failure, which the dispatch loop isolates like
// any other.
//
// Example:
//
//	h := subscription.NewHandlerFunc(func(ctx context.Context, evt OrderPlaced) error {
//	    return notify(ctx, evt)
//	})
func NewHandlerFunc[T any](fn HandlerFunc[T]) Handler {
	var zero T
	return &handlerFunc{
		name: typeName(zero),
		fn: func(ctx context.Context, event any) error {
			typed, ok := event.(T)
			if !ok {
				return fmt.Errorf("%w: got %T", ErrUnexpectedEvent, event)
			}
			return fn(ctx, typed)
		},
	}
}

type handlerFunc struct {
	name string
	fn   func(context.Context, any) error
}

func (h *handlerFunc) Name() string { return h.name }

func (h *handlerFunc) Handle(ctx context.Context, event any) error {
	return h.fn(ctx, event)
}

// typeName extracts the bare type name from a value, unwrapping pointers.
// Interface-typed events resolve to their dynamic type at dispatch time, so
// only the static payload type matters here.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "any"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
