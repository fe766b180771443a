package guard

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Opener acquires a session-scoped resource.
type Opener[T io.Closer] func(ctx context.Context) (T, error)

// Use opens a resource, runs fn against it and always releases it, including
// when fn returns an error or panics. A release error is joined with the
// operation error; it never hides it.
func Use[T io.Closer](ctx context.Context, open Opener[T], fn func(T) error) (err error) {
	if open == nil {
		return errors.New("guard: nil opener")
	}

	res, err := open(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := res.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("release: %w", cerr))
		}
	}()

	return fn(res)
}

// Value is like Use but returns a value computed while the resource is held.
func Value[T io.Closer, V any](ctx context.Context, open Opener[T], fn func(T) (V, error)) (V, error) {
	var out V
	err := Use(ctx, open, func(res T) error {
		v, err := fn(res)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// CloserFunc adapts a function to io.Closer.
type CloserFunc func() error

// Close implements io.Closer.
func (f CloserFunc) Close() error {
	if f == nil {
		return nil
	}
	return f()
}
