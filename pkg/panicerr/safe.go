package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// SafeContext wraps a context-taking function so that a panic inside it is
// recovered and returned as an error instead of unwinding the caller. The
// update dispatch loop relies on this: one bad update must never take the
// process down.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var err error
		recovered := panics.Try(func() {
			err = fn(ctx)
		})
		if err != nil {
			return err
		}
		return recovered.AsError()
	}
}

// Safe is SafeContext for functions without a context argument.
func Safe(fn func() error) func() error {
	return func() error {
		var err error
		recovered := panics.Try(func() {
			err = fn()
		})
		if err != nil {
			return err
		}
		return recovered.AsError()
	}
}
