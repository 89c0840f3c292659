package repo

// #include <gio/gio.h>
import "C"

import "context"

// cancellable bridges a context to a GCancellable so native operations are
// interrupted when the context is canceled.
type cancellable struct {
	ptr  *C.GCancellable
	stop chan struct{}
	done chan struct{}
}

// newCancellable returns nil when ctx can never be canceled; native calls
// then run without a GCancellable.
func newCancellable(ctx context.Context) *cancellable {
	if ctx == nil || ctx.Done() == nil {
		return nil
	}

	c := &cancellable{
		ptr:  C.g_cancellable_new(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		select {
		case <-ctx.Done():
			C.g_cancellable_cancel(c.ptr)
		case <-c.stop:
		}
	}()
	return c
}

func (c *cancellable) native() *C.GCancellable {
	if c == nil {
		return nil
	}
	return c.ptr
}

func (c *cancellable) release() {
	if c == nil {
		return
	}
	close(c.stop)
	<-c.done
	C.g_object_unref(C.gpointer(c.ptr))
}
