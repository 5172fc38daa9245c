package future

// Then returns a new future settled with the result of on applied to this
// future's value. A rejection skips on and propagates unchanged. An error
// returned by on rejects the downstream future; a panic inside on rejects
// it with a *PanicError. The handler runs whether Then is called before or
// after settlement, always off the settler's stack.
func (f *Future[T]) Then(on func(T) (T, error)) *Future[T] {
	next := newPending[T]()
	f.subscribe(func(v T, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		runHandler(next, func() (T, error) { return on(v) })
	})
	return next
}

// ThenFuture chains a handler that itself returns a future. The downstream
// future adopts the returned one, flattening a single level, so the chain
// observes the inner future's eventual outcome rather than a future-typed
// value. A nil return rejects with ErrNilFuture.
func (f *Future[T]) ThenFuture(on func(T) *Future[T]) *Future[T] {
	next := newPending[T]()
	f.subscribe(func(v T, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				next.reject(&PanicError{Value: r})
			}
		}()
		next.adopt(on(v))
	})
	return next
}

// Catch returns a new future that intercepts a rejection with on. On
// fulfillment the value passes through untouched. The handler may recover
// (return a replacement value) or re-fail by returning an error.
func (f *Future[T]) Catch(on func(error) (T, error)) *Future[T] {
	next := newPending[T]()
	f.subscribe(func(v T, err error) {
		if err == nil {
			next.settle(v)
			return
		}
		runHandler(next, func() (T, error) { return on(err) })
	})
	return next
}

// Finally runs on once the future settles, regardless of outcome, and
// preserves the original outcome afterward. A panic inside on takes
// precedence and rejects the downstream future with a *PanicError.
func (f *Future[T]) Finally(on func()) *Future[T] {
	next := newPending[T]()
	f.subscribe(func(v T, err error) {
		if perr := runFinalizer(on); perr != nil {
			next.reject(perr)
			return
		}
		if err != nil {
			next.reject(err)
			return
		}
		next.settle(v)
	})
	return next
}

// Map chains a type-changing handler onto f. It exists as a package-level
// function because Go methods cannot introduce new type parameters; it
// otherwise behaves exactly like Then.
func Map[T, U any](f *Future[T], on func(T) (U, error)) *Future[U] {
	next := newPending[U]()
	f.subscribe(func(v T, err error) {
		if err != nil {
			next.reject(err)
			return
		}
		runHandler(next, func() (U, error) { return on(v) })
	})
	return next
}

// runHandler executes a continuation handler and routes its result into
// next, converting panics and returned errors into rejections.
func runHandler[U any](next *Future[U], fn func() (U, error)) {
	defer func() {
		if r := recover(); r != nil {
			next.reject(&PanicError{Value: r})
		}
	}()
	out, err := fn()
	if err != nil {
		next.reject(err)
		return
	}
	next.settle(out)
}

func runFinalizer(on func()) (perr error) {
	defer func() {
		if r := recover(); r != nil {
			perr = &PanicError{Value: r}
		}
	}()
	on()
	return nil
}
