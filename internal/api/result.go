package api

// Result carries either the value of a finished operation or its error, so
// a view can switch on the outcome instead of registering callbacks.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Do runs fn and captures its outcome.
func Do[T any](fn func() (T, error)) Result[T] {
	v, err := fn()
	return Result[T]{Value: v, Err: err}
}
