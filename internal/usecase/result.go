package usecase

// Result is the outcome of a HeroService operation. On failure Value holds the
// operation's fallback and Err holds a *TransportFailure, so callers that only
// read Value see the fallback and callers that check Err can tell a failed
// request from an empty answer.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the operation succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap returns the value and error as a conventional pair
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// TransportFailure covers every way a hero API call can fail: network errors,
// non-2xx responses and undecodable bodies alike.
type TransportFailure struct {
	// Op is the operation name used in the failure message, e.g. "getHeroes"
	Op string
	// StatusCode is zero when no response was received
	StatusCode int
	Err        error
}

func (f *TransportFailure) Error() string {
	return f.Err.Error()
}

func (f *TransportFailure) Unwrap() error {
	return f.Err
}
