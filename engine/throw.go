package engine

import "github.com/pkg/errors"

// Threading errors through every stage of a triangulation would complicate
// all of them for conditions a caller cannot fix mid-call. Instead the engine
// panics with a Failure, matching the contract of an external engine that
// aborts. meshio.Invoke does not recover; callers that want an error instead
// of a crash recover themselves and pass the value to Recover.

// Failure is the panic value for conditions the engine cannot continue
// from, such as too few vertices or a segment naming a missing vertex.
type Failure struct {
	error
}

func (f Failure) Unwrap() error {
	return f.error
}

// Panic with a Failure.
func fatalf(format string, args ...interface{}) {
	panic(Failure{errors.Errorf(format, args...)})
}

// Recover turns a value recovered from a panic inside Triangulate into an
// error. Anything other than a Failure is a bug and is re-panicked.
func Recover(r interface{}) error {
	if r != nil {
		if failure, ok := r.(Failure); ok {
			return failure
		}
		panic(r)
	}
	return nil
}
