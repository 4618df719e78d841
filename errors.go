package archindex

import "github.com/pkg/errors"

// Contract violations. They are raised as panics carrying a stack trace and
// are never recovered inside the package.
var (
	ErrNilArchetype          = errors.New("archindex: nil archetype")
	ErrInvalidComponentType  = errors.New("archindex: invalid component type")
	ErrIndexOutOfRange       = errors.New("archindex: index out of range")
	ErrCapacityExceeded      = errors.New("archindex: index capacity exceeded")
	ErrNilIndex              = errors.New("archindex: nil index")
	ErrNilFilter             = errors.New("archindex: nil filter")
	ErrUnregisteredComponent = errors.New("archindex: component type not registered")
)

func violation(err error, format string, args ...any) {
	panic(errors.Wrapf(err, format, args...))
}

func checkArchetype(a *Archetype) {
	if a == nil {
		panic(errors.WithStack(ErrNilArchetype))
	}
}

func checkComponentType(ct ComponentType) {
	if !ct.Valid() {
		panic(errors.WithStack(ErrInvalidComponentType))
	}
}
