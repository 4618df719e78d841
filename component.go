package archindex

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// ComponentID is the bit position a component type occupies in a Bitmask.
type ComponentID = uint32

// ComponentType identifies one registered component type. The zero value is
// not a valid component type.
type ComponentType struct {
	typ  reflect.Type
	size uintptr
	id   ComponentID
}

// ID returns the component's bit position.
func (ct ComponentType) ID() ComponentID { return ct.id }

// Type returns the Go type the component was registered for.
func (ct ComponentType) Type() reflect.Type { return ct.typ }

// Size returns the in-memory size of one component value.
func (ct ComponentType) Size() uintptr { return ct.size }

// Valid reports whether ct came from a Registry.
func (ct ComponentType) Valid() bool { return ct.typ != nil }

func (ct ComponentType) String() string {
	if ct.typ == nil {
		return "<invalid>"
	}
	return ct.typ.String()
}

// Registry assigns dense, stable IDs to component types. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]ComponentType
	byID   []ComponentType
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]ComponentType, 16),
		byID:   make([]ComponentType, 0, 16),
	}
}

// Register returns the component type for t, assigning the next free ID the
// first time t is seen.
func (r *Registry) Register(t reflect.Type) ComponentType {
	r.mu.RLock()
	ct, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return ct
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ct, ok := r.byType[t]; ok {
		return ct
	}
	ct = ComponentType{typ: t, size: t.Size(), id: ComponentID(len(r.byID))}
	r.byType[t] = ct
	r.byID = append(r.byID, ct)
	return ct
}

// Lookup returns the component type registered for t.
func (r *Registry) Lookup(t reflect.Type) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.byType[t]
	return ct, ok
}

// ByID returns the component type registered under id.
func (r *Registry) ByID(id ComponentID) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.byID) {
		return ComponentType{}, false
	}
	return r.byID[id], true
}

// Len returns the number of registered component types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// ComponentTypeOf registers T with r if needed and returns its component type.
func ComponentTypeOf[T any](r *Registry) ComponentType {
	return r.Register(reflect.TypeFor[T]())
}

// MustComponentType returns the component type of T.
// It panics if T has not been registered.
func MustComponentType[T any](r *Registry) ComponentType {
	t := reflect.TypeFor[T]()
	ct, ok := r.Lookup(t)
	if !ok {
		panic(errors.Wrapf(ErrUnregisteredComponent, "type %s", t))
	}
	return ct
}

// TryComponentType returns the component type of T and whether it was found.
// It does not register T.
func TryComponentType[T any](r *Registry) (ComponentType, bool) {
	return r.Lookup(reflect.TypeFor[T]())
}
