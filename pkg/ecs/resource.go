package ecs

import "reflect"

// SetResource stores a world-wide singleton keyed by its dynamic type.
func (w *World) SetResource(r any) {
	w.resources[reflect.TypeOf(r)] = r
}

// Resource returns the resource of type T.
func Resource[T any](w *World) (T, bool) {
	r, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := r.(T)
	return v, ok
}

// ResourceOrInit returns the resource of type T, storing init() first when it
// is missing.
func ResourceOrInit[T any](w *World, init func() T) T {
	if r, ok := Resource[T](w); ok {
		return r
	}
	r := init()
	w.resources[reflect.TypeFor[T]()] = r
	return r
}

// RemoveResource drops the resource of type T.
func RemoveResource[T any](w *World) {
	delete(w.resources, reflect.TypeFor[T]())
}
