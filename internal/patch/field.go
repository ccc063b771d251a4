// Package patch models sparse update payloads where "field omitted" must be
// distinguished from "field explicitly set", including explicitly set to
// the zero value. A plain pointer cannot express that difference once the
// payload has passed through JSON decoding.
package patch

import "encoding/json"

type Field[T any] struct {
	value    T
	supplied bool
}

// Set wraps a value as an explicitly supplied field.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, supplied: true}
}

// Supplied reports whether the field appeared in the payload at all.
func (f Field[T]) Supplied() bool { return f.supplied }

// Value returns the supplied value; the zero value when not supplied.
func (f Field[T]) Value() T { return f.value }

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// which is exactly the presence signal. An explicit null clears the field
// to its zero value but still counts as supplied.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.supplied = true
	if string(b) == "null" {
		var zero T
		f.value = zero
		return nil
	}
	return json.Unmarshal(b, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.supplied {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
