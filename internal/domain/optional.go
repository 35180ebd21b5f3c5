package domain

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes a field that was not sent from one that was sent
// with its zero value. For strings this gives three states: absent (leave
// unchanged), empty (clear) and a value (replace).
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// UnmarshalJSON marks the field as set. An explicit null sets the zero value,
// which for text fields means "clear".
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the value, or null when unset.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// ApplyText resolves a tri-state text field against the current value:
// unset keeps current, empty clears it (nil), anything else replaces it.
func ApplyText(current *string, field Optional[string]) *string {
	v, ok := field.Get()
	if !ok {
		return current
	}
	if v == "" {
		return nil
	}
	return &v
}
