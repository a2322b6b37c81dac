package domain

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes a field that was never sent, one sent as null, and one
// sent with a value. The zero Optional is absent.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// Null returns a present Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

// Get returns the value and true only when the field is present and not null.
func (o Optional[T]) Get() (T, bool) {
	if !o.Present || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}

// UnmarshalJSON is only invoked by encoding/json for keys that appear in the
// document, which is what marks the field as present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON renders absent and null values as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if v, ok := o.Get(); ok {
		return json.Marshal(v)
	}
	return []byte("null"), nil
}
