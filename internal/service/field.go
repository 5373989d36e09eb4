package service

import (
	"bytes"
	"encoding/json"
)

// FieldState tells apart an absent JSON member, an explicit null and a value.
type FieldState int

const (
	Unset FieldState = iota
	Clear
	Set
)

// Field is a partially-updatable value. Members missing from the JSON body stay Unset.
type Field[T any] struct {
	State FieldState
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	var zero T
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.State, f.Value = Clear, zero
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.State = Set
	return nil
}

// Get returns the value and whether the field is Set.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.State == Set
}
