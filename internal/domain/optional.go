package domain

import "strconv"

// Optional separates "not provided" from "provided as the zero value".
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Get returns the value and whether it was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
