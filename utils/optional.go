package utils

import "encoding/json"

// Optional distinguishes an absent JSON field from one that is present but
// null. PATCH handlers need the difference: a present null clears a value, an
// absent field leaves it untouched.
type Optional[T any] struct {
	Present bool
	Value   *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
