package editing

import (
	"encoding/json"
	"sort"
)

// Data is the immutable working copy of a record being edited. Every update
// returns a new Data; a value handed to a renderer or a request body never
// changes underneath it.
type Data struct {
	values map[string]any
}

// New copies values into a Data. Nested maps and slices are deep copied.
func New(values map[string]any) Data {
	return Data{values: cloneValues(values)}
}

// Get returns the value stored under key.
func (d Data) Get(key string) (any, bool) {
	value, ok := d.values[key]
	return value, ok
}

// Value returns the value stored under key, or nil.
func (d Data) Value(key string) any {
	return d.values[key]
}

// Text returns the textual form of the value stored under key.
func (d Data) Text(key string) string {
	return Text(d.values[key])
}

// Has reports whether key holds an entry, even a nil one.
func (d Data) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Len returns the number of entries.
func (d Data) Len() int {
	return len(d.values)
}

// With returns a copy of d where key holds value. Numeric values are
// normalised so an integral float becomes an int64.
func (d Data) With(key string, value any) Data {
	next := make(map[string]any, len(d.values)+1)
	for k, v := range d.values {
		next[k] = v
	}
	next[key] = Normalize(value)
	return Data{values: next}
}

// Keys returns the entry keys in sorted order.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for key := range d.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a deep copy of the entries, suitable for a request body.
func (d Data) Map() map[string]any {
	return cloneValues(d.values)
}

// Clone returns an independent copy of d.
func (d Data) Clone() Data {
	return New(d.values)
}

// MarshalJSON encodes the entries as a flat JSON object.
func (d Data) MarshalJSON() ([]byte, error) {
	if d.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.values)
}

// UnmarshalJSON decodes a flat JSON object, normalising numbers.
func (d *Data) UnmarshalJSON(raw []byte) error {
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return err
	}
	for key, value := range values {
		values[key] = Normalize(value)
	}
	d.values = values
	return nil
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for idx, item := range typed {
			clone[idx] = deepCopy(item)
		}
		return clone
	default:
		return typed
	}
}
