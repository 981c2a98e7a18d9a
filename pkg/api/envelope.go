package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// StatusSuccess is the envelope status of a successful call.
const StatusSuccess = "SUCCESS"

// Envelope is the wire shape of every backend response.
type Envelope struct {
	Status string `json:"status"`
	Result Result `json:"result"`
}

// Result carries the payload and any error detail.
type Result struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors json.RawMessage `json:"errors,omitempty"`
}

// Record decodes result.data as an object. A list yields its first object;
// null or a missing payload yields nil.
func (r Result) Record() (map[string]any, error) {
	raw := bytes.TrimSpace(r.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var value any
	if err := decodeJSON(raw, &value); err != nil {
		return nil, fmt.Errorf("api: decode result data: %w", err)
	}
	switch typed := value.(type) {
	case map[string]any:
		return typed, nil
	case []any:
		for _, item := range typed {
			if record, ok := item.(map[string]any); ok {
				return record, nil
			}
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("api: result data is %T, want object", value)
	}
}

// FieldErrors normalises result.errors into messages per key. Objects map
// keys to a message or a list of messages; a bare list or string is filed
// under the empty key.
func (r Result) FieldErrors() map[string][]string {
	raw := bytes.TrimSpace(r.Errors)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var value any
	if err := decodeJSON(raw, &value); err != nil {
		return nil
	}

	out := make(map[string][]string)
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if messages := messagesOf(typed[key]); len(messages) > 0 {
				out[key] = messages
			}
		}
	default:
		if messages := messagesOf(typed); len(messages) > 0 {
			out[""] = messages
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func messagesOf(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case []any:
		var out []string
		for _, item := range typed {
			out = append(out, messagesOf(item)...)
		}
		return out
	case map[string]any:
		if msg, ok := typed["message"].(string); ok && msg != "" {
			return []string{msg}
		}
		return nil
	default:
		return []string{fmt.Sprint(typed)}
	}
}

func decodeJSON(raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}
