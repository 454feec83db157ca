package protocol

import "encoding/json"

// NumberOr returns the JSON number held by raw, or def when raw is absent or
// holds any other JSON value.
func NumberOr(raw json.RawMessage, def float64) float64 {
	if v := OptionalNumber(raw); v != nil {
		return *v
	}

	return def
}

// OptionalNumber returns the JSON number held by raw, or nil when raw is
// absent or holds any other JSON value.
func OptionalNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}

	f, ok := v.(float64)
	if !ok {
		return nil
	}

	return &f
}

// StringOr returns the JSON string held by raw, or def.
func StringOr(raw json.RawMessage, def string) string {
	if s, ok := stringValue(raw); ok {
		return s
	}

	return def
}

func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// RoleOr returns the slot name held by raw, or def when raw does not name one.
func RoleOr(raw json.RawMessage, def Role) Role {
	if r := Role(StringOr(raw, "")); r.Valid() {
		return r
	}

	return def
}

// Passthrough returns raw unvalidated, or nil when absent. A nil value is
// encoded as JSON null.
func Passthrough(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}

	return raw
}
