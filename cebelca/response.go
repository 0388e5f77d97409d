package cebelca

import "strconv"

// RawResponse is the best-effort-decoded body of a Cebelca call. IsJSON
// marks whether decoding succeeded; otherwise Text holds the raw body.
type RawResponse struct {
	JSON   any
	Text   string
	IsJSON bool
}

// FirstRecord extracts the first record from a Cebelca result set.
// Depending on the endpoint the API returns either a nested list
// [[{...}]] or a flat list [{...}]; any other shape is unusable and
// yields nil, which callers must treat as a recoverable condition.
func FirstRecord(raw RawResponse) map[string]any {
	if !raw.IsJSON {
		return nil
	}
	list, ok := raw.JSON.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	switch first := list[0].(type) {
	case []any:
		if len(first) == 0 {
			return nil
		}
		rec, ok := first[0].(map[string]any)
		if !ok {
			return nil
		}
		return rec
	case map[string]any:
		return first
	default:
		return nil
	}
}

// RecordID reads the id field of a record. A record with a missing, null
// or non-numeric id is unusable and the caller must abort the step.
func RecordID(rec map[string]any) (int, bool) {
	if rec == nil {
		return 0, false
	}
	switch v := rec["id"].(type) {
	case float64:
		return int(v), true
	case string:
		// Seen in the wild: some endpoints return ids as strings.
		if id, err := strconv.Atoi(v); err == nil {
			return id, true
		}
		return 0, false
	default:
		return 0, false
	}
}
