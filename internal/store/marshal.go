package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalStrings encodes a string list for a TEXT column. HTML escaping
// is disabled so terms such as (P(x) & Q(x)) stay readable in the database.
// A nil list is stored as [].
func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(values); err != nil {
		return "", fmt.Errorf("marshal strings: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func unmarshalStrings(data string) ([]string, error) {
	values := []string{}
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal strings: %w", err)
	}
	return values, nil
}
