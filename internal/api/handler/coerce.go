package handler

import (
	"encoding/json"
	"strconv"
	"strings"
)

// scalarString flattens a bound JSON scalar to its string form. Clients send
// numeric fields both as numbers and as strings; validation downstream only
// deals with the string form.
func scalarString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case json.Number:
		return n.String()
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case bool:
		return strconv.FormatBool(n)
	}
	return ""
}

// splitList turns a comma-separated value into trimmed non-empty items.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
