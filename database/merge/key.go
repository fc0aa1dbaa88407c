package merge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultKeyPriority is the attribute order used to derive a client's
// dedup identity. Tuned to the x-ui / 3x-ui settings schema family;
// override through Options.KeyPriority when a fork drifts.
var DefaultKeyPriority = []string{"uuid", "id", "email", "password"}

// DedupKey is the computed identity of one client record. Two records
// with equal keys are treated as the same client.
type DedupKey struct {
	Kind  string
	Value string
}

// ClientKey derives the dedup identity of a client record: the first
// attribute in priority order that is present, string-typed and
// non-empty wins. Records matching no attribute fall back to a
// canonical serialization of the whole record, so structurally equal
// records always collide regardless of attribute order.
//
// ClientKey is total: it never fails, even for an empty record.
func ClientKey(record map[string]any, priority []string) DedupKey {
	if len(priority) == 0 {
		priority = DefaultKeyPriority
	}
	for _, name := range priority {
		v, ok := record[name]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return DedupKey{Kind: name, Value: trimmed}
		}
	}
	// encoding/json writes map keys in sorted order, which makes the
	// serialization canonical. Records reach this point parsed from
	// JSON, so marshaling them back cannot fail; the fmt fallback
	// keeps the function total regardless.
	raw, err := json.Marshal(record)
	if err != nil {
		return DedupKey{Kind: "raw", Value: fmt.Sprintf("%v", record)}
	}
	return DedupKey{Kind: "raw", Value: string(raw)}
}
