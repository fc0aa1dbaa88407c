package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientKeyPriority(t *testing.T) {
	rec := map[string]any{
		"uuid":  "u-1",
		"email": "a@x",
	}
	key := ClientKey(rec, nil)
	assert.Equal(t, DedupKey{Kind: "uuid", Value: "u-1"}, key)

	// empty and whitespace values do not qualify
	rec["uuid"] = "   "
	key = ClientKey(rec, nil)
	assert.Equal(t, DedupKey{Kind: "email", Value: "a@x"}, key)

	// non-string values are skipped, not stringified
	rec["uuid"] = 42
	key = ClientKey(rec, nil)
	assert.Equal(t, DedupKey{Kind: "email", Value: "a@x"}, key)
}

func TestClientKeyTrimsValue(t *testing.T) {
	key := ClientKey(map[string]any{"uuid": "  u-1  "}, nil)
	assert.Equal(t, "u-1", key.Value)
}

func TestClientKeyCustomPriority(t *testing.T) {
	rec := map[string]any{"uuid": "u-1", "email": "a@x"}
	key := ClientKey(rec, []string{"email", "uuid"})
	assert.Equal(t, DedupKey{Kind: "email", Value: "a@x"}, key)
}

func TestClientKeyRawFallbackIsCanonical(t *testing.T) {
	a := map[string]any{"flow": "xtls", "limit": float64(3)}
	b := map[string]any{"limit": float64(3), "flow": "xtls"}

	ka := ClientKey(a, nil)
	kb := ClientKey(b, nil)
	assert.Equal(t, "raw", ka.Kind)
	assert.Equal(t, ka, kb, "attribute order must not change the identity")
}

func TestClientKeyTotalOnEmptyRecord(t *testing.T) {
	key := ClientKey(map[string]any{}, nil)
	assert.Equal(t, "raw", key.Kind)
	assert.NotEmpty(t, key.Value)
}
