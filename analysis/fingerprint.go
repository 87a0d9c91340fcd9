package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint derives the cache key for an analysis request. Identical
// requirements text modulo case and whitespace, with the same context
// parameters, always map to the same key.
func Fingerprint(text string, params map[string]string) string {
	h := sha256.New()
	h.Write([]byte(normalizeText(text)))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte("\x00"))
		h.Write([]byte(k))
		h.Write([]byte("="))
		h.Write([]byte(strings.TrimSpace(params[k])))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// normalizeText lowercases and collapses all runs of whitespace to a
// single space so trivial formatting differences share a cache slot.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
