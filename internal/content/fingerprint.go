package content

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/inful/mdfp"
)

// Keys left out of the fingerprint: derived values that change without the
// author editing the document.
var fingerprintIgnoredKeys = map[string]struct{}{
	mdfp.FingerprintField: {},
	"modified":            {},
	"lastmod":             {},
}

// computeFingerprint returns the mdfp fingerprint of a document's front
// matter fields and body.
func computeFingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, skip := fingerprintIgnoredKeys[k]; skip {
			continue
		}
		hashed[k] = v
	}

	fm := ""
	if len(hashed) > 0 {
		serialized, err := serializeFrontMatter(hashed)
		if err != nil {
			return "", err
		}
		fm = trimTrailingNewline(string(serialized))
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}

// Fingerprint folds the fingerprints of items into one digest. It changes
// whenever a source is added, removed or edited, and is independent of the
// order of items.
func Fingerprint(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it.source == "" {
			continue
		}
		lines = append(lines, it.source+"\x00"+it.fingerprint)
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
