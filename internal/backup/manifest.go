package backup

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/certsign"
)

// buildManifest assembles the manifest from completed copy results and
// seals it with a plain SHA-256 digest plus an HMAC-SHA256 keyed under the
// session's derived HMAC subkey — the digest proves content integrity, the
// HMAC proves the manifest itself wasn't substituted by anyone without the
// ephemeral key (spec §4.E manifest sealing).
func buildManifest(results []copyResult, hmacKey []byte) (certmodel.BackupManifest, error) {
	entries := make([]certmodel.ManifestEntry, len(results))
	var totalBytes int64
	for i, r := range results {
		entries[i] = r.entry
		totalBytes += r.entry.SizeBytes
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RelativePath < entries[j].RelativePath })

	m := certmodel.BackupManifest{
		Entries:    entries,
		TotalFiles: len(entries),
		TotalBytes: totalBytes,
	}

	// Both integrity fields are still empty here, so the digest and the
	// HMAC cover the canonical manifest body without themselves.
	canon, err := certsign.Canonicalize(m)
	if err != nil {
		return m, err
	}
	sum := sha256.Sum256(canon)
	m.ManifestSHA256 = hex.EncodeToString(sum[:])

	mac := hmac.New(sha256.New, hmacKey)
	mac.Write(canon)
	m.ManifestHMACSHA256 = hex.EncodeToString(mac.Sum(nil))

	return m, nil
}
