package certmodel

// ManifestEntry is one file recorded by a backup.
type ManifestEntry struct {
	RelativePath  string `json:"relative_path"`
	SizeBytes     int64  `json:"size_bytes"`
	SHA256        string `json:"sha256"`
	EncryptedPath string `json:"encrypted_path"`
}

// BackupManifest is the sealed record of everything one backup copied.
// ManifestSHA256 is computed over the canonicalized body with that field
// itself held empty, then written back — the same self-hash convention
// used by certificates (spec §4.D).
type BackupManifest struct {
	Entries    []ManifestEntry `json:"entries"`
	TotalFiles int             `json:"total_files"`
	TotalBytes int64           `json:"total_bytes"`
	// ManifestHMACSHA256 is an additional integrity tag over the same body,
	// keyed by a subkey derived (via KBKDF) from the backup's ephemeral
	// master key — independent of, and supplementary to, ManifestSHA256.
	ManifestHMACSHA256 string `json:"manifest_hmac_sha256,omitempty"`
	ManifestSHA256     string `json:"manifest_sha256"`
}
