package certmodel

// CertType discriminates the certificate sum type.
type CertType string

const (
	CertBackup CertType = "backup"
	CertWipe   CertType = "wipe"
)

// Result is the overall PASS/FAIL outcome recorded in a certificate.
type Result string

const (
	ResultPass Result = "PASS"
	ResultFail Result = "FAIL"
)

// Signature is the detached-signature block attached to a signed certificate.
type Signature struct {
	Alg             string `json:"alg"`
	PubkeyID        string `json:"pubkey_id"`
	Sig             string `json:"sig"`
	Canonicalization string `json:"canonicalization"`
}

// Environment records ambient facts about the host that produced the
// certificate — enriched beyond spec.md's bare mention with the hardware
// capability facts the Device Enumerator gathers at startup.
type Environment struct {
	Hostname    string `json:"hostname"`
	ToolVersion string `json:"tool_version"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	ISOMode     bool   `json:"iso_mode"`
	AESNI       bool   `json:"aes_ni,omitempty"`
}

// Metadata carries the certificate's self-hash, per spec §4.D.
type Metadata struct {
	CertificateJSONSHA256 string `json:"certificate_json_sha256"`
}

// FilesSummary totals up a backup's manifest for the certificate body.
type FilesSummary struct {
	TotalFiles int   `json:"total_files"`
	TotalBytes int64 `json:"total_bytes"`
}

// CryptoInfo records the backup's encryption scheme and manifest digest.
type CryptoInfo struct {
	Alg            string `json:"alg"`
	ManifestSHA256 string `json:"manifest_sha256"`
	KeyManagement  string `json:"key_management"`
}

// VerificationInfo records a backup's sampled re-verification outcome.
type VerificationInfo struct {
	Strategy string `json:"strategy"`
	Samples  int    `json:"samples"`
	Failures int    `json:"failures"`
}

// CommandEvidence captures one external command invocation verbatim.
type CommandEvidence struct {
	Cmd         string `json:"cmd"`
	Exit        int    `json:"exit"`
	Ms          int64  `json:"ms"`
	StdoutSHA256 string `json:"stdout_sha256"`
	StderrSHA256 string `json:"stderr_sha256"`
}

// HPADCOInfo records whether hidden areas were cleared, and how.
type HPADCOInfo struct {
	Cleared  bool              `json:"cleared"`
	Commands []CommandEvidence `json:"commands,omitempty"`
}

// VerifyInfo records a wipe's sampled-sector verification outcome.
type VerifyInfo struct {
	Strategy string `json:"strategy"`
	Samples  int    `json:"samples"`
	Failures int    `json:"failures"`
	Result   Result `json:"result"`
	// Seed is the recorded DRBG seed used to draw sample LBAs, enabling
	// reproducible audit per spec §4.G.
	Seed string `json:"seed"`
}

// Linkage points a wipe certificate at the backup certificate covering the
// same device's data. The referenced file is never dereferenced at build
// time (spec §4.D) — that is the verification service's job.
type Linkage struct {
	BackupCertID string `json:"backup_cert_id,omitempty"`
}

// Evidence carries supplementary hashes for off-band audit material.
type Evidence struct {
	LogsSHA256 string `json:"logs_sha256,omitempty"`
}

// Exceptions records non-fatal anomalies, notably cancellation-after-submit
// per spec §5's cancellation semantics.
type Exceptions struct {
	Text string `json:"text,omitempty"`
}

// Certificate is the closed sum type for both cert_type values. Only the
// fields relevant to CertType are populated; the others are nil/zero and
// omitted from JSON. The Signer is generic over this shared envelope
// (signs/verifies the whole value with Signature cleared and
// metadata.certificate_json_sha256 zeroed), while the
// Schema Validator dispatches a distinct schema per CertType.
type Certificate struct {
	CertID             string     `json:"cert_id"`
	CertType           CertType   `json:"cert_type"`
	CertificateVersion string     `json:"certificate_version"`
	CreatedAt          string     `json:"created_at"`
	Issuer             string     `json:"issuer"`
	Device             Identity   `json:"device"`
	Policy             WipePolicy `json:"policy,omitempty"`
	Environment        Environment `json:"environment"`
	Result             Result     `json:"result"`
	Metadata           Metadata   `json:"metadata"`
	Signature          *Signature `json:"signature,omitempty"`

	// Backup-specific.
	FilesSummary *FilesSummary     `json:"files_summary,omitempty"`
	Destination  string            `json:"destination,omitempty"`
	Crypto       *CryptoInfo       `json:"crypto,omitempty"`
	Verification *VerificationInfo `json:"verification,omitempty"`

	// Wipe-specific.
	HPADCO   *HPADCOInfo        `json:"hpa_dco,omitempty"`
	Commands []CommandEvidence  `json:"commands,omitempty"`
	Verify   *VerifyInfo        `json:"verify,omitempty"`
	Linkage  *Linkage           `json:"linkage,omitempty"`
	Evidence *Evidence          `json:"evidence,omitempty"`
	Exceptions *Exceptions      `json:"exceptions,omitempty"`
}

// CurrentCertificateVersion is the schema version this build emits.
const CurrentCertificateVersion = "1.0.0"
