// Package certbuild assembles typed certificates from the outputs of the
// backup engine and wipe executor (spec §4.D). It owns the in-flight
// certificate until handoff to the Signer.
package certbuild

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/certsign"
)

// Clock lets tests pin the certificate's created_at. Every certificate
// timestamp is taken through Clock; tests that need determinism swap it.
var Clock = func() time.Time { return time.Now().UTC() }

// NewCertID returns a fresh certificate identifier.
var NewCertID = func() string { return uuid.NewString() }

func timestamp() string {
	// RFC 3339 UTC with microsecond resolution, per spec §4.D.
	return Clock().Format("2006-01-02T15:04:05.000000Z")
}

// BackupInputs carries everything the backup engine produced, for
// BuildBackup to assemble into a certificate.
type BackupInputs struct {
	Device       certmodel.Identity
	Environment  certmodel.Environment
	Destination  string
	Manifest     certmodel.BackupManifest
	Samples      int
	Failures     int
	FullyCopied  bool
	Issuer       string
}

// BuildBackup assembles a backup certificate. result is PASS iff every
// verification sample matched and every file was copied in full (spec
// §4.D/§4.E).
func BuildBackup(in BackupInputs) certmodel.Certificate {
	result := certmodel.ResultPass
	if in.Failures > 0 || !in.FullyCopied {
		result = certmodel.ResultFail
	}

	cert := certmodel.Certificate{
		CertID:             NewCertID(),
		CertType:           certmodel.CertBackup,
		CertificateVersion: certmodel.CurrentCertificateVersion,
		CreatedAt:          timestamp(),
		Issuer:             in.Issuer,
		Device:             in.Device,
		Environment:        in.Environment,
		Result:             result,
		FilesSummary: &certmodel.FilesSummary{
			TotalFiles: in.Manifest.TotalFiles,
			TotalBytes: in.Manifest.TotalBytes,
		},
		Destination: in.Destination,
		Crypto: &certmodel.CryptoInfo{
			Alg:            "AES-256-CTR",
			ManifestSHA256: in.Manifest.ManifestSHA256,
			KeyManagement:  "ephemeral-per-invocation",
		},
		Verification: &certmodel.VerificationInfo{
			Strategy: "sampled_reencrypt_compare",
			Samples:  in.Samples,
			Failures: in.Failures,
		},
	}

	sealSelfHash(&cert)
	return cert
}

// WipeInputs carries everything the wipe executor produced.
type WipeInputs struct {
	Device       certmodel.Identity
	Environment  certmodel.Environment
	Policy       certmodel.WipePolicy
	HPADCO       certmodel.HPADCOInfo
	Commands     []certmodel.CommandEvidence
	Verify       certmodel.VerifyInfo
	LinkageCert  string
	LogsSHA256   string
	Exceptions   string
	Issuer       string
}

// BuildWipe assembles a wipe certificate. result is PASS iff every command
// (HPA/DCO and main) exited 0, verify.result is PASS, and no exception
// text was recorded (spec §4.D/§4.G).
func BuildWipe(in WipeInputs) certmodel.Certificate {
	result := certmodel.ResultPass
	if in.Verify.Result != certmodel.ResultPass {
		result = certmodel.ResultFail
	}
	for _, c := range in.HPADCO.Commands {
		if c.Exit != 0 {
			result = certmodel.ResultFail
		}
	}
	for _, c := range in.Commands {
		if c.Exit != 0 {
			result = certmodel.ResultFail
		}
	}
	if in.Exceptions != "" {
		result = certmodel.ResultFail
	}

	cert := certmodel.Certificate{
		CertID:             NewCertID(),
		CertType:           certmodel.CertWipe,
		CertificateVersion: certmodel.CurrentCertificateVersion,
		CreatedAt:          timestamp(),
		Issuer:             in.Issuer,
		Device:             in.Device,
		Policy:             in.Policy,
		Environment:        in.Environment,
		Result:             result,
		HPADCO:             &in.HPADCO,
		Commands:           in.Commands,
		Verify:             &in.Verify,
	}

	if in.LinkageCert != "" {
		cert.Linkage = &certmodel.Linkage{BackupCertID: in.LinkageCert}
	}
	if in.LogsSHA256 != "" {
		cert.Evidence = &certmodel.Evidence{LogsSHA256: in.LogsSHA256}
	}
	if in.Exceptions != "" {
		cert.Exceptions = &certmodel.Exceptions{Text: in.Exceptions}
	}

	sealSelfHash(&cert)
	return cert
}

// sealSelfHash computes certificate_json_sha256 over the RFC 8785
// canonicalization of cert with that field held at the empty string, then
// writes the digest back in place — the self-hash convention documented
// once here, per spec §4.D.
func sealSelfHash(cert *certmodel.Certificate) {
	cert.Metadata.CertificateJSONSHA256 = ""
	canon, err := certsign.Canonicalize(*cert)
	if err != nil {
		// Canonicalization of our own well-typed struct cannot fail in
		// practice; a failure here indicates a programming error, not a
		// runtime condition callers should handle.
		panic("certbuild: canonicalize certificate for self-hash: " + err.Error())
	}
	sum := sha256.Sum256(canon)
	cert.Metadata.CertificateJSONSHA256 = hex.EncodeToString(sum[:])
}
