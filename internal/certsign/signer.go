package certsign

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/wipeerr"
	"github.com/canonical/securewipe/internal/zero"
)

const algEd25519 = "Ed25519"
const canonicalizationRFC8785 = "RFC8785_JSON"

// SigningKey holds an Ed25519 private key in memory for the lifetime of a
// single sign call. Callers must call Zeroize when done (the CLI dispatcher
// does this via defer immediately after LoadPrivateKey returns).
type SigningKey struct {
	PubkeyID string
	priv     ed25519.PrivateKey
}

// Zeroize overwrites the private key bytes in place.
func (k *SigningKey) Zeroize() {
	zero.Bytes(k.priv)
}

// LoadPrivateKey reads path and parses it as a PKCS#8 PEM-encoded Ed25519
// private key. Any other format — raw key bytes, PKCS#1, an encrypted
// block, a non-Ed25519 algorithm — is rejected with wipeerr.SignatureError;
// this function never tolerates a partial parse.
func LoadPrivateKey(path string) (*SigningKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.SignatureError, "read key file", err).WithPayload("path", path)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, wipeerr.New(wipeerr.SignatureError, "invalid key format: not a PEM file").WithPayload("path", path)
	}
	if block.Type != "PRIVATE KEY" {
		return nil, wipeerr.New(wipeerr.SignatureError, fmt.Sprintf("invalid key format: unexpected PEM block type %q, want PRIVATE KEY", block.Type)).WithPayload("path", path)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.SignatureError, "invalid key format: not a valid PKCS#8 key", err).WithPayload("path", path)
	}

	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, wipeerr.New(wipeerr.SignatureError, "invalid key format: key is not Ed25519").WithPayload("path", path)
	}

	pub := priv.Public().(ed25519.PublicKey)
	return &SigningKey{
		PubkeyID: fingerprint(pub),
		priv:     priv,
	}, nil
}

// fingerprint derives a short stable identifier for a public key, used as
// signature.pubkey_id so a verifier can tell which key produced a signature
// without embedding the full key bytes.
func fingerprint(pub ed25519.PublicKey) string {
	return base64.RawURLEncoding.EncodeToString(pub)
}

// Sign computes an Ed25519 signature over the RFC 8785 canonicalization of
// cert with its Signature field removed and certificate_json_sha256 zeroed
// (spec §6), and returns a copy of cert with the signature block populated.
// The self-hash is zeroed for the signing input only — the returned
// certificate still carries the real digest sealSelfHash computed; the
// signature simply doesn't cover that field, matching how Verify must
// reconstruct the same input from an already-sealed certificate. If cert
// already carries a signature and force is false, Sign refuses with
// wipeerr.AlreadySigned and returns the input unmodified. With force=true,
// signing is idempotent: resigning an already-signed certificate with the
// same key and body yields a byte-identical signature block.
func Sign(cert certmodel.Certificate, key *SigningKey, force bool) (certmodel.Certificate, error) {
	if cert.Signature != nil && !force {
		return cert, wipeerr.New(wipeerr.AlreadySigned, "certificate already carries a signature; pass force to resign").
			WithPayload("cert_id", cert.CertID)
	}

	stripped := cert
	stripped.Signature = nil
	stripped.Metadata.CertificateJSONSHA256 = ""

	canon, err := Canonicalize(stripped)
	if err != nil {
		return cert, wipeerr.Wrap(wipeerr.SignatureError, "canonicalize certificate", err)
	}

	sig := ed25519.Sign(key.priv, canon)

	signed := stripped
	signed.Metadata.CertificateJSONSHA256 = cert.Metadata.CertificateJSONSHA256
	signed.Signature = &certmodel.Signature{
		Alg:              algEd25519,
		PubkeyID:         key.PubkeyID,
		Sig:              base64.StdEncoding.EncodeToString(sig),
		Canonicalization: canonicalizationRFC8785,
	}
	return signed, nil
}

// Verify reports whether cert's signature is valid under pubkey. It
// reconstructs the same signing input Sign used — Signature removed and
// certificate_json_sha256 zeroed (spec §6) — from the already-sealed
// certificate. It never returns an error to the caller for a bad
// signature, wrong key, or unsupported algorithm — only false — matching
// spec §4.B's "wrong pubkey → false (never throw)" contract. A genuine
// structural problem (missing signature, malformed canonicalization
// input) also yields false.
func Verify(cert certmodel.Certificate, pubkey ed25519.PublicKey) bool {
	if cert.Signature == nil {
		return false
	}
	if cert.Signature.Alg != algEd25519 {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(cert.Signature.Sig)
	if err != nil {
		return false
	}

	stripped := cert
	stripped.Signature = nil
	stripped.Metadata.CertificateJSONSHA256 = ""

	canon, err := Canonicalize(stripped)
	if err != nil {
		return false
	}

	return ed25519.Verify(pubkey, canon, sig)
}

// LoadPublicKey reads an Ed25519 public key from a PEM file for Verify.
func LoadPublicKey(path string) (ed25519.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.SignatureError, "read pubkey file", err).WithPayload("path", path)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, wipeerr.New(wipeerr.SignatureError, "invalid key format: not a PEM file").WithPayload("path", path)
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.SignatureError, "invalid key format: not a valid PKIX public key", err).WithPayload("path", path)
	}
	pub, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, wipeerr.New(wipeerr.SignatureError, "invalid key format: key is not Ed25519").WithPayload("path", path)
	}
	return pub, nil
}
