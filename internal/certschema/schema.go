// Package certschema validates certificate JSON against the registered
// Draft-07 schemas for the "backup" and "wipe" cert_type discriminants
// (spec §4.C), using the same JSON Schema library
// (santhosh-tekuri/jsonschema/v5) the corpus's compliance-evidence tooling
// reaches for.
package certschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	debversion "github.com/knqyf263/go-deb-version"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/wipeerr"
)

//go:embed schemas/backup.schema.json
var backupSchemaJSON []byte

//go:embed schemas/wipe.schema.json
var wipeSchemaJSON []byte

const (
	backupResourceName = "backup.schema.json"
	wipeResourceName   = "wipe.schema.json"
)

var (
	compileOnce    sync.Once
	compiledBackup *jsonschema.Schema
	compiledWipe   *jsonschema.Schema
	compileErr     error
)

func compile() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7

	if err := c.AddResource(backupResourceName, bytes.NewReader(backupSchemaJSON)); err != nil {
		compileErr = fmt.Errorf("certschema: register backup schema: %w", err)
		return
	}
	if err := c.AddResource(wipeResourceName, bytes.NewReader(wipeSchemaJSON)); err != nil {
		compileErr = fmt.Errorf("certschema: register wipe schema: %w", err)
		return
	}

	backup, err := c.Compile(backupResourceName)
	if err != nil {
		compileErr = fmt.Errorf("certschema: compile backup schema: %w", err)
		return
	}
	wipe, err := c.Compile(wipeResourceName)
	if err != nil {
		compileErr = fmt.Errorf("certschema: compile wipe schema: %w", err)
		return
	}

	compiledBackup = backup
	compiledWipe = wipe
}

// Result is the outcome of a successful validation.
type Result struct {
	Type certmodel.CertType
	// Outdated is true when the certificate's certificate_version is older
	// than MinCertificateVersion, per SPEC_FULL.md's go-deb-version-based
	// migration check — an outdated certificate is still valid JSON, just
	// flagged rather than rejected.
	Outdated bool
}

// MinCertificateVersion is the oldest certificate_version this build will
// still parse without flagging Outdated. Compared via go-deb-version the
// same way nullboot orders installed kernel package version strings.
const MinCertificateVersion = "1.0.0"

// Validate decodes data as JSON, dispatches on its cert_type discriminant,
// and validates it against the matching Draft-07 schema. Unknown or absent
// cert_type is a SchemaInvalid error. The signature block, when present, is
// validated for shape only — its absence is never itself a failure.
func Validate(data []byte) (Result, error) {
	compileOnce.Do(compile)
	if compileErr != nil {
		return Result{}, wipeerr.Wrap(wipeerr.Internal, "schema compilation failed", compileErr)
	}

	var probe struct {
		CertType           string `json:"cert_type"`
		CertificateVersion string `json:"certificate_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Result{}, wipeerr.Wrap(wipeerr.SchemaInvalid, "certificate is not valid JSON", err)
	}

	var schema *jsonschema.Schema
	var certType certmodel.CertType
	switch certmodel.CertType(probe.CertType) {
	case certmodel.CertBackup:
		schema, certType = compiledBackup, certmodel.CertBackup
	case certmodel.CertWipe:
		schema, certType = compiledWipe, certmodel.CertWipe
	default:
		return Result{}, wipeerr.New(wipeerr.SchemaInvalid, fmt.Sprintf("unknown cert_type %q", probe.CertType)).
			WithPayload("cert_type", probe.CertType)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Result{}, wipeerr.Wrap(wipeerr.SchemaInvalid, "certificate is not valid JSON", err)
	}
	if err := schema.Validate(v); err != nil {
		return Result{}, wipeerr.Wrap(wipeerr.SchemaInvalid, "certificate failed schema validation", err).
			WithPayload("cert_type", string(certType))
	}

	outdated := false
	if probe.CertificateVersion != "" {
		outdated = isOlder(probe.CertificateVersion, MinCertificateVersion)
	}

	return Result{Type: certType, Outdated: outdated}, nil
}

// isOlder reports whether a is strictly older than b as Debian-style
// version strings. A malformed version string is treated as not-older
// (conservatively: never auto-flag something we can't parse).
func isOlder(a, b string) bool {
	va, err := debversion.NewVersion(a)
	if err != nil {
		return false
	}
	vb, err := debversion.NewVersion(b)
	if err != nil {
		return false
	}
	return va.Compare(vb) < 0
}
