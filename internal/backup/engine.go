package backup

import (
	"context"

	"github.com/spf13/afero"

	"github.com/canonical/securewipe/internal/certbuild"
	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/certsign"
	"github.com/canonical/securewipe/internal/logsink"
	"github.com/canonical/securewipe/internal/wipeerr"
)

// DefaultVerificationSamples matches spec §4.E's default sampled
// verification count for backups (distinct from the wipe executor's
// 128-sample default in §4.F, since a backup's file count is usually far
// smaller than a device's LBA count).
const DefaultVerificationSamples = 5

// Request describes one backup invocation.
type Request struct {
	Device       certmodel.Device
	Environment  certmodel.Environment
	IncludePaths []string
	Destination  string
	SourceFS     afero.Fs // nil selects the OS filesystem
	DestFS       afero.Fs // nil selects the OS filesystem rooted at Destination
	SigningKey   *certsign.SigningKey
	Issuer       string
}

// Run executes a full backup: resolve paths, encrypt and copy, seal the
// manifest, sample-verify, build and optionally sign the certificate
// (spec §4.E end to end). The session's ephemeral keys are zeroized
// before Run returns, success or failure.
func Run(ctx context.Context, req Request, sink *logsink.Sink) (certmodel.Certificate, certmodel.BackupManifest, error) {
	paths, err := ResolvePaths(req.Device.RiskLevel, req.IncludePaths)
	if err != nil {
		return certmodel.Certificate{}, certmodel.BackupManifest{}, err
	}

	srcFS := req.SourceFS
	if srcFS == nil {
		srcFS = afero.NewOsFs()
	}
	destFS := req.DestFS
	if destFS == nil {
		destFS = afero.NewBasePathFs(afero.NewOsFs(), req.Destination)
	}

	keys, err := newSessionKeys()
	if err != nil {
		return certmodel.Certificate{}, certmodel.BackupManifest{}, err
	}
	defer keys.Close()

	results, fullyCopied, err := copyTree(ctx, srcFS, destFS, paths, keys, sink)
	if err != nil {
		return certmodel.Certificate{}, certmodel.BackupManifest{}, err
	}

	manifest, err := buildManifest(results, keys.hmacKey)
	if err != nil {
		return certmodel.Certificate{}, certmodel.BackupManifest{}, wipeerr.Wrap(wipeerr.Internal, "seal manifest", err)
	}

	samples, failures, seed, err := verifySamples(manifest.Entries, destFS, keys, DefaultVerificationSamples)
	if err != nil {
		return certmodel.Certificate{}, manifest, err
	}
	sink.Event("backup.verify", map[string]any{"samples": samples, "failures": failures, "seed": seed})

	cert := certbuild.BuildBackup(certbuild.BackupInputs{
		Device:      req.Device.Identity,
		Environment: req.Environment,
		Destination: req.Destination,
		Manifest:    manifest,
		Samples:     samples,
		Failures:    failures,
		FullyCopied: fullyCopied,
		Issuer:      req.Issuer,
	})

	if req.SigningKey != nil {
		cert, err = certsign.Sign(cert, req.SigningKey, false)
		if err != nil {
			return cert, manifest, err
		}
	}

	return cert, manifest, nil
}
