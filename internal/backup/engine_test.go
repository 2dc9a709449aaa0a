package backup

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/logsink"
)

func TestResolvePathsCriticalDefaultsToUserData(t *testing.T) {
	got, err := ResolvePaths(certmodel.RiskCritical, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected default user-data paths for a CRITICAL device")
	}

	if _, err := ResolvePaths(certmodel.RiskCritical, []string{"/home"}); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePathsNonCriticalRequiresInclude(t *testing.T) {
	if _, err := ResolvePaths(certmodel.RiskSafe, nil); err == nil {
		t.Fatal("expected error for non-CRITICAL device with no include_paths")
	}
	if _, err := ResolvePaths(certmodel.RiskHigh, nil); err == nil {
		t.Fatal("expected error for non-CRITICAL device with no include_paths")
	}
	got, err := ResolvePaths(certmodel.RiskSafe, []string{"/home"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "/home" {
		t.Fatalf("expected explicit include_paths to pass through, got %v", got)
	}
}

func TestRunBackupRoundTrip(t *testing.T) {
	src := afero.NewMemMapFs()
	dest := afero.NewMemMapFs()
	afero.WriteFile(src, "/home/alice/doc.txt", []byte("hello world"), 0o600)
	afero.WriteFile(src, "/home/alice/notes.txt", []byte("more data here"), 0o600)

	req := Request{
		Device:       certmodel.Device{Identity: certmodel.Identity{Path: "/dev/sdx"}, RiskLevel: certmodel.RiskSafe},
		IncludePaths: []string{"/home"},
		Destination:  "/backup",
		SourceFS:     src,
		DestFS:       dest,
		Issuer:       "securewipe",
	}

	sink := logsink.New(io.Discard)
	cert, manifest, err := Run(context.Background(), req, sink)
	if err != nil {
		t.Fatal(err)
	}
	if manifest.TotalFiles != 2 {
		t.Errorf("expected 2 files in manifest, got %d", manifest.TotalFiles)
	}
	if cert.Result != certmodel.ResultPass {
		t.Errorf("expected PASS, got %s", cert.Result)
	}
	if manifest.ManifestHMACSHA256 == "" {
		t.Error("expected manifest HMAC to be set")
	}
}
