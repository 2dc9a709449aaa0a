package cli

import (
	"context"
	"flag"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/canonical/cpuid"

	"github.com/canonical/securewipe/internal/backup"
	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/certsign"
	"github.com/canonical/securewipe/internal/device"
	"github.com/canonical/securewipe/internal/logsink"
	"github.com/canonical/securewipe/internal/wipeerr"
)

// csvFlag accumulates a repeatable, comma-joined flag into a []string.
type csvFlag struct{ values []string }

func (c *csvFlag) String() string { return strings.Join(c.values, ",") }
func (c *csvFlag) Set(v string) error {
	c.values = append(c.values, strings.Split(v, ",")...)
	return nil
}

func environment() certmodel.Environment {
	host, _ := os.Hostname()
	return certmodel.Environment{
		Hostname: host,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		AESNI:    cpuid.CPU.Supports(cpuid.AESNI),
	}
}

func runBackup(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	devicePath := fs.String("device", "", "block device to back up")
	dest := fs.String("destination", "", "output directory for the encrypted backup")
	keyPath := fs.String("sign-key", "", "Ed25519 private key to sign the resulting certificate")
	var includes csvFlag
	fs.Var(&includes, "include", "comma-separated include path (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *devicePath == "" || *dest == "" {
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "--device and --destination are required"))
	}

	sink := logsink.New(os.Stderr)
	devices, _, err := device.Discover(ctx, sink)
	if err != nil {
		return writeError(stdout, err)
	}
	target, err := findDevice(devices, *devicePath)
	if err != nil {
		return writeError(stdout, err)
	}

	var key *certsign.SigningKey
	if *keyPath != "" {
		key, err = certsign.LoadPrivateKey(*keyPath)
		if err != nil {
			return writeError(stdout, err)
		}
		defer key.Zeroize()
	}

	cert, manifest, err := backup.Run(ctx, backup.Request{
		Device:       target,
		Environment:  environment(),
		IncludePaths: includes.values,
		Destination:  *dest,
		SigningKey:   key,
		Issuer:       "securewipectl",
	}, sink)
	if err != nil {
		return writeError(stdout, err)
	}

	return writeResult(stdout, map[string]any{"certificate": cert, "manifest": manifest})
}

func findDevice(devices []certmodel.Device, path string) (certmodel.Device, error) {
	for _, d := range devices {
		if d.Identity.Path == path {
			return d, nil
		}
	}
	return certmodel.Device{}, wipeerr.New(wipeerr.DeviceUnavailable, "device not found: "+path)
}
