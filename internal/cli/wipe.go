package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/certsign"
	"github.com/canonical/securewipe/internal/device"
	"github.com/canonical/securewipe/internal/logsink"
	"github.com/canonical/securewipe/internal/safety"
	"github.com/canonical/securewipe/internal/wipeerr"
	"github.com/canonical/securewipe/internal/wipeexec"
	"github.com/canonical/securewipe/internal/wipeplan"
)

func runWipe(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("wipe", flag.ContinueOnError)
	devicePath := fs.String("device", "", "block device to sanitize")
	policy := fs.String("policy", "", "CLEAR, PURGE, or DESTROY")
	confirm := fs.String("confirm", "", `confirmation token, must read "WIPE <serial>"`)
	isoMode := fs.Bool("iso-mode", false, "running from a bootable ISO, not the live host")
	keyPath := fs.String("sign-key", "", "Ed25519 private key to sign the resulting certificate")
	linkage := fs.String("linkage-cert", "", "backup certificate id this wipe supersedes")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *devicePath == "" || *policy == "" {
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "--device and --policy are required"))
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

	gate := safety.Evaluate(safety.Request{
		Device:            target,
		Policy:            certmodel.WipePolicy(*policy),
		IsPrivileged:      os.Geteuid() == 0,
		ConfirmationToken: *confirm,
		ISOMode:           *isoMode,
		DangerEnvSet:      safety.RequestFromEnv(),
	})
	if gate != "" {
		return writeError(stdout, wipeerr.New(wipeerr.SafetyRefused, "refused by safety gate: "+gate))
	}

	plan := wipeplan.Plan(target, certmodel.WipePolicy(*policy))
	if plan.Blocked {
		return writeError(stdout, wipeerr.New(wipeerr.SafetyRefused, plan.BlockReason))
	}

	var key *certsign.SigningKey
	if *keyPath != "" {
		key, err = certsign.LoadPrivateKey(*keyPath)
		if err != nil {
			return writeError(stdout, err)
		}
		defer key.Zeroize()
	}

	cert, err := wipeexec.Execute(ctx, wipeexec.Request{
		Plan:        plan,
		Environment: environment(),
		LinkageCert: *linkage,
		SigningKey:  key,
		Issuer:      "securewipectl",
	}, sink)
	if err != nil {
		return writeError(stdout, err)
	}

	return writeResult(stdout, map[string]any{"certificate": cert})
}
