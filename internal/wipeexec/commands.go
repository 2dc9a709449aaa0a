// Package wipeexec drives a WipePlan to completion: HPA/DCO clearing,
// the main sanitize/overwrite method, sampled post-wipe verification, and
// certificate assembly (spec §4.G).
package wipeexec

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os/exec"
	"time"

	"github.com/canonical/securewipe/internal/certmodel"
)

// runCommand is the package-level indirection point over external
// controller tools (hdparm, nvme-cli), mirroring nullboot's reseal.go
// seam for sbefiAddBootManagerProfile — tests swap this rather than the
// individual step functions, keeping the state machine itself honest.
var runCommand = func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	runErr := cmd.Run()
	code := 0
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if runErr != nil {
		code = -1
	}
	return outBuf.Bytes(), errBuf.Bytes(), code, nil
}

// evidence runs one command and converts it into the CommandEvidence shape
// the certificate records, hashing stdout/stderr rather than embedding
// them verbatim (spec §4.D CommandEvidence keeps the certificate body
// small and deterministic).
func evidence(ctx context.Context, name string, args ...string) (certmodel.CommandEvidence, error) {
	start := time.Now()
	stdout, stderr, code, err := runCommand(ctx, name, args...)
	elapsed := time.Since(start)
	if err != nil {
		return certmodel.CommandEvidence{}, err
	}

	outSum := sha256.Sum256(stdout)
	errSum := sha256.Sum256(stderr)
	cmdLine := name
	for _, a := range args {
		cmdLine += " " + a
	}

	return certmodel.CommandEvidence{
		Cmd:          cmdLine,
		Exit:         code,
		Ms:           elapsed.Milliseconds(),
		StdoutSHA256: hex.EncodeToString(outSum[:]),
		StderrSHA256: hex.EncodeToString(errSum[:]),
	}, nil
}
