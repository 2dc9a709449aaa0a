package device

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/canonical/cpuid"

	"github.com/canonical/securewipe/internal/certmodel"
)

// runNVMeIdentify and runATAIdentify are package-level indirection points
// over the external controller-query tools, swapped for fakes in tests —
// the same seam nullboot's reseal.go uses for sbefiAddBootManagerProfile
// and friends rather than calling os/exec directly from business logic.
var (
	runNVMeIdentify = func(ctx context.Context, path string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, "nvme", "id-ctrl", "-o", "json", path)
		var out bytes.Buffer
		cmd.Stdout = &out
		err := cmd.Run()
		return out.Bytes(), err
	}
	runATAIdentify = func(ctx context.Context, path string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, "hdparm", "-I", path)
		var out bytes.Buffer
		cmd.Stdout = &out
		err := cmd.Run()
		return out.Bytes(), err
	}
)

// probeFeatures fills in the sanitize/erase/HPA/DCO capability bits for a
// device, best-effort: a probe failure leaves the corresponding bits false
// rather than aborting discovery, since an unreachable tool degrades
// capability reporting, not enumeration (spec §4.A "tool invocation
// failures degrade to feature=unknown rather than aborting").
func probeFeatures(ctx context.Context, id certmodel.Identity) certmodel.Features {
	switch id.Bus {
	case certmodel.BusNVMe:
		out, err := runNVMeIdentify(ctx, id.Path)
		if err != nil {
			return certmodel.Features{}
		}
		text := string(out)
		return certmodel.Features{
			NVMeCryptoErase: strings.Contains(text, "\"crypto_erase\""),
			NVMeBlockErase:  strings.Contains(text, "\"block_erase\""),
		}
	default:
		out, err := runATAIdentify(ctx, id.Path)
		if err != nil {
			return certmodel.Features{}
		}
		text := string(out)
		return certmodel.Features{
			ATASecureErase: strings.Contains(text, "Security erase unit"),
			HPA:            strings.Contains(text, "HPA is enabled") || strings.Contains(text, "Max address"),
			DCO:            strings.Contains(text, "DCO"),
		}
	}
}

// aesNIAvailable reports whether the host CPU exposes AES-NI, logged into
// certificate environment evidence (spec §4.D Environment.aes_ni) via
// canonical/cpuid — the same library nullboot's reseal path references for
// crypto-capability gating.
func aesNIAvailable() bool {
	return cpuid.CPU.Supports(cpuid.AESNI)
}
