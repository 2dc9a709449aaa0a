package device

import (
	"context"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/logsink"
	"github.com/canonical/securewipe/internal/wipeerr"
)

// Discover enumerates every whole-disk block device on the host, classifies
// its risk level, and best-effort probes controller capabilities (spec
// §4.A). Degraded reports whether a udev event fired mid-scan, meaning the
// result may not reflect the current device topology.
func Discover(ctx context.Context, sink *logsink.Sink) (devices []certmodel.Device, degraded bool, err error) {
	g, gerr := newGuard()
	if gerr != nil {
		sink.Event("discover.guard_unavailable", map[string]any{"error": gerr.Error()})
	}

	names, err := listWholeDisks(appFs)
	if err != nil {
		return nil, false, err
	}

	mounts, err := readMounts(appFs)
	if err != nil {
		return nil, false, err
	}

	aesni := aesNIAvailable()
	sink.Event("discover.aesni", map[string]any{"available": aesni})

	for _, name := range names {
		id := readIdentity(appFs, name)
		geo := readGeometry(appFs, name)
		feat := probeFeatures(ctx, id)
		points, hostsRoot := mountPointsFor(mounts, id.Path)

		d := certmodel.Device{
			Identity:    id,
			Geometry:    geo,
			Features:    feat,
			MountPoints: points,
			HostsRoot:   hostsRoot,
		}
		d.RiskLevel = Classify(&d)
		devices = append(devices, d)

		sink.Event("discover.device", map[string]any{
			"path": id.Path,
			"risk": string(d.RiskLevel),
			"bus":  string(id.Bus),
		})
	}

	if g != nil {
		degraded = g.Close()
		if degraded {
			sink.Event("discover.nonatomic", map[string]any{
				"reason": "block device topology changed during enumeration",
			})
		}
	}

	if len(devices) == 0 {
		return nil, degraded, wipeerr.New(wipeerr.DeviceUnavailable, "no block devices found")
	}
	return devices, degraded, nil
}
