package device

import "github.com/canonical/securewipe/internal/certmodel"

// systemMountPoints are the mount points whose presence marks a device as
// CRITICAL regardless of any other signal (spec §4.A risk table).
var systemMountPoints = map[string]bool{
	"/":         true,
	"/boot":     true,
	"/boot/efi": true,
	"/usr":      true,
	"/var":      true,
	"/etc":      true,
	"/home":     true,
}

// Classify is the pure risk-classification function described in spec
// §4.A: CRITICAL if the device hosts the running root filesystem or any
// other system-protected mount point, HIGH if it carries any mount point
// at all, SAFE otherwise.
func Classify(d *certmodel.Device) certmodel.RiskLevel {
	if d.HostsRoot {
		return certmodel.RiskCritical
	}
	for _, mp := range d.MountPoints {
		if systemMountPoints[mp] {
			return certmodel.RiskCritical
		}
	}
	if len(d.MountPoints) > 0 {
		return certmodel.RiskHigh
	}
	return certmodel.RiskSafe
}
