package device

import (
	"testing"

	"github.com/canonical/securewipe/internal/certmodel"
)

func TestClassifyCriticalHostsRoot(t *testing.T) {
	d := certmodel.Device{HostsRoot: true}
	if got := Classify(&d); got != certmodel.RiskCritical {
		t.Errorf("expected CRITICAL, got %s", got)
	}
}

func TestClassifyCriticalSystemMountPoint(t *testing.T) {
	d := certmodel.Device{MountPoints: []string{"/home"}}
	if got := Classify(&d); got != certmodel.RiskCritical {
		t.Errorf("expected CRITICAL, got %s", got)
	}
}

func TestClassifyHighNonSystemMount(t *testing.T) {
	d := certmodel.Device{MountPoints: []string{"/mnt/data"}}
	if got := Classify(&d); got != certmodel.RiskHigh {
		t.Errorf("expected HIGH, got %s", got)
	}
}

func TestClassifySafeUnmounted(t *testing.T) {
	d := certmodel.Device{}
	if got := Classify(&d); got != certmodel.RiskSafe {
		t.Errorf("expected SAFE, got %s", got)
	}
}
