package wipeplan

import (
	"testing"

	"github.com/canonical/securewipe/internal/certmodel"
)

func TestPlanBlocksCriticalDevice(t *testing.T) {
	d := certmodel.Device{RiskLevel: certmodel.RiskCritical}
	p := Plan(d, certmodel.PolicyPurge)
	if !p.Blocked {
		t.Fatal("expected CRITICAL device plan to be blocked")
	}
	if p.BlockReason == "" {
		t.Error("expected a block reason")
	}
}

func TestPlanPurgePrefersNVMeCryptoErase(t *testing.T) {
	d := certmodel.Device{
		RiskLevel: certmodel.RiskSafe,
		Features:  certmodel.Features{NVMeCryptoErase: true, NVMeBlockErase: true},
	}
	p := Plan(d, certmodel.PolicyPurge)
	if p.MainMethod != certmodel.MethodNVMeSanitizeCryptoErase {
		t.Errorf("expected crypto erase preferred over block erase, got %s", p.MainMethod)
	}
	if p.Degraded {
		t.Error("expected no degradation when crypto erase is available")
	}
}

func TestPlanPurgeDegradesWithoutControllerSupport(t *testing.T) {
	d := certmodel.Device{RiskLevel: certmodel.RiskSafe}
	p := Plan(d, certmodel.PolicyPurge)
	if p.MainMethod != certmodel.MethodOverwriteRandomVerify {
		t.Errorf("expected overwrite fallback, got %s", p.MainMethod)
	}
	if !p.Degraded {
		t.Error("expected degraded=true when falling back from PURGE")
	}
}

func TestPlanClearUsesOverwriteZero(t *testing.T) {
	d := certmodel.Device{RiskLevel: certmodel.RiskSafe}
	p := Plan(d, certmodel.PolicyClear)
	if p.MainMethod != certmodel.MethodOverwriteZero {
		t.Errorf("expected overwrite_zero for CLEAR, got %s", p.MainMethod)
	}
}

func TestPlanRecordsHPADCOClearWhenPresent(t *testing.T) {
	d := certmodel.Device{Features: certmodel.Features{HPA: true}}
	p := Plan(d, certmodel.PolicyClear)
	if !p.HPADCOClear {
		t.Error("expected HPADCOClear true when device reports an HPA")
	}
}

func TestPlanBlocksDestroyEvenOnSafeDevice(t *testing.T) {
	d := certmodel.Device{RiskLevel: certmodel.RiskSafe}
	p := Plan(d, certmodel.PolicyDestroy)
	if !p.Blocked {
		t.Fatal("expected a DESTROY plan to be blocked regardless of device risk level")
	}
	if p.BlockReason == "" {
		t.Error("expected a block reason")
	}
	if p.MainMethod != certmodel.MethodOverwriteRandomVerify {
		t.Errorf("expected the plan to still record the method it would have used, got %s", p.MainMethod)
	}
}
