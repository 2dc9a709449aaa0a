package safety

import (
	"testing"

	"github.com/canonical/securewipe/internal/certmodel"
)

func validRequest() Request {
	return Request{
		Device:            certmodel.Device{Identity: certmodel.Identity{Serial: "SN123"}, RiskLevel: certmodel.RiskSafe},
		Policy:            certmodel.PolicyPurge,
		IsPrivileged:      true,
		ConfirmationToken: "WIPE SN123",
		DangerEnvSet:      true,
	}
}

func TestEvaluatePassesAllConjuncts(t *testing.T) {
	if got := Evaluate(validRequest()); got != "" {
		t.Errorf("expected no failing predicate, got %q", got)
	}
}

func TestEvaluateFailsWithoutPrivilege(t *testing.T) {
	r := validRequest()
	r.IsPrivileged = false
	if got := Evaluate(r); got != "privilege" {
		t.Errorf("expected privilege failure, got %q", got)
	}
}

func TestEvaluateFailsWithWrongConfirmationToken(t *testing.T) {
	r := validRequest()
	r.ConfirmationToken = "yes"
	if got := Evaluate(r); got != "confirmation_token" {
		t.Errorf("expected confirmation_token failure, got %q", got)
	}
}

func TestEvaluateFailsWithoutDangerEnv(t *testing.T) {
	r := validRequest()
	r.DangerEnvSet = false
	if got := Evaluate(r); got != "danger_env" {
		t.Errorf("expected danger_env failure, got %q", got)
	}
}

func TestEvaluateCriticalDeviceRequiresISOMode(t *testing.T) {
	r := validRequest()
	r.Device.RiskLevel = certmodel.RiskCritical
	if got := Evaluate(r); got != "critical_requires_iso_mode" {
		t.Errorf("expected critical_requires_iso_mode failure, got %q", got)
	}
	r.ISOMode = true
	if got := Evaluate(r); got != "" {
		t.Errorf("expected ISO mode to satisfy the CRITICAL conjunct, got %q", got)
	}
}

func TestEvaluateDestroyIsAlwaysRefused(t *testing.T) {
	r := validRequest()
	r.Policy = certmodel.PolicyDestroy
	if got := Evaluate(r); got != "destroy_not_allowed" {
		t.Errorf("expected destroy_not_allowed failure, got %q", got)
	}

	// ISO mode grants no exemption — DESTROY is refused unconditionally.
	r.ISOMode = true
	if got := Evaluate(r); got != "destroy_not_allowed" {
		t.Errorf("expected destroy_not_allowed failure even in ISO mode, got %q", got)
	}
}
