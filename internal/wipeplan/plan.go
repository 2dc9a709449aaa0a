// Package wipeplan resolves a device and a requested NIST SP 800-88
// policy level into a concrete WipePlan (spec §4.F), including the
// CRITICAL-device blocking rule.
package wipeplan

import (
	"github.com/canonical/securewipe/internal/certmodel"
)

// Plan resolves the method selection table from spec §4.F: prefer the
// device's strongest available SP 800-88 PURGE-equivalent primitive,
// falling back to overwrite when the controller offers none, and
// blocking outright when the device is CRITICAL or the policy is
// DESTROY — DESTROY is descriptive only (spec §2); the plan is still
// built in full so its evidence can be inspected, but it is always
// marked blocked, independent of the Safety Gate's own unconditional
// refusal of the same policy.
func Plan(d certmodel.Device, policy certmodel.WipePolicy) certmodel.WipePlan {
	plan := certmodel.WipePlan{
		Device:      d,
		Policy:      policy,
		HPADCOClear: d.Features.HPA || d.Features.DCO,
	}

	switch {
	case policy == certmodel.PolicyDestroy:
		plan.Blocked = true
		plan.BlockReason = "DESTROY is descriptive only; the executor never runs it"
	case d.RiskLevel == certmodel.RiskCritical:
		plan.Blocked = true
		plan.BlockReason = "device hosts a system-protected mount point or the running root filesystem"
	}

	plan.MainMethod, plan.Degraded = selectMethod(d, policy)
	plan.Verification = certmodel.VerificationPlan{Samples: certmodel.DefaultVerificationSamples}

	return plan
}

// selectMethod implements spec §4.F's policy → method table. degraded is
// true when the policy asked for a controller-native primitive the
// device doesn't advertise and the plan fell back to an overwrite pass —
// a PURGE request honored via DESTROY-grade overwrite is stronger than
// requested but must be surfaced, not silently substituted.
func selectMethod(d certmodel.Device, policy certmodel.WipePolicy) (certmodel.WipeMethod, bool) {
	switch policy {
	case certmodel.PolicyDestroy:
		return certmodel.MethodOverwriteRandomVerify, false

	case certmodel.PolicyPurge:
		switch {
		case d.Features.NVMeCryptoErase:
			return certmodel.MethodNVMeSanitizeCryptoErase, false
		case d.Features.NVMeBlockErase:
			return certmodel.MethodNVMeSanitizeBlockErase, false
		case d.Features.ATASecureErase:
			return certmodel.MethodATASecureErase, false
		default:
			return certmodel.MethodOverwriteRandomVerify, true
		}

	default: // CLEAR
		return certmodel.MethodOverwriteZero, false
	}
}
