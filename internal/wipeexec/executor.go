package wipeexec

import (
	"context"

	"github.com/canonical/securewipe/internal/certbuild"
	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/certsign"
	"github.com/canonical/securewipe/internal/logsink"
	"github.com/canonical/securewipe/internal/wipeerr"
)

// state names the wipe state machine steps (spec §4.G): READY ->
// HPA_DCO_CLEAR -> MAIN_WIPE -> VERIFY -> CERT_BUILD -> DONE, with a
// FAIL_RECORD branch from any step that still produces a signed FAIL
// certificate rather than aborting with no evidence at all.
type state string

const (
	stateReady        state = "READY"
	stateHPADCOClear  state = "HPA_DCO_CLEAR"
	stateMainWipe     state = "MAIN_WIPE"
	stateVerify       state = "VERIFY"
	stateCertBuild    state = "CERT_BUILD"
	stateDone         state = "DONE"
	stateFailRecord   state = "FAIL_RECORD"
)

// Request describes one wipe invocation, already past the Safety Gate.
type Request struct {
	Plan        certmodel.WipePlan
	Environment certmodel.Environment
	LinkageCert string
	SigningKey  *certsign.SigningKey
	Issuer      string
}

// Execute runs a WipePlan to completion and, once the plan is accepted,
// always returns a certificate, PASS or FAIL — a wipe that fails partway
// still produces evidence of what was attempted and where it stopped
// (spec §4.G "every wipe attempt, successful or not, produces a
// certificate"). A blocked or DESTROY plan is refused with an error and
// no certificate, and a signing failure on the final certificate is
// returned as an error alongside the unsigned certificate.
func Execute(ctx context.Context, req Request, sink *logsink.Sink) (certmodel.Certificate, error) {
	// Independent of whatever the Safety Gate already decided: the
	// executor itself must never run a blocked plan or a DESTROY policy.
	// DESTROY is descriptive only (spec §2) — there is no caller path
	// that should ever reach this point with one, but the executor does
	// not trust that invariant to hold upstream.
	if req.Plan.Blocked || req.Plan.Policy == certmodel.PolicyDestroy {
		return certmodel.Certificate{}, wipeerr.New(wipeerr.SafetyRefused, "refusing to execute a blocked wipe plan")
	}

	st := stateReady
	d := req.Plan.Device

	sink.Event("wipe.state", map[string]any{"state": string(st)})

	var hpadco certmodel.HPADCOInfo
	var err error
	if req.Plan.HPADCOClear {
		st = stateHPADCOClear
		sink.Event("wipe.state", map[string]any{"state": string(st)})
		hpadco, err = clearHPADCO(ctx, d)
		if err != nil {
			return failRecord(req, hpadco, nil, certmodel.VerifyInfo{}, err.Error(), sink), nil
		}
	}

	st = stateMainWipe
	sink.Event("wipe.state", map[string]any{"state": string(st)})
	commands, err := runMainMethod(ctx, d, req.Plan.MainMethod)
	if err != nil {
		return failRecord(req, hpadco, commands, certmodel.VerifyInfo{}, err.Error(), sink), nil
	}

	st = stateVerify
	sink.Event("wipe.state", map[string]any{"state": string(st)})
	verify, err := verifyWipe(ctx, d, req.Plan.MainMethod, req.Plan.Verification.Samples)
	if err != nil {
		return failRecord(req, hpadco, commands, verify, err.Error(), sink), nil
	}

	st = stateCertBuild
	sink.Event("wipe.state", map[string]any{"state": string(st)})
	cert := certbuild.BuildWipe(certbuild.WipeInputs{
		Device:      d.Identity,
		Environment: req.Environment,
		Policy:      req.Plan.Policy,
		HPADCO:      hpadco,
		Commands:    commands,
		Verify:      verify,
		LinkageCert: req.LinkageCert,
		Issuer:      req.Issuer,
	})

	if req.SigningKey != nil {
		cert, err = certsign.Sign(cert, req.SigningKey, false)
		if err != nil {
			return cert, err
		}
	}

	st = stateDone
	sink.Event("wipe.state", map[string]any{"state": string(st)})
	return cert, nil
}

// failRecord builds a FAIL certificate from whatever evidence was
// collected before the step that errored, recording the failure reason
// in Exceptions rather than discarding the partial evidence.
func failRecord(req Request, hpadco certmodel.HPADCOInfo, commands []certmodel.CommandEvidence, verify certmodel.VerifyInfo, reason string, sink *logsink.Sink) certmodel.Certificate {
	sink.Event("wipe.state", map[string]any{"state": string(stateFailRecord), "reason": reason})

	cert := certbuild.BuildWipe(certbuild.WipeInputs{
		Device:      req.Plan.Device.Identity,
		Environment: req.Environment,
		Policy:      req.Plan.Policy,
		HPADCO:      hpadco,
		Commands:    commands,
		Verify:      verify,
		LinkageCert: req.LinkageCert,
		Exceptions:  reason,
		Issuer:      req.Issuer,
	})
	if req.SigningKey != nil {
		if signed, err := certsign.Sign(cert, req.SigningKey, false); err == nil {
			cert = signed
		}
	}
	return cert
}
