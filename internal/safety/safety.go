// Package safety implements the Safety Gate (spec §4.H): the conjunctive
// set of checks that must all pass before a wipe is allowed to execute.
package safety

import (
	"os"
	"strings"

	"github.com/canonical/securewipe/internal/certmodel"
)

// Request carries everything the gate needs to evaluate, gathered by the
// caller from the process environment and the operator's CLI invocation.
type Request struct {
	Device            certmodel.Device
	Policy            certmodel.WipePolicy
	IsPrivileged      bool
	ConfirmationToken string
	ISOMode           bool
	DangerEnvSet      bool
}

// predicate is one named conjunct. Evaluate runs them in a fixed order
// and reports the first one that fails, so a refusal always names a
// single, specific, actionable reason rather than a generic denial.
type predicate struct {
	name string
	ok   func(Request) bool
}

var predicates = []predicate{
	{
		name: "privilege",
		ok:   func(r Request) bool { return r.IsPrivileged },
	},
	{
		name: "confirmation_token",
		ok: func(r Request) bool {
			want := "WIPE " + r.Device.Identity.Serial
			return r.Device.Identity.Serial != "" && strings.TrimSpace(r.ConfirmationToken) == want
		},
	},
	{
		name: "danger_env",
		ok:   func(r Request) bool { return r.DangerEnvSet },
	},
	{
		name: "critical_requires_iso_mode",
		ok:   func(r Request) bool { return r.Device.RiskLevel != certmodel.RiskCritical || r.ISOMode },
	},
	{
		// DESTROY is descriptive only (spec §2) — the executor refuses to
		// run it unconditionally, no ISO-mode or any other exemption.
		name: "destroy_not_allowed",
		ok:   func(r Request) bool { return r.Policy != certmodel.PolicyDestroy },
	},
}

// Evaluate runs every predicate and returns the name of the first one
// that fails, or "" if every predicate passed. DANGER: a request that
// passes every predicate is one the gate has concluded is safe to
// execute as a destructive wipe.
func Evaluate(r Request) string {
	for _, p := range predicates {
		if !p.ok(r) {
			return p.name
		}
	}
	return ""
}

// RequestFromEnv reads the danger-acknowledgement environment variable
// spec §4.H requires, the one ambient-environment check the gate makes
// outside its explicit Request fields.
func RequestFromEnv() bool {
	return os.Getenv("SECUREWIPE_DANGER") == "1"
}
