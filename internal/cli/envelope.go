// Package cli implements the Command Dispatcher (spec §4.I): subcommand
// parsing, JSON success/error envelopes, and exit code mapping.
package cli

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/canonical/securewipe/internal/wipeerr"
)

// envelope is the single JSON shape every subcommand prints to stdout,
// success or failure, so tooling wrapping this CLI never has to guess
// which shape it's parsing.
type envelope struct {
	OK    bool           `json:"ok"`
	Data  any            `json:"data,omitempty"`
	Error map[string]any `json:"error,omitempty"`
}

// writeResult prints a success envelope and returns exit code 0.
func writeResult(w io.Writer, data any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(envelope{OK: true, Data: data})
	return 0
}

// writeError prints an error envelope and returns the exit code that
// Kind.ExitCode() maps it to.
func writeError(w io.Writer, err error) int {
	var werr *wipeerr.Error
	if !errors.As(err, &werr) {
		werr = wipeerr.Wrap(wipeerr.Internal, "unexpected error", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(envelope{OK: false, Error: werr.JSON()})
	return werr.Kind.ExitCode()
}
