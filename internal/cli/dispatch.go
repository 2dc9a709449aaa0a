package cli

import (
	"context"
	"io"

	"github.com/canonical/securewipe/internal/wipeerr"
)

// Run dispatches argv[1:] to the matching subcommand and returns the
// process exit code documented in spec §6.
func Run(ctx context.Context, args []string, stdout io.Writer) int {
	if len(args) == 0 {
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "a subcommand is required: discover, backup, wipe, cert"))
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "discover":
		return runDiscover(ctx, rest, stdout)
	case "backup":
		return runBackup(ctx, rest, stdout)
	case "wipe":
		return runWipe(ctx, rest, stdout)
	case "cert":
		return runCert(ctx, rest, stdout)
	default:
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "unknown subcommand: "+sub))
	}
}
