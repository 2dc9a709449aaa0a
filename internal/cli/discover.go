package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/canonical/securewipe/internal/device"
	"github.com/canonical/securewipe/internal/logsink"
)

// runDiscover implements `securewipectl discover`. No third-party table
// library appears anywhere in the corpus; text/tabwriter is the stdlib
// tool every Go CLI in this space reaches for, so --format table uses it
// rather than importing one for a single rendering path.
func runDiscover(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	format := fs.String("format", "json", "output format: json or table")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sink := logsink.New(os.Stderr)
	devices, degraded, err := device.Discover(ctx, sink)
	if err != nil {
		return writeError(stdout, err)
	}

	if *format == "table" {
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tMODEL\tSERIAL\tBUS\tRISK")
		for _, d := range devices {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Identity.Path, d.Identity.Model, d.Identity.Serial, d.Identity.Bus, d.RiskLevel)
		}
		if degraded {
			fmt.Fprintln(tw, "# warning: device topology changed during enumeration")
		}
		tw.Flush()
		return 0
	}

	return writeResult(stdout, map[string]any{"devices": devices, "degraded": degraded})
}
