// Command securewipectl is the operator-facing entrypoint for device
// discovery, encrypted backup, NIST SP 800-88 sanitization, and the
// tamper-evident certificate workflow around them.
package main

import (
	"context"
	"os"

	"github.com/canonical/securewipe/internal/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout))
}
