package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/exec"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/certschema"
	"github.com/canonical/securewipe/internal/certsign"
	"github.com/canonical/securewipe/internal/wipeerr"
)

func runCert(ctx context.Context, args []string, stdout io.Writer) int {
	if len(args) == 0 {
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "cert requires a subcommand: validate, sign, verify, show, export-pdf"))
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "validate":
		return certValidate(rest, stdout)
	case "sign":
		return certSign(rest, stdout)
	case "verify":
		return certVerify(rest, stdout)
	case "show":
		return certShow(rest, stdout)
	case "export-pdf":
		return certExportPDF(ctx, rest, stdout)
	default:
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "unknown cert subcommand: "+sub))
	}
}

func certFileFlag(name string, args []string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return fs, fs.String("file", "", "path to a certificate JSON file")
}

func readCertFile(path string) ([]byte, error) {
	if path == "" {
		return nil, wipeerr.New(wipeerr.InvalidInput, "--file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.IoFailure, "read certificate file", err)
	}
	return data, nil
}

func certValidate(args []string, stdout io.Writer) int {
	fs, file := certFileFlag("cert validate", args)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	data, err := readCertFile(*file)
	if err != nil {
		return writeError(stdout, err)
	}
	result, err := certschema.Validate(data)
	if err != nil {
		return writeError(stdout, err)
	}
	return writeResult(stdout, result)
}

func certSign(args []string, stdout io.Writer) int {
	fs, file := certFileFlag("cert sign", args)
	keyPath := fs.String("key", "", "Ed25519 private key path")
	force := fs.Bool("force", false, "re-sign a certificate that already carries a signature")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	data, err := readCertFile(*file)
	if err != nil {
		return writeError(stdout, err)
	}
	var cert certmodel.Certificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return writeError(stdout, wipeerr.Wrap(wipeerr.InvalidInput, "parse certificate JSON", err))
	}
	key, err := certsign.LoadPrivateKey(*keyPath)
	if err != nil {
		return writeError(stdout, err)
	}
	defer key.Zeroize()

	signed, err := certsign.Sign(cert, key, *force)
	if err != nil {
		return writeError(stdout, err)
	}
	return writeResult(stdout, signed)
}

func certVerify(args []string, stdout io.Writer) int {
	fs, file := certFileFlag("cert verify", args)
	keyPath := fs.String("pubkey", "", "Ed25519 public key path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	data, err := readCertFile(*file)
	if err != nil {
		return writeError(stdout, err)
	}
	var cert certmodel.Certificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return writeError(stdout, wipeerr.Wrap(wipeerr.InvalidInput, "parse certificate JSON", err))
	}
	pub, err := certsign.LoadPublicKey(*keyPath)
	if err != nil {
		return writeError(stdout, err)
	}
	ok := certsign.Verify(cert, pub)
	if !ok {
		return writeError(stdout, wipeerr.New(wipeerr.SignatureError, "signature verification failed"))
	}
	return writeResult(stdout, map[string]any{"verified": true})
}

func certShow(args []string, stdout io.Writer) int {
	fs, file := certFileFlag("cert show", args)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	// Without --file, the positional argument is a path, or else a cert id
	// resolved under ~/SecureWipe/certificates/<id>.json.
	path := *file
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
		if _, err := os.Stat(path); err != nil {
			if home, herr := os.UserHomeDir(); herr == nil {
				path = home + "/SecureWipe/certificates/" + path + ".json"
			}
		}
	}
	data, err := readCertFile(path)
	if err != nil {
		return writeError(stdout, err)
	}
	var cert certmodel.Certificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return writeError(stdout, wipeerr.Wrap(wipeerr.InvalidInput, "parse certificate JSON", err))
	}
	return writeResult(stdout, cert)
}

// certExportPDF renders a certificate to PDF by piping the certificate
// file's bytes, as read, through an external renderer named by $SECUREWIPE_PDF_RENDERER — PDF
// layout is intentionally out of process, not a dependency this module
// carries (spec §4.I export-pdf).
func certExportPDF(ctx context.Context, args []string, stdout io.Writer) int {
	fs, file := certFileFlag("cert export-pdf", args)
	out := fs.String("out", "", "output PDF path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	data, err := readCertFile(*file)
	if err != nil {
		return writeError(stdout, err)
	}
	renderer := os.Getenv("SECUREWIPE_PDF_RENDERER")
	if renderer == "" {
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "SECUREWIPE_PDF_RENDERER is not set"))
	}
	if *out == "" {
		return writeError(stdout, wipeerr.New(wipeerr.InvalidInput, "--out is required"))
	}

	cmd := exec.CommandContext(ctx, renderer)
	cmd.Stdin = bytes.NewReader(data)
	pdf, err := cmd.Output()
	if err != nil {
		return writeError(stdout, wipeerr.Wrap(wipeerr.CommandFailure, "run PDF renderer", err))
	}
	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		return writeError(stdout, wipeerr.Wrap(wipeerr.IoFailure, "write rendered PDF", err))
	}
	return writeResult(stdout, map[string]any{"out": *out, "bytes": len(pdf)})
}
