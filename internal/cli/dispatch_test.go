package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestRunUnknownSubcommandReturnsInvalidInput(t *testing.T) {
	var buf bytes.Buffer
	code := Run(context.Background(), []string{"bogus"}, &buf)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	var env envelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.OK {
		t.Error("expected ok=false")
	}
	if env.Error["kind"] != "InvalidInput" {
		t.Errorf("expected InvalidInput kind, got %v", env.Error["kind"])
	}
}

func TestRunNoSubcommand(t *testing.T) {
	var buf bytes.Buffer
	code := Run(context.Background(), nil, &buf)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestCertSubcommandRequiresFile(t *testing.T) {
	var buf bytes.Buffer
	code := Run(context.Background(), []string{"cert", "validate"}, &buf)
	if code != 2 {
		t.Errorf("expected exit code 2 for missing --file, got %d", code)
	}
}
