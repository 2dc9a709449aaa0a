package wipeexec

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/logsink"
	"github.com/canonical/securewipe/internal/wipeerr"
)

type fakeDeviceMem struct{ data []byte }

func (f *fakeDeviceMem) WriteAt(p []byte, off int64) (int, error) {
	n := copy(f.data[off:], p)
	return n, nil
}
func (f *fakeDeviceMem) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, f.data[off:])
	return n, nil
}
func (f *fakeDeviceMem) Close() error { return nil }

func withFakeDevice(t *testing.T, size int) *fakeDeviceMem {
	t.Helper()
	dev := &fakeDeviceMem{data: make([]byte, size)}
	for i := range dev.data {
		dev.data[i] = 0xFF
	}

	oldW, oldR := openDeviceForWrite, openDeviceForRead
	openDeviceForWrite = func(path string) (writerAt, error) { return dev, nil }
	openDeviceForRead = func(path string) (readerAt, error) { return dev, nil }
	t.Cleanup(func() { openDeviceForWrite, openDeviceForRead = oldW, oldR })
	return dev
}

func withFakeCommand(t *testing.T, exitCode int) {
	t.Helper()
	old := runCommand
	runCommand = func(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
		return []byte("ok"), nil, exitCode, nil
	}
	t.Cleanup(func() { runCommand = old })
}

func TestExecuteOverwriteZeroPasses(t *testing.T) {
	dev := withFakeDevice(t, 4096)
	sink := logsink.New(io.Discard)

	d := certmodel.Device{
		Identity: certmodel.Identity{Path: "/dev/fake"},
		Geometry: certmodel.Geometry{CapacityBytes: 4096, LogicalBlockSize: 512, TotalLBAs: 8},
	}
	req := Request{
		Plan: certmodel.WipePlan{
			Device:       d,
			Policy:       certmodel.PolicyClear,
			MainMethod:   certmodel.MethodOverwriteZero,
			Verification: certmodel.VerificationPlan{Samples: 4},
		},
	}

	cert, err := Execute(context.Background(), req, sink)
	if err != nil {
		t.Fatal(err)
	}
	if cert.Result != certmodel.ResultPass {
		t.Errorf("expected PASS, got %s", cert.Result)
	}
	for _, b := range dev.data {
		if b != 0 {
			t.Fatal("expected device to be fully zeroed")
		}
	}
}

func TestExecuteNVMeSanitizeRunsControllerCommand(t *testing.T) {
	withFakeCommand(t, 0)
	withFakeDevice(t, 4096)
	sink := logsink.New(io.Discard)

	d := certmodel.Device{
		Identity: certmodel.Identity{Path: "/dev/nvme0n1"},
		Geometry: certmodel.Geometry{CapacityBytes: 4096, LogicalBlockSize: 512, TotalLBAs: 8},
	}
	req := Request{
		Plan: certmodel.WipePlan{
			Device:       d,
			Policy:       certmodel.PolicyPurge,
			MainMethod:   certmodel.MethodNVMeSanitizeCryptoErase,
			Verification: certmodel.VerificationPlan{Samples: 2},
		},
	}

	cert, err := Execute(context.Background(), req, sink)
	if err != nil {
		t.Fatal(err)
	}
	if len(cert.Commands) != 1 {
		t.Fatalf("expected 1 command recorded, got %d", len(cert.Commands))
	}
	if cert.Result != certmodel.ResultPass {
		t.Errorf("expected PASS, got %s", cert.Result)
	}
}

func TestExecuteRecordsFailureOnNonZeroCommandExit(t *testing.T) {
	withFakeCommand(t, 1)
	withFakeDevice(t, 4096)
	sink := logsink.New(io.Discard)

	d := certmodel.Device{
		Identity: certmodel.Identity{Path: "/dev/nvme0n1"},
		Geometry: certmodel.Geometry{CapacityBytes: 4096, LogicalBlockSize: 512, TotalLBAs: 8},
	}
	req := Request{
		Plan: certmodel.WipePlan{
			Device:       d,
			Policy:       certmodel.PolicyPurge,
			MainMethod:   certmodel.MethodNVMeSanitizeCryptoErase,
			Verification: certmodel.VerificationPlan{Samples: 2},
		},
	}

	cert, err := Execute(context.Background(), req, sink)
	if err != nil {
		t.Fatal(err)
	}
	if cert.Result != certmodel.ResultFail {
		t.Errorf("expected FAIL when controller command exits non-zero, got %s", cert.Result)
	}
}

func TestExecuteRefusesBlockedPlan(t *testing.T) {
	sink := logsink.New(io.Discard)
	req := Request{
		Plan: certmodel.WipePlan{
			Device:  certmodel.Device{Identity: certmodel.Identity{Path: "/dev/sdx"}},
			Policy:  certmodel.PolicyPurge,
			Blocked: true,
		},
	}

	_, err := Execute(context.Background(), req, sink)
	if err == nil {
		t.Fatal("expected an error for a blocked plan")
	}
	var werr *wipeerr.Error
	if !errors.As(err, &werr) || werr.Kind != wipeerr.SafetyRefused {
		t.Errorf("expected SafetyRefused, got %v", err)
	}
}

func TestExecuteRefusesDestroyPolicyEvenWhenNotMarkedBlocked(t *testing.T) {
	sink := logsink.New(io.Discard)
	req := Request{
		Plan: certmodel.WipePlan{
			Device: certmodel.Device{Identity: certmodel.Identity{Path: "/dev/sdx"}},
			Policy: certmodel.PolicyDestroy,
			// Blocked deliberately left false: the executor must refuse a
			// DESTROY policy on its own, without relying on the plan or
			// the Safety Gate having already caught it upstream.
		},
	}

	_, err := Execute(context.Background(), req, sink)
	if err == nil {
		t.Fatal("expected an error for a DESTROY policy")
	}
	var werr *wipeerr.Error
	if !errors.As(err, &werr) || werr.Kind != wipeerr.SafetyRefused {
		t.Errorf("expected SafetyRefused, got %v", err)
	}
}
