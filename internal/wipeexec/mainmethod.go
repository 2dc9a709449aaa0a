package wipeexec

import (
	"context"
	"crypto/rand"
	"io"

	"golang.org/x/sys/unix"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/wipeerr"
)

const overwriteBlockSize = 1 << 20 // 1 MiB

// runMainMethod executes the plan's selected MainMethod: a controller
// sanitize/erase command for the NVMe/ATA methods, or a direct streaming
// overwrite pass for the two overwrite methods.
func runMainMethod(ctx context.Context, d certmodel.Device, method certmodel.WipeMethod) ([]certmodel.CommandEvidence, error) {
	switch method {
	case certmodel.MethodNVMeSanitizeCryptoErase:
		ev, err := evidence(ctx, "nvme", "sanitize", d.Identity.Path, "--sanact=2")
		return wrapSingle(ev, err)
	case certmodel.MethodNVMeSanitizeBlockErase:
		ev, err := evidence(ctx, "nvme", "sanitize", d.Identity.Path, "--sanact=3")
		return wrapSingle(ev, err)
	case certmodel.MethodATASecureErase:
		ev, err := evidence(ctx, "hdparm", "--user-master", "u", "--security-erase", "SECUREWIPE", d.Identity.Path)
		return wrapSingle(ev, err)
	case certmodel.MethodOverwriteZero, certmodel.MethodOverwriteRandomVerify:
		return nil, overwriteDevice(ctx, d, method == certmodel.MethodOverwriteRandomVerify)
	default:
		return nil, wipeerr.New(wipeerr.Internal, "unknown wipe method "+string(method))
	}
}

func wrapSingle(ev certmodel.CommandEvidence, err error) ([]certmodel.CommandEvidence, error) {
	if err != nil {
		return nil, err
	}
	return []certmodel.CommandEvidence{ev}, nil
}

// openDeviceForWrite is the indirection point over the exclusive raw
// device open, swapped for an in-memory fake in tests.
var openDeviceForWrite = func(path string) (writerAt, error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_EXCL, 0)
	if err != nil {
		return nil, err
	}
	return &fdWriterAt{fd: fd}, nil
}

// writerAt is the minimal device-write seam the overwrite loop needs.
type writerAt interface {
	WriteAt(p []byte, off int64) (int, error)
	Close() error
}

type fdWriterAt struct{ fd int }

func (w *fdWriterAt) WriteAt(p []byte, off int64) (int, error) { return unix.Pwrite(w.fd, p, off) }
func (w *fdWriterAt) Close() error                              { return unix.Close(w.fd) }

// overwriteDevice streams zero or cryptographically random blocks across
// the entire device capacity (spec §4.F overwrite_zero / overwrite_random_verify).
func overwriteDevice(ctx context.Context, d certmodel.Device, random bool) error {
	w, err := openDeviceForWrite(d.Identity.Path)
	if err != nil {
		return wipeerr.Wrap(wipeerr.DeviceUnavailable, "open device for overwrite", err)
	}
	defer w.Close()

	block := make([]byte, overwriteBlockSize)
	var offset int64
	for offset < int64(d.Geometry.CapacityBytes) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if random {
			if _, err := io.ReadFull(rand.Reader, block); err != nil {
				return wipeerr.Wrap(wipeerr.IoFailure, "fill random overwrite block", err)
			}
		}
		n, err := w.WriteAt(block, offset)
		if err != nil {
			return wipeerr.Wrap(wipeerr.IoFailure, "write overwrite block", err)
		}
		offset += int64(n)
	}
	return nil
}
