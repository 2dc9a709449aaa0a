// Package device implements the Device Enumerator (spec §4.A): discovery
// of block devices, their identity/geometry, mount state, and risk
// classification.
package device

import "os"

// FS abstracts the filesystem reads the enumerator needs, the same shape
// nullboot's efibootmgr.FS interface used for its boot-asset tree — small,
// mockable, no afero in the production path.
type FS interface {
	ReadDir(path string) ([]os.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	Readlink(path string) (string, error)
}

type realFS struct{}

func (realFS) ReadDir(path string) ([]os.DirEntry, error) { return os.ReadDir(path) }
func (realFS) ReadFile(path string) ([]byte, error)       { return os.ReadFile(path) }
func (realFS) Readlink(path string) (string, error)       { return os.Readlink(path) }

// appFs is the default FS, swapped out in tests exactly the way nullboot
// swaps its package-level appFs.
var appFs FS = realFS{}
