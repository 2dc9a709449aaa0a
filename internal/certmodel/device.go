// Package certmodel holds the data types shared across every securewipe
// component: Device, WipePolicy/Method/Plan, BackupManifest, and the
// Certificate sum type. It has no behavior beyond small pure helpers —
// components import it, not each other, for the shapes they exchange.
package certmodel

// Bus identifies the transport a block device is attached through.
type Bus string

const (
	BusNVMe    Bus = "NVMe"
	BusSATA    Bus = "SATA"
	BusUSB     Bus = "USB"
	BusMMC     Bus = "MMC"
	BusUnknown Bus = "unknown"
)

// RiskLevel is the classification outcome for a device, a pure function of
// its State per spec §3's invariant — never user-overridable.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "SAFE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Identity is the stable identifying information for a device.
type Identity struct {
	Path     string `json:"path"`
	Model    string `json:"model"`
	Serial   string `json:"serial"`
	Firmware string `json:"firmware"`
	Bus      Bus    `json:"bus"`
}

// Geometry is the device's addressable-space description.
type Geometry struct {
	CapacityBytes   uint64 `json:"capacity_bytes"`
	LogicalBlockSize uint32 `json:"logical_block_size"`
	TotalLBAs       uint64 `json:"total_lbas"`
}

// Features records controller-level capabilities the Wipe Planner consults.
type Features struct {
	NVMeCryptoErase bool `json:"nvme_crypto_erase"`
	NVMeBlockErase  bool `json:"nvme_block_erase"`
	ATASecureErase  bool `json:"ata_secure_erase"`
	HPA             bool `json:"hpa"`
	DCO             bool `json:"dco"`
}

// Device is the enumerator's unit of output: identity, geometry, mount
// state and risk classification for one block device.
type Device struct {
	Identity    Identity  `json:"identity"`
	Geometry    Geometry  `json:"geometry"`
	Features    Features  `json:"features"`
	MountPoints []string  `json:"mount_points"`
	HostsRoot   bool      `json:"hosts_root"`
	RiskLevel   RiskLevel `json:"risk_level"`
}
