package device

import (
	"strconv"
	"strings"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/wipeerr"
)

const (
	sysClassBlock = "/sys/class/block"
	procMountinfo = "/proc/self/mountinfo"
)

// listWholeDisks returns the block device names under /sys/class/block that
// are whole disks, excluding partitions (identified by the presence of a
// "partition" sysfs attribute, exactly how lsblk tells disks from parts).
func listWholeDisks(fs FS) ([]string, error) {
	entries, err := fs.ReadDir(sysClassBlock)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.DeviceUnavailable, "list /sys/class/block", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if _, err := fs.ReadFile(sysClassBlock + "/" + name + "/partition"); err == nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func readTrimmed(fs FS, path string) string {
	b, err := fs.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func readUint64(fs FS, path string) uint64 {
	v, _ := strconv.ParseUint(readTrimmed(fs, path), 10, 64)
	return v
}

// busFromSymlink inspects the /sys/class/block/<name> symlink target for a
// "/usb", "/ata", "/scsi", "/nvme" or "/mmc" path component ("/ata" and
// "/scsi" both map to SATA), the same heuristic
// udevadm uses to populate ID_BUS.
func busFromSymlink(target string) certmodel.Bus {
	switch {
	case strings.Contains(target, "/nvme"):
		return certmodel.BusNVMe
	case strings.Contains(target, "/usb"):
		return certmodel.BusUSB
	case strings.Contains(target, "/mmc"):
		return certmodel.BusMMC
	case strings.Contains(target, "/ata"), strings.Contains(target, "/scsi"):
		return certmodel.BusSATA
	default:
		return certmodel.BusUnknown
	}
}

// readIdentity reads model/serial/firmware/bus for a whole-disk name under
// /sys/class/block.
func readIdentity(fs FS, name string) certmodel.Identity {
	base := sysClassBlock + "/" + name
	target, _ := fs.Readlink(base)

	return certmodel.Identity{
		Path:     "/dev/" + name,
		Model:    readTrimmed(fs, base+"/device/model"),
		Serial:   readTrimmed(fs, base+"/device/serial"),
		Firmware: readTrimmed(fs, base+"/device/firmware_rev"),
		Bus:      busFromSymlink(target),
	}
}

// readGeometry reads capacity and logical block size for a whole-disk name.
func readGeometry(fs FS, name string) certmodel.Geometry {
	base := sysClassBlock + "/" + name
	sectors := readUint64(fs, base+"/size")
	lbs := readUint64(fs, base+"/queue/logical_block_size")
	if lbs == 0 {
		lbs = 512
	}
	capacity := sectors * 512
	var totalLBAs uint64
	if lbs > 0 {
		totalLBAs = capacity / lbs
	}
	return certmodel.Geometry{
		CapacityBytes:    capacity,
		LogicalBlockSize: lbs,
		TotalLBAs:        totalLBAs,
	}
}
