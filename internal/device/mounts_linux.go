package device

import (
	"strconv"
	"strings"

	"github.com/canonical/securewipe/internal/wipeerr"
)

// mountEntry is the subset of a /proc/self/mountinfo line (see proc(5))
// this package needs: the mounted device path and the mount point.
type mountEntry struct {
	source     string
	mountPoint string
}

// parseMountinfo parses the kernel's mountinfo format. Fields before the
// "-" separator are positional; source and fstype follow it.
func parseMountinfo(data []byte) []mountEntry {
	var out []mountEntry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		dashAt := -1
		for i, f := range fields {
			if f == "-" {
				dashAt = i
				break
			}
		}
		if dashAt < 0 || dashAt+2 >= len(fields) {
			continue
		}
		if len(fields) < 5 {
			continue
		}
		out = append(out, mountEntry{
			mountPoint: unescapeOctal(fields[4]),
			source:     unescapeOctal(fields[dashAt+2]),
		})
	}
	return out
}

// unescapeOctal reverses the \NNN octal escaping mountinfo uses for
// whitespace and backslashes in paths.
func unescapeOctal(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// readMounts loads and parses /proc/self/mountinfo.
func readMounts(fs FS) ([]mountEntry, error) {
	data, err := fs.ReadFile(procMountinfo)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.DeviceUnavailable, "read "+procMountinfo, err)
	}
	return parseMountinfo(data), nil
}

// mountPointsFor returns every mount point whose source device path is the
// whole disk or one of its partitions (e.g. /dev/sda1 for /dev/sda), and
// whether any of them is "/".
func mountPointsFor(mounts []mountEntry, diskPath string) (points []string, hostsRoot bool) {
	for _, m := range mounts {
		if m.source == diskPath || strings.HasPrefix(m.source, diskPath) && isPartitionSuffix(m.source[len(diskPath):]) {
			points = append(points, m.mountPoint)
			if m.mountPoint == "/" {
				hostsRoot = true
			}
		}
	}
	return points, hostsRoot
}

// isPartitionSuffix reports whether suffix looks like a partition number
// tail, optionally via the "p" infix nvme/mmc devices use (e.g. "1", "p1").
func isPartitionSuffix(suffix string) bool {
	if suffix == "" {
		return false
	}
	suffix = strings.TrimPrefix(suffix, "p")
	if suffix == "" {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
