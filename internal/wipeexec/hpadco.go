package wipeexec

import (
	"context"
	"strconv"

	"github.com/canonical/securewipe/internal/certmodel"
)

// clearHPADCO issues the hdparm commands that remove a Host Protected
// Area and restore a Device Configuration Overlay to its factory maximum,
// so the main wipe pass actually reaches every addressable LBA rather
// than silently stopping short at a shrunk apparent capacity (spec §4.G
// step 1, "PURGE/DESTROY must clear HPA/DCO before the main method can
// claim full-device coverage").
func clearHPADCO(ctx context.Context, d certmodel.Device) (certmodel.HPADCOInfo, error) {
	info := certmodel.HPADCOInfo{}
	if !d.Features.HPA && !d.Features.DCO {
		return info, nil
	}

	if d.Features.HPA {
		ev, err := evidence(ctx, "hdparm", "--yes-i-know-what-i-am-doing", "-N", "p"+strconv.FormatUint(d.Geometry.TotalLBAs, 10), d.Identity.Path)
		if err != nil {
			return info, err
		}
		info.Commands = append(info.Commands, ev)
	}
	if d.Features.DCO {
		ev, err := evidence(ctx, "hdparm", "--dco-restore", d.Identity.Path)
		if err != nil {
			return info, err
		}
		info.Commands = append(info.Commands, ev)
	}

	cleared := true
	for _, c := range info.Commands {
		if c.Exit != 0 {
			cleared = false
		}
	}
	info.Cleared = cleared
	return info, nil
}
