package backup

import (
	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/wipeerr"
)

// defaultUserDataPaths is the fixed user-data subtree a CRITICAL device
// defaults to when the caller supplies no explicit include list (spec
// §4.E step 1): the set an operator almost always means when backing up
// a live, in-use system, without requiring them to enumerate it by hand.
var defaultUserDataPaths = []string{
	"Documents", "Pictures", "Videos", "Music", "Desktop", "Downloads",
}

// ResolvePaths decides which source paths a backup run copies. A
// non-CRITICAL device has no safe default to fall back to — the whole
// point of SAFE/HIGH is that it isn't the live system, so an empty
// include list almost certainly means the caller forgot to pass one,
// not that they want nothing backed up — so it's rejected outright
// (spec §8 "empty include_paths on a non-CRITICAL device → InvalidInput").
func ResolvePaths(risk certmodel.RiskLevel, includePaths []string) ([]string, error) {
	if risk == certmodel.RiskCritical {
		if len(includePaths) == 0 {
			return defaultUserDataPaths, nil
		}
		return includePaths, nil
	}
	if len(includePaths) == 0 {
		return nil, wipeerr.New(wipeerr.InvalidInput,
			"backup of a non-CRITICAL device requires explicit include_paths")
	}
	return includePaths, nil
}
