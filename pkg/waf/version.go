package waf

import (
	"log/slog"

	"github.com/cloudpeel/wafsync/pkg/types"
)

// ParseFamily maps a raw configuration value onto a supported API family.
func ParseFamily(raw string) (types.Family, bool) {
	switch types.Family(raw) {
	case types.FamilyRegional:
		return types.FamilyRegional, true
	case types.FamilyV2:
		return types.FamilyV2, true
	default:
		return "", false
	}
}

// NormalizeFamily validates the configured WAF version and corrects anything
// outside {Regional, V2} (absent included) to Regional. The correction is
// recoverable and logged exactly once; it never fails the run. The returned
// family is fixed for the process lifetime.
func NormalizeFamily(raw string, log *slog.Logger) types.Family {
	family, ok := ParseFamily(raw)
	if ok {
		return family
	}

	log.Warn("unsupported WAF version in configuration, defaulting",
		slog.String("configured", raw),
		slog.String("default", string(types.FamilyRegional)))

	return types.FamilyRegional
}
