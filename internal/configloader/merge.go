package configloader

import (
	"maps"

	"github.com/yaklabco/mdtree/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
//
// Booleans can only be switched on this way. Config files are decoded onto
// the running configuration instead (see loadConfigFile), so a file can turn
// cache.enabled off again.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.StopAt != 0 {
		result.StopAt = override.StopAt
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.MetricsAddr != "" {
		result.MetricsAddr = override.MetricsAddr
	}

	if override.Cache.Enabled {
		result.Cache.Enabled = true
	}
	if override.Cache.Path != "" {
		result.Cache.Path = override.Cache.Path
	}

	if override.Highlight.Theme != "" {
		result.Highlight.Theme = override.Highlight.Theme
	}
	result.Highlight.Colors = mergeColors(result.Highlight.Colors, override.Highlight.Colors)

	if override.Runner.Jobs != 0 {
		result.Runner.Jobs = override.Runner.Jobs
	}
	if override.Runner.Include != nil {
		result.Runner.Include = override.Runner.Include
	}
	if override.Runner.Exclude != nil {
		result.Runner.Exclude = override.Runner.Exclude
	}
	if override.Runner.FollowSymlinks {
		result.Runner.FollowSymlinks = true
	}

	if override.LSP.Debounce != 0 {
		result.LSP.Debounce = override.LSP.Debounce
	}

	return result
}

// mergeColors deep merges per-tag colors, override winning.
func mergeColors(base, override map[string]string) map[string]string {
	if base == nil && override == nil {
		return nil
	}
	result := make(map[string]string, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
