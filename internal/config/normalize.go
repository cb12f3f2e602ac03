package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/themebridge/internal/foundation/normalization"
)

// NormalizationResult captures adjustments made while normalizing.
type NormalizationResult struct{ Warnings []string }

// Normalize canonicalizes enumerated and bounded fields in place.
func Normalize(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if c == nil {
		return res
	}

	normalizeEnum(res, "logging.level", logLevels, &c.Logging.Level)
	normalizeEnum(res, "logging.format", logFormats, &c.Logging.Format)

	if c.Build.Workers < 0 {
		res.Warnings = append(res.Warnings, warnChanged("build.workers", c.Build.Workers, 0))
		c.Build.Workers = 0
	}
	c.Theme.Name = strings.ToLower(strings.TrimSpace(c.Theme.Name))
	c.Site.Locale = strings.TrimSpace(c.Site.Locale)
	return res
}

// normalizeEnum canonicalizes a non-empty enum field, replacing unknown spellings
// with the enum's fallback.
func normalizeEnum[T ~string](res *NormalizationResult, field string, enum *normalization.Enum[T], value *T) {
	raw := string(*value)
	if strings.TrimSpace(raw) == "" {
		return
	}
	v, ok := enum.Lookup(raw)
	switch {
	case !ok:
		v = enum.Fallback()
		res.Warnings = append(res.Warnings, warnUnknown(field, raw, string(v), enum.Names()))
	case string(v) != raw:
		res.Warnings = append(res.Warnings, warnChanged(field, raw, v))
	}
	*value = v
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from %v to %v", field, from, to)
}

func warnUnknown(field, value, fallback string, valid []string) string {
	return fmt.Sprintf("unknown %s %q (valid: %s), using %s", field, value, strings.Join(valid, ", "), fallback)
}
