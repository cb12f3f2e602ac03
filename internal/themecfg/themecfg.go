// Package themecfg merges a theme's default options with page-scoped overrides.
//
// Precedence, lowest to highest:
//
//  1. theme defaults
//  2. host variables named "theme_<option>", applied in order (last one wins per option);
//     "theme_extra" replaces the extra mapping wholesale instead of setting an option
//  3. the page locale, which always becomes the "language" option
//
// Overridden values replace the default outright; nested mappings are never deep-merged.
package themecfg

import (
	"maps"
	"slices"
	"strings"
)

const (
	// Prefix marks host variables that override theme options.
	Prefix = "theme_"
	// ExtraName is the stripped override name that replaces the extra mapping.
	ExtraName = "extra"
	// LanguageOption receives the page locale.
	LanguageOption = "language"
)

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value any
}

// Options is an ordered option mapping, as declared by a theme.
type Options struct {
	entries []Entry
	index   map[string]int
}

// Set adds or replaces key, keeping the position of its first declaration.
func (o *Options) Set(key string, value any) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.entries[i].Value = value
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, Entry{Key: key, Value: value})
}

// Get returns the value declared for key.
func (o Options) Get(key string) (any, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.entries[i].Value, true
}

// Len returns the number of declared options.
func (o Options) Len() int { return len(o.entries) }

// Entries returns the options in declaration order.
func (o Options) Entries() []Entry { return slices.Clone(o.entries) }

// OptionsFromMap builds Options from m with keys in lexical order.
func OptionsFromMap(m map[string]any) Options {
	var o Options
	for _, k := range slices.Sorted(maps.Keys(m)) {
		o.Set(k, m[k])
	}
	return o
}

// Overrides is the ordered list of host variables that may carry theme overrides.
// Keys are kept verbatim; only those starting with Prefix take part in resolution.
type Overrides []Entry

// Add appends a variable.
func (o *Overrides) Add(key string, value any) {
	*o = append(*o, Entry{Key: key, Value: value})
}

// OverridesFromMap builds Overrides from m with keys in lexical order, which is the
// iteration order Resolve uses when several keys strip to the same option.
func OverridesFromMap(m map[string]any) Overrides {
	out := make(Overrides, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Entry{Key: k, Value: m[k]})
	}
	return out
}

// OptionName strips Prefix from key. ok is false for keys that are not overrides.
func OptionName(key string) (name string, ok bool) {
	name, ok = strings.CutPrefix(key, Prefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Resolve computes the merged theme options and the extra mapping.
// The returned maps are fresh; defaults and overrides are not modified.
func Resolve(defaults Options, overrides Overrides, locale string) (theme, extra map[string]any) {
	theme = make(map[string]any, defaults.Len()+len(overrides)+1)
	for _, e := range defaults.entries {
		theme[e.Key] = e.Value
	}
	extra = map[string]any{}

	for _, e := range overrides {
		name, ok := OptionName(e.Key)
		if !ok {
			continue
		}
		if name == ExtraName {
			extra = asMapping(e.Value)
			continue
		}
		theme[name] = e.Value
	}

	if locale != "" {
		theme[LanguageOption] = locale
	}
	return theme, extra
}

// asMapping normalizes the value of a theme_extra override. YAML decoding may hand
// over map[any]any for nested mappings; anything that is not a mapping yields an
// empty extra.
func asMapping(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return maps.Clone(m)
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out
	default:
		return map[string]any{}
	}
}

// Len returns the number of variables.
func (o Overrides) Len() int { return len(o) }
