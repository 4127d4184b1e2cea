package seed

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresets []byte

// Presets maps a preset name to its options.
type Presets map[string]Options

// ParsePresets decodes a YAML document of named presets.
func ParsePresets(raw []byte) (Presets, error) {
	var doc struct {
		Presets Presets `yaml:"presets"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	out := make(Presets, len(doc.Presets))
	for name, opts := range doc.Presets {
		if err := opts.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out[strings.ToLower(name)] = opts
	}
	return out, nil
}

// BuiltinPresets returns the presets shipped with the binary.
func BuiltinPresets() (Presets, error) {
	return ParsePresets(builtinPresets)
}

// Lookup finds a preset by case-insensitive name.
func (p Presets) Lookup(name string) (Options, error) {
	opts, ok := p[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Options{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(p.Names(), ", "))
	}
	return opts, nil
}

// Names lists preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o Options) validate() error {
	if o.Users < 0 || o.MessagesPerUser < 0 {
		return fmt.Errorf("counts must be non-negative")
	}
	for _, pct := range []int{o.FollowPercent, o.ReplyPercent, o.LikePercent} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("percentages must be within 0-100, got %d", pct)
		}
	}
	return nil
}
