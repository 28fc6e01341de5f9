package config

import (
	"errors"
	"sort"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Preset overrides the field shape of a config.
type Preset struct {
	Count int
	Scale float64
	FPS   int
}

var Presets = map[string]Preset{
	"sparse":  {Count: 25, Scale: 0.25, FPS: 30},
	"default": {Count: DefaultCount, Scale: DefaultScale, FPS: DefaultFPS},
	"dense":   {Count: 100, Scale: 0.2, FPS: 60},
	"tiny":    {Count: 30, Scale: 0.5, FPS: 30},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// Apply overlays the named preset on c.
func (c *Config) Apply(name string) error {
	p, ok := GetPreset(name)
	if !ok {
		return ErrUnknownPreset
	}
	c.Count, c.Scale, c.FPS = p.Count, p.Scale, p.FPS
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
