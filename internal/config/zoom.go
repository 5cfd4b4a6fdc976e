package config

// ZoomCycler steps through the view zoom presets.
type ZoomCycler struct {
	presets []ZoomPreset
	idx     int
}

// NewZoomCycler starts at the preset named start, or the first one.
func NewZoomCycler(presets []ZoomPreset, start string) *ZoomCycler {
	if len(presets) == 0 {
		presets = Default().View.ZoomPresets
	}
	z := &ZoomCycler{presets: presets}
	z.Set(start)
	return z
}

// Current returns the active preset.
func (z *ZoomCycler) Current() ZoomPreset {
	return z.presets[z.idx]
}

// Next advances to the next preset, wrapping around.
func (z *ZoomCycler) Next() ZoomPreset {
	z.idx = (z.idx + 1) % len(z.presets)
	return z.Current()
}

// Prev steps back to the previous preset, wrapping around.
func (z *ZoomCycler) Prev() ZoomPreset {
	z.idx = (z.idx - 1 + len(z.presets)) % len(z.presets)
	return z.Current()
}

// Set selects a preset by name. It reports whether the name exists.
func (z *ZoomCycler) Set(name string) bool {
	for i, p := range z.presets {
		if p.Name == name {
			z.idx = i
			return true
		}
	}
	return false
}
