package core

// RuntimeConfig describes the terminal the view renders into.
type RuntimeConfig struct {
	ScreenW int // Screen width in characters
	ScreenH int // Screen height in characters
}

// DefaultConfig returns the size used before the first resize event.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24}
}

// MapArea is the part of the screen left for the map once the status
// lines are taken.
func (c RuntimeConfig) MapArea(statusLines int) Rect {
	return NewRect(0, 0, Max(c.ScreenW, 0), Max(c.ScreenH-statusLines, 0))
}
