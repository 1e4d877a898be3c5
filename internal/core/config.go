package core

// RuntimeConfig contains configuration passed to a puzzle session at start.
// Frontends use it to size the surface and for deterministic shuffles.
type RuntimeConfig struct {
	ScreenW  int   // Container width (terminal columns or window pixels)
	ScreenH  int   // Container height (terminal rows or window pixels)
	TickRate int   // Redraws per second (default 30)
	Seed     int64 // RNG seed for reproducible shuffles
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}
