package dcm

// Config configures a context map.
type Config struct {
	Dim              int     // the map is Dim×Dim cells
	MaxMemory        int     // capacity of a cell
	MinHitsToRetain  uint32  // consolidation keeps items with strictly more hits
	MinCovariance    float32 // selection weight floor for cells with no affinity
	LearnRange       int     // half side of the update window
	MaxLearnDistance float32 // euclidean clip inside the update window

	// CorrelationThreshold zeroes correlations at or below it when computing covariance.
	// 0 disables the cut.
	CorrelationThreshold float32
}

func DefaultConfig() Config {
	return Config{
		Dim:              64,
		MaxMemory:        20,
		MinHitsToRetain:  2,
		MinCovariance:    0.0001,
		LearnRange:       4,
		MaxLearnDistance: 5,
	}
}

func (c Config) IsValid() bool {
	return c.Dim > 0 &&
		c.MaxMemory > 0 &&
		c.MinCovariance > 0 &&
		c.LearnRange >= 0 &&
		c.MaxLearnDistance >= 0 &&
		c.CorrelationThreshold >= 0 && c.CorrelationThreshold < 1
}
