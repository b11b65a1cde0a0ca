package component

// CellStage is the destruction sequence position
type CellStage uint8

const (
	StageAlive      CellStage = iota
	StageDestroying           // Destroyed, cleanup timer pending
	StageRemoved              // Cleanup done, excluded from everything
)

func (s CellStage) String() string {
	switch s {
	case StageAlive:
		return "alive"
	case StageDestroying:
		return "destroying"
	case StageRemoved:
		return "removed"
	}
	return "unknown"
}

// CellComponent holds a destructible target's damage and visual-shrink state
type CellComponent struct {
	CellID       int
	HitCount     int
	RequiredHits int
	Destroyed    bool
	Stage        CellStage

	// Visual shrink schedule
	CurrentScale float64
	TargetScale  float64
	Scaling      bool
}

// Lethal reports whether accumulated hits reached the threshold
func (c *CellComponent) Lethal() bool {
	return c.HitCount >= c.RequiredHits
}
