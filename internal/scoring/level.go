package scoring

// Level names, in ascending order of XP.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// XP thresholds for each level boundary.
const (
	intermediateXP = 100
	advancedXP     = 500
	expertXP       = 1500
	expertWindow   = 500
)

// LevelForXP derives the level from cumulative XP. The level is never
// stored on its own — it is recomputed from XP on every read.
func LevelForXP(xp int64) string {
	switch {
	case xp < intermediateXP:
		return LevelBeginner
	case xp < advancedXP:
		return LevelIntermediate
	case xp < expertXP:
		return LevelAdvanced
	}
	return LevelExpert
}

// LevelProgress describes how far into the current level a user is.
type LevelProgress struct {
	Level      string  `json:"level"`
	Current    int64   `json:"current"` // XP earned within this level
	Target     int64   `json:"target"`  // width of this level's window
	Percentage float64 `json:"percentage"`
}

// ProgressForXP returns the progress bar for the current level. The
// expert window is 500 wide and its displayed progress caps at 100%.
func ProgressForXP(xp int64) LevelProgress {
	var floor, window int64
	switch LevelForXP(xp) {
	case LevelBeginner:
		floor, window = 0, intermediateXP
	case LevelIntermediate:
		floor, window = intermediateXP, advancedXP-intermediateXP
	case LevelAdvanced:
		floor, window = advancedXP, expertXP-advancedXP
	default:
		floor, window = expertXP, expertWindow
	}

	current := xp - floor
	pct := float64(current) / float64(window) * 100
	if pct > 100 {
		pct = 100
	}
	return LevelProgress{
		Level:      LevelForXP(xp),
		Current:    current,
		Target:     window,
		Percentage: pct,
	}
}
