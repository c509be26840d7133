package scoring

import "math"

// PassAccuracyThreshold is the fixed accuracy floor for graded tests.
// It is not configurable per test; only the target WPM varies.
const PassAccuracyThreshold = 90

// PassBonusMultiplier scales the XP reward when a graded test is passed.
const PassBonusMultiplier = 1.5

// CalculateXP returns XP for a finalized result based on speed and
// accuracy. Any finished exercise earns at least 1 XP, so cumulative
// XP strictly increases with every finalization.
func CalculateXP(wpm, accuracy int) int {
	base := int(float64(wpm) * float64(accuracy) / 100.0)
	if base < 1 {
		return 1
	}
	return base
}

// TestXP returns XP for a graded test, applying the pass bonus.
func TestXP(wpm, accuracy int, passed bool) int {
	xp := CalculateXP(wpm, accuracy)
	if passed {
		xp = int(math.Floor(float64(xp) * PassBonusMultiplier))
	}
	return xp
}

// EvaluateTest applies the pass rule for a graded test: the target
// speed must be reached AND accuracy must meet the fixed threshold.
func EvaluateTest(wpm, accuracy, targetWPM int) bool {
	return wpm >= targetWPM && accuracy >= PassAccuracyThreshold
}
