package progression

import (
	"math"
)

// LevelForXP determines the level from total XP using the formula:
// XP for level N = BaseXP * (N ^ LevelExponent), cumulative from level 0.
func LevelForXP(totalXP int) int {
	level, _ := levelAndNextXP(totalXP)
	return level
}

// XPForLevel returns the XP required to reach a specific level from level 0
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}

	cumulative := 0
	for i := 1; i <= level; i++ {
		cumulative += xpStep(i)
	}
	return cumulative
}

// Progress returns the current level and the XP still needed for the next one
func Progress(totalXP int) (level, xpToNext int) {
	level, nextXP := levelAndNextXP(totalXP)
	return level, nextXP - max(totalXP, 0)
}

// levelAndNextXP computes the level and the cumulative XP required for the NEXT level
func levelAndNextXP(totalXP int) (int, int) {
	if totalXP <= 0 {
		return 0, xpStep(1)
	}

	level := 0
	cumulative := 0
	for level < MaxIterationLevel {
		step := xpStep(level + 1)
		if cumulative+step > totalXP {
			return level, cumulative + step
		}
		cumulative += step
		level++
	}
	return level, cumulative + xpStep(level+1)
}

func xpStep(level int) int {
	return int(BaseXP * math.Pow(float64(level), LevelExponent))
}
