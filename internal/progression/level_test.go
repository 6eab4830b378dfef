package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-5, 0},
		{0, 0},
		{99, 0},
		{100, 1},
		{381, 1},
		{382, 2},
		{900, 2},
		{901, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(0))
	assert.Equal(t, 0, XPForLevel(-1))
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 382, XPForLevel(2))
	assert.Equal(t, 901, XPForLevel(3))

	for level := 1; level <= 20; level++ {
		assert.Equal(t, level, LevelForXP(XPForLevel(level)), "threshold of level %d", level)
		assert.Equal(t, level-1, LevelForXP(XPForLevel(level)-1), "just below level %d", level)
	}
}

func TestProgress(t *testing.T) {
	level, toNext := Progress(0)
	assert.Equal(t, 0, level)
	assert.Equal(t, 100, toNext)

	level, toNext = Progress(150)
	assert.Equal(t, 1, level)
	assert.Equal(t, 232, toNext)
}
