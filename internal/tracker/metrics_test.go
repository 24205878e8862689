package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnTimeRate(t *testing.T) {
	assert.Equal(t, 0, onTimeRate(0, 0), "no completions means rate 0, not a division by zero")
	assert.Equal(t, 100, onTimeRate(3, 3))
	assert.Equal(t, 50, onTimeRate(1, 2))
	assert.Equal(t, 67, onTimeRate(2, 3), "rate rounds to nearest integer")
	assert.Equal(t, 33, onTimeRate(1, 3))
	assert.Equal(t, 0, onTimeRate(0, 5))
}

func TestHealthScore(t *testing.T) {
	// Example from the report design: 10 tasks, 2 blocked, 1 overdue
	// gives penalties of 10 and 5.
	assert.Equal(t, 85, healthScore(10, 2, 1))

	assert.Equal(t, 100, healthScore(0, 0, 0), "empty project is healthy")
	assert.Equal(t, 100, healthScore(10, 0, 0))
	assert.Equal(t, 0, healthScore(10, 10, 10), "both penalties maxed out")
	assert.Equal(t, 50, healthScore(4, 4, 0))
}

func TestHealthScoreStaysInRange(t *testing.T) {
	for total := 0; total <= 12; total++ {
		for blocked := 0; blocked <= total; blocked++ {
			for overdue := 0; overdue <= total; overdue++ {
				score := healthScore(total, blocked, overdue)
				assert.GreaterOrEqual(t, score, 0,
					"total=%d blocked=%d overdue=%d", total, blocked, overdue)
				assert.LessOrEqual(t, score, 100,
					"total=%d blocked=%d overdue=%d", total, blocked, overdue)
			}
		}
	}
}
