package rollup_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stridehq/stride-lambda/internal/rollup"
)

func TestDayAverage(t *testing.T) {
	tests := []struct {
		name     string
		percents []int
		want     int
	}{
		{"single task", []int{50}, 50},
		{"mixed day", []int{20, 60, 100}, 60},
		{"rounds half up", []int{0, 5}, 3},
		{"rounds down", []int{0, 0, 100}, 33},
		{"all complete", []int{100, 100}, 100},
		{"all zero", []int{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rollup.DayAverage(tt.percents))
		})
	}
}

func TestDelta(t *testing.T) {
	// average 60 with weight 5 -> round(0.60*5) = 3
	assert.Equal(t, 3, rollup.Delta(60, 5))
	assert.Equal(t, 0, rollup.Delta(0, 5))
	assert.Equal(t, 5, rollup.Delta(100, 5))
	assert.Equal(t, 2, rollup.Delta(40, 5))
	assert.Equal(t, 4, rollup.Delta(80, 5))
	assert.Equal(t, 1, rollup.Delta(10, 10))
	assert.Equal(t, 50, rollup.Delta(50, 100))
}

func TestDeltaBoundedByWeight(t *testing.T) {
	for avg := 0; avg <= 100; avg += 5 {
		for weight := 1; weight <= 100; weight += 7 {
			d := rollup.Delta(avg, weight)
			assert.GreaterOrEqual(t, d, 0)
			assert.LessOrEqual(t, d, weight)
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, rollup.Clamp(-3))
	assert.Equal(t, 0, rollup.Clamp(0))
	assert.Equal(t, 57, rollup.Clamp(57))
	assert.Equal(t, 100, rollup.Clamp(100))
	assert.Equal(t, 100, rollup.Clamp(104))
}

func TestNextCredits(t *testing.T) {
	goalA := uuid.New()
	goalB := uuid.New()
	weights := map[uuid.UUID]int{goalA: 5, goalB: 10}

	t.Run("credits per goal", func(t *testing.T) {
		tasks := []rollup.TaskShare{
			{GoalID: goalA, Percent: 20},
			{GoalID: goalA, Percent: 60},
			{GoalID: goalA, Percent: 100},
			{GoalID: goalB, Percent: 50},
		}
		next := rollup.NextCredits(tasks, weights, nil)
		assert.Equal(t, map[uuid.UUID]int{goalA: 3, goalB: 5}, next)
	})

	t.Run("previously credited goal without tasks is zeroed", func(t *testing.T) {
		tasks := []rollup.TaskShare{{GoalID: goalA, Percent: 100}}
		previous := map[uuid.UUID]int{goalA: 2, goalB: 4}
		next := rollup.NextCredits(tasks, weights, previous)
		assert.Equal(t, map[uuid.UUID]int{goalA: 5, goalB: 0}, next)
	})

	t.Run("unknown goal weight is skipped", func(t *testing.T) {
		tasks := []rollup.TaskShare{{GoalID: uuid.New(), Percent: 100}}
		next := rollup.NextCredits(tasks, weights, nil)
		assert.Empty(t, next)
	})

	t.Run("locality: one goal's tasks never touch another's credit", func(t *testing.T) {
		tasks := []rollup.TaskShare{
			{GoalID: goalA, Percent: 40},
			{GoalID: goalB, Percent: 80},
		}
		before := rollup.NextCredits(tasks, weights, nil)

		tasks[0].Percent = 100
		after := rollup.NextCredits(tasks, weights, nil)
		assert.Equal(t, before[goalB], after[goalB])
	})
}

func TestCreditDiff(t *testing.T) {
	goalA := uuid.New()
	goalB := uuid.New()

	t.Run("diff-only application", func(t *testing.T) {
		// day average moved 40% -> 80% at weight 5: delta 2 -> 4, so +2.
		previous := map[uuid.UUID]int{goalA: 2}
		next := map[uuid.UUID]int{goalA: 4}
		assert.Equal(t, map[uuid.UUID]int{goalA: 2}, rollup.CreditDiff(next, previous))
	})

	t.Run("idempotence: no change means empty diff", func(t *testing.T) {
		credits := map[uuid.UUID]int{goalA: 3, goalB: 7}
		assert.Empty(t, rollup.CreditDiff(credits, credits))
	})

	t.Run("zeroed credit claws back", func(t *testing.T) {
		previous := map[uuid.UUID]int{goalA: 3}
		next := map[uuid.UUID]int{goalA: 0}
		assert.Equal(t, map[uuid.UUID]int{goalA: -3}, rollup.CreditDiff(next, previous))
	})
}

// Boundedness: for any sequence of edits within one day, the cumulative
// delta applied to a goal never exceeds its daily weight.
func TestCumulativeDeltaBounded(t *testing.T) {
	goal := uuid.New()
	weights := map[uuid.UUID]int{goal: 5}

	edits := [][]int{
		{0}, {20}, {20, 100}, {100, 100}, {5}, {0}, {100},
	}

	applied := 0
	previous := map[uuid.UUID]int{}
	for _, percents := range edits {
		tasks := make([]rollup.TaskShare, len(percents))
		for i, p := range percents {
			tasks[i] = rollup.TaskShare{GoalID: goal, Percent: p}
		}
		next := rollup.NextCredits(tasks, weights, previous)
		for _, d := range rollup.CreditDiff(next, previous) {
			applied += d
		}
		previous = next

		assert.LessOrEqual(t, applied, 5)
		assert.GreaterOrEqual(t, applied, 0)
	}

	// Net application converges to the credit of the final edit.
	assert.Equal(t, previous[goal], applied)
}
