// Package rollup converts a day's raw task percentages into bounded,
// idempotent progress credits for goals. Everything here is pure: the
// dayplan service feeds it the current tasks, weights and last-applied
// credits, and persists whatever comes back.
package rollup

import (
	"math"

	"github.com/google/uuid"
)

// TaskShare is one task's contribution to its goal's daily average.
type TaskShare struct {
	GoalID  uuid.UUID
	Percent int
}

// DayAverage is the arithmetic mean of task percentages, rounded to the
// nearest integer. Callers must not pass an empty slice: a goal with no
// tasks on a date has an undefined average and gets no credit entry.
func DayAverage(percents []int) int {
	if len(percents) == 0 {
		return 0
	}
	sum := 0
	for _, p := range percents {
		sum += p
	}
	return int(math.Round(float64(sum) / float64(len(percents))))
}

// Delta converts a day average into progress points. A fully complete
// day contributes exactly the goal's daily weight; anything less scales
// down proportionally. The result is always within [0, weight].
func Delta(average, weight int) int {
	return int(math.Round(float64(average) / 100.0 * float64(weight)))
}

// Clamp keeps goal progress within [0, 100].
func Clamp(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// NextCredits computes the credit each goal has earned for the day.
// Goals referenced by tasks get Delta(average, weight); goals that held
// a credit before but no longer have tasks are explicitly zeroed so the
// diff claws their credit back. Goals missing from weights are skipped.
func NextCredits(tasks []TaskShare, weights map[uuid.UUID]int, previous map[uuid.UUID]int) map[uuid.UUID]int {
	byGoal := make(map[uuid.UUID][]int)
	for _, t := range tasks {
		byGoal[t.GoalID] = append(byGoal[t.GoalID], t.Percent)
	}

	next := make(map[uuid.UUID]int, len(byGoal))
	for goalID, percents := range byGoal {
		weight, ok := weights[goalID]
		if !ok {
			continue
		}
		next[goalID] = Delta(DayAverage(percents), weight)
	}

	for goalID := range previous {
		if _, ok := next[goalID]; !ok {
			next[goalID] = 0
		}
	}

	return next
}

// CreditDiff returns, per goal, the progress delta that still needs to
// be applied to move from the previously applied credits to next.
// Applying only the difference is what makes recomputation idempotent.
func CreditDiff(next, previous map[uuid.UUID]int) map[uuid.UUID]int {
	diff := make(map[uuid.UUID]int)
	for goalID, n := range next {
		if d := n - previous[goalID]; d != 0 {
			diff[goalID] = d
		}
	}
	return diff
}
