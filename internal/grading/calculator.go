package grading

import "math"

// AssignmentScore is one assignment's earned and possible points for a student.
// A missing submission is passed in as Earned 0.
type AssignmentScore struct {
	Earned   float64
	Possible float64
}

// Category is a weighted group of assignment scores.
type Category struct {
	Name        string
	Weight      float64
	Assignments []AssignmentScore
}

// Result is the outcome of a class grade computation.
type Result struct {
	Percent   float64
	Letter    Letter
	RawTotal  float64
	WeightSum float64
}

// Graded reports whether at least one weighted category contributed.
func (r Result) Graded() bool {
	return r.Letter != Ungraded
}

// precision absorbs float noise so that e.g. 92.99999999999999 lands on 93,
// while a real 92.9999999996 stays below the A threshold.
const precision = 1e12

// Compute rescales weighted category fractions to a percentage and maps it to a letter.
// Categories without assignments are excluded from both sums. When no weight
// remains the result is Ungraded with a zero percent.
func Compute(categories []Category) Result {
	var rawTotal, weightSum float64

	for _, category := range categories {
		if len(category.Assignments) == 0 {
			continue
		}

		var earned, possible float64
		for _, assignment := range category.Assignments {
			earned += assignment.Earned
			possible += assignment.Possible
		}

		weightSum += category.Weight
		if possible <= 0 {
			continue
		}
		rawTotal += earned / possible * category.Weight
	}

	if weightSum <= 0 {
		return Result{Letter: Ungraded}
	}

	percent := rawTotal * (100 / weightSum)
	percent = math.Round(percent*precision) / precision

	return Result{
		Percent:   percent,
		Letter:    LetterFor(percent),
		RawTotal:  rawTotal,
		WeightSum: weightSum,
	}
}
