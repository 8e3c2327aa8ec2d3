package grading

// GPA averages the grade points of every countable letter grade, each class
// carrying equal credit. Ungraded and unrecognised grades are skipped; no
// countable grades yields exactly 0.
func GPA(grades []string) float64 {
	var total float64
	var count int

	for _, grade := range grades {
		value, ok := Points(Letter(grade))
		if !ok {
			continue
		}
		total += value
		count++
	}

	if count == 0 {
		return 0
	}

	return total / float64(count)
}
