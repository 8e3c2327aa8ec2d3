// Package grading holds the arithmetic behind class letter grades and GPA.
// It performs no I/O; callers load categories, assignments and scores first.
package grading

// Letter is a letter grade as stored on an enrollment.
type Letter string

// Letter grades from highest to lowest, plus the placeholder held before any computation.
const (
	Ungraded Letter = "--"
	A        Letter = "A"
	AMinus   Letter = "A-"
	BPlus    Letter = "B+"
	B        Letter = "B"
	BMinus   Letter = "B-"
	CPlus    Letter = "C+"
	C        Letter = "C"
	CMinus   Letter = "C-"
	DPlus    Letter = "D+"
	D        Letter = "D"
	DMinus   Letter = "D-"
	E        Letter = "E"
)

type threshold struct {
	min    float64
	letter Letter
}

// Lower bounds are inclusive and checked top-down.
var scale = []threshold{
	{93, A},
	{90, AMinus},
	{87, BPlus},
	{83, B},
	{80, BMinus},
	{77, CPlus},
	{73, C},
	{70, CMinus},
	{67, DPlus},
	{63, D},
	{60, DMinus},
}

var gradePoints = map[Letter]float64{
	A:      4.0,
	AMinus: 3.7,
	BPlus:  3.3,
	B:      3.0,
	BMinus: 2.7,
	CPlus:  2.3,
	C:      2.0,
	CMinus: 1.7,
	DPlus:  1.3,
	D:      1.0,
	DMinus: 0.7,
	E:      0.0,
}

// LetterFor maps a class percentage onto the letter scale.
func LetterFor(percent float64) Letter {
	for _, t := range scale {
		if percent >= t.min {
			return t.letter
		}
	}
	return E
}

// Points returns the grade points for a letter. The second value is false for
// the ungraded placeholder and for strings outside the scale.
func Points(letter Letter) (float64, bool) {
	value, ok := gradePoints[letter]
	return value, ok
}

// IsGraded reports whether the stored grade string holds a computed letter.
func IsGraded(grade string) bool {
	return Letter(grade) != Ungraded
}
