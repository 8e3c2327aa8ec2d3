package service

import (
	"context"

	"github.com/noah-isme/gema-lms-api/internal/grading"
	"github.com/noah-isme/gema-lms-api/internal/repository"
)

// GradeCalculator loads a student's category weights, assignment points and
// submission scores for one class and reduces them to a letter grade.
type GradeCalculator struct{}

// Compute reads through repos so that callers holding a transaction see their own writes.
// An assignment the student never submitted counts as zero earned points.
func (GradeCalculator) Compute(ctx context.Context, repos repository.Repositories, studentID string, classID uint) (grading.Result, error) {
	categories, err := repos.Categories.ListWithAssignments(ctx, classID)
	if err != nil {
		return grading.Result{}, translateStoreError("assignment category", err)
	}

	scores, err := repos.Submissions.ScoresForStudentInClass(ctx, studentID, classID)
	if err != nil {
		return grading.Result{}, translateStoreError("submission", err)
	}

	inputs := make([]grading.Category, 0, len(categories))
	for _, category := range categories {
		input := grading.Category{
			Name:        category.Name,
			Weight:      float64(category.Weight),
			Assignments: make([]grading.AssignmentScore, 0, len(category.Assignments)),
		}
		for _, assignment := range category.Assignments {
			input.Assignments = append(input.Assignments, grading.AssignmentScore{
				Earned:   float64(scores[assignment.ID]),
				Possible: float64(assignment.Points),
			})
		}
		inputs = append(inputs, input)
	}

	return grading.Compute(inputs), nil
}
