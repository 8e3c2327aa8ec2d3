package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

// SubmissionRow is one submission in an assignment's hand-in list.
type SubmissionRow struct {
	StudentID   string
	FirstName   string
	LastName    string
	SubmittedAt time.Time
	Score       uint
}

// StudentAssignmentRow is an assignment as seen by one student, with the score
// left nil when nothing was submitted.
type StudentAssignmentRow struct {
	AssignmentID uint
	Name         string
	CategoryName string
	Due          time.Time
	Score        *uint
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	Get(ctx context.Context, studentID string, assignmentID uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	UpdateContents(ctx context.Context, studentID string, assignmentID uint, contents string, submittedAt time.Time) error
	UpdateScore(ctx context.Context, studentID string, assignmentID uint, score uint) error
	// ScoresForStudentInClass maps assignment id to score for every submission the student made in the class.
	ScoresForStudentInClass(ctx context.Context, studentID string, classID uint) (map[uint]uint, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]SubmissionRow, error)
	ListForStudentInClass(ctx context.Context, studentID string, classID uint) ([]StudentAssignmentRow, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Get(ctx context.Context, studentID string, assignmentID uint) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&submission).Error
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) UpdateContents(ctx context.Context, studentID string, assignmentID uint, contents string, submittedAt time.Time) error {
	return r.update(ctx, studentID, assignmentID, map[string]interface{}{
		"contents":     contents,
		"submitted_at": submittedAt,
	})
}

func (r *submissionRepository) UpdateScore(ctx context.Context, studentID string, assignmentID uint, score uint) error {
	return r.update(ctx, studentID, assignmentID, map[string]interface{}{"score": score})
}

func (r *submissionRepository) update(ctx context.Context, studentID string, assignmentID uint, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *submissionRepository) ScoresForStudentInClass(ctx context.Context, studentID string, classID uint) (map[uint]uint, error) {
	var rows []struct {
		AssignmentID uint
		Score        uint
	}
	err := r.db.WithContext(ctx).
		Table("submissions").
		Select("submissions.assignment_id, submissions.score").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN assignment_categories ON assignment_categories.id = assignments.category_id").
		Where("submissions.student_id = ? AND assignment_categories.class_id = ?", studentID, classID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scores := make(map[uint]uint, len(rows))
	for _, row := range rows {
		scores[row.AssignmentID] = row.Score
	}
	return scores, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]SubmissionRow, error) {
	var rows []SubmissionRow
	err := r.db.WithContext(ctx).
		Table("submissions").
		Select("students.id AS student_id, students.first_name, students.last_name, submissions.submitted_at, submissions.score").
		Joins("JOIN students ON students.id = submissions.student_id").
		Where("submissions.assignment_id = ?", assignmentID).
		Order("submissions.submitted_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *submissionRepository) ListForStudentInClass(ctx context.Context, studentID string, classID uint) ([]StudentAssignmentRow, error) {
	var rows []StudentAssignmentRow
	err := r.db.WithContext(ctx).
		Table("assignments").
		Select("assignments.id AS assignment_id, assignments.name, assignment_categories.name AS category_name, assignments.due, submissions.score").
		Joins("JOIN assignment_categories ON assignment_categories.id = assignments.category_id").
		Joins("LEFT JOIN submissions ON submissions.assignment_id = assignments.id AND submissions.student_id = ?", studentID).
		Where("assignment_categories.class_id = ?", classID).
		Order("assignments.due ASC, assignments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
