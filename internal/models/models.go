package models

// All lists every persisted model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&Department{},
		&Course{},
		&Professor{},
		&Student{},
		&Administrator{},
		&Class{},
		&Enrollment{},
		&AssignmentCategory{},
		&Assignment{},
		&Submission{},
		&GradeChange{},
	}
}
