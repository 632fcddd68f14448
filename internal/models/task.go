package models

import "fmt"

// CourseTask is an assignment inside a course. Order defines the column
// position in the grading matrix; TimerEnd is an epoch-ms deadline after
// which submissions are locked.
type CourseTask struct {
	ID                 string `db:"id" json:"id"`
	CourseID           string `db:"course_id" json:"courseId"`
	Title              string `db:"title" json:"title"`
	Description        string `db:"description" json:"description"`
	Order              int    `db:"order_index" json:"order"`
	IsClassTask        bool   `db:"is_class_task" json:"isClassTask,omitempty"`
	TimerEnd           int64  `db:"timer_end" json:"timerEnd,omitempty"`
	ValidationCriteria string `db:"validation_criteria" json:"validationCriteria,omitempty"`
}

// Validate reports whether the record satisfies the minimal remote shape.
func (t CourseTask) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task missing id")
	}
	if t.CourseID == "" {
		return fmt.Errorf("task %s missing course id", t.ID)
	}
	return nil
}
