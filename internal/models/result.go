package models

import "fmt"

// ResultStatus tracks the review state of a submission.
type ResultStatus string

const (
	ResultStatusPending  ResultStatus = "pending"
	ResultStatusReviewed ResultStatus = "reviewed"
	// ResultStatusFail marks submissions the grader could not assess.
	ResultStatusFail ResultStatus = "fail"
)

// TaskResult captures an AI-graded submission. AdminGrade, when set,
// supersedes Grade in every aggregate shown to users.
type TaskResult struct {
	ID                 string       `db:"id" json:"id"`
	TaskID             string       `db:"task_id" json:"taskId"`
	UserID             string       `db:"user_id" json:"userId"`
	UserName           string       `db:"user_name" json:"userName"`
	CourseID           string       `db:"course_id" json:"courseId"`
	StudentAnswer      string       `db:"student_answer" json:"studentAnswer"`
	Result             string       `db:"result" json:"result"`
	Errors             string       `db:"errors" json:"errors"`
	Solution           string       `db:"solution" json:"solution"`
	Explanation        string       `db:"explanation" json:"explanation"`
	MistakePatterns    StringList   `db:"mistake_patterns" json:"mistakePatterns,omitempty"`
	Grade              int          `db:"grade" json:"grade"`
	AdminGrade         *int         `db:"admin_grade" json:"adminGrade"`
	CognitiveImpact    int          `db:"cognitive_impact" json:"cognitiveImpact"`
	MarketabilityBoost int          `db:"marketability_boost" json:"marketabilityBoost"`
	Status             ResultStatus `db:"status" json:"status"`
	Timestamp          int64        `db:"timestamp" json:"timestamp"`
}

// EffectiveGrade returns the admin override when present, the AI grade otherwise.
func (r TaskResult) EffectiveGrade() int {
	if r.AdminGrade != nil {
		return *r.AdminGrade
	}
	return r.Grade
}

// Validate reports whether the record satisfies the minimal remote shape.
func (r TaskResult) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("result missing id")
	}
	if r.TaskID == "" {
		return fmt.Errorf("result %s missing task id", r.ID)
	}
	if r.UserID == "" {
		return fmt.Errorf("result %s missing user id", r.ID)
	}
	return nil
}
