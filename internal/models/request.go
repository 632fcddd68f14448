package models

import "fmt"

// RequestStatus tracks the lifecycle of an enrollment request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// EnrollmentRequest is a pending join-course action awaiting admin approval.
// UserName and CourseTitle are denormalized snapshots taken at creation time.
type EnrollmentRequest struct {
	ID          string        `db:"id" json:"id"`
	UserID      string        `db:"user_id" json:"userId"`
	UserName    string        `db:"user_name" json:"userName"`
	CourseID    string        `db:"course_id" json:"courseId"`
	CourseTitle string        `db:"course_title" json:"courseTitle"`
	Status      RequestStatus `db:"status" json:"status"`
}

// Validate reports whether the record satisfies the minimal remote shape.
func (r EnrollmentRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("request missing id")
	}
	if r.UserID == "" || r.CourseID == "" {
		return fmt.Errorf("request %s missing user or course id", r.ID)
	}
	return nil
}
