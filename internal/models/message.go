package models

import "fmt"

// TutorUserID is the sentinel user id the AI tutor posts under.
const TutorUserID = "ai-tutor"

// ChatMessage is one entry in a course chat.
type ChatMessage struct {
	ID         string `db:"id" json:"id"`
	CourseID   string `db:"course_id" json:"courseId"`
	UserID     string `db:"user_id" json:"userId"`
	UserName   string `db:"user_name" json:"userName"`
	UserAvatar string `db:"user_avatar" json:"userAvatar,omitempty"`
	Text       string `db:"text" json:"text"`
	Timestamp  int64  `db:"timestamp" json:"timestamp"`
}

// FromTutor reports whether the message was posted by the AI tutor.
func (m ChatMessage) FromTutor() bool {
	return m.UserID == TutorUserID
}

// Validate reports whether the record satisfies the minimal remote shape.
func (m ChatMessage) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("message missing id")
	}
	if m.CourseID == "" {
		return fmt.Errorf("message %s missing course id", m.ID)
	}
	return nil
}
