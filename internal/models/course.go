package models

import "fmt"

// Subject enumerates the fixed course tracks.
type Subject string

const (
	SubjectFrontend Subject = "Frontend Development"
	SubjectBackend  Subject = "Backend Development"
	SubjectMobile   Subject = "Mobile App Development"
	SubjectDesign   Subject = "UI/UX Design"
	SubjectAIData   Subject = "AI & Data Science"
)

// Subjects lists every valid subject label.
var Subjects = []Subject{SubjectFrontend, SubjectBackend, SubjectMobile, SubjectDesign, SubjectAIData}

// Course is a teachable track students enroll into with a join code.
type Course struct {
	ID          string  `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	Subject     Subject `db:"subject" json:"subject"`
	Teacher     string  `db:"teacher" json:"teacher"`
	SecretKey   string  `db:"secret_key" json:"secretKey,omitempty"`
	CreatedAt   int64   `db:"created_at" json:"createdAt"`
}

// Validate reports whether the record satisfies the minimal remote shape.
func (c Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("course missing id")
	}
	if c.Title == "" {
		return fmt.Errorf("course %s missing title", c.ID)
	}
	return nil
}
