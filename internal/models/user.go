package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// UserRole enumerates platform roles.
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleAdmin  UserRole = "admin"
	RoleParent UserRole = "parent"
)

// User represents a platform account. Passwords are stored and compared as
// plain text to stay wire-compatible with the legacy backend.
type User struct {
	ID              string     `db:"id" json:"id"`
	Username        string     `db:"username" json:"username"`
	Password        string     `db:"password" json:"password,omitempty"`
	FirstName       string     `db:"first_name" json:"firstName"`
	LastName        string     `db:"last_name" json:"lastName"`
	Grade           string     `db:"grade" json:"grade"`
	Email           string     `db:"email" json:"email"`
	Role            UserRole   `db:"role" json:"role"`
	EnrolledCourses StringList `db:"enrolled_courses" json:"enrolledCourses"`
	Avatar          string     `db:"avatar" json:"avatar,omitempty"`
	ParentPhone     string     `db:"parent_phone" json:"parentPhone,omitempty"`
}

// Validate reports whether the record satisfies the minimal shape the sync
// layer accepts from a remote response.
func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user missing id")
	}
	if u.Username == "" {
		return fmt.Errorf("user %s missing username", u.ID)
	}
	return nil
}

// StringList is a JSON-encoded string array column. The legacy schema stores
// enrolled course ids as a JSON text blob rather than a join table.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}
	return false
}
