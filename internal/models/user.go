package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSet is a set of strings persisted as a JSON array in a text column.
type StringSet []string

// Value implements driver.Valuer.
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		s = StringSet{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StringSet) Scan(value any) error {
	if value == nil {
		*s = StringSet{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("cannot scan %T into StringSet", value)
	}
}

// Contains reports whether the set holds item (exact match).
func (s StringSet) Contains(item string) bool {
	for _, v := range s {
		if v == item {
			return true
		}
	}
	return false
}

// User represents a person on the platform.
// Skills, interests and open_to are stored as JSON-encoded string arrays so a
// profile stays a single row; they are only read back as whole sets.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Bio          string
	Skills       StringSet `gorm:"type:text;not null;default:'[]'"`
	Interests    StringSet `gorm:"type:text;not null;default:'[]'"`
	OpenTo       StringSet `gorm:"type:text;not null;default:'[]'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileText flattens the profile into the text that is embedded for
// similarity search.
func (u User) ProfileText() string {
	return fmt.Sprintf("%s. Skills: %s. Interests: %s. Open to: %s",
		u.Bio, join(u.Skills), join(u.Interests), join(u.OpenTo))
}

func join(s StringSet) string {
	out := ""
	for i, v := range s {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}
