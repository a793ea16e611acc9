package domain

import (
	"strings"

	"github.com/google/uuid"

	"recordkeeper/src/core/record"
)

// MaxAge bounds User.Age.
const MaxAge = 150

// User is an entry in the user directory.
// A zero Age means "not provided" and is stored as NULL.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Age   int64  `json:"age,omitempty"`
}

// UserRecord maps User onto the users table. Column names match exactly.
var UserRecord = record.MustDescriptor("users", func() *User { return &User{} },
	record.Key(record.String("id", func(u *User) *string { return &u.ID })),
	record.String("name", func(u *User) *string { return &u.Name }),
	record.String("email", func(u *User) *string { return &u.Email }),
	record.Int64("age", func(u *User) *int64 { return &u.Age }),
)

// NewUser validates the input and assigns a fresh identifier.
func NewUser(name, email string, age int64) (*User, error) {
	u := &User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Age:   age,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the user's invariants.
func (u *User) Validate() error {
	if u.Name == "" {
		return NewValidationError("name", "cannot be empty")
	}
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		return NewValidationError("email", "must contain @")
	}
	if u.Age < 0 || u.Age > MaxAge {
		return NewValidationError("age", "out of range")
	}
	return nil
}

// ParseUserID validates a textual user identifier.
func ParseUserID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", NewValidationError("id", "must be a UUID")
	}
	return id.String(), nil
}
