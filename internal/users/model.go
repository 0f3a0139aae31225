package users

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 80
	minPasswordLength = 8
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var (
	// ErrInvalidUsername indicates a username that is too short or too long.
	ErrInvalidUsername = errors.New("users: invalid username")
	// ErrInvalidEmail indicates an email that does not look like an address.
	ErrInvalidEmail = errors.New("users: invalid email")
	// ErrInvalidPassword indicates a password below the minimum length.
	ErrInvalidPassword = errors.New("users: invalid password")
)

// Username represents a validated username.
type Username string

// NewUsername validates raw input and returns a Username.
func NewUsername(rawInput string) (Username, error) {
	trimmed := strings.TrimSpace(rawInput)
	if len(trimmed) < minUsernameLength {
		return "", fmt.Errorf("%w: must be at least %d characters", ErrInvalidUsername, minUsernameLength)
	}
	if len(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidUsername, maxUsernameLength)
	}
	return Username(trimmed), nil
}

// String returns the underlying username.
func (u Username) String() string {
	return string(u)
}

// Email represents a validated email address.
type Email string

// NewEmail validates raw input and returns an Email.
func NewEmail(rawInput string) (Email, error) {
	trimmed := strings.TrimSpace(rawInput)
	if !emailPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, trimmed)
	}
	return Email(trimmed), nil
}

// String returns the underlying address.
func (e Email) String() string {
	return string(e)
}

// ValidatePassword enforces the minimum password length before hashing.
func ValidatePassword(rawInput string) error {
	if len(rawInput) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidPassword, minPasswordLength)
	}
	return nil
}

// User models a registered account. The password is stored only as a bcrypt
// hash; it never leaves the service layer.
type User struct {
	ID           string    `gorm:"column:id;primaryKey;size:36;not null"`
	Username     string    `gorm:"column:username;size:80;not null;uniqueIndex"`
	Email        string    `gorm:"column:email;size:320;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;size:120;not null"`
	Name         string    `gorm:"column:name;size:320;not null"`
	Bio          string    `gorm:"column:bio;type:text"`
	Image        string    `gorm:"column:image;size:512"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (User) TableName() string {
	return "users"
}

// DisplayName resolves the name shown next to a space: username when
// present, otherwise the display name.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Username) != "" {
		return u.Username
	}
	return u.Name
}
