package validation

import (
	"errors"
	"regexp"

	ozzo "github.com/go-ozzo/ozzo-validation"

	"github.com/iudanet/blogapi/internal/crypto"
)

// UsernamePattern defines the allowed username format:
// letters, digits and the characters @ . + - _
var UsernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+_-]+$`)

const (
	// MaxUsernameLen maximum username length in characters
	MaxUsernameLen = 150
	// MaxTitleLen maximum post title length in characters
	MaxTitleLen = 200
)

var (
	// ErrCredentialsRequired is returned when username or password is blank
	ErrCredentialsRequired = errors.New("username and password are required")
	// ErrPostFieldsRequired is returned when title or content is blank
	ErrPostFieldsRequired = errors.New("title and content are required")
)

// ValidateUsername checks an already trimmed username
func ValidateUsername(username string) error {
	return ozzo.Validate(username,
		ozzo.Required.Error(ErrCredentialsRequired.Error()),
		ozzo.RuneLength(1, MaxUsernameLen).Error("username must not exceed 150 characters"),
		ozzo.Match(UsernamePattern).Error("username may only contain letters, digits and @/./+/-/_"),
	)
}

// ValidatePassword checks the password limits imposed by the hasher
func ValidatePassword(password string) error {
	return ozzo.Validate(password,
		ozzo.Required.Error(ErrCredentialsRequired.Error()),
		ozzo.Length(1, crypto.MaxPasswordBytes).Error("password must not exceed 72 bytes"),
	)
}

// Credentials is the username/password pair submitted on registration
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks both fields; blank fields are reported first
func (c Credentials) Validate() error {
	if c.Username == "" || c.Password == "" {
		return ErrCredentialsRequired
	}

	err := ozzo.ValidateStruct(&c,
		ozzo.Field(&c.Username, ozzo.By(func(any) error { return ValidateUsername(c.Username) })),
		ozzo.Field(&c.Password, ozzo.By(func(any) error { return ValidatePassword(c.Password) })),
	)
	return firstError(err, "username", "password")
}

// PostInput holds the fields of a new post
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks an already trimmed post input
func (p PostInput) Validate() error {
	if p.Title == "" || p.Content == "" {
		return ErrPostFieldsRequired
	}

	err := ozzo.ValidateStruct(&p,
		ozzo.Field(&p.Title, ozzo.RuneLength(1, MaxTitleLen).Error("title must not exceed 200 characters")),
	)
	return firstError(err, "title", "content")
}

// ValidateTitle checks a replacement title on partial update
func ValidateTitle(title string) error {
	return ozzo.Validate(title,
		ozzo.RuneLength(0, MaxTitleLen).Error("title must not exceed 200 characters"),
	)
}

// firstError flattens ozzo field errors into the first failing field, in order
func firstError(err error, order ...string) error {
	if err == nil {
		return nil
	}

	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, field := range order {
		if fieldErr, ok := fieldErrs[field]; ok && fieldErr != nil {
			return fieldErr
		}
	}

	return err
}
