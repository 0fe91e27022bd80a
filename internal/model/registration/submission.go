package registration

import (
	"net/mail"
	"net/url"
	"strings"
)

// Submission carries one registration form post for the duration of a request.
type Submission struct {
	FullName         string
	Phone            string
	Email            string
	Course           string
	YearOfPassout    string
	Stream           string
	College          string
	RegistrationType string
	Recipient        string
}

// Receipt references a payment-receipt file in the staging area.
type Receipt struct {
	Filename string
	Path     string
}

// FromForm maps the multipart field names used by the registration page.
func FromForm(form url.Values) Submission {
	get := func(key string) string {
		return strings.TrimSpace(form.Get(key))
	}

	return Submission{
		FullName:         get("Full Name"),
		Phone:            get("Phone Number"),
		Email:            get("Email ID"),
		Course:           get("Course"),
		YearOfPassout:    get("Year of Passout"),
		Stream:           get("Stream"),
		College:          get("College"),
		RegistrationType: get("Registration Type"),
		Recipient:        get("Recipient"),
	}
}

// FieldError names a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate enforces the required fields before any delivery attempt.
func (s Submission) Validate() []FieldError {
	var errs []FieldError

	if s.FullName == "" {
		errs = append(errs, FieldError{Field: "Full Name", Message: "full name is required"})
	}

	if s.Email == "" {
		errs = append(errs, FieldError{Field: "Email ID", Message: "email is required"})
	} else if _, err := mail.ParseAddress(s.Email); err != nil {
		errs = append(errs, FieldError{Field: "Email ID", Message: "email address is not valid"})
	}

	if s.Recipient != "" {
		if _, err := mail.ParseAddress(s.Recipient); err != nil {
			errs = append(errs, FieldError{Field: "Recipient", Message: "recipient address is not valid"})
		}
	}

	// Field values end up in mail headers; a CR/LF here would let a
	// submitter smuggle extra headers through the relay.
	for _, field := range append(s.Fields(), Field{Label: "Recipient", Value: s.Recipient}) {
		if containsControl(field.Value) {
			errs = append(errs, FieldError{Field: field.Label, Message: "must not contain control characters"})
		}
	}

	return errs
}

func containsControl(value string) bool {
	return strings.ContainsFunc(value, func(r rune) bool {
		return r < 0x20 || r == 0x7f
	})
}

// Field pairs a display label with its submitted value.
type Field struct {
	Label string
	Value string
}

// Fields returns the submitted values in the fixed order used by email bodies.
// The Recipient override is routing data, not body content, and is excluded.
func (s Submission) Fields() []Field {
	return []Field{
		{Label: "Full Name", Value: s.FullName},
		{Label: "Phone Number", Value: s.Phone},
		{Label: "Email ID", Value: s.Email},
		{Label: "Course", Value: s.Course},
		{Label: "Year of Passout", Value: s.YearOfPassout},
		{Label: "Stream", Value: s.Stream},
		{Label: "College", Value: s.College},
		{Label: "Registration Type", Value: s.RegistrationType},
	}
}
