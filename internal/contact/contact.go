// Package contact validates the storefront contact form. Submissions are
// acknowledged and logged; nothing is sent to a backend.
package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxMessageLength = 2000

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Form is a contact form submission.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate returns field → message for every invalid field. An empty map
// means the form can be submitted.
func (f Form) Validate() map[string]string {
	f = f.Normalize()
	errs := make(map[string]string)

	if f.Name == "" {
		errs["name"] = "Vui lòng nhập họ tên"
	}

	switch {
	case f.Email == "":
		errs["email"] = "Vui lòng nhập email"
	case !emailPattern.MatchString(f.Email):
		errs["email"] = "Email không hợp lệ"
	}

	switch {
	case f.Message == "":
		errs["message"] = "Vui lòng nhập nội dung"
	case utf8.RuneCountInString(f.Message) > maxMessageLength:
		errs["message"] = "Nội dung quá dài"
	}
	return errs
}
