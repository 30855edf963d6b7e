package web

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mwhitt/bloglite/blog/application"
)

// Field error reasons. Validation here is purely syntactic; title uniqueness
// is the store's job and surfaces separately as a conflict.
const (
	ReasonMissing       = "missing"
	ReasonInvalidFormat = "invalid_format"
)

// FieldError describes why a single form field was rejected.
type FieldError struct {
	Reason  string
	Message string
}

// FieldErrors maps form field names to their rejection.
type FieldErrors map[string]FieldError

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the form field names, not Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// PostForm is the create/edit form for a post. The same form backs both
// flows; only the submit label and target differ.
type PostForm struct {
	Title    string `form:"title" validate:"required"`
	Subtitle string `form:"subtitle" validate:"required"`
	Author   string `form:"author" validate:"required"`
	ImgURL   string `form:"img_url" validate:"required,url"`
	Body     string `form:"body" validate:"required"`
}

// Validate trims every field and returns per-field errors, or nil when the
// form is acceptable.
func (f *PostForm) Validate() FieldErrors {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.Author = strings.TrimSpace(f.Author)
	f.ImgURL = strings.TrimSpace(f.ImgURL)
	f.Body = strings.TrimSpace(f.Body)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": {Reason: ReasonInvalidFormat, Message: "Invalid form submission."}}
	}

	fieldErrs := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fieldErrs[fe.Field()] = fieldErrorFor(fe)
	}
	return fieldErrs
}

func fieldErrorFor(fe validator.FieldError) FieldError {
	switch fe.Tag() {
	case "required":
		return FieldError{Reason: ReasonMissing, Message: "This field is required."}
	case "url":
		return FieldError{Reason: ReasonInvalidFormat, Message: "Must be a valid URL."}
	default:
		return FieldError{Reason: ReasonInvalidFormat, Message: "Invalid value."}
	}
}

// Fields converts the validated form into service-layer input.
func (f *PostForm) Fields() application.PostFields {
	return application.PostFields{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Author:   f.Author,
		ImgURL:   f.ImgURL,
		Body:     f.Body,
	}
}
