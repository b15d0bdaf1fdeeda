package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("catalog validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

var validate = validator.New()

// Validate checks field constraints and that tour ids and city/slug paths
// are unique across the file.
func Validate(f *File) error {
	var errs ValidationErrors

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate catalog: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, ValidationError{
				Field:   strings.TrimPrefix(fe.Namespace(), "File."),
				Message: describe(fe),
			})
		}
	}

	ids := make(map[string]struct{})
	paths := make(map[string]struct{})
	for ci, city := range f.Cities {
		for ti, t := range city.Tours {
			field := fmt.Sprintf("Cities[%d].Tours[%d]", ci, ti)
			if t.ID != "" {
				if _, dup := ids[t.ID]; dup {
					errs = append(errs, ValidationError{Field: field + ".ID", Message: fmt.Sprintf("duplicate tour id %q", t.ID)})
				}
				ids[t.ID] = struct{}{}
			}
			if t.Slug != "" {
				path := city.Slug + "/" + t.Slug
				if _, dup := paths[path]; dup {
					errs = append(errs, ValidationError{Field: field + ".Slug", Message: fmt.Sprintf("duplicate tour path %q", path)})
				}
				paths[path] = struct{}{}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "gte", "lte":
		return fmt.Sprintf("must be %s %s", map[string]string{"gte": ">=", "lte": "<="}[fe.Tag()], fe.Param())
	}
	return "failed on " + fe.Tag()
}
