package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-editor/internal/apierror"
)

var validate = validator.New()

// ExportRequest identifies a resume rendering: which resume, which template,
// and the order its sections appear in.
type ExportRequest struct {
	ResumeID   string   `json:"resume_id" validate:"required"`
	TemplateID string   `json:"template_id" validate:"required"`
	Order      []string `json:"order" validate:"required,min=1,dive,required"`
}

// OrderSegment returns the section order as a single path segment.
func (r *ExportRequest) OrderSegment() string {
	return strings.Join(r.Order, ",")
}

// Validate checks the request before it is turned into a URL.
// Failures are validation-kind errors.
func (r *ExportRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		for _, section := range r.Order {
			if strings.Contains(section, ",") {
				return apierror.Validation(fmt.Sprintf("invalid export request: section %q contains a comma", section), nil)
			}
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		names := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			names = append(names, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apierror.Validation("invalid export request: "+strings.Join(names, ", "), err)
	}
	return apierror.Validation("invalid export request", err)
}
