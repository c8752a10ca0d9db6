package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxIdentifierLength caps claim ids, IP addresses and phone numbers.
	// Anything longer is treated as a corrupt record rather than a key.
	MaxIdentifierLength = 4096
)

func init() {
	validate = validator.New()
}

// ClaimRequest carries the fields of an incoming claim record that graph
// construction keys on. Display-only fields are not checked.
type ClaimRequest struct {
	ID          string `json:"id" validate:"required,max=4096"`
	IPAddress   string `json:"ip_address" validate:"omitempty,max=4096"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=4096"`
}

// ValidateClaimRequest validates a single claim record
func ValidateClaimRequest(req *ClaimRequest) error {
	if req == nil {
		return errors.New("claim request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	// required accepts whitespace; a blank id would still collide across records
	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("ID: field is required")
	}

	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
