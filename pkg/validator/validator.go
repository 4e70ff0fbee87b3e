package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ParseError flattens gin binding errors into a field → message map.
func ParseError(err error) map[string]string {
	errs := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			errs[fe.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}
	} else if err != nil {
		errs["error"] = err.Error()
	}
	return errs
}
