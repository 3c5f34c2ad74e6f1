package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a request DTO against its struct tags and returns a
// single readable error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var issues []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			issues = append(issues, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("validation: %s", strings.Join(issues, ", "))
	}
	return err
}
