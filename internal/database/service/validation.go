package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-Z ]*$`)
	emailPattern      = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	passwordCharset   = regexp.MustCompile(`^[A-Za-z\d@#$!%*?&]{8,}$`)
)

const passwordSymbols = "@$#!%*?&"

// Field error messages shown next to the form inputs
const (
	msgNameRequired  = "* Name is required"
	msgNameAlpha     = "* Name should contain only alphabet"
	msgEmailInvalid  = "* not a valid email."
	msgEmailTaken    = "* email Id already exits"
	msgWeakPassword  = "* Weak password."
	msgStockName     = "* Stock name is required"
	msgStockNameLong = "* Stock name is too long"
	msgStockPrice    = "* Price must be a non-negative number"
)

// ValidationError carries one message per offending form field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// AsValidationError unwraps err into a *ValidationError
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})

	return v
}

// isStrongPassword: 8+ characters from the allowed set with at least one
// lowercase letter, uppercase letter, digit and symbol.
func isStrongPassword(password string) bool {
	if !passwordCharset.MatchString(password) {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	return lower && upper && digit && symbol
}

// RegisterInput is the submitted registration form
type RegisterInput struct {
	Name     string `form:"name" validate:"notblank,personname"`
	EmailID  string `form:"emailId" validate:"emailaddr"`
	Password string `form:"password" validate:"strongpassword"`
}

var registerMessages = map[string]map[string]string{
	"name":     {"notblank": msgNameRequired, "personname": msgNameAlpha},
	"emailId":  {"emailaddr": msgEmailInvalid},
	"password": {"strongpassword": msgWeakPassword},
}

var registerFields = map[string]string{
	"Name":     "name",
	"EmailID":  "emailId",
	"Password": "password",
}

// validateRegistration checks every field independently and returns the
// messages keyed by form field name.
func validateRegistration(input RegisterInput) map[string]string {
	fields := map[string]string{}

	err := validate.Struct(input)
	if err == nil {
		return fields
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		fields["name"] = err.Error()
		return fields
	}

	for _, fe := range vErrs {
		field := registerFields[fe.StructField()]
		if _, seen := fields[field]; seen {
			continue
		}
		fields[field] = registerMessages[field][fe.Tag()]
	}

	return fields
}

// StockInput is the submitted add/edit stock form
type StockInput struct {
	Name  string `form:"name" validate:"required,max=100"`
	Price string `form:"price" validate:"required,numeric"`
}

// parseStockInput validates the form and returns the trimmed name and parsed price.
func parseStockInput(input StockInput) (string, float64, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Price = strings.TrimSpace(input.Price)

	fields := map[string]string{}

	if err := validate.Struct(input); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return "", 0, err
		}
		for _, fe := range vErrs {
			switch fe.StructField() {
			case "Name":
				if fe.Tag() == "max" {
					fields["name"] = msgStockNameLong
				} else {
					fields["name"] = msgStockName
				}
			case "Price":
				fields["price"] = msgStockPrice
			}
		}
	}

	var price float64
	if _, bad := fields["price"]; !bad {
		parsed, err := strconv.ParseFloat(input.Price, 64)
		if err != nil || parsed < 0 {
			fields["price"] = msgStockPrice
		}
		price = parsed
	}

	if len(fields) > 0 {
		return "", 0, &ValidationError{Fields: fields}
	}

	return input.Name, price, nil
}
