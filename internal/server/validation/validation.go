// Package validation checks use-case inputs with go-playground/validator and
// turns the first problem into a client-facing common.Failure.
//
// Inputs declare their rules with `validate` tags and are reported by their
// `json` names. A failed `required` rule yields a MissingParam failure that
// lists every missing field; any other rule yields an InvalidParam failure
// for the first offending field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"name":         "The name field is a empty string or less than 2 characters",
	"email":        "The email field is a invalid email address",
	"password":     "The password field is a password with less than 8 characters",
	"id_user":      "The id_user does not have a valid uuid format",
	"phone_number": "The param: phone_number have less than 9 characters",
	"type":         "The param: type is invalid",
	"postal_code":  "The param postal_code is not valid",
}

// Validator is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Check returns nil when in passes every rule.
func (v *Validator) Check(in any) *common.Failure {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.InvalidParam(err.Error())
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return common.MissingParam(fmt.Sprintf("The field(s): [%s] is missing.", strings.Join(missing, ",")))
	}

	return common.InvalidParam(Message(verrs[0].Field()))
}

// Message is the client-facing text for an invalid field.
func Message(field string) string {
	if m, ok := messages[field]; ok {
		return m
	}
	return fmt.Sprintf("The param: %s is invalid.", field)
}

// AtLeastOne fails with MissingParam when none of the fields is set.
// fields is the ordered list of names to report.
func AtLeastOne(set bool, fields ...string) *common.Failure {
	if set {
		return nil
	}
	return common.MissingParam(fmt.Sprintf(
		"The requisition must includes at least one of the following fields: [%s].",
		strings.Join(fields, ","),
	))
}
