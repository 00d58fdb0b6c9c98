// Package common defines the sentinel errors and typed failures shared by the
// repositories, services and transport layers. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrorUnknownReference means a value names a lookup row that does not exist.
	ErrorUnknownReference = errors.New("unknown reference")

	// ErrorInternal is the only thing a client learns about an unexpected fault.
	ErrorInternal = errors.New("Internal server error")
)

// Kind classifies an anticipated failure. KindValidation marks malformed
// input and is answered with 400 on every route; transports pick the status
// for the other kinds per operation.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindCredential
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCredential:
		return "credential"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Failure is an anticipated, client-facing outcome of a use case. It travels
// as the Left value of a mo.Either and is never used for infrastructure
// faults.
//
// Two failures match under errors.Is when their codes are equal, so a
// failure carrying a formatted message still matches its sentinel.
type Failure struct {
	Kind    Kind
	Code    string
	Message string
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Code == f.Code
}

func newFailure(kind Kind, code, msg string) *Failure {
	return &Failure{Kind: kind, Code: code, Message: msg}
}

var (
	ErrEmailOrPasswordInvalid = newFailure(KindCredential, "EMAIL_OR_PASSWORD_INVALID", "Email or password invalid")
	ErrInvalidRefreshToken    = newFailure(KindCredential, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
	ErrUserTokenDoesNotExist  = newFailure(KindCredential, "USER_TOKEN_DOES_NOT_EXIST", "Refresh Token does not exists!")
	ErrInvalidToken           = newFailure(KindCredential, "INVALID_TOKEN", "Token invalid")
	ErrUserNotFound           = newFailure(KindNotFound, "USER_NOT_FOUND", "User not found")

	ErrUserAlreadyHasAddress = newFailure(KindConflict, "USER_ALREADY_HAS_ADDRESS", "This user already has a address")
	ErrUserMustHaveAddress   = newFailure(KindNotFound, "USER_MUST_HAVE_ADDRESS", "A user must already have an address to update then.")
	ErrUserAlreadyHasPhone   = newFailure(KindConflict, "USER_ALREADY_HAS_PHONE", "This user already has a phone")
	ErrUserMustHavePhone     = newFailure(KindNotFound, "USER_MUST_HAVE_PHONE", "A user must already have a phone to update then.")
	ErrInvalidPhoneType      = newFailure(KindValidation, "INVALID_PHONE_TYPE", "Invalid phone type")

	// Matchers for the parameterised failures below.
	ErrEmailAlreadyInUse = newFailure(KindConflict, "EMAIL_ALREADY_IN_USE", "email already in use")
	ErrEmailNotVerified  = newFailure(KindConflict, "EMAIL_NOT_VERIFIED", "email not verified")
	ErrMissingParam      = newFailure(KindValidation, "MISSING_PARAM", "missing param")
	ErrInvalidParam      = newFailure(KindValidation, "INVALID_PARAM", "invalid param")
)

func EmailAlreadyInUse(email string) *Failure {
	return newFailure(KindConflict, ErrEmailAlreadyInUse.Code, fmt.Sprintf("This email : %s is already in use", email))
}

// EmailNotVerified reports that the named action requires a verified address.
func EmailNotVerified(action string) *Failure {
	return newFailure(KindConflict, ErrEmailNotVerified.Code, "You must verify your email address to: "+action)
}

func MissingParam(msg string) *Failure {
	return newFailure(KindValidation, ErrMissingParam.Code, msg)
}

func InvalidParam(msg string) *Failure {
	return newFailure(KindValidation, ErrInvalidParam.Code, msg)
}
