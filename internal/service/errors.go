package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateLoginName = errors.New("login name already exists")

	ErrEmailNotFound     = errors.New("email not found")
	ErrUsernameNotFound  = errors.New("username not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailNotVerified  = errors.New("email not verified")

	ErrVerificationTokenInvalid = errors.New("verification token invalid")
	ErrVerificationTokenExpired = errors.New("verification token expired")
	ErrAccountNotFound          = errors.New("account not found")

	ErrHashing = errors.New("password hashing failed")
	ErrSigning = errors.New("token signing failed")
)

// EmailNotVerifiedError indica credenciales validas sobre una cuenta sin verificar.
// Email es la direccion a la que se reenvio el recordatorio.
type EmailNotVerifiedError struct {
	Email string
}

func (e *EmailNotVerifiedError) Error() string {
	return fmt.Sprintf("email not verified: reminder sent to %s", e.Email)
}

func (e *EmailNotVerifiedError) Is(target error) bool {
	return target == ErrEmailNotVerified
}
