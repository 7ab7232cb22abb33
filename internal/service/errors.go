package service

import (
	"github.com/samber/oops"
)

// Error codes carried by every error the services return.
const (
	CodeConflict     = "CONFLICT"
	CodeAuthFailed   = "AUTH_FAILED"
	CodeNotFound     = "NOT_FOUND"
	CodeServerError  = "SERVER_ERROR"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnavailable  = "UNAVAILABLE"
)

// ErrorCode returns the oops code attached to err, or "" when err carries none.
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := any(oopsErr.Code()).(string)
	return code
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

func conflict(msg string) error {
	return oops.Code(CodeConflict).Errorf("%s", msg)
}

func authFailed(msg string) error {
	return oops.Code(CodeAuthFailed).Errorf("%s", msg)
}

func notFound(msg string) error {
	return oops.Code(CodeNotFound).Errorf("%s", msg)
}

func invalidInput(msg string) error {
	return oops.Code(CodeInvalidInput).Errorf("%s", msg)
}

// serverError wraps a store or infrastructure failure. err must not already
// carry a code.
func serverError(err error, op string) error {
	return oops.Code(CodeServerError).With("op", op).Wrapf(err, "%s", op)
}

func unavailable(msg string) error {
	return oops.Code(CodeUnavailable).Errorf("%s", msg)
}
