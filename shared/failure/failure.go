// Package failure carries client facing errors with the HTTP status they map to. Any other
// error reaching a handler is treated as a 500.
package failure

import (
	"errors"
	"net/http"
)

const internalMessage = "internal server error"

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidPageParam        = New(http.StatusBadRequest, "invalid page parameter")
	InvalidLimitParam       = New(http.StatusBadRequest, "invalid limit parameter")
	InvalidIDParam          = New(http.StatusBadRequest, "invalid id parameter")
	ForbiddenError          = New(http.StatusForbidden, "You don't have the required permissions")
	ResourceRestrictedError = New(http.StatusForbidden, "You don't have permission to access this resource")
)

func (e *Failure) Error() string {
	return e.Message
}

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

// BadRequest wraps err as a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

// PaymentRequired marks content locked until the caller pays for it.
func PaymentRequired(msg string) error {
	return New(http.StatusPaymentRequired, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// InternalError wraps err as a 500. A nil err stays nil.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusInternalServerError, err.Error())
}

// GetCode returns the status carried by err, or 500 when err is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show a client: the failure message for 4xx codes and a
// generic one otherwise.
func PublicMessage(err error) string {
	if GetCode(err) >= http.StatusInternalServerError {
		return internalMessage
	}

	return err.Error()
}
