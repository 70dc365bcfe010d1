package errors

import "net/http"

// AppError carries an HTTP status alongside the message. Handlers attach one
// with c.Error and the error middleware renders it, so error responses stay
// uniform without every handler building its own JSON body.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(msg string) *AppError {
	return New(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return New(http.StatusNotFound, msg)
}

func Internal(msg string) *AppError {
	return New(http.StatusInternalServerError, msg)
}
