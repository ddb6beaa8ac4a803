package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Kind is a coarse classification used to pick a response status.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func Invalid(op, msg string) *Error {
	return &Error{Op: op, Kind: KindInvalidInput, Err: errors.New(msg)}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf reports KindInternal for errors that carry no kind.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != "" {
		return ae.Kind
	}
	return KindInternal
}

func Status(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Respond answers with the status of err's kind. Client errors echo the
// error text; server errors are logged in full and hidden from the client.
func Respond(w http.ResponseWriter, log *slog.Logger, err error, attrs ...any) {
	if log == nil {
		log = slog.Default()
	}
	status := Status(err)
	attrs = append(attrs, "kind", KindOf(err), "status", status, "err", err)
	if status >= http.StatusInternalServerError {
		log.Error("request.failed", attrs...)
		http.Error(w, http.StatusText(status), status)
		return
	}
	log.Info("request.rejected", attrs...)
	http.Error(w, err.Error(), status)
}
