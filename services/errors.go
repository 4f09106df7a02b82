package services

import "fmt"

type errKind int

const (
	kindBadRequest errKind = iota + 1
	kindUnauthorized
	kindForbidden
	kindNotFound
)

// Sentineli po kojima handler sloj mapira greške na HTTP statuse.
var (
	ErrBadRequest   = &Error{kind: kindBadRequest, message: "bad request"}
	ErrUnauthorized = &Error{kind: kindUnauthorized, message: "unauthorized"}
	ErrForbidden    = &Error{kind: kindForbidden, message: "forbidden"}
	ErrNotFound     = &Error{kind: kindNotFound, message: "not found"}
)

// Error nosi vrstu greške i poruku za klijenta.
type Error struct {
	kind    errKind
	message string
}

func (e *Error) Error() string { return e.message }

// Is poredi greške po vrsti, tako da errors.Is radi sa sentinelima.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

func badRequestf(format string, args ...interface{}) error {
	return &Error{kind: kindBadRequest, message: fmt.Sprintf(format, args...)}
}

func unauthorizedf(format string, args ...interface{}) error {
	return &Error{kind: kindUnauthorized, message: fmt.Sprintf(format, args...)}
}

func forbiddenf(format string, args ...interface{}) error {
	return &Error{kind: kindForbidden, message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &Error{kind: kindNotFound, message: fmt.Sprintf(format, args...)}
}
