package catalog

import (
	"fmt"
	"net/http"

	"golang.org/x/xerrors"
)

// Kind classifies a failed catalog call.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport means the request never reached the server or no response came back.
	KindTransport
	KindBadRequest
	KindUnauthorized
	KindNotFound
	// KindServer covers any other non-200 status and undecodable responses.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindBadRequest:
		return "bad request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server error"
	default:
		return "unknown error"
	}
}

// Error is returned by every Client call that fails.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	URL        string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status code: %d", e.StatusCode)
	}
	msg += ", url: " + e.URL
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrContactNotFound is wrapped when the users search returns no record for a login.
var ErrContactNotFound = xerrors.New("no contact found for login")

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if xerrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

func retryable(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindServer:
		return true
	}
	return false
}

// PartialFailure marks a project whose inventory could not be collected in
// full. Items collected before the failure are discarded.
type PartialFailure struct {
	ProjectID int
	Page      int
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("failed at page %d: %s", e.Page, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}
