package pokeapi

import (
	"errors"
	"fmt"
)

// Kind classifies why a request failed.
type Kind string

const (
	KindNotFound  Kind = "not_found" // upstream answered 404
	KindStatus    Kind = "status"    // any other non-2xx status
	KindNetwork   Kind = "network"   // transport failure or timeout
	KindMalformed Kind = "malformed" // body did not have the expected shape
	KindCanceled  Kind = "canceled"  // caller canceled the context
)

// Error is returned by every failing Client call.
type Error struct {
	Kind   Kind
	Status int
	Query  string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("pokeapi %s", e.Kind)
	if e.Query != "" {
		msg += fmt.Sprintf(" (%s)", e.Query)
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports whether err means the Pokémon does not exist upstream.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
