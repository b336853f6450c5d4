// Package lookup implements the search lifecycle: validation, request
// sequencing and the Idle/Loading/Success/Failed state machine.
package lookup

import (
	"strings"

	"github.com/f3rmion/pokedex/internal/pokedex"
)

// User-facing messages. Every lookup failure collapses to MsgNotFound.
const (
	MsgEmptyInput = "Please enter a Pokémon name."
	MsgNotFound   = "Pokémon not found. Please check the name and try again."
)

// Status is the tag of State.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the current lookup state. Result is set only in StatusSuccess
// and Message only in StatusFailed.
type State struct {
	Status  Status
	Query   string
	Result  *pokedex.LookupResult
	Message string
}

// Request is a lookup the caller must perform and then Resolve.
type Request struct {
	Seq  uint64
	Name string
}

// Flow is the lookup state machine. The zero value is an Idle flow that
// trims input before sending it.
type Flow struct {
	state State
	seq   uint64

	// KeepWhitespace sends the lowercased input untrimmed, as long as the
	// trimmed form is non-blank.
	KeepWhitespace bool
}

// State returns the current state.
func (f *Flow) State() State {
	return f.state
}

// Loading reports whether the latest request is still outstanding.
func (f *Flow) Loading() bool {
	return f.state.Status == StatusLoading
}

// Seq returns the sequence number of the latest issued request.
func (f *Flow) Seq() uint64 {
	return f.seq
}

// Normalize returns the query sent upstream for input and whether the input
// is non-blank.
func (f *Flow) Normalize(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}
	if f.KeepWhitespace {
		return strings.ToLower(input), true
	}
	return strings.ToLower(trimmed), true
}

// Trigger starts a search for input. It returns false, without issuing a
// request, when input is blank.
func (f *Flow) Trigger(input string) (Request, bool) {
	name, ok := f.Normalize(input)
	if !ok {
		f.state = State{Status: StatusFailed, Message: MsgEmptyInput}
		return Request{}, false
	}

	f.seq++
	f.state = State{Status: StatusLoading, Query: name}
	return Request{Seq: f.seq, Name: name}, true
}

// Resolve commits the outcome of request seq. Outcomes of superseded
// requests are dropped and Resolve returns false.
func (f *Flow) Resolve(seq uint64, result pokedex.LookupResult, err error) bool {
	if seq != f.seq || f.state.Status != StatusLoading {
		return false
	}

	query := f.state.Query
	if err != nil {
		f.state = State{Status: StatusFailed, Query: query, Message: MsgNotFound}
		return true
	}

	f.state = State{Status: StatusSuccess, Query: query, Result: &result}
	return true
}

// Reset returns to Idle and invalidates any outstanding request.
func (f *Flow) Reset() {
	f.seq++
	f.state = State{}
}
