package gameserver

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"

	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/element"
	"github.com/cory-johannsen/battlesim/internal/provider"
)

// ErrInvalidArgument marks a request that is missing a required value.
var ErrInvalidArgument = errors.New("invalid argument")

// Error is a fault surfaced to callers. Message is fit for end users; Err
// keeps the cause for errors.Is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the end-user text for err, prefixed with "Error: ".
func UserMessage(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return "Error: " + ue.Message
	}
	return "Error: the request could not be completed."
}

// Code maps err onto a gRPC status code.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, element.ErrUnknownElement):
		return codes.InvalidArgument
	case errors.Is(err, provider.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, provider.ErrUnavailable):
		return codes.Unavailable
	case errors.Is(err, provider.ErrMalformed), errors.Is(err, combat.ErrNoUsableAction):
		return codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// creatureFault wraps a provider fault for the named creature.
func creatureFault(name string, err error) *Error {
	var msg string
	switch {
	case errors.Is(err, provider.ErrNotFound):
		msg = fmt.Sprintf("Could not find data for Pokémon '%s'. Please check the spelling.", name)
	case errors.Is(err, provider.ErrMalformed):
		msg = fmt.Sprintf("Received malformed data for Pokémon '%s'.", name)
	default:
		msg = fmt.Sprintf("Could not fetch data for Pokémon '%s'. The data service is unavailable.", name)
	}
	return &Error{Message: msg, Err: err}
}
