package kernel

import (
	"errors"
	"fmt"

	"github.com/gregLibert/emv-kernel/pkg/iso7816"
)

// Error kinds. Every fatal failure of Run is an *Error whose Kind is one of
// these.
var (
	// ErrProtocol reports a malformed card answer, a missing mandatory data
	// object or an unexpected status word.
	ErrProtocol = errors.New("protocol error")
	// ErrTransport reports a failed exchange with the card, cancellation
	// included.
	ErrTransport = errors.New("transport error")
	// ErrAuthenticationUnsupported reports that offline data authentication
	// cannot start: no CA public key matches the card.
	ErrAuthenticationUnsupported = errors.New("offline data authentication unsupported")
	// ErrDeclined reports a terminal decision to stop the transaction.
	ErrDeclined = errors.New("transaction declined")
	// ErrTryOtherInterface reports a card asking to be presented on
	// another interface (status '6984').
	ErrTryOtherInterface = errors.New("try another interface")
)

// Error is a fatal transaction failure.
type Error struct {
	// State is the state the kernel failed to reach.
	State State
	Kind  error
	Err   error
	// Snapshot holds the tag store at the time of the failure.
	Snapshot map[string][]byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.State, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// StatusError reports a command the card refused.
type StatusError struct {
	Command string
	Status  iso7816.StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s refused with status %04X", e.Command, uint16(e.Status))
}
