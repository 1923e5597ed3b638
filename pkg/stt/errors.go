package stt

import (
	"errors"
	"fmt"

	"github.com/smallestai/waves-go/pkg/errorsx"
)

// Sentinel errors for the session taxonomy. Callers match them with
// errors.Is; errorsx.Reason gives the finer-grained cause.
var (
	// ErrConnection reports that the transport could not be established
	// or was lost mid-stream.
	ErrConnection = errors.New("stt: connection error")

	// ErrInvalidState reports an operation invoked outside its valid
	// session state, such as Feed after Finish.
	ErrInvalidState = errors.New("stt: invalid state")

	// ErrProtocol reports a malformed or unexpected message from the
	// recognizer.
	ErrProtocol = errors.New("stt: protocol error")
)

// errTimeoutAwaitingLast is the cause recorded when Finish was sent but no
// terminal event arrived within the grace period.
var errTimeoutAwaitingLast = errors.New("timed out awaiting final event after end signal")

func connectionErr(err error, reason errorsx.ReasonCode) error {
	return errorsx.Wrap(fmt.Errorf("%w: %v", ErrConnection, err), reason)
}

func invalidStateErr(op string, s State) error {
	return errorsx.Wrap(fmt.Errorf("%w: %s not allowed in state %s", ErrInvalidState, op, s), errorsx.ReasonInvalidState)
}

func protocolErr(err error) error {
	return errorsx.Wrap(fmt.Errorf("%w: %v", ErrProtocol, err), errorsx.ReasonProtocol)
}
