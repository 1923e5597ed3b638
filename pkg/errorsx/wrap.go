package errorsx

import "errors"

// ReasonedError pairs an error with the machine-readable cause that the
// streaming and batch clients log as reason_code. The sentinel taxonomy
// (connection, invalid state, protocol) says what kind of failure occurred;
// the reason says where in the exchange it happened.
type ReasonedError struct {
	Err    error
	Reason ReasonCode
}

func (e ReasonedError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return e.Err.Error()
}

func (e ReasonedError) Unwrap() error {
	return e.Err
}

// Wrap attaches a reason code to err. An error that already carries a
// reason keeps it: the innermost classification wins, so a send failure
// re-wrapped at the session boundary still reports "send". Wrapping nil
// yields nil.
func Wrap(err error, reason ReasonCode) error {
	if err == nil {
		return nil
	}
	var reasoned ReasonedError
	if errors.As(err, &reasoned) {
		return err
	}
	return ReasonedError{Err: err, Reason: reason}
}

// Reason reports the reason code carried anywhere in err's chain, or
// ReasonUnknown for an unclassified error.
func Reason(err error) ReasonCode {
	if err == nil {
		return ReasonUnknown
	}
	var reasoned ReasonedError
	if errors.As(err, &reasoned) {
		return reasoned.Reason
	}
	return ReasonUnknown
}

// HasReason reports whether err carries the given reason code.
func HasReason(err error, reason ReasonCode) bool {
	return Reason(err) == reason
}
