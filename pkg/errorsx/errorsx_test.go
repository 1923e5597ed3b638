package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonProtocol)
	if Reason(err) != ReasonProtocol {
		t.Fatalf("expected reason %s, got %s", ReasonProtocol, Reason(err))
	}
	if !HasReason(err, ReasonProtocol) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonSend)
	second := Wrap(first, ReasonProtocol)
	if Reason(second) != ReasonSend {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ReasonConnect) != nil {
		t.Fatalf("expected nil for nil error")
	}
	if Reason(nil) != ReasonUnknown {
		t.Fatalf("expected unknown reason for nil error")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
