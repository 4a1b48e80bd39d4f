package interfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned for empty or blank names.
	ErrInvalidName = errors.New("invalid name: name must not be empty")

	// ErrCapabilityUnavailable is returned when a registration is attempted
	// without any wallet configured to sign it.
	ErrCapabilityUnavailable = errors.New("signing capability unavailable: a wallet is required to register names")
)

// GatewayErrorKind subdivides remote failures. Every kind is still shown to
// the user as the underlying message.
type GatewayErrorKind int

const (
	// KindCall covers transport failures, malformed responses and failed calls.
	KindCall GatewayErrorKind = iota
	// KindRejected means the signer refused to sign the transaction.
	KindRejected
	// KindReverted means the transaction was mined but its execution failed.
	KindReverted
)

func (k GatewayErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindReverted:
		return "reverted"
	default:
		return "call"
	}
}

// GatewayError wraps any failure coming back from the ledger.
type GatewayError struct {
	Op   string
	Kind GatewayErrorKind
	Err  error
}

// NewGatewayError creates a new GatewayError.
func NewGatewayError(op string, kind GatewayErrorKind, err error) *GatewayError {
	return &GatewayError{Op: op, Kind: kind, Err: err}
}

// Error returns the message of the underlying error, unprefixed, so it can be
// shown to the user as is.
func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError checks whether an error is a GatewayError and returns it.
func IsGatewayError(err error) (*GatewayError, bool) {
	var g *GatewayError
	if errors.As(err, &g) {
		return g, true
	}
	return nil, false
}
