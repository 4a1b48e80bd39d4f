package interfaces

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// OutcomeKind enumerates the ways an operation can settle.
type OutcomeKind int

const (
	OutcomeRegistered OutcomeKind = iota + 1
	OutcomeResolved
	OutcomeNotRegistered
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRegistered:
		return "registered"
	case OutcomeResolved:
		return "resolved"
	case OutcomeNotRegistered:
		return "not_registered"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the settled result of one register or resolve operation.
// It is a value: copies are independent and nothing mutates it after creation.
type Outcome struct {
	Kind OutcomeKind
	Name Name

	// Address is set for OutcomeResolved.
	Address common.Address

	// TxHash is set for OutcomeRegistered.
	TxHash common.Hash

	// Reason and Err are set for OutcomeFailed. Reason is Err's message.
	Reason string
	Err    error
}

func Registered(name Name, txHash common.Hash) Outcome {
	return Outcome{Kind: OutcomeRegistered, Name: name, TxHash: txHash}
}

func Resolved(name Name, addr common.Address) Outcome {
	return Outcome{Kind: OutcomeResolved, Name: name, Address: addr}
}

func NotRegistered(name Name) Outcome {
	return Outcome{Kind: OutcomeNotRegistered, Name: name}
}

// Failed builds a failed outcome carrying err's message. name may be empty
// when the failure happened before canonicalization succeeded.
func Failed(name Name, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Name: name, Reason: err.Error(), Err: err}
}

// Interpret maps the raw address returned by a resolve call to an outcome.
// The zero address means nobody holds the name.
func Interpret(addr common.Address, name Name) Outcome {
	if IsUnassigned(addr) {
		return NotRegistered(name)
	}
	return Resolved(name, addr)
}

// String renders the outcome the way it is shown to users.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeRegistered:
		return fmt.Sprintf("%s has been successfully registered!", o.Name)
	case OutcomeResolved:
		return fmt.Sprintf("%s address: %s", o.Name, o.Address.Hex())
	case OutcomeNotRegistered:
		return fmt.Sprintf("%s address: Not registered", o.Name)
	case OutcomeFailed:
		return "Error: " + o.Reason
	default:
		return ""
	}
}
