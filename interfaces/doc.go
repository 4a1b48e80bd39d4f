// Package interfaces defines core interfaces and types for the ARC name
// service client, separating definitions from implementations.
//
// # Names
//
// Every registry name ends with the ".arc" suffix. Canonicalize appends the
// suffix to user input that lacks it and leaves canonical names untouched,
// so canonicalization is idempotent:
//
//	name, err := interfaces.Canonicalize("sercan") // "sercan.arc"
//	same, _ := interfaces.Canonicalize(name.String()) // "sercan.arc"
//
// # Outcomes
//
// An operation settles into exactly one Outcome: Registered, Resolved,
// NotRegistered or Failed. Interpret maps the address returned by the
// registry's resolve call to Resolved or, for the zero address, NotRegistered.
// NotRegistered is a valid answer, not an error.
//
// # Registry and Wallet Interfaces
//
// NameRegistry: client view of the registry contract (resolve, register,
// wait for inclusion).
//
// RegistryFactory: binds NameRegistry clients to a connection and an optional
// signer.
//
// CapabilityProvider: a wallet that grants a Capability (account, signer and
// connection) on request. Registration re-acquires a capability every time.
//
// # Errors
//
//   - ErrInvalidName: empty or blank input
//   - ErrCapabilityUnavailable: no wallet configured for registration
//   - GatewayError: any remote failure, subdivided by Kind (call, rejected,
//     reverted) but always displayed as the underlying message
package interfaces
