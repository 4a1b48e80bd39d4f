// Package wallet implements interfaces.CapabilityProvider for the signing
// backends the client supports.
//
// A provider stands in for a browser wallet: Acquire requests account access
// and produces a signer. Every registration acquires a fresh capability and
// nothing is cached between calls.
//
//   - KeyProvider: a raw hex private key (flag, environment or file)
//   - KeystoreProvider: an encrypted keystore file, unlocked with a password
//     read from a file or prompted on the terminal
//   - ClefProvider: an external Clef signer that asks its operator to approve
//     every request
//
// When no provider is configured, registration fails with
// interfaces.ErrCapabilityUnavailable.
package wallet
