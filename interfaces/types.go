package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NameSuffix is appended to every name the registry accepts.
const NameSuffix = ".arc"

// ZeroAddress is what the registry returns for a name nobody has registered.
var ZeroAddress = common.Address{}

// Name is a canonical registry name, always ending with NameSuffix.
type Name string

// Canonicalize turns user input into a registrable name. Input that already
// ends with NameSuffix (exact, case-sensitive) is returned unchanged, anything
// else gets the suffix appended. Empty and whitespace-only input is rejected
// with ErrInvalidName.
func Canonicalize(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidName
	}
	if strings.HasSuffix(raw, NameSuffix) {
		return Name(raw), nil
	}
	return Name(raw + NameSuffix), nil
}

// String returns the name as a string.
func (n Name) String() string {
	return string(n)
}

// ParseAddress parses a 40-char hex address, with or without the 0x prefix.
func ParseAddress(addr string) (common.Address, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	if len(clean) != 40 {
		return common.Address{}, errors.New("invalid address length: hex string must be 40 characters")
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return common.BytesToAddress(addrBytes), nil
}

// IsUnassigned reports whether addr is the zero sentinel.
func IsUnassigned(addr common.Address) bool {
	return addr == ZeroAddress
}
