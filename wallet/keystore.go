package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"golang.org/x/term"

	"github.com/ruteri/arc-name-service/interfaces"
)

// ErrNotTerminal is returned when a password prompt is needed but stdin is
// not a terminal.
var ErrNotTerminal = errors.New("cannot prompt for password: stdin is not a terminal")

// PasswordFunc supplies the password unlocking a keystore file. Prompting
// implementations block until the user answers.
type PasswordFunc func(ctx context.Context) (string, error)

// StaticPassword returns a PasswordFunc that always yields password.
func StaticPassword(password string) PasswordFunc {
	return func(context.Context) (string, error) {
		return password, nil
	}
}

// PasswordFromFile reads the password from file on every call, trimming the
// trailing newline.
func PasswordFromFile(file string) PasswordFunc {
	return func(context.Context) (string, error) {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("could not read password file: %w", err)
		}
		return strings.TrimRight(string(content), "\r\n"), nil
	}
}

// TerminalPassword prompts for the password on the controlling terminal.
func TerminalPassword(prompt string) PasswordFunc {
	return func(context.Context) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", ErrNotTerminal
		}

		fmt.Fprint(os.Stderr, prompt)
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}
}

// KeystoreProvider grants capabilities from an encrypted keystore file. The
// file is decrypted on every Acquire so no key stays in memory between
// registrations.
type KeystoreProvider struct {
	file     string
	password PasswordFunc
	chainID  *big.Int
	backend  interfaces.Backend
}

// NewKeystoreProvider creates a provider for the keystore file at path.
func NewKeystoreProvider(file string, password PasswordFunc, chainID *big.Int, backend interfaces.Backend) *KeystoreProvider {
	return &KeystoreProvider{
		file:     file,
		password: password,
		chainID:  chainID,
		backend:  backend,
	}
}

// Acquire asks for the password, decrypts the key and returns a capability.
func (p *KeystoreProvider) Acquire(ctx context.Context) (*interfaces.Capability, error) {
	keyJSON, err := os.ReadFile(p.file)
	if err != nil {
		return nil, fmt.Errorf("could not read keystore: %w", err)
	}

	password, err := p.password(ctx)
	if err != nil {
		return nil, err
	}

	key, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, fmt.Errorf("could not unlock keystore: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key.PrivateKey, p.chainID)
	if err != nil {
		return nil, err
	}

	return &interfaces.Capability{
		Account: key.Address,
		Auth:    auth,
		Backend: p.backend,
	}, nil
}
