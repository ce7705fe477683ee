// Package keyring keeps the PostgreSQL connection string out of config files.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Source names where a connection string came from
type Source string

const (
	SourceNone    Source = ""
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Credentials reads and writes one connection string under the app's service name.
type Credentials struct {
	account string
}

// New scopes credentials to account. An empty account uses the default entry.
func New(account string) *Credentials {
	if account == "" {
		account = constants.DefaultKeyringUser
	}
	return &Credentials{account: account}
}

func (c *Credentials) Get() (string, error) {
	connStr, err := keyring.Get(constants.AppName, c.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func (c *Credentials) Set(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, c.account, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (c *Credentials) Delete() error {
	if err := keyring.Delete(constants.AppName, c.account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Resolve returns the connection string from HABITUAL_DB_CONNECTION, falling
// back to the keyring. SourceNone with a nil error means SQLite should be used.
func (c *Credentials) Resolve() (string, Source, error) {
	if v := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); v != "" {
		return v, SourceEnv, nil
	}
	connStr, err := c.Get()
	switch {
	case err == nil:
		return connStr, SourceKeyring, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrKeyringUnavailable):
		return "", SourceNone, nil
	default:
		return "", SourceNone, err
	}
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
