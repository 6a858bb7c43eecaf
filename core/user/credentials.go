package user

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/chamadaweb/chamada/core"
)

// CredentialVerifier turns passwords into their stored form and checks given passwords against it.
type CredentialVerifier interface {
	Encode(pwd string) (string, error)
	Verify(stored, given string) bool
}

// NewCredentialVerifier returns the verifier for the configured scheme (core.PasswordScheme*).
// Unknown schemes fall back to plain text, which is what existing data holds.
func NewCredentialVerifier(scheme string) CredentialVerifier {
	if scheme == core.PasswordSchemeBcrypt {
		return BcryptCredentials{Cost: bcrypt.DefaultCost}
	}
	return PlainCredentials{}
}

// PlainCredentials stores passwords as given and checks them by exact match.
type PlainCredentials struct{}

func (PlainCredentials) Encode(pwd string) (string, error) { return pwd, nil }

func (PlainCredentials) Verify(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// BcryptCredentials stores bcrypt hashes. Opt-in: it cannot verify passwords stored in plain text.
type BcryptCredentials struct {
	Cost int
}

func (bc BcryptCredentials) Encode(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bc.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (bc BcryptCredentials) Verify(stored, given string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
}
