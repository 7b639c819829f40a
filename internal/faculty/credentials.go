package faculty

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a faculty id and password pair.
type Verifier interface {
	Verify(id, password string) bool
}

// StaticCredentials maps faculty ids to plaintext passwords. The table is
// fixed at process start. Passwords are held and compared in plaintext.
type StaticCredentials map[string]string

// Verify requires an exact match of both fields.
func (c StaticCredentials) Verify(id, password string) bool {
	want, ok := c[id]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}

// HashedCredentials maps faculty ids to bcrypt hashes.
type HashedCredentials map[string]string

func (c HashedCredentials) Verify(id, password string) bool {
	hash, ok := c[id]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Chain accepts a pair when any of its verifiers does.
type Chain []Verifier

func (c Chain) Verify(id, password string) bool {
	for _, v := range c {
		if v != nil && v.Verify(id, password) {
			return true
		}
	}
	return false
}

// ParseCredentials reads the "ID:password,ID2:password2" form used by the
// FACULTY_CREDENTIALS environment variable.
func ParseCredentials(raw string) (StaticCredentials, error) {
	creds := StaticCredentials{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, password, ok := strings.Cut(pair, ":")
		id = strings.TrimSpace(id)
		if !ok || id == "" || password == "" {
			return nil, fmt.Errorf("invalid faculty credential entry %q", pair)
		}
		creds[id] = password
	}
	return creds, nil
}
