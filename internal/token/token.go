package token

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"strconv"
)

// Kind names a token variant.
type Kind string

const (
	KindProcess   Kind = "process"
	KindDelegated Kind = "delegated"
)

// Token correlates a dispatched install with its later confirmation. The
// only implementations are ProcessHandle and Delegated.
type Token interface {
	Kind() Kind
	fmt.Stringer
	sealed()
}

// ProcessHandle correlates to an installer process spawned by this daemon.
type ProcessHandle struct {
	PID int
}

func (ProcessHandle) Kind() Kind { return KindProcess }

func (p ProcessHandle) String() string { return "pid:" + strconv.Itoa(p.PID) }

func (ProcessHandle) sealed() {}

// SecretSize is the number of random bytes in a Delegated token.
const SecretSize = 32

// Delegated correlates to an install performed by Unity Hub outside this
// process. The secret field is unexported so values only come from
// NewDelegated or Decode.
type Delegated struct {
	secret [SecretSize]byte
}

// NewDelegated draws a fresh token from crypto/rand.
func NewDelegated() (Delegated, error) {
	return NewDelegatedFrom(rand.Reader)
}

// NewDelegatedFrom draws a token from r. Production code must pass a
// cryptographically secure source.
func NewDelegatedFrom(r io.Reader) (Delegated, error) {
	var d Delegated
	if _, err := io.ReadFull(r, d.secret[:]); err != nil {
		return Delegated{}, fmt.Errorf("read token entropy: %w", err)
	}
	return d, nil
}

func (Delegated) Kind() Kind { return KindDelegated }

// String never reveals the secret so tokens can be logged.
func (Delegated) String() string { return "delegated:<redacted>" }

func (Delegated) sealed() {}

// Equal compares two delegated tokens in constant time.
func (d Delegated) Equal(other Delegated) bool {
	return subtle.ConstantTimeCompare(d.secret[:], other.secret[:]) == 1
}

// IsZero reports whether d holds no secret, e.g. a zero value.
func (d Delegated) IsZero() bool {
	var zero [SecretSize]byte
	return subtle.ConstantTimeCompare(d.secret[:], zero[:]) == 1
}
