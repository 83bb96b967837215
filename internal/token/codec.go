package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// ErrMalformed reports a completion token string that does not decode to a
// valid variant.
var ErrMalformed = errors.New("malformed completion token")

// maxEncodedLen bounds the input Decode is willing to parse.
const maxEncodedLen = 128

const (
	wireProcess   uint8 = 1
	wireDelegated uint8 = 2
)

type wireToken struct {
	Kind   uint8  `cbor:"1,keyasint"`
	PID    int64  `cbor:"2,keyasint,omitempty"`
	Secret []byte `cbor:"3,keyasint,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding keeps Canonical stable, so digests of the
	// same token always match.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("token: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("token: CBOR decoder initialization failed: " + err.Error())
	}
}

// Canonical returns the deterministic CBOR encoding of t.
func Canonical(t Token) ([]byte, error) {
	var wire wireToken
	switch v := t.(type) {
	case ProcessHandle:
		if v.PID <= 0 {
			return nil, fmt.Errorf("%w: pid %d", ErrMalformed, v.PID)
		}
		wire = wireToken{Kind: wireProcess, PID: int64(v.PID)}
	case Delegated:
		if v.IsZero() {
			return nil, fmt.Errorf("%w: empty delegated token", ErrMalformed)
		}
		wire = wireToken{Kind: wireDelegated, Secret: append([]byte(nil), v.secret[:]...)}
	case nil:
		return nil, fmt.Errorf("%w: nil token", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: unknown variant %T", ErrMalformed, t)
	}
	return encMode.Marshal(wire)
}

// Encode renders t as the opaque string handed to callers.
func Encode(t Token) (string, error) {
	raw, err := Canonical(t)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a string produced by Encode.
func Decode(value string) (Token, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	if len(value) > maxEncodedLen {
		return nil, fmt.Errorf("%w: too long", ErrMalformed)
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var wire wireToken
	if err := decMode.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch wire.Kind {
	case wireProcess:
		if wire.PID <= 0 || wire.PID > math.MaxInt32 || len(wire.Secret) != 0 {
			return nil, fmt.Errorf("%w: invalid pid %d", ErrMalformed, wire.PID)
		}
		return ProcessHandle{PID: int(wire.PID)}, nil
	case wireDelegated:
		if len(wire.Secret) != SecretSize || wire.PID != 0 {
			return nil, fmt.Errorf("%w: delegated secret must be %d bytes", ErrMalformed, SecretSize)
		}
		var d Delegated
		copy(d.secret[:], wire.Secret)
		if d.IsZero() {
			return nil, fmt.Errorf("%w: empty delegated token", ErrMalformed)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrMalformed, wire.Kind)
	}
}
