package token

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// digestKey domain-separates token digests from any other BLAKE3 use. The
// bytes are the ASCII name zero-padded to 32 bytes; changing them orphans
// every stored dispatch.
var digestKey = [32]byte{
	'x', 'p', 'v', 'c', 'c', '.', 'c', 'o', 'm', 'p', 'l', 'e', 't', 'i', 'o', 'n',
	'-', 't', 'o', 'k', 'e', 'n', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Digest returns the hex BLAKE3 keyed hash of the canonical token encoding.
// It is the key dispatch records are stored under.
func Digest(t Token) (string, error) {
	raw, err := Canonical(t)
	if err != nil {
		return "", err
	}
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		return "", fmt.Errorf("init token digest: %w", err)
	}
	if _, err := hasher.Write(raw); err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
