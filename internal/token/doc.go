// Package token defines the completion token handed back by an install
// dispatch and redeemed when the caller confirms the install finished.
//
// A Token is one of two variants. ProcessHandle wraps the PID of a locally
// spawned installer; it is not secret and liveness of the process guards it.
// Delegated wraps 256 bits from crypto/rand for installs handed to Unity Hub,
// where possession of the value is the only authorization. Consumers switch
// over the concrete types; there is no string-typed shortcut.
//
// Tokens travel as opaque base64url strings carrying a deterministic CBOR
// record. Digest derives the key the store indexes tokens by, so delegated
// secrets are never written to disk.
package token
