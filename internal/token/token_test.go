package token_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"xpvcc/internal/token"
)

func TestDelegatedTokensAreDistinct(t *testing.T) {
	const count = 10000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		d, err := token.NewDelegated()
		if err != nil {
			t.Fatalf("NewDelegated: %v", err)
		}
		encoded, err := token.Encode(d)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if _, dup := seen[encoded]; dup {
			t.Fatalf("duplicate delegated token after %d draws", i)
		}
		seen[encoded] = struct{}{}
	}
}

func TestNewDelegatedFromShortReader(t *testing.T) {
	if _, err := token.NewDelegatedFrom(bytes.NewReader(make([]byte, 8))); err == nil {
		t.Fatal("expected error when entropy source runs dry")
	}
}

func TestEncodeDecodeProcessHandle(t *testing.T) {
	encoded, err := token.Encode(token.ProcessHandle{PID: 4242})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := token.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	handle, ok := decoded.(token.ProcessHandle)
	if !ok {
		t.Fatalf("expected ProcessHandle, got %T", decoded)
	}
	if handle.PID != 4242 {
		t.Fatalf("unexpected pid %d", handle.PID)
	}
}

func TestEncodeDecodeDelegated(t *testing.T) {
	original, err := token.NewDelegatedFrom(bytes.NewReader(bytes.Repeat([]byte{0xab}, token.SecretSize)))
	if err != nil {
		t.Fatalf("NewDelegatedFrom: %v", err)
	}
	encoded, err := token.Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := token.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	delegated, ok := decoded.(token.Delegated)
	if !ok {
		t.Fatalf("expected Delegated, got %T", decoded)
	}
	if !delegated.Equal(original) {
		t.Fatal("decoded token does not match original")
	}
	if delegated.String() != "delegated:<redacted>" {
		t.Fatalf("delegated String leaked data: %q", delegated.String())
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	zeroSecret, err := token.NewDelegatedFrom(bytes.NewReader(make([]byte, token.SecretSize)))
	if err != nil {
		t.Fatalf("NewDelegatedFrom: %v", err)
	}
	if _, err := token.Encode(zeroSecret); !errors.Is(err, token.ErrMalformed) {
		t.Fatalf("expected ErrMalformed encoding zero secret, got %v", err)
	}

	tests := map[string]string{
		"empty":        "",
		"not base64":   "!!!",
		"not cbor":     base64.RawURLEncoding.EncodeToString([]byte{0xff, 0x00}),
		"unknown kind": base64.RawURLEncoding.EncodeToString([]byte{0xa1, 0x01, 0x09}),
		"zero pid":     base64.RawURLEncoding.EncodeToString([]byte{0xa2, 0x01, 0x01, 0x02, 0x00}),
		"short secret": base64.RawURLEncoding.EncodeToString([]byte{0xa2, 0x01, 0x02, 0x03, 0x42, 0x01, 0x02}),
		"too long":     string(bytes.Repeat([]byte("A"), 200)),
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := token.Decode(input); !errors.Is(err, token.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestDigestIsStableAndDistinct(t *testing.T) {
	first, err := token.Digest(token.ProcessHandle{PID: 100})
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	again, err := token.Digest(token.ProcessHandle{PID: 100})
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if first != again {
		t.Fatal("expected identical digests for identical tokens")
	}
	other, err := token.Digest(token.ProcessHandle{PID: 101})
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if first == other {
		t.Fatal("expected different digests for different pids")
	}
	if len(first) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %d chars", len(first))
	}
}
