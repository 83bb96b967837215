// Package daemon coordinates the long-running xpvcc process and its HTTP API.
//
// It wires configuration, the state store, the install dispatcher and the
// confirmation handler into a single lifecycle with flock-based locking to
// prevent multiple instances. The API binds one fixed address; if that
// address is taken the daemon refuses to start rather than picking another.
//
// Keep orchestration logic here: install mechanics live in internal/install
// while the daemon focuses on startup, shutdown, request parsing and
// response shaping.
package daemon
