// Package install dispatches editor installs and confirms their completion.
//
// A Dispatcher either hands the request to Unity Hub through a unityhub://
// deep link or downloads the platform installer, writes it to a temporary
// executable file and starts it as a detached process. Either way the caller
// receives a completion token. The Confirmer later accepts that token together
// with the directory the user installed into, refuses while the installer is
// still running, and records the location once.
//
// Failures are reported as *Error values whose Kind drives the HTTP status the
// API returns. Nothing here retries: a failed dispatch issues no token.
package install
