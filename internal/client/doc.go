// Package client talks to a running xpvcc daemon over its HTTP API.
package client
