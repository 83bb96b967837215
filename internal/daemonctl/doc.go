// Package daemonctl launches, stops and inspects the xpvcc daemon on behalf
// of the CLI.
package daemonctl
