// Command xpvcc is the command-line front end for the xpvcc daemon. It can
// run the daemon in the foreground, launch it in the background and drive
// editor installs through the daemon's HTTP API.
package main
