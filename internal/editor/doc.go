// Package editor describes the Unity editor builds xpvcc can install and
// where their installers live.
//
// The catalog is a closed, compile-time set: adding a version is an edit to
// catalog.go (or catalog_unstable.go for builds gated behind the sdkunstable
// build tag). Locate and HubDeepLink are the only places download URLs and
// unityhub:// links are assembled; both the direct download path and the hub
// delegation path consume them.
package editor
