package store

import (
	"errors"
	"time"

	"xpvcc/internal/editor"
)

var (
	// ErrUnknownToken means no dispatch was recorded for a token digest.
	ErrUnknownToken = errors.New("unknown completion token")
	// ErrAlreadyRedeemed means the dispatch was confirmed before.
	ErrAlreadyRedeemed = errors.New("completion token already redeemed")
)

// Dispatch records one install request handed to the hub or an installer.
type Dispatch struct {
	TokenDigest   string
	TokenKind     string
	PID           int
	Version       editor.SupportedVersion
	Target        editor.PlatformTarget
	Host          editor.Host
	PreferHub     bool
	SourceURL     string
	InstallerPath string
	IssuedAt      time.Time
	RedeemedAt    *time.Time
}

// Redeemed reports whether the dispatch has been confirmed.
func (d Dispatch) Redeemed() bool {
	return d.RedeemedAt != nil
}

// Installation is a confirmed editor install location.
type Installation struct {
	Version     editor.SupportedVersion
	Host        editor.Host
	Target      editor.PlatformTarget
	Path        string
	TokenDigest string
	ConfirmedAt time.Time
}

// Stats summarizes stored dispatches and installations.
type Stats struct {
	PendingDispatches  int
	RedeemedDispatches int
	Installations      int
}
