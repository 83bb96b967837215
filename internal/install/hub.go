package install

import (
	"context"
	"io"

	"github.com/pkg/browser"
)

// HubOpener hands a unityhub:// deep link to the OS URL handler.
type HubOpener interface {
	Open(ctx context.Context, link string) error
}

// HubOpenerFunc adapts a function to HubOpener.
type HubOpenerFunc func(ctx context.Context, link string) error

// Open calls f.
func (f HubOpenerFunc) Open(ctx context.Context, link string) error {
	return f(ctx, link)
}

// SystemHubOpener opens links with the desktop default handler.
type SystemHubOpener struct{}

func init() {
	// The handler's own output would otherwise land in the daemon log stream.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Open launches the registered handler for link. It returns once the
// handler accepted the link, not when Unity Hub finishes.
func (SystemHubOpener) Open(ctx context.Context, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return browser.OpenURL(link)
}
