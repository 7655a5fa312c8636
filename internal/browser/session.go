package browser

//go:generate $MOCKGEN -source=session.go -destination=mocks/session_mock.go

import (
	"context"
	"errors"
	"time"
)

// Key is a named keyboard key accepted by Session.Press.
type Key string

// Supported keys.
const (
	KeyEnter  Key = "Enter"
	KeyTab    Key = "Tab"
	KeyEscape Key = "Escape"
)

var (
	// ErrBrowserClosed is returned when the browser or page went away mid-operation.
	ErrBrowserClosed = errors.New("browser was closed")

	// ErrElementNotFound is returned when a selector did not match in time.
	ErrElementNotFound = errors.New("element not found")

	// ErrURLNotReached is returned when the page URL never satisfied the expected condition.
	ErrURLNotReached = errors.New("expected URL not reached")

	// ErrUnsupportedKey is returned by Press for keys outside the supported set.
	ErrUnsupportedKey = errors.New("unsupported key")
)

// Session is a single browser tab.
type Session interface {
	// Navigate opens url and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// Fill replaces the value of the input matched by selector.
	Fill(ctx context.Context, selector, value string) error
	// Click waits up to timeout for selector and clicks it.
	Click(ctx context.Context, selector string, timeout time.Duration) error
	// Press sends key to the element matched by selector.
	Press(ctx context.Context, selector string, key Key) error
	// WaitFor waits up to timeout until selector matches.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// Exists reports whether selector matches right now, without waiting.
	Exists(ctx context.Context, selector string) (bool, error)
	// WaitForURL polls the page URL until match accepts it or timeout passes.
	WaitForURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error
	// WaitStable waits until the network and DOM stay quiet, bounded by timeout.
	WaitStable(ctx context.Context, timeout time.Duration) error
	// ExtractRows returns the trimmed td texts of every row matched by rowSelector.
	ExtractRows(ctx context.Context, rowSelector string) ([][]string, error)
	// Evaluate runs a JavaScript function and decodes its JSON result into target.
	Evaluate(ctx context.Context, js string, target any) error
	// URL returns the current page URL.
	URL(ctx context.Context) (string, error)
	// Close releases the browser and its profile.
	Close(ctx context.Context) error
}
