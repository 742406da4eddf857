package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"

	viewportWidth  = 1280
	viewportHeight = 720
)

// PageSnapshot is a compact text listing of the interactive elements of a
// page, used as locator hints in the prompt.
type PageSnapshot struct {
	URL   string
	Title string
	Tree  string
}

// Snapshotter captures a PageSnapshot for a URL.
type Snapshotter interface {
	Snapshot(ctx context.Context, url string) (*PageSnapshot, error)
	Close() error
}

type Options struct {
	Driver    string
	Timeout   time.Duration
	MaxTree   int
	RemoteURL string // chromedp only: devtools websocket of an already running browser
}

// NewSnapshotter starts the configured driver.
func NewSnapshotter(opts Options, logger *zap.Logger) (Snapshotter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Driver {
	case DriverPlaywright:
		m, err := NewManager(opts, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	case DriverChromedp:
		return NewCDPSnapshotter(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", opts.Driver)
	}
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

// Truncate cuts tree to at most max bytes on a line boundary, or on a rune
// boundary when the window holds no newline.
func Truncate(tree string, max int) string {
	if max <= 0 || len(tree) <= max {
		return tree
	}
	cut := tree[:max]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i+1]
	} else {
		for len(cut) > 0 && !utf8.RuneStart(tree[len(cut)]) {
			cut = cut[:len(cut)-1]
		}
	}
	return cut + "... (truncated)\n"
}
