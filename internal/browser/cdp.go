package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// CDPSnapshotter drives Chrome over the DevTools protocol. With a remote URL
// it attaches to a running browser instead of starting one.
type CDPSnapshotter struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	opts     Options
	logger   *zap.Logger
}

func NewCDPSnapshotter(opts Options, logger *zap.Logger) *CDPSnapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	var allocCtx context.Context
	var cancel context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.WindowSize(viewportWidth, viewportHeight),
		)
		allocCtx, cancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	}

	return &CDPSnapshotter{
		allocCtx: allocCtx,
		cancel:   cancel,
		opts:     opts,
		logger:   logger.Named("browser.chromedp"),
	}
}

func (s *CDPSnapshotter) Snapshot(ctx context.Context, url string) (*PageSnapshot, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.allocCtx)
	defer cancelTab()

	if s.opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, s.opts.Timeout)
		defer cancelTimeout()
	}
	// the tab lives under the allocator, so follow the caller's context by hand
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var tree, title, location string
	err := chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(viewportWidth, viewportHeight, 1, false),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate("("+snapshotScript+")()", &tree),
		chromedp.Title(&title),
		chromedp.Location(&location),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp snapshot of %s failed: %w", url, err)
	}

	s.logger.Debug("page snapshot taken", zap.String("url", location), zap.Int("tree_bytes", len(tree)))

	return &PageSnapshot{
		URL:   location,
		Title: title,
		Tree:  Truncate(tree, s.opts.MaxTree),
	}, nil
}

func (s *CDPSnapshotter) Close() error {
	s.cancel()
	return nil
}
