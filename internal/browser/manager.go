package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Manager owns a headless Chromium started through playwright. Every
// snapshot runs in its own page, closed afterwards.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  *zap.Logger

	mu sync.Mutex
}

func NewManager(opts Options, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return nil, fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start pw failed: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium failed: %w", err)
	}

	return &Manager{
		pw:      pw,
		browser: browser,
		opts:    opts,
		logger:  logger.Named("browser.playwright"),
	}, nil
}

func (m *Manager) Snapshot(ctx context.Context, url string) (*PageSnapshot, error) {
	if m == nil || m.browser == nil {
		return nil, fmt.Errorf("browser is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	page, err := m.browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	timeoutMs := float64(m.opts.Timeout.Milliseconds())
	page.SetDefaultTimeout(timeoutMs)

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeoutMs),
	}); err != nil {
		return nil, fmt.Errorf("could not navigate to %s: %w", url, err)
	}

	result, err := page.Evaluate(snapshotScript)
	if err != nil {
		return nil, fmt.Errorf("js evaluation failed: %w", err)
	}
	tree, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("expected string from js, got %T", result)
	}

	title, err := page.Title()
	if err != nil {
		m.logger.Debug("page title unavailable", zap.String("url", page.URL()), zap.Error(err))
	}
	m.logger.Debug("page snapshot taken", zap.String("url", page.URL()), zap.Int("tree_bytes", len(tree)))

	return &PageSnapshot{
		URL:   page.URL(),
		Title: title,
		Tree:  Truncate(tree, m.opts.MaxTree),
	}, nil
}

func (m *Manager) Close() error {
	if m.browser != nil {
		_ = m.browser.Close()
	}
	if m.pw != nil {
		return m.pw.Stop()
	}
	return nil
}
