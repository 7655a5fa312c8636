package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/oshokin/extranet-bot/internal/config"
	"github.com/oshokin/extranet-bot/internal/constants"
	"github.com/oshokin/extranet-bot/internal/logger"
)

const (
	// browserSlowMotionDelay is the delay between browser actions for visibility during debugging.
	browserSlowMotionDelay = 200 * time.Millisecond

	// browserCleanupDelay is the delay to wait for Chrome to release file locks before cleanup.
	browserCleanupDelay = 500 * time.Millisecond

	// urlPollInterval is the interval for polling the page URL.
	urlPollInterval = 250 * time.Millisecond

	// stableWindow is how long the page must stay quiet to count as settled.
	stableWindow = 500 * time.Millisecond
)

//nolint:gochecknoglobals // Immutable lookup table.
var rodKeys = map[Key]input.Key{
	KeyEnter:  input.Enter,
	KeyTab:    input.Tab,
	KeyEscape: input.Escape,
}

// Options describe the browser fingerprint and timeouts.
type Options struct {
	// Headless hides the browser window.
	Headless bool
	// UseSystemBrowser prefers an installed Chrome over a downloaded Chromium.
	UseSystemBrowser bool
	// UserAgent is the User-Agent override.
	UserAgent string
	// AcceptLanguage is the Accept-Language override.
	AcceptLanguage string
	// ViewportWidth is the emulated viewport width.
	ViewportWidth int
	// ViewportHeight is the emulated viewport height.
	ViewportHeight int
	// Locale is the emulated locale.
	Locale string
	// TimezoneID is the emulated time zone.
	TimezoneID string
	// SelectorTimeout bounds element lookups that take no explicit timeout.
	SelectorTimeout time.Duration
	// Trace enables CDP tracing and slow motion.
	Trace bool
}

// NewOptions derives browser options from the configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Headless:         cfg.Headless,
		UseSystemBrowser: cfg.UseSystemBrowser,
		UserAgent:        cfg.UserAgent,
		AcceptLanguage:   cfg.AcceptLanguage,
		ViewportWidth:    cfg.ViewportWidth,
		ViewportHeight:   cfg.ViewportHeight,
		Locale:           cfg.Locale,
		TimezoneID:       cfg.TimezoneID,
		SelectorTimeout:  cfg.ParsedSelectorTimeout,
		Trace:            logger.IsDebugLevel(),
	}
}

// RodSession is a Session backed by go-rod.
type RodSession struct {
	opts    Options
	browser *rod.Browser
	page    *rod.Page
	// tempDir stores the temporary profile directory for cleanup.
	tempDir string
}

// Launch starts a browser with a fresh profile and opens a stealth page.
func Launch(ctx context.Context, opts Options) (*RodSession, error) {
	s := &RodSession{opts: opts}

	if err := s.init(ctx); err != nil {
		s.cleanup(ctx)

		return nil, err
	}

	return s, nil
}

func (s *RodSession) init(ctx context.Context) error {
	logger.Debug(ctx, "Initializing browser")

	// A fresh profile per run keeps no session state between logins.
	tempDir, err := os.MkdirTemp("", constants.TempProfilePattern)
	if err != nil {
		return fmt.Errorf("failed to create temporary user data directory: %w", err)
	}

	s.tempDir = tempDir

	logger.Debugf(ctx, "Using temporary profile directory: %s", tempDir)

	l := launcher.New().
		Context(ctx).
		Headless(s.opts.Headless).
		UserDataDir(tempDir).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-web-security").
		Set("disable-features", "VizDisplayCompositor").
		Set("window-size", fmt.Sprintf("%d,%d", s.opts.ViewportWidth, s.opts.ViewportHeight))

	if s.opts.UseSystemBrowser {
		if chromePath, exists := launcher.LookPath(); exists {
			logger.Debugf(ctx, "Using system Chrome installation at: %s", chromePath)

			l = l.Bin(chromePath)
		} else {
			logger.Debug(ctx, "System Chrome not found, downloading Chromium")
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Debugf(ctx, "Browser launched at: %s", controlURL)

	browserInstance := rod.New().ControlURL(controlURL)

	if s.opts.Trace {
		logger.Debug(ctx, "Debug mode enabled - enabling browser trace and slow motion")

		browserInstance = browserInstance.
			Trace(true).
			SlowMotion(browserSlowMotionDelay)
	}

	if err = browserInstance.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	s.browser = browserInstance

	s.page, err = stealth.Page(s.browser)
	if err != nil {
		return fmt.Errorf("failed to open stealth page: %w", err)
	}

	if err = s.applyFingerprint(); err != nil {
		return fmt.Errorf("failed to configure page: %w", err)
	}

	logger.Debug(ctx, "Browser initialized successfully with stealth mode")

	return nil
}

// applyFingerprint makes the page look like a regular desktop browser.
func (s *RodSession) applyFingerprint() error {
	if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      s.opts.UserAgent,
		AcceptLanguage: s.opts.AcceptLanguage,
	}); err != nil {
		return fmt.Errorf("user agent: %w", err)
	}

	if err := s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.opts.ViewportWidth,
		Height:            s.opts.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("viewport: %w", err)
	}

	if s.opts.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: s.opts.Locale}).Call(s.page); err != nil {
			return fmt.Errorf("locale: %w", err)
		}
	}

	if s.opts.TimezoneID != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: s.opts.TimezoneID}).Call(s.page); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}

	_, err := s.page.SetExtraHeaders([]string{
		"Accept-Language", s.opts.AcceptLanguage,
		"Accept-Encoding", "gzip, deflate, br",
		"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	})
	if err != nil {
		return fmt.Errorf("extra headers: %w", err)
	}

	return nil
}

// Navigate opens url and waits for the load event.
func (s *RodSession) Navigate(ctx context.Context, url string) error {
	return s.guard(ctx, func() error {
		logger.Debugf(ctx, "Navigating to %s", url)

		page := s.page.Context(ctx)
		if err := page.Navigate(url); err != nil {
			return fmt.Errorf("failed to navigate to %s: %w", url, err)
		}

		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("failed to load %s: %w", url, err)
		}

		return nil
	})
}

// Fill replaces the value of the input matched by selector.
func (s *RodSession) Fill(ctx context.Context, selector, value string) error {
	return s.guard(ctx, func() error {
		el, err := s.element(ctx, selector, s.opts.SelectorTimeout)
		if err != nil {
			return err
		}

		if err = el.SelectAllText(); err != nil {
			return fmt.Errorf("failed to select text of %s: %w", selector, err)
		}

		if err = el.Input(value); err != nil {
			return fmt.Errorf("failed to fill %s: %w", selector, err)
		}

		return nil
	})
}

// Click waits up to timeout for selector and clicks it.
func (s *RodSession) Click(ctx context.Context, selector string, timeout time.Duration) error {
	return s.guard(ctx, func() error {
		el, err := s.element(ctx, selector, timeout)
		if err != nil {
			return err
		}

		if err = el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("failed to click %s: %w", selector, err)
		}

		return nil
	})
}

// Press sends key to the element matched by selector.
func (s *RodSession) Press(ctx context.Context, selector string, key Key) error {
	rodKey, ok := rodKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}

	return s.guard(ctx, func() error {
		el, err := s.element(ctx, selector, s.opts.SelectorTimeout)
		if err != nil {
			return err
		}

		if err = el.Type(rodKey); err != nil {
			return fmt.Errorf("failed to press %s on %s: %w", key, selector, err)
		}

		return nil
	})
}

// WaitFor waits up to timeout until selector matches.
func (s *RodSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return s.guard(ctx, func() error {
		_, err := s.element(ctx, selector, timeout)

		return err
	})
}

// Exists reports whether selector matches right now.
func (s *RodSession) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool

	err := s.guard(ctx, func() error {
		has, _, err := s.page.Context(ctx).Has(selector)
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", selector, err)
		}

		found = has

		return nil
	})

	return found, err
}

// WaitForURL polls the page URL until match accepts it or timeout passes.
func (s *RodSession) WaitForURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(urlPollInterval)
	defer ticker.Stop()

	var lastURL string

	for {
		currentURL, err := s.URL(ctx)
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if err == nil {
			if match(currentURL) {
				return nil
			}

			lastURL = currentURL
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w within %s, last URL: %s", ErrURLNotReached, timeout, lastURL)
		case <-ticker.C:
		}
	}
}

// WaitStable waits until the network and DOM stay quiet, bounded by timeout.
func (s *RodSession) WaitStable(ctx context.Context, timeout time.Duration) error {
	return s.guard(ctx, func() error {
		page := s.page.Context(ctx).Timeout(timeout)
		defer page.CancelTimeout()

		if err := page.WaitStable(stableWindow); err != nil {
			return fmt.Errorf("page did not settle within %s: %w", timeout, err)
		}

		return nil
	})
}

// ExtractRows returns the td texts of every row matched by rowSelector.
func (s *RodSession) ExtractRows(ctx context.Context, rowSelector string) ([][]string, error) {
	var html string

	err := s.guard(ctx, func() error {
		var err error

		html, err = s.page.Context(ctx).HTML()
		if err != nil {
			return fmt.Errorf("failed to read page HTML: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ParseRows(html, rowSelector)
}

// Evaluate runs a JavaScript function and decodes its JSON result into target.
func (s *RodSession) Evaluate(ctx context.Context, js string, target any) error {
	return s.guard(ctx, func() error {
		result, err := s.page.Context(ctx).Eval(js)
		if err != nil {
			return fmt.Errorf("failed to evaluate script: %w", err)
		}

		if err = result.Value.Unmarshal(target); err != nil {
			return fmt.Errorf("failed to decode script result: %w", err)
		}

		return nil
	})
}

// URL returns the current page URL.
func (s *RodSession) URL(ctx context.Context) (string, error) {
	var currentURL string

	err := s.guard(ctx, func() error {
		info, err := s.page.Context(ctx).Info()
		if err != nil {
			return fmt.Errorf("failed to read page info: %w", err)
		}

		currentURL = info.URL

		return nil
	})

	return currentURL, err
}

// Close closes the browser and removes the temporary profile.
func (s *RodSession) Close(ctx context.Context) error {
	s.cleanup(ctx)

	logger.Info(ctx, "Browser closed successfully")

	return nil
}

// element waits up to timeout for selector.
func (s *RodSession) element(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	page := s.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.Element(selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s after %s", ErrElementNotFound, selector, timeout)
		}

		return nil, fmt.Errorf("failed to find %s: %w", selector, err)
	}

	// The element keeps the timeout context of its page, detach it.
	return el.Context(ctx), nil
}

// guard turns panics from a dead browser into ErrBrowserClosed.
func (s *RodSession) guard(ctx context.Context, fn func() error) (err error) {
	if s.page == nil {
		return ErrBrowserClosed
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "Browser panic recovered: %v", r)

			err = fmt.Errorf("%w: %v", ErrBrowserClosed, r)
		}
	}()

	return fn()
}

// cleanup closes the browser and cleans up resources.
func (s *RodSession) cleanup(ctx context.Context) {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			logger.Debugf(ctx, "Browser close error (expected): %v", err)
		}

		s.browser = nil
		s.page = nil
	}

	if s.tempDir != "" {
		// Give Chrome a moment to release file locks.
		time.Sleep(browserCleanupDelay)

		if err := os.RemoveAll(s.tempDir); err != nil {
			logger.Debugf(ctx, "Could not clean up temp directory %s: %v", s.tempDir, err)
		}

		s.tempDir = ""
	}
}
