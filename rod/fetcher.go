// Package rod fetches rendered pages with a headless Chrome browser driven
// by go-rod.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/webtab"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultFetchTimeout bounds a single page navigation and render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements webtab.Fetcher at compile time.
var _ webtab.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Each Fetch opens its own tab and closes it before returning. The browser
// process is shared and recycled by a BrowserManager.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
	stealth  bool
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-fetch timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBrowserRecycling sets how many pages are fetched before the browser
// process is replaced. Defaults to DefaultMaxPages.
func WithBrowserRecycling(maxPages int64) Option {
	return func(f *Fetcher) {
		f.maxPages = maxPages
	}
}

// WithStealth opens every tab with go-rod/stealth evasions applied, for
// sites that serve bot checks to headless Chrome.
func WithStealth() Option {
	return func(f *Fetcher) {
		f.stealth = true
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", webtab.Errorf(webtab.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.newPage()
	if err != nil {
		return "", err
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	p := page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return "", contextErr(ctx, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", contextErr(ctx, err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", contextErr(ctx, err)
	}
	return html, nil
}

func (f *Fetcher) newPage() (*rod.Page, error) {
	browser := f.manager.Browser()
	if f.stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// contextErr prefers the context's error so callers can match
// context.Canceled and context.DeadlineExceeded.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
