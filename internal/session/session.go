// Package session manages an authenticated LinkedIn browser session: a
// headless Chrome instance whose login cookies are persisted to disk so
// subsequent runs skip the login form entirely.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	loginURL      = "https://www.linkedin.com/login"
	feedURLPrefix = "https://www.linkedin.com/feed"

	// loginWait bounds the post-submit wait for the feed redirect. LinkedIn
	// is slow after login; a short bound produces false authentication
	// failures.
	loginWait = 45 * time.Second

	// renderWait gives client-side rendering time to settle after the
	// document is ready.
	renderWait = 3 * time.Second

	pageTimeout = 60 * time.Second
)

// pageKind classifies where a navigation actually landed.
type pageKind int

const (
	pageContent pageKind = iota
	pageLoginWall
	pageCheckpoint
)

// AuthenticationError indicates the session could not be established: bad
// credentials, or a checkpoint/CAPTCHA challenge that requires a human in a
// real browser.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("linkedin authentication failed: %s", e.Reason)
}

// Credentials are the LinkedIn account credentials, sourced from the
// environment only.
type Credentials struct {
	Email    string
	Password string
}

// Manager owns session establishment and persistence.
type Manager struct {
	creds    Credentials
	store    *StateStore
	headless bool
	verbose  bool
}

// NewManager creates a Manager. store may not be nil; creds may be empty, in
// which case only a previously saved session can succeed.
func NewManager(creds Credentials, store *StateStore, headless, verbose bool) *Manager {
	return &Manager{creds: creds, store: store, headless: headless, verbose: verbose}
}

// Fetcher is a live browser session. It renders authenticated pages and
// logs in lazily: the first fetch that lands on the login wall triggers one
// login attempt, then retries the fetch.
type Fetcher struct {
	manager  *Manager
	ctx      context.Context
	cancels  []context.CancelFunc
	loggedIn bool
}

// Acquire starts the browser and loads any saved session cookies into it.
// The session is not validated here; validity is discovered on first fetch.
// The caller must Close the returned Fetcher.
func (m *Manager) Acquire(ctx context.Context) (*Fetcher, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", m.headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	f := &Fetcher{
		manager: m,
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
	}

	state, err := m.store.Load()
	if err != nil {
		f.Close()
		return nil, err
	}
	if state != nil {
		if err := f.importCookies(state); err != nil {
			// A stale or corrupt state file is not fatal; login will run.
			log.Printf("warning: ignoring saved session state: %v", err)
		} else if m.verbose {
			log.Printf("[SESSION] loaded saved session from %s", m.store.Path())
		}
	}
	return f, nil
}

// Close shuts the browser down.
func (f *Fetcher) Close() {
	for _, cancel := range f.cancels {
		cancel()
	}
}

// Rendered navigates to url and returns the fully rendered HTML. When the
// navigation lands on the login wall, it logs in once and retries.
func (f *Fetcher) Rendered(ctx context.Context, url string) (string, error) {
	html, landed, err := f.navigate(ctx, url)
	if err != nil {
		return "", err
	}

	switch classifyURL(landed) {
	case pageContent:
		return html, nil
	case pageCheckpoint:
		return "", &AuthenticationError{Reason: "checkpoint challenge; log in manually in a real browser and retry"}
	}

	// Login wall: the saved session was missing or expired.
	if f.loggedIn {
		return "", &AuthenticationError{Reason: "still on login wall after a successful login"}
	}
	if err := f.login(ctx); err != nil {
		return "", err
	}

	html, landed, err = f.navigate(ctx, url)
	if err != nil {
		return "", err
	}
	if classifyURL(landed) != pageContent {
		return "", &AuthenticationError{Reason: fmt.Sprintf("login succeeded but %s still redirects to %s", url, landed)}
	}
	return html, nil
}

// navigate loads url, waits for rendering, and reports the final location.
func (f *Fetcher) navigate(ctx context.Context, url string) (html, landed string, err error) {
	runCtx, cancel := context.WithTimeout(f.ctx, pageTimeout)
	defer cancel()
	runCtx = withParentCancel(runCtx, ctx)

	err = chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderWait),
		chromedp.Location(&landed),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	if f.manager.verbose {
		log.Printf("[SESSION] rendered %s (landed on %s, %d bytes)", url, landed, len(html))
	}
	return html, landed, nil
}

// login fills the login form, waits for the feed redirect, and saves the
// session cookies on success.
func (f *Fetcher) login(ctx context.Context) error {
	creds := f.manager.creds
	if creds.Email == "" || creds.Password == "" {
		return &AuthenticationError{Reason: "no saved session and LINKEDIN_EMAIL/LINKEDIN_PASSWORD are not set"}
	}
	if f.manager.verbose {
		log.Printf("[SESSION] logging in as %s", creds.Email)
	}

	runCtx, cancel := context.WithTimeout(f.ctx, pageTimeout)
	defer cancel()
	runCtx = withParentCancel(runCtx, ctx)

	err := chromedp.Run(runCtx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`#username`, chromedp.ByID),
		chromedp.SendKeys(`#username`, creds.Email, chromedp.ByID),
		chromedp.SendKeys(`#password`, creds.Password, chromedp.ByID),
		chromedp.Click(`button[type="submit"]`, chromedp.NodeVisible),
	)
	if err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	landed, err := f.waitForLogin(ctx)
	if err != nil {
		return err
	}
	switch classifyURL(landed) {
	case pageCheckpoint:
		return &AuthenticationError{Reason: "checkpoint challenge after login; complete it manually in a real browser and retry"}
	case pageLoginWall:
		return &AuthenticationError{Reason: "credentials rejected; check LINKEDIN_EMAIL and LINKEDIN_PASSWORD"}
	}

	f.loggedIn = true
	if err := f.saveSession(); err != nil {
		// Losing persistence costs a login next run, not this one.
		log.Printf("warning: failed to save session state: %v", err)
	}
	return nil
}

// waitForLogin polls the browser location until it leaves the login page or
// the wait budget runs out.
func (f *Fetcher) waitForLogin(ctx context.Context) (string, error) {
	deadline := time.Now().Add(loginWait)
	var landed string
	for {
		runCtx, cancel := context.WithTimeout(f.ctx, 10*time.Second)
		runCtx = withParentCancel(runCtx, ctx)
		err := chromedp.Run(runCtx, chromedp.Location(&landed))
		cancel()
		if err != nil {
			return "", fmt.Errorf("failed to read browser location: %w", err)
		}

		if strings.HasPrefix(landed, feedURLPrefix) || classifyURL(landed) == pageCheckpoint {
			return landed, nil
		}
		if time.Now().After(deadline) {
			return landed, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// saveSession exports the browser cookies and writes them to the store.
func (f *Fetcher) saveSession() error {
	var cookies []*network.Cookie
	err := chromedp.Run(f.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("failed to export cookies: %w", err)
	}

	data, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	return f.manager.store.Save(data)
}

// importCookies loads previously exported cookies into the browser.
func (f *Fetcher) importCookies(state []byte) error {
	var cookies []*network.Cookie
	if err := json.Unmarshal(state, &cookies); err != nil {
		return fmt.Errorf("failed to decode session state: %w", err)
	}

	return chromedp.Run(f.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			if err := cookieParam(c).Do(ctx); err != nil {
				return fmt.Errorf("failed to set cookie %s: %w", c.Name, err)
			}
		}
		return nil
	}))
}

// cookieParam converts an exported cookie back into a set-cookie request.
// Session cookies carry Expires <= 0; restoring those with an epoch expiry
// would make the browser drop them immediately, so the expiry is only set
// for persistent cookies.
func cookieParam(c *network.Cookie) *network.SetCookieParams {
	param := network.SetCookie(c.Name, c.Value).
		WithDomain(c.Domain).
		WithPath(c.Path).
		WithSecure(c.Secure).
		WithHTTPOnly(c.HTTPOnly)
	if c.Expires > 0 {
		expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
		param = param.WithExpires(&expires)
	}
	return param
}

// classifyURL decides whether a landed URL is real content, the login wall,
// or a checkpoint challenge.
func classifyURL(url string) pageKind {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "/checkpoint/"):
		return pageCheckpoint
	case strings.Contains(lower, "/login"),
		strings.Contains(lower, "/uas/login"),
		strings.Contains(lower, "/authwall"):
		return pageLoginWall
	default:
		return pageContent
	}
}

// withParentCancel ties a chromedp run context to the caller's context so an
// interrupt propagates into the browser operation.
func withParentCancel(runCtx, parent context.Context) context.Context {
	if parent == nil || parent == context.Background() {
		return runCtx
	}
	merged, cancel := context.WithCancel(runCtx)
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged
}
