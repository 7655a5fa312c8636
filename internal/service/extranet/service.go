package extranet

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/oshokin/extranet-bot/internal/browser"
	"github.com/oshokin/extranet-bot/internal/config"
	"github.com/oshokin/extranet-bot/internal/service/authcode"
)

const (
	// loginPath is the extranet entry point, it redirects to the sign-in form.
	loginPath = "/hotel/hoteladmin/"

	// dashboardPathMarker is part of every authenticated extranet URL.
	dashboardPathMarker = "/hoteladmin/"

	// usernameSelector is the login name input.
	usernameSelector = `input[name="loginname"]`
	// passwordSelector is the password input.
	passwordSelector = `input[name="password"]`
	// submitSelector is the submit button of every sign-in step.
	submitSelector = `button[type="submit"]`
	// pulseLinkSelector opens verification through the Pulse app.
	pulseLinkSelector = `a.nw-pulse-verification-link`
	// codeSelector is the two-factor code input.
	codeSelector = `input[name="sms_code"]`

	// reservationsTableSelector appears once the reservations list rendered.
	reservationsTableSelector = "table"
	// reservationRowSelector matches one reservation.
	reservationRowSelector = "table tbody tr"

	// availabilityNavSelector opens the "Rates & availability" menu.
	availabilityNavSelector = `li[data-nav-tag="availability"] button`
	// calendarLinkSelector is the "Calendar" entry of that menu.
	calendarLinkSelector = `li[data-nav-tag="availability_calendar"] a`

	// pulseLinkTimeout is how long to look for the optional Pulse link.
	pulseLinkTimeout = 10 * time.Second
	// codeFieldTimeout is how long the code field may take to appear.
	codeFieldTimeout = 15 * time.Second
	// tableTimeout is how long the reservations table may take to render.
	tableTimeout = 10 * time.Second
	// navMenuTimeout is how long the navigation menu may take to render.
	navMenuTimeout = 10 * time.Second
	// calendarProbeTimeout is spent on each calendar selector.
	calendarProbeTimeout = 3 * time.Second

	// stepTransitionPause lets the sign-in form switch steps.
	stepTransitionPause = 1 * time.Second
	// challengePause lets the two-factor page load after the password step.
	challengePause = 2 * time.Second
	// verificationPause lets the extranet verify a submitted code.
	verificationPause = 3 * time.Second
	// menuPause lets a dropdown menu open.
	menuPause = 1 * time.Second
	// sectionRenderPause lets a section render its data after navigation.
	sectionRenderPause = 2 * time.Second
)

//nolint:gochecknoglobals // Immutable list of selectors, probed in order.
var calendarSelectors = []string{
	".calendar",
	".calendar-container",
	`[data-testid="calendar"]`,
	".rate-calendar",
	".availability-calendar",
}

// Service automates the extranet.
type Service interface {
	// Login signs in, answering the two-factor challenge.
	Login(ctx context.Context) error
	// NavigateToSection opens one of the known sections.
	NavigateToSection(ctx context.Context, section string) error
	// GetReservations scrapes reservations checking in within daysAhead days, 0 means all.
	GetReservations(ctx context.Context, daysAhead int) ([]Reservation, error)
	// NavigateToCalendar opens the rates and availability calendar through the menu.
	NavigateToCalendar(ctx context.Context) error
	// CheckCalendarLoaded reports whether a calendar element is present.
	CheckCalendarLoaded(ctx context.Context) (bool, error)
	// GetCurrentPageInfo describes the current page.
	GetCurrentPageInfo(ctx context.Context) (*PageInfo, error)
	// Close releases the browser session.
	Close(ctx context.Context) error
}

// ServiceImpl drives the extranet through a browser.Session.
type ServiceImpl struct {
	cfg     *config.Config
	creds   *config.Credentials
	session browser.Session
	codes   authcode.Provider

	// now and sleep are replaced in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	loggedIn bool
}

// NewService creates an extranet service on top of an open browser session.
func NewService(
	cfg *config.Config,
	creds *config.Credentials,
	session browser.Session,
	codes authcode.Provider,
) *ServiceImpl {
	return &ServiceImpl{
		cfg:     cfg,
		creds:   creds,
		session: session,
		codes:   codes,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// IsLoggedIn reports whether Login succeeded on this session.
func (s *ServiceImpl) IsLoggedIn() bool {
	return s.loggedIn
}

// Close releases the browser session.
func (s *ServiceImpl) Close(ctx context.Context) error {
	s.loggedIn = false

	return s.session.Close(ctx)
}

// pageURL resolves path against the configured base URL.
func (s *ServiceImpl) pageURL(path string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + path
}

// isDashboardURL reports whether rawURL is an authenticated extranet page.
func (s *ServiceImpl) isDashboardURL(rawURL string) bool {
	current, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return false
	}

	return strings.EqualFold(current.Host, base.Host) &&
		strings.Contains(current.Path, dashboardPathMarker) &&
		!strings.Contains(strings.ToLower(rawURL), "login")
}

func (s *ServiceImpl) requireLogin() error {
	if !s.loggedIn {
		return ErrNotLoggedIn
	}

	return nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
