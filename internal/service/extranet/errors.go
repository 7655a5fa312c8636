package extranet

import "errors"

var (
	// ErrNotLoggedIn is returned by operations that need an authenticated session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrLoginFailed is returned when the extranet did not accept the credentials or the code.
	ErrLoginFailed = errors.New("login failed")

	// ErrLoginFormNotFound is returned when the login page did not show the username field.
	ErrLoginFormNotFound = errors.New("login form not found")

	// ErrCodeFieldNotFound is returned when the two-factor code field never appeared.
	ErrCodeFieldNotFound = errors.New("2FA code input field not found")

	// ErrUnknownSection is returned for section names outside the known set.
	ErrUnknownSection = errors.New("unknown section")

	// ErrCalendarNotLoaded is returned when no calendar element is found.
	ErrCalendarNotLoaded = errors.New("calendar elements not found")
)
