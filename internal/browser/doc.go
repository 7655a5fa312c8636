// Package browser drives a Chromium instance through go-rod.
//
// Session is the narrow set of page operations the extranet flows need.
// RodSession implements it with a stealth page, a throwaway profile and
// the browser fingerprint taken from the configuration.
package browser
