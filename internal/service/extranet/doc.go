// Package extranet scripts the hotel partner extranet through a browser session.
//
// It logs in with username, password and a two-factor code, moves between
// the extranet sections and scrapes reservations and calendar details.
// The two-factor code comes from an authcode.Provider, so the flow does not
// know whether it was generated or typed by the operator.
package extranet
