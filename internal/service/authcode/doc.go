// Package authcode produces the 6-digit code answering the extranet's
// two-factor challenge.
//
// When a Base32 shared secret is configured the code is derived locally
// with the RFC 6238 TOTP algorithm (SHA-1, 30-second step, 6 digits).
// Otherwise the operator is prompted for the code shown in the Pulse app.
// Callers only use Provider.ObtainCode; the choice between the two modes
// is made inside the provider.
package authcode
