// Package app wires configuration, credentials, the browser and the extranet service together
// and implements every CLI command on top of them.
package app
