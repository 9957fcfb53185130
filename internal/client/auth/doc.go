// Package auth mints and verifies the signed tokens used by the password
// reset flow.
package auth
