// Package web provides the server-rendered HTTP surface for Forecourt.
//
// It owns the middleware chain (request ID, logging, recovery, session
// verification), the two authorisation gates (authenticated, staff), the
// account and inventory handlers, flash notices, template rendering, and a
// small WebSocket hub that pushes inventory-change events to open
// management pages.
//
// The session middleware runs on every request and enforces a deliberate
// asymmetry: a request with no session cookie proceeds anonymously, while a
// request with a cookie that fails verification is short-circuited — cookie
// cleared, notice flashed, redirect to the login page. "Never logged in"
// and "tampered or expired session" are different situations and are kept
// distinguishable.
package web
