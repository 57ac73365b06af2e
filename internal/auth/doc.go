// Package auth provides authentication and authorisation for Forecourt.
//
// It implements the session-token lifecycle and the credential store:
//   - bcrypt password hashing (cost 10)
//   - Signed, time-limited session tokens (HS256 JWT, 1 hour default)
//     embedding a snapshot of account identity and role — never the
//     password hash
//   - A three-tier role model (Customer → Employee → Admin) where only
//     Employee and Admin gate anything
//   - The SQLite account repository, including the email UNIQUE constraint
//     handling
//
// The token is a stateless capability: there is no server-side session
// table and no revocation list. A token stays valid until its embedded
// expiry, and profile updates reissue it so the embedded snapshot stays
// fresh.
package auth
