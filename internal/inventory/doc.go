// Package inventory provides the vehicle catalogue: classifications and the
// inventory rows that belong to them.
//
// It is deliberately thin — parameterised queries behind a repository
// interface, plus field validation for the management forms. Authorisation
// lives in the web layer; this package trusts its callers.
package inventory
