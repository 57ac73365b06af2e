// Package database provides SQLite connection management and schema
// migrations for Forecourt.
//
// The database holds the authoritative account records (including the email
// UNIQUE constraint that guards concurrent registrations), the vehicle
// classifications, and the inventory rows. All access goes through
// parameterised queries in the repository packages — this package owns only
// the connection, pragmas, and migration machinery.
//
// Migrations are embedded SQL files registered via the MigrationsFS variable
// (see the migrations package) and applied one transaction each, recorded in
// schema_migrations.
package database
