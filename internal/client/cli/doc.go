// Package cli provides dealerctl, the interactive terminal client of the
// dealership.
//
// It wires configuration, the local database, the persisted session and the
// REST client into a read-eval-print loop. Customers browse the catalog, book
// a test drive or buy a car through the Details → Payment → Confirmation
// checkout, fetch receipts and offer their own car for sale. Administrators
// additionally manage listings, review sell requests and see the dashboard.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is cancelled.
package cli
