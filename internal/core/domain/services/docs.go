// Package services provides domain services that coordinate several aggregates
// inside one unit of work. They are built on the transaction-bound repositories
// of that unit of work and never commit on their own.
//
// The package includes:
//   - SplitSettlement: the single settlement math function
//   - Ledger: settlement, top-up, withdrawal and ledger reads
//   - ValidationCodeService: issuing, verifying and revoking handoff codes
//   - DriverAssignmentService: finding, assigning and releasing drivers
package services
