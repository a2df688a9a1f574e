// Package kernel holds the shared value objects of the fulfillment domain:
//   - UUID: identifier for orders, parties, drivers, codes and ledger entries
//   - Money: an amount in the minor units of the service currency
//   - Versioned: the persisted revision used for optimistic concurrency
//
// Values are immutable and safe for concurrent use.
package kernel
