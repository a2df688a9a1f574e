// Package order provides the Order aggregate and the order lifecycle.
//
// The package includes:
//   - Order: the aggregate root holding parties, line items, totals and timestamps
//   - Status: the closed set of lifecycle states and the transitions between them
//   - LineItem: an immutable (product, quantity, unit price) entry
//
// Lifecycle:
//
//	Pending ──> Confirmed ──> InDelivery ──> Delivered   (delivery orders)
//	Pending ──> Confirmed ──────────────────> Delivered   (pickup orders)
//	Pending ──> Cancelled
//	Confirmed ──> Cancelled
//
// Key business rules:
//   - Transitions only move forward along the graph above
//   - InDelivery is reachable only for delivery orders and cannot be cancelled
//   - Delivered and Cancelled are terminal; the aggregate is immutable afterwards
//   - Every timestamp is set at most once
//   - Only the order's parties may act on it, each within their role
package order
