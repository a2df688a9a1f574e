// Package validationcode models the one-time handoff code of an order.
//
// A code is six numeric digits bound to an order and to the role that will
// present it (Pickup or Delivery). The client displays it; the distributor or the
// driver types it to prove the physical handoff.
//
//	Active ──> Consumed          (correct value, exactly once)
//	Active ──> Locked            (too many wrong values)
//	Active, Locked ──> Revoked   (a new code was issued)
//
// Consumed, Revoked and Locked never go back to Active.
package validationcode
