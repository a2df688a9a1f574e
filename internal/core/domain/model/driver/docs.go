// Package driver provides the Driver aggregate used by driver assignment.
//
// A driver is Available or Occupied. An Occupied driver holds exactly one
// order; Release only frees the driver from the order it holds.
package driver
