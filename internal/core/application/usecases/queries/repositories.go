// Package queries contains read-only operations of the CQRS architecture.
// Queries read through the same repositories as commands but never open a
// transaction: each read sees the latest committed state.
package queries

import (
	"fulfillment/internal/core/ports"
)

type (
	// Repositories exposes the read side of a unit of work.
	Repositories interface {
		OrderRepository() ports.OrderRepository
		DriverRepository() ports.DriverRepository
		ValidationCodeRepository() ports.ValidationCodeRepository
		WalletRepository() ports.WalletRepository
	}

	// RepositoriesFactory creates repositories bound to the storage, outside any transaction.
	RepositoriesFactory interface {
		Create() Repositories
	}
)
