// Package wallet provides ledger accounts and their append-only transactions.
//
// An account belongs to one owner (distributor, driver or client) and its id is
// the owner id. Balances are integer minor units and never go negative. Every
// balance change produces exactly one Transaction carrying the balance after it.
package wallet
