// Package recon implements sales reconciliation against the persisted store.
//
// Sales carry no stable upstream identifier, so identity is approximated by a
// matching key: (normalized address, sale date, sale price). A reconciliation
// cycle runs prune -> intra-batch dedup -> existing-duplicate resolution ->
// insert, and reports per-stage counts.
//
// Prune and resolve failures are recovered locally and surfaced only through
// the report; a partially reconciled cycle that still inserts fresh data is
// preferred over a blocked pipeline. Repeated successful cycles converge the
// store back to a duplicate-free rolling window.
//
// Cycles assume a single writer. Two concurrent runs can reintroduce
// duplicates; serialized execution is an operating precondition.
package recon
