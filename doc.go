// Package passbook keeps the ledger of a single account: a running balance
// and the ordered history of the deposits and withdrawals that produced it.
//
// The core functionalities include:
//   - Ledger Management: recording deposits and withdrawals at today's date,
//     refusing withdrawals that would take the balance below zero.
//   - Queries: selecting transactions by day, month, year or any Predicate
//     built from the named constructors and their combinators.
//   - Persistence: saving and loading the history under a destination name
//     through a pluggable Storage. Implementations live in the storage
//     package; the JSONL encoding used by files is defined here.
//
// This package serves as the foundational logic for the `pbk` command-line
// tool.
package passbook
