// Package tally computes point-in-time and range analytics from a ledger of
// dated events: transactions, security prices, exchange rates, deposit rates
// and opening balances.
//
// A Cursor merges the pre-sorted sources of a ledger into one chronological
// stream of Events. A Book replays that stream once, maintaining one Bucket
// per tracked entity (payee, security, portfolio, tax basis and tag), each
// with the History of its Values. Views are then sliced from the Book:
//
//   - AsOf returns the state of every bucket at the end of a day,
//   - Ranged returns the movements of every bucket during a range, keeping
//     the buckets that are still active at its end.
//
// Valuations are expressed in a reporting currency. Foreign securities and
// portfolios are revalued as prices and exchange rates move, the part due to
// exchange rates being tracked apart.
//
// This package serves as the foundational logic for the `tly` command-line
// tool.
package tally
