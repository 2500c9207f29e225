// Package settlement holds the money side of a contract: ledger entries for escrow,
// payouts and fees, and the per-farmer balances paid out after fulfilment.
//
// Both are append-only records. Only their status changes, plus the fresh payment
// reference issued when a failed farmer payout is retried; amounts never change.
package settlement
