// Package order models a buyer's purchase intent before it becomes a contract.
//
// An Order is addressed either to a market listing or directly to a cooperative
// (a free-form offer). The cooperative manager of the owning cooperative answers it:
//
//	Open ──accept──> Accepted ──cancel──> Cancelled
//	  │                 ^
//	  ├──reject──> Rejected
//	  └──cancel──> Cancelled
//
// Accepting an order does not touch inventory; lots are allocated later by
// contract formation.
package order
