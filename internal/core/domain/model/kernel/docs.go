// Package kernel holds the value objects shared by every aggregate of the trade pipeline:
// identifiers (UUID), time windows, actors with their roles, quantity validation helpers
// and the domain event recorder.
package kernel
