// Package errs provides the error taxonomy shared by the trade pipeline.
//
// Every error type follows the same shape: a sentinel variable, a struct carrying
// details, constructors with and without a cause, and an Unwrap method so callers
// can classify failures with errors.Is:
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: input validation
//   - ErrObjectNotFound: repository lookups
//   - ErrVersionIsInvalid: optimistic concurrency conflicts
//   - ErrInvalidTransition: state machine preconditions
//   - ErrAccessDenied: actor is not allowed to drive a transition
//   - ErrAdapterTimeout, ErrAdapterFailure: external collaborators
package errs
