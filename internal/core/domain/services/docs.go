// Package services holds domain logic that spans more than one aggregate:
// lot reservation against contracts, pro-rata farmer settlement and
// transporter selection.
//
// Services never open transactions. They work on aggregates, or on the narrow
// stores they are handed, inside the caller's unit of work.
package services
