// Package transport models the trucks that move contracted produce and the
// transport requests they carry out.
//
// A Transporter has a fixed capacity shared by all of its active loads. A Request
// moves through
//
//	Pending -> Assigned -> Accepted -> PickedUp -> InTransit -> Delivered -> Completed
//
// with reassignment while Assigned, a direct PickedUp -> Delivered hop, and
// cancellation until the goods are picked up.
package transport
