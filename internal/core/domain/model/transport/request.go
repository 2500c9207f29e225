package transport

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	defaultPickupLead   = 6 * time.Hour
	defaultPickupLength = 12 * time.Hour
)

var (
	ErrRequestIsNotConstructed = errors.New("Request must be created via NewRequest constructor")
	ErrScheduleConflict        = errors.New("transporter has an overlapping job")
	ErrNotAssignee             = errors.New("transport request is assigned to another transporter")
	ErrNoTruck                 = errs.NewValueIsRequiredError("truck")
	ErrNoDriver                = errs.NewValueIsRequiredError("driverPhone")
)

var (
	basePrice  = decimal.NewFromInt(10000)
	pricePerKg = decimal.NewFromInt(50)
)

// DefaultPrice is the flat fee plus a per-kilogram rate.
func DefaultPrice(loadKg decimal.Decimal) decimal.Decimal {
	return basePrice.Add(pricePerKg.Mul(loadKg))
}

// DefaultPickupWindow starts six hours after now and lasts twelve.
func DefaultPickupWindow(now time.Time) (kernel.TimeWindow, error) {
	return kernel.NewTimeWindowFrom(now.Add(defaultPickupLead), defaultPickupLength)
}

// Request moves loadKg of produce from origin to destination for a contract.
type Request struct {
	id            kernel.UUID
	contractID    *kernel.UUID
	origin        string
	destination   string
	loadKg        decimal.Decimal
	pickupWindow  kernel.TimeWindow
	price         decimal.Decimal
	transporterID *kernel.UUID
	truck         string
	driverPhone   string
	assignedAt    *time.Time
	pickedUpAt    *time.Time
	deliveredAt   *time.Time
	notes         string
	proofURL      string
	status        Status
	createdAt     time.Time
	guard         guard.ConstructorGuard

	kernel.EventRecorder
}

type Params struct {
	ID           kernel.UUID
	ContractID   *kernel.UUID
	Origin       string
	Destination  string
	LoadKg       decimal.Decimal
	PickupWindow kernel.TimeWindow
	Price        decimal.Decimal
}

// Progress carries the assignment and delivery details restored from storage.
type Progress struct {
	Status        Status
	TransporterID *kernel.UUID
	Truck         string
	DriverPhone   string
	AssignedAt    *time.Time
	PickedUpAt    *time.Time
	DeliveredAt   *time.Time
	Notes         string
	ProofURL      string
	CreatedAt     time.Time
}

// NewRequest opens a pending request. A zero price is replaced by DefaultPrice.
func NewRequest(p Params, now time.Time) (*Request, error) {
	if p.Price.IsZero() {
		p.Price = DefaultPrice(p.LoadKg)
	}
	r := &Request{
		status:    Pending,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if err := r.set(p); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"origin":      r.origin,
		"destination": r.destination,
		"loadKg":      r.loadKg.String(),
		"price":       r.price.String(),
	}
	if r.contractID != nil {
		payload["contractId"] = r.contractID.String()
	}
	r.Record("TransportRequested", r.id, payload)
	return r, nil
}

func RestoreRequest(p Params, pr Progress) (*Request, error) {
	r := &Request{guard: guard.NewConstructorGuard()}
	var transporterErr error
	if pr.TransporterID != nil {
		transporterErr = pr.TransporterID.Validate()
	}
	if err := errors.Join(r.set(p), pr.Status.Validate(), transporterErr); err != nil {
		return nil, err
	}
	r.status = pr.Status
	r.transporterID = pr.TransporterID
	r.truck = pr.Truck
	r.driverPhone = pr.DriverPhone
	r.assignedAt = pr.AssignedAt
	r.pickedUpAt = pr.PickedUpAt
	r.deliveredAt = pr.DeliveredAt
	r.notes = pr.Notes
	r.proofURL = pr.ProofURL
	r.createdAt = pr.CreatedAt
	return r, nil
}

func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

func (r *Request) ID() kernel.UUID                 { return r.id }
func (r *Request) Origin() string                  { return r.origin }
func (r *Request) Destination() string             { return r.destination }
func (r *Request) LoadKg() decimal.Decimal         { return r.loadKg }
func (r *Request) PickupWindow() kernel.TimeWindow { return r.pickupWindow }
func (r *Request) Price() decimal.Decimal          { return r.price }
func (r *Request) Truck() string                   { return r.truck }
func (r *Request) DriverPhone() string             { return r.driverPhone }
func (r *Request) AssignedAt() *time.Time          { return r.assignedAt }
func (r *Request) PickedUpAt() *time.Time          { return r.pickedUpAt }
func (r *Request) DeliveredAt() *time.Time         { return r.deliveredAt }
func (r *Request) Notes() string                   { return r.notes }
func (r *Request) ProofURL() string                { return r.proofURL }
func (r *Request) Status() Status                  { return r.status }
func (r *Request) CreatedAt() time.Time            { return r.createdAt }

func (r *Request) ContractID() *kernel.UUID {
	if r.contractID == nil {
		return nil
	}
	id := *r.contractID
	return &id
}

func (r *Request) TransporterID() *kernel.UUID {
	if r.transporterID == nil {
		return nil
	}
	id := *r.transporterID
	return &id
}

// IsAssignedTo reports whether transporterID currently holds the job.
func (r *Request) IsAssignedTo(transporterID kernel.UUID) bool {
	return r.transporterID != nil && r.transporterID.IsEqual(transporterID)
}

// ConflictsWith reports whether both requests would keep the same transporter busy at once.
func (r *Request) ConflictsWith(other *Request) bool {
	if other == nil || r.id.IsEqual(other.id) || other.status.IsTerminal() || other.status == Delivered {
		return false
	}
	return r.pickupWindow.Overlaps(other.pickupWindow)
}

// Assign gives the job to a transporter. Reassignment is allowed until the job is accepted.
// Capacity is checked by the caller, who knows the transporter's other loads.
func (r *Request) Assign(transporterID kernel.UUID, now time.Time) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}
	to, err := r.status.next(actionAssign)
	if err != nil {
		return err
	}
	r.status = to
	r.transporterID = &transporterID
	at := now.UTC()
	r.assignedAt = &at
	r.record("TransportAssigned")
	return nil
}

// Accept is the assignee confirming the job with the truck and driver that will run it.
func (r *Request) Accept(transporterID kernel.UUID, truck, driverPhone string) error {
	to, err := r.status.next(actionAccept)
	if err != nil {
		return err
	}
	if err = r.checkAssignee(transporterID); err != nil {
		return err
	}
	var truckErr, driverErr error
	if truck == "" {
		truckErr = ErrNoTruck
	}
	if driverPhone == "" {
		driverErr = ErrNoDriver
	}
	if err := errors.Join(truckErr, driverErr); err != nil {
		return err
	}
	r.status = to
	r.truck = truck
	r.driverPhone = driverPhone
	r.record("TransportAccepted")
	return nil
}

func (r *Request) PickUp(transporterID kernel.UUID, now time.Time) error {
	to, err := r.status.next(actionPickUp)
	if err != nil {
		return err
	}
	if err = r.checkAssignee(transporterID); err != nil {
		return err
	}
	r.status = to
	at := now.UTC()
	r.pickedUpAt = &at
	r.record("TransportPickedUp")
	return nil
}

func (r *Request) MarkInTransit(transporterID kernel.UUID) error {
	to, err := r.status.next(actionTransit)
	if err != nil {
		return err
	}
	if err = r.checkAssignee(transporterID); err != nil {
		return err
	}
	r.status = to
	r.record("TransportInTransit")
	return nil
}

// Deliver records the drop-off. Notes and proofURL are optional.
func (r *Request) Deliver(transporterID kernel.UUID, notes, proofURL string, now time.Time) error {
	to, err := r.status.next(actionDeliver)
	if err != nil {
		return err
	}
	if err = r.checkAssignee(transporterID); err != nil {
		return err
	}
	r.status = to
	r.notes = notes
	r.proofURL = proofURL
	at := now.UTC()
	r.deliveredAt = &at
	r.record("TransportDelivered")
	return nil
}

// Complete is the buyer confirming receipt.
func (r *Request) Complete() error {
	to, err := r.status.next(actionComplete)
	if err != nil {
		return err
	}
	r.status = to
	r.record("TransportCompleted")
	return nil
}

func (r *Request) Cancel() error {
	to, err := r.status.next(actionCancel)
	if err != nil {
		return err
	}
	r.status = to
	r.record("TransportCancelled")
	return nil
}

func (r *Request) checkAssignee(transporterID kernel.UUID) error {
	if !r.IsAssignedTo(transporterID) {
		return ErrNotAssignee
	}
	return nil
}

func (r *Request) record(name string) {
	payload := map[string]any{"status": r.status.String()}
	if r.contractID != nil {
		payload["contractId"] = r.contractID.String()
	}
	if r.transporterID != nil {
		payload["transporterId"] = r.transporterID.String()
	}
	r.Record(name, r.id, payload)
}

func (r *Request) set(p Params) error {
	var contractErr error
	if p.ContractID != nil {
		contractErr = p.ContractID.Validate()
	}
	if err := errors.Join(
		p.ID.Validate(),
		contractErr,
		kernel.ValidateRequiredText("origin", p.Origin),
		kernel.ValidateRequiredText("destination", p.Destination),
		kernel.ValidatePositive("loadKg", p.LoadKg),
		p.PickupWindow.Validate(),
		kernel.ValidatePositive("price", p.Price),
	); err != nil {
		return err
	}
	r.id = p.ID
	if p.ContractID != nil {
		id := *p.ContractID
		r.contractID = &id
	}
	r.origin = p.Origin
	r.destination = p.Destination
	r.loadKg = p.LoadKg
	r.pickupWindow = p.PickupWindow
	r.price = p.Price
	return nil
}
