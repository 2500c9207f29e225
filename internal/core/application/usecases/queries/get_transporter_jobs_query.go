package queries

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetTransporterJobsQueryIsNotConstructed = errors.New(
	"GetTransporterJobsQuery must be created via NewGetTransporterJobsQuery constructor",
)

// GetTransporterJobsQuery lists the requests assigned to a transporter. Without
// statuses it returns the jobs still in progress.
type GetTransporterJobsQuery struct {
	actor         kernel.Actor
	transporterID kernel.UUID
	statuses      []transport.Status

	guard guard.ConstructorGuard
}

func NewGetTransporterJobsQuery(
	actor kernel.Actor,
	transporterID kernel.UUID,
	statuses []transport.Status,
) (GetTransporterJobsQuery, error) {
	errList := []error{actor.Validate(), transporterID.Validate()}
	for _, s := range statuses {
		errList = append(errList, s.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return GetTransporterJobsQuery{}, err
	}
	if len(statuses) == 0 {
		statuses = append(transport.CapacityStatuses(), transport.Delivered)
	}
	return GetTransporterJobsQuery{
		actor:         actor,
		transporterID: transporterID,
		statuses:      append([]transport.Status(nil), statuses...),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetTransporterJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetTransporterJobsQueryIsNotConstructed)
}

func (q GetTransporterJobsQuery) Actor() kernel.Actor        { return q.actor }
func (q GetTransporterJobsQuery) TransporterID() kernel.UUID { return q.transporterID }

func (q GetTransporterJobsQuery) Statuses() []transport.Status {
	return append([]transport.Status(nil), q.statuses...)
}

type GetTransporterJobsQueryResponse struct {
	RequestID   kernel.UUID
	ContractID  *kernel.UUID
	TrackingID  string
	Origin      string
	Destination string
	LoadKg      decimal.Decimal
	Price       decimal.Decimal
	PickupStart time.Time
	PickupEnd   time.Time
	Status      transport.Status
}
