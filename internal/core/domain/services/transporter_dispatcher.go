package services

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/transport"

	"github.com/shopspring/decimal"
)

var ErrTransporterNotFound = errors.New("transporter not found")

// Candidate is a transporter with the load it already carries.
type Candidate struct {
	Transporter *transport.Transporter
	CommittedKg decimal.Decimal
}

// TransporterDispatcher assigns transport requests to trucks.
type TransporterDispatcher struct{}

func NewTransporterDispatcher() TransporterDispatcher {
	return TransporterDispatcher{}
}

// Assign gives req to the candidate after checking its remaining capacity.
func (d TransporterDispatcher) Assign(req *transport.Request, c Candidate, now time.Time) error {
	if err := errors.Join(req.Validate(), c.Transporter.Validate()); err != nil {
		return err
	}
	if err := c.Transporter.CanCarry(req.LoadKg(), c.CommittedKg); err != nil {
		return err
	}
	return req.Assign(c.Transporter.ID(), now)
}

// Dispatch picks the best fitting candidate, the active transporter left with the
// least spare capacity after taking the load, and assigns req to it.
func (d TransporterDispatcher) Dispatch(req *transport.Request, candidates []Candidate, now time.Time) (*transport.Transporter, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	best, err := d.findBest(req, candidates)
	if err != nil {
		return nil, err
	}

	if err := d.Assign(req, best, now); err != nil {
		return nil, err
	}
	return best.Transporter, nil
}

// CheckSchedule rejects accepting req while another of the transporter's jobs overlaps it.
func (d TransporterDispatcher) CheckSchedule(req *transport.Request, jobs []*transport.Request) error {
	for _, other := range jobs {
		if req.ConflictsWith(other) {
			return transport.ErrScheduleConflict
		}
	}
	return nil
}

func (d TransporterDispatcher) findBest(req *transport.Request, candidates []Candidate) (Candidate, error) {
	var (
		best      Candidate
		bestSpare decimal.Decimal
		found     bool
	)

	for _, c := range candidates {
		if err := c.Transporter.Validate(); err != nil {
			return Candidate{}, err
		}
		if c.Transporter.CanCarry(req.LoadKg(), c.CommittedKg) != nil {
			continue
		}

		spare := c.Transporter.SpareCapacityKg(c.CommittedKg).Sub(req.LoadKg())
		if !found || spare.LessThan(bestSpare) {
			best, bestSpare, found = c, spare, true
		}
	}

	if !found {
		return Candidate{}, ErrTransporterNotFound
	}
	return best, nil
}
