package contract

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrContractIsNotConstructed = errors.New("Contract must be created via NewContract constructor")
	ErrContractHasNoLots        = errs.NewValueIsRequiredError("contract lots")

	trackingIDPattern = regexp.MustCompile(`^RASS-\d{6}$`)
)

// NewTrackingID returns a human readable contract reference in the RASS-nnnnnn range.
func NewTrackingID() string {
	return fmt.Sprintf("RASS-%06d", 100000+rand.IntN(900000))
}

// Contract binds an accepted order to the lots that will fulfil it at agreedPrice,
// the total value of the deal.
type Contract struct {
	id            kernel.UUID
	orderID       kernel.UUID
	buyerID       kernel.UUID
	cooperativeID kernel.UUID
	trackingID    string
	agreedPrice   decimal.Decimal
	status        Status
	lots          []ContractLot
	createdAt     time.Time
	guard         guard.ConstructorGuard

	kernel.EventRecorder
}

type Params struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	BuyerID       kernel.UUID
	CooperativeID kernel.UUID
	TrackingID    string
	AgreedPrice   decimal.Decimal
	Lots          []ContractLot
}

func NewContract(p Params, now time.Time) (*Contract, error) {
	c := &Contract{
		status:    Draft,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if err := c.set(p); err != nil {
		return nil, err
	}

	lotIDs := make([]string, 0, len(c.lots))
	for _, cl := range c.lots {
		lotIDs = append(lotIDs, cl.LotID().String())
	}
	c.Record("ContractFormed", c.id, map[string]any{
		"orderId":       c.orderID.String(),
		"buyerId":       c.buyerID.String(),
		"cooperativeId": c.cooperativeID.String(),
		"trackingId":    c.trackingID,
		"agreedPrice":   c.agreedPrice.String(),
		"lotIds":        lotIDs,
	})
	return c, nil
}

func RestoreContract(p Params, status Status, createdAt time.Time) (*Contract, error) {
	c := &Contract{guard: guard.NewConstructorGuard()}
	if err := errors.Join(c.set(p), status.Validate()); err != nil {
		return nil, err
	}
	c.status = status
	c.createdAt = createdAt
	return c, nil
}

func (c *Contract) Validate() error {
	if c == nil {
		return ErrContractIsNotConstructed
	}
	return c.guard.Validate(ErrContractIsNotConstructed)
}

func (c *Contract) IsEqual(other *Contract) bool {
	return other != nil && c.id.IsEqual(other.id)
}

func (c *Contract) ID() kernel.UUID              { return c.id }
func (c *Contract) OrderID() kernel.UUID         { return c.orderID }
func (c *Contract) BuyerID() kernel.UUID         { return c.buyerID }
func (c *Contract) CooperativeID() kernel.UUID   { return c.cooperativeID }
func (c *Contract) TrackingID() string           { return c.trackingID }
func (c *Contract) AgreedPrice() decimal.Decimal { return c.agreedPrice }
func (c *Contract) Status() Status               { return c.status }
func (c *Contract) CreatedAt() time.Time         { return c.createdAt }

// Lots returns the linked lots ordered by position.
func (c *Contract) Lots() []ContractLot {
	out := make([]ContractLot, len(c.lots))
	copy(out, c.lots)
	return out
}

func (c *Contract) LotIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(c.lots))
	for _, cl := range c.lots {
		ids = append(ids, cl.LotID())
	}
	return ids
}

func (c *Contract) TotalQuantityKg() decimal.Decimal {
	total := decimal.Zero
	for _, cl := range c.lots {
		total = total.Add(cl.QuantityKg())
	}
	return total
}

// IsParty reports whether the party is the contract's buyer or cooperative.
func (c *Contract) IsParty(partyID kernel.UUID) bool {
	return c.buyerID.IsEqual(partyID) || c.cooperativeID.IsEqual(partyID)
}

// Activate moves a draft contract to Active once logistics are opened for it.
// Activating an already active contract is a no-op.
func (c *Contract) Activate() error {
	if c.status == Active {
		return nil
	}
	return c.transition(actionActivate, "ContractActivated")
}

func (c *Contract) Fulfill() error {
	return c.transition(actionFulfill, "ContractFulfilled")
}

func (c *Contract) Cancel() error {
	return c.transition(actionCancel, "ContractCancelled")
}

func (c *Contract) Dispute() error {
	return c.transition(actionDispute, "ContractDisputed")
}

func (c *Contract) Resolve() error {
	return c.transition(actionResolve, "ContractResolved")
}

func (c *Contract) transition(a action, event string) error {
	to, err := c.status.next(a)
	if err != nil {
		return err
	}
	from := c.status
	c.status = to
	c.Record(event, c.id, map[string]any{
		"trackingId": c.trackingID,
		"from":       from.String(),
		"to":         to.String(),
	})
	return nil
}

func (c *Contract) set(p Params) error {
	var trackingErr error
	if !trackingIDPattern.MatchString(p.TrackingID) {
		trackingErr = errs.NewValueIsInvalidErrorWithCause(
			"trackingId is invalid",
			fmt.Errorf("%q does not match RASS-nnnnnn", p.TrackingID),
		)
	}

	lotErrs := make([]error, 0, len(p.Lots)+1)
	if len(p.Lots) == 0 {
		lotErrs = append(lotErrs, ErrContractHasNoLots)
	}
	for _, cl := range p.Lots {
		lotErrs = append(lotErrs, cl.Validate())
	}

	if err := errors.Join(
		p.ID.Validate(),
		p.OrderID.Validate(),
		p.BuyerID.Validate(),
		p.CooperativeID.Validate(),
		trackingErr,
		kernel.ValidatePositive("agreedPrice", p.AgreedPrice),
		errors.Join(lotErrs...),
	); err != nil {
		return err
	}

	lots := make([]ContractLot, len(p.Lots))
	copy(lots, p.Lots)
	sort.SliceStable(lots, func(i, j int) bool { return lots[i].Position() < lots[j].Position() })

	c.id = p.ID
	c.orderID = p.OrderID
	c.buyerID = p.BuyerID
	c.cooperativeID = p.CooperativeID
	c.trackingID = p.TrackingID
	c.agreedPrice = p.AgreedPrice
	c.lots = lots
	return nil
}
