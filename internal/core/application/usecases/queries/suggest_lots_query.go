package queries

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrSuggestLotsQueryIsNotConstructed = errors.New(
	"SuggestLotsQuery must be created via NewSuggestLotsQuery constructor",
)

const defaultSuggestionLimit = 20

// SuggestLotsQuery lists the lots a cooperative manager can attach to a contract
// for crop, earliest expected harvest first.
type SuggestLotsQuery struct {
	actor         kernel.Actor
	cooperativeID kernel.UUID
	crop          string
	limit         int

	guard guard.ConstructorGuard
}

// NewSuggestLotsQuery accepts limit <= 0 as "use the default".
func NewSuggestLotsQuery(actor kernel.Actor, cooperativeID kernel.UUID, crop string, limit int) (SuggestLotsQuery, error) {
	if err := errors.Join(
		actor.Validate(),
		cooperativeID.Validate(),
		kernel.ValidateRequiredText("crop", crop),
	); err != nil {
		return SuggestLotsQuery{}, err
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	return SuggestLotsQuery{
		actor:         actor,
		cooperativeID: cooperativeID,
		crop:          crop,
		limit:         limit,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q SuggestLotsQuery) Validate() error {
	return q.guard.Validate(ErrSuggestLotsQueryIsNotConstructed)
}

func (q SuggestLotsQuery) Actor() kernel.Actor        { return q.actor }
func (q SuggestLotsQuery) CooperativeID() kernel.UUID { return q.cooperativeID }
func (q SuggestLotsQuery) Crop() string               { return q.crop }
func (q SuggestLotsQuery) Limit() int                 { return q.limit }

type SuggestLotsQueryResponse struct {
	LotID               kernel.UUID
	FarmerID            kernel.UUID
	AvailableKg         decimal.Decimal
	QualityGrade        string
	ExpectedHarvestDate time.Time
}
