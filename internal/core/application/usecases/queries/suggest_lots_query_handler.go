package queries

import (
	"context"

	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SuggestLotsQueryHandler struct {
	db         *gorm.DB
	authorizer ports.Authorizer
}

func NewSuggestLotsQueryHandler(db *gorm.DB, authorizer ports.Authorizer) SuggestLotsQueryHandler {
	return SuggestLotsQueryHandler{db: db, authorizer: authorizer}
}

// Handle returns verified Listed lots with quantity left. Ties on the harvest date
// are broken by id so repeated calls page the same way.
func (h SuggestLotsQueryHandler) Handle(ctx context.Context, query SuggestLotsQuery) ([]SuggestLotsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := ensureReadable(h.authorizer, query.Actor(), ports.ResourceLot, query.CooperativeID()); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, farmer_id, available_kg, quality_grade, expected_harvest_date
		FROM lots
		WHERE cooperative_id = ?
			AND crop = ?
			AND status = ?
			AND verified
			AND available_kg > 0
		ORDER BY expected_harvest_date, id
		LIMIT ?
	`, query.CooperativeID().String(), query.Crop(), int(lot.Listed), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := make([]SuggestLotsQueryResponse, 0)
	for rows.Next() {
		var (
			v            SuggestLotsQueryResponse
			id, farmerID uuid.UUID
		)
		if err := rows.Scan(&id, &farmerID, &v.AvailableKg, &v.QualityGrade, &v.ExpectedHarvestDate); err != nil {
			return nil, err
		}
		if v.LotID, err = toKernel(id); err != nil {
			return nil, err
		}
		if v.FarmerID, err = toKernel(farmerID); err != nil {
			return nil, err
		}
		lots = append(lots, v)
	}
	return lots, rows.Err()
}
