package queries

import (
	"context"

	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetFarmerBalancesQueryHandler struct {
	db         *gorm.DB
	authorizer ports.Authorizer
}

func NewGetFarmerBalancesQueryHandler(db *gorm.DB, authorizer ports.Authorizer) GetFarmerBalancesQueryHandler {
	return GetFarmerBalancesQueryHandler{db: db, authorizer: authorizer}
}

func (h GetFarmerBalancesQueryHandler) Handle(
	ctx context.Context,
	query GetFarmerBalancesQuery,
) (*GetFarmerBalancesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := ensureReadable(h.authorizer, query.Actor(), ports.ResourcePayout, query.FarmerID()); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT b.id, b.contract_id, COALESCE(c.tracking_id, ''), b.amount, b.status, b.method,
			b.reference, COALESCE(b.transaction_reference, ''), COALESCE(b.failure_reason, ''),
			b.paid_at, b.created_at
		FROM farmer_balances b
		LEFT JOIN contracts c ON c.id = b.contract_id
		WHERE b.farmer_id = ?
		ORDER BY b.created_at DESC, b.id
	`, query.FarmerID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resp := &GetFarmerBalancesQueryResponse{
		Balances:     make([]FarmerBalanceView, 0),
		PendingTotal: decimal.Zero,
		PaidTotal:    decimal.Zero,
	}
	for rows.Next() {
		var (
			v              FarmerBalanceView
			id, contractID uuid.UUID
			status, method int
		)
		if err := rows.Scan(
			&id, &contractID, &v.TrackingID, &v.Amount, &status, &method,
			&v.Reference, &v.TransactionReference, &v.FailureReason, &v.PaidAt, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		if v.ID, err = toKernel(id); err != nil {
			return nil, err
		}
		if v.ContractID, err = toKernel(contractID); err != nil {
			return nil, err
		}
		v.Status = settlement.PayoutStatus(status)
		v.Method = settlement.PaymentMethod(method)

		switch v.Status {
		case settlement.PayoutPending:
			resp.PendingTotal = resp.PendingTotal.Add(v.Amount)
		case settlement.PayoutPaid:
			resp.PaidTotal = resp.PaidTotal.Add(v.Amount)
		}
		resp.Balances = append(resp.Balances, v)
	}
	return resp, rows.Err()
}
