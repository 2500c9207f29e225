package queries

import (
	"context"
	"database/sql"
	"errors"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetContractQueryHandler assembles the contract view from four reads. Buyer,
// cooperative, the farmers of the lots and assigned transporters may read it.
type GetContractQueryHandler struct {
	db         *gorm.DB
	authorizer ports.Authorizer
}

func NewGetContractQueryHandler(db *gorm.DB, authorizer ports.Authorizer) GetContractQueryHandler {
	return GetContractQueryHandler{db: db, authorizer: authorizer}
}

func (h GetContractQueryHandler) Handle(ctx context.Context, query GetContractQuery) (*GetContractQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	view, err := h.contract(ctx, query.ContractID())
	if err != nil {
		return nil, err
	}
	if view.Lots, err = h.lots(ctx, query.ContractID()); err != nil {
		return nil, err
	}
	if view.Transport, err = h.transport(ctx, query.ContractID()); err != nil {
		return nil, err
	}
	if view.Escrow, err = h.escrow(ctx, query.ContractID()); err != nil {
		return nil, err
	}

	parties := []kernel.UUID{view.BuyerID, view.CooperativeID}
	for _, l := range view.Lots {
		parties = append(parties, l.FarmerID)
	}
	for _, leg := range view.Transport {
		if leg.TransporterID != nil {
			parties = append(parties, *leg.TransporterID)
		}
	}
	if err := ensureReadable(h.authorizer, query.Actor(), ports.ResourceContract, parties...); err != nil {
		return nil, err
	}
	return view, nil
}

func (h GetContractQueryHandler) contract(ctx context.Context, contractID kernel.UUID) (*GetContractQueryResponse, error) {
	var (
		view                         GetContractQueryResponse
		id, orderID, buyerID, coopID uuid.UUID
		status                       int
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT id, order_id, buyer_id, cooperative_id, tracking_id, agreed_price, status, created_at
		FROM contracts
		WHERE id = ?
	`, contractID.String()).Row().Scan(
		&id, &orderID, &buyerID, &coopID,
		&view.TrackingID, &view.AgreedPrice, &status, &view.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("contractID", contractID)
	}
	if err != nil {
		return nil, err
	}

	var idErrs [4]error
	view.ID, idErrs[0] = toKernel(id)
	view.OrderID, idErrs[1] = toKernel(orderID)
	view.BuyerID, idErrs[2] = toKernel(buyerID)
	view.CooperativeID, idErrs[3] = toKernel(coopID)
	if err := errors.Join(idErrs[:]...); err != nil {
		return nil, err
	}
	view.Status = contract.Status(status)
	return &view, nil
}

func (h GetContractQueryHandler) lots(ctx context.Context, contractID kernel.UUID) ([]ContractLotView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT cl.lot_id, cl.farmer_id, cl.quantity_kg, l.crop, l.quality_grade
		FROM contract_lots cl
		LEFT JOIN lots l ON l.id = cl.lot_id
		WHERE cl.contract_id = ?
		ORDER BY cl.position
	`, contractID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := make([]ContractLotView, 0)
	for rows.Next() {
		var (
			v               ContractLotView
			lotID, farmerID uuid.UUID
			crop, grade     sql.NullString
		)
		if err := rows.Scan(&lotID, &farmerID, &v.QuantityKg, &crop, &grade); err != nil {
			return nil, err
		}
		var lotErr, farmerErr error
		v.LotID, lotErr = toKernel(lotID)
		v.FarmerID, farmerErr = toKernel(farmerID)
		if err := errors.Join(lotErr, farmerErr); err != nil {
			return nil, err
		}
		v.Crop = crop.String
		v.QualityGrade = grade.String
		lots = append(lots, v)
	}
	return lots, rows.Err()
}

func (h GetContractQueryHandler) transport(ctx context.Context, contractID kernel.UUID) ([]TransportLegView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, transporter_id, status, load_kg, pickup_start, pickup_end
		FROM transport_requests
		WHERE contract_id = ?
		ORDER BY created_at
	`, contractID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	legs := make([]TransportLegView, 0)
	for rows.Next() {
		var (
			v             TransportLegView
			id            uuid.UUID
			transporterID *uuid.UUID
			status        int
		)
		if err := rows.Scan(&id, &transporterID, &status, &v.LoadKg, &v.PickupStart, &v.PickupEnd); err != nil {
			return nil, err
		}
		if v.ID, err = toKernel(id); err != nil {
			return nil, err
		}
		if v.TransporterID, err = kernel.UUIDPtrFromGoogle(transporterID); err != nil {
			return nil, err
		}
		v.Status = transport.Status(status)
		legs = append(legs, v)
	}
	return legs, rows.Err()
}

func (h GetContractQueryHandler) escrow(ctx context.Context, contractID kernel.UUID) (*EscrowView, error) {
	var (
		v      EscrowView
		id     uuid.UUID
		status int
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT id, amount, status, reference
		FROM ledger_entries
		WHERE contract_id = ? AND entry_type = ?
	`, contractID.String(), int(settlement.Escrow)).Row().Scan(&id, &v.Amount, &status, &v.Reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if v.ID, err = toKernel(id); err != nil {
		return nil, err
	}
	v.Status = settlement.EntryStatus(status)
	return &v, nil
}
