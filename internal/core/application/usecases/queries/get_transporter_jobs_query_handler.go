package queries

import (
	"context"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GetTransporterJobsQueryHandler struct {
	db         *gorm.DB
	authorizer ports.Authorizer
}

func NewGetTransporterJobsQueryHandler(db *gorm.DB, authorizer ports.Authorizer) GetTransporterJobsQueryHandler {
	return GetTransporterJobsQueryHandler{db: db, authorizer: authorizer}
}

// Handle returns the jobs ordered by pickup start, joined with the contract
// tracking ID the driver quotes at the farm gate.
func (h GetTransporterJobsQueryHandler) Handle(
	ctx context.Context,
	query GetTransporterJobsQuery,
) ([]GetTransporterJobsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := ensureReadable(h.authorizer, query.Actor(), ports.ResourceTransport, query.TransporterID()); err != nil {
		return nil, err
	}

	statuses := make([]int64, 0, len(query.Statuses()))
	for _, s := range query.Statuses() {
		statuses = append(statuses, int64(s))
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT r.id, r.contract_id, COALESCE(c.tracking_id, ''), r.origin, r.destination,
			r.load_kg, r.price, r.pickup_start, r.pickup_end, r.status
		FROM transport_requests r
		LEFT JOIN contracts c ON c.id = r.contract_id
		WHERE r.transporter_id = ? AND r.status = ANY(?::int[])
		ORDER BY r.pickup_start, r.id
	`, query.TransporterID().String(), pq.Array(statuses)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]GetTransporterJobsQueryResponse, 0)
	for rows.Next() {
		var (
			v          GetTransporterJobsQueryResponse
			id         uuid.UUID
			contractID *uuid.UUID
			status     int
		)
		if err := rows.Scan(
			&id, &contractID, &v.TrackingID, &v.Origin, &v.Destination,
			&v.LoadKg, &v.Price, &v.PickupStart, &v.PickupEnd, &status,
		); err != nil {
			return nil, err
		}
		if v.RequestID, err = toKernel(id); err != nil {
			return nil, err
		}
		if v.ContractID, err = kernel.UUIDPtrFromGoogle(contractID); err != nil {
			return nil, err
		}
		v.Status = transport.Status(status)
		jobs = append(jobs, v)
	}
	return jobs, rows.Err()
}
