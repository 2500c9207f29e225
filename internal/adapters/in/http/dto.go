package http

import (
	"time"

	"agritrade/internal/core/application/usecases/queries"
	"agritrade/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type windowDTO struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}

func (w windowDTO) toKernel() (kernel.TimeWindow, error) {
	return kernel.NewTimeWindow(w.Start, w.End)
}

func optionalWindow(w *windowDTO) (*kernel.TimeWindow, error) {
	if w == nil {
		return nil, nil
	}
	tw, err := w.toKernel()
	if err != nil {
		return nil, err
	}
	return &tw, nil
}

type createOrderRequest struct {
	BuyerID          *uuid.UUID      `json:"buyerId"`
	ListingID        *uuid.UUID      `json:"listingId"`
	CooperativeID    *uuid.UUID      `json:"cooperativeId"`
	Crop             string          `json:"crop" validate:"required,max=64"`
	QuantityKg       decimal.Decimal `json:"quantityKg"`
	PriceOffer       decimal.Decimal `json:"priceOffer"`
	DeliveryLocation string          `json:"deliveryLocation" validate:"required,max=255"`
	DeliveryWindow   windowDTO       `json:"deliveryWindow"`
}

type respondToOrderRequest struct {
	Accepted *bool `json:"accepted" validate:"required"`
}

type formContractRequest struct {
	OrderID     uuid.UUID        `json:"orderId" validate:"required"`
	LotIDs      []uuid.UUID      `json:"lotIds" validate:"required,min=1,dive,required"`
	AgreedPrice *decimal.Decimal `json:"agreedPrice"`
}

type openTransportRequest struct {
	ContractID   uuid.UUID       `json:"contractId" validate:"required"`
	Origin       string          `json:"origin" validate:"required,max=255"`
	LoadKg       decimal.Decimal `json:"loadKg"`
	PickupWindow *windowDTO      `json:"pickupWindow"`
	Price        decimal.Decimal `json:"price"`
}

type assignTransporterRequest struct {
	TransporterID *uuid.UUID `json:"transporterId"`
}

type acceptJobRequest struct {
	Truck       string `json:"truck" validate:"required,max=32"`
	DriverPhone string `json:"driverPhone" validate:"required,max=32"`
}

type deliverRequest struct {
	Notes    string `json:"notes" validate:"max=2000"`
	ProofURL string `json:"proofUrl" validate:"omitempty,url"`
}

type registerTransporterRequest struct {
	TransporterID *uuid.UUID      `json:"transporterId"`
	Name          string          `json:"name" validate:"required,max=255"`
	CapacityKg    decimal.Decimal `json:"capacityKg"`
	LicensePlate  string          `json:"licensePlate" validate:"required,max=32"`
	Phone         string          `json:"phone" validate:"required,max=32"`
}

type registerFacilityRequest struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Location   string          `json:"location" validate:"required,max=255"`
	CapacityKg decimal.Decimal `json:"capacityKg"`
}

type createBookingRequest struct {
	FacilityID uuid.UUID       `json:"facilityId" validate:"required"`
	ContractID *uuid.UUID      `json:"contractId"`
	LotID      *uuid.UUID      `json:"lotId"`
	QuantityKg decimal.Decimal `json:"quantityKg"`
	Window     *windowDTO      `json:"window"`
}

type settleRequest struct {
	Method string `json:"method" validate:"required,oneof=MobileMoney BankTransfer"`
}

type confirmPayoutRequest struct {
	TransactionReference string `json:"transactionReference" validate:"required,max=128"`
}

type failPayoutRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type registerLotRequest struct {
	CooperativeID       uuid.UUID       `json:"cooperativeId" validate:"required"`
	FarmerID            uuid.UUID       `json:"farmerId" validate:"required"`
	Crop                string          `json:"crop" validate:"required,max=64"`
	QuantityKg          decimal.Decimal `json:"quantityKg"`
	QualityGrade        string          `json:"qualityGrade" validate:"required,max=16"`
	ExpectedHarvestDate time.Time       `json:"expectedHarvestDate" validate:"required"`
}

type declareHarvestRequest struct {
	CooperativeID       uuid.UUID       `json:"cooperativeId" validate:"required"`
	Crop                string          `json:"crop" validate:"required,max=64"`
	ExpectedQuantityKg  decimal.Decimal `json:"expectedQuantityKg"`
	ExpectedHarvestDate time.Time       `json:"expectedHarvestDate" validate:"required"`
	QualityGrade        string          `json:"qualityGrade" validate:"required,max=16"`
}

type reviewHarvestRequest struct {
	Approved   *bool           `json:"approved" validate:"required"`
	MeasuredKg decimal.Decimal `json:"measuredKg"`
	Note       string          `json:"note" validate:"max=500"`
}

type createListingRequest struct {
	CooperativeID uuid.UUID       `json:"cooperativeId" validate:"required"`
	Crop          string          `json:"crop" validate:"required,max=64"`
	QuantityKg    decimal.Decimal `json:"quantityKg"`
	MinimumPrice  decimal.Decimal `json:"minimumPrice"`
	Availability  windowDTO       `json:"availability"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type settlementResponse struct {
	BalanceIDs []string `json:"balanceIds"`
}

type reviewResponse struct {
	LotID *string `json:"lotId,omitempty"`
}

type contractLotResponse struct {
	LotID        string          `json:"lotId"`
	FarmerID     string          `json:"farmerId"`
	QuantityKg   decimal.Decimal `json:"quantityKg"`
	Crop         string          `json:"crop"`
	QualityGrade string          `json:"qualityGrade"`
}

type transportLegResponse struct {
	ID            string          `json:"id"`
	TransporterID *string         `json:"transporterId,omitempty"`
	Status        string          `json:"status"`
	LoadKg        decimal.Decimal `json:"loadKg"`
	PickupStart   time.Time       `json:"pickupStart"`
	PickupEnd     time.Time       `json:"pickupEnd"`
}

type escrowResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
}

type contractResponse struct {
	ID            string                 `json:"id"`
	OrderID       string                 `json:"orderId"`
	BuyerID       string                 `json:"buyerId"`
	CooperativeID string                 `json:"cooperativeId"`
	TrackingID    string                 `json:"trackingId"`
	AgreedPrice   decimal.Decimal        `json:"agreedPrice"`
	Status        string                 `json:"status"`
	CreatedAt     time.Time              `json:"createdAt"`
	Lots          []contractLotResponse  `json:"lots"`
	Transport     []transportLegResponse `json:"transport"`
	Escrow        *escrowResponse        `json:"escrow,omitempty"`
}

type lotSuggestionResponse struct {
	LotID               string          `json:"lotId"`
	FarmerID            string          `json:"farmerId"`
	AvailableKg         decimal.Decimal `json:"availableKg"`
	QualityGrade        string          `json:"qualityGrade"`
	ExpectedHarvestDate time.Time       `json:"expectedHarvestDate"`
}

type transporterJobResponse struct {
	RequestID   string          `json:"requestId"`
	ContractID  *string         `json:"contractId,omitempty"`
	TrackingID  string          `json:"trackingId"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	LoadKg      decimal.Decimal `json:"loadKg"`
	Price       decimal.Decimal `json:"price"`
	PickupStart time.Time       `json:"pickupStart"`
	PickupEnd   time.Time       `json:"pickupEnd"`
	Status      string          `json:"status"`
}

type farmerBalanceResponse struct {
	ID                   string          `json:"id"`
	ContractID           string          `json:"contractId"`
	TrackingID           string          `json:"trackingId"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status"`
	Method               string          `json:"method"`
	Reference            string          `json:"reference"`
	TransactionReference string          `json:"transactionReference,omitempty"`
	FailureReason        string          `json:"failureReason,omitempty"`
	PaidAt               *time.Time      `json:"paidAt,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

type farmerBalancesResponse struct {
	Balances     []farmerBalanceResponse `json:"balances"`
	PendingTotal decimal.Decimal         `json:"pendingTotal"`
	PaidTotal    decimal.Decimal         `json:"paidTotal"`
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toContractResponse(v *queries.GetContractQueryResponse) contractResponse {
	resp := contractResponse{
		ID:            v.ID.String(),
		OrderID:       v.OrderID.String(),
		BuyerID:       v.BuyerID.String(),
		CooperativeID: v.CooperativeID.String(),
		TrackingID:    v.TrackingID,
		AgreedPrice:   v.AgreedPrice,
		Status:        v.Status.String(),
		CreatedAt:     v.CreatedAt,
		Lots:          make([]contractLotResponse, 0, len(v.Lots)),
		Transport:     make([]transportLegResponse, 0, len(v.Transport)),
	}
	for _, l := range v.Lots {
		resp.Lots = append(resp.Lots, contractLotResponse{
			LotID:        l.LotID.String(),
			FarmerID:     l.FarmerID.String(),
			QuantityKg:   l.QuantityKg,
			Crop:         l.Crop,
			QualityGrade: l.QualityGrade,
		})
	}
	for _, t := range v.Transport {
		resp.Transport = append(resp.Transport, transportLegResponse{
			ID:            t.ID.String(),
			TransporterID: idString(t.TransporterID),
			Status:        t.Status.String(),
			LoadKg:        t.LoadKg,
			PickupStart:   t.PickupStart,
			PickupEnd:     t.PickupEnd,
		})
	}
	if v.Escrow != nil {
		resp.Escrow = &escrowResponse{
			ID:        v.Escrow.ID.String(),
			Amount:    v.Escrow.Amount,
			Status:    v.Escrow.Status.String(),
			Reference: v.Escrow.Reference,
		}
	}
	return resp
}

func toLotSuggestions(rows []queries.SuggestLotsQueryResponse) []lotSuggestionResponse {
	out := make([]lotSuggestionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, lotSuggestionResponse{
			LotID:               r.LotID.String(),
			FarmerID:            r.FarmerID.String(),
			AvailableKg:         r.AvailableKg,
			QualityGrade:        r.QualityGrade,
			ExpectedHarvestDate: r.ExpectedHarvestDate,
		})
	}
	return out
}

func toTransporterJobs(rows []queries.GetTransporterJobsQueryResponse) []transporterJobResponse {
	out := make([]transporterJobResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, transporterJobResponse{
			RequestID:   r.RequestID.String(),
			ContractID:  idString(r.ContractID),
			TrackingID:  r.TrackingID,
			Origin:      r.Origin,
			Destination: r.Destination,
			LoadKg:      r.LoadKg,
			Price:       r.Price,
			PickupStart: r.PickupStart,
			PickupEnd:   r.PickupEnd,
			Status:      r.Status.String(),
		})
	}
	return out
}

func toFarmerBalances(v *queries.GetFarmerBalancesQueryResponse) farmerBalancesResponse {
	resp := farmerBalancesResponse{
		Balances:     make([]farmerBalanceResponse, 0, len(v.Balances)),
		PendingTotal: v.PendingTotal,
		PaidTotal:    v.PaidTotal,
	}
	for _, b := range v.Balances {
		resp.Balances = append(resp.Balances, farmerBalanceResponse{
			ID:                   b.ID.String(),
			ContractID:           b.ContractID.String(),
			TrackingID:           b.TrackingID,
			Amount:               b.Amount,
			Status:               b.Status.String(),
			Method:               b.Method.String(),
			Reference:            b.Reference,
			TransactionReference: b.TransactionReference,
			FailureReason:        b.FailureReason,
			PaidAt:               b.PaidAt,
			CreatedAt:            b.CreatedAt,
		})
	}
	return resp
}
