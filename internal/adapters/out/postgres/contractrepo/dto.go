// Package contractrepo persists contracts together with the lots bound to them.
package contractrepo

import (
	"time"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractDTO is the contracts row. OrderID is unique: an order yields at most one contract.
type ContractDTO struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	BuyerID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	CooperativeID uuid.UUID        `gorm:"type:uuid;not null;index"`
	TrackingID    string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	AgreedPrice   decimal.Decimal  `gorm:"type:numeric(20,4);not null"`
	Status        int              `gorm:"type:smallint;not null;index"`
	CreatedAt     time.Time        `gorm:"type:timestamptz;not null"`
	Lots          []ContractLotDTO `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
}

func (ContractDTO) TableName() string {
	return "contracts"
}

// ContractLotDTO links a contract to one lot. Position preserves attach order.
type ContractLotDTO struct {
	ContractID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LotID      uuid.UUID       `gorm:"type:uuid;primaryKey;index"`
	FarmerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityKg decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	Position   int             `gorm:"type:smallint;not null"`
}

func (ContractLotDTO) TableName() string {
	return "contract_lots"
}

func fromDomain(c *contract.Contract) ContractDTO {
	contractID := c.ID().Bytes()
	lots := make([]ContractLotDTO, 0, len(c.Lots()))
	for _, cl := range c.Lots() {
		lots = append(lots, ContractLotDTO{
			ContractID: contractID,
			LotID:      cl.LotID().Bytes(),
			FarmerID:   cl.FarmerID().Bytes(),
			QuantityKg: cl.QuantityKg(),
			Position:   cl.Position(),
		})
	}

	return ContractDTO{
		ID:            contractID,
		OrderID:       c.OrderID().Bytes(),
		BuyerID:       c.BuyerID().Bytes(),
		CooperativeID: c.CooperativeID().Bytes(),
		TrackingID:    c.TrackingID(),
		AgreedPrice:   c.AgreedPrice(),
		Status:        int(c.Status()),
		CreatedAt:     c.CreatedAt(),
		Lots:          lots,
	}
}

func toDomain(dto ContractDTO) (*contract.Contract, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	cooperativeID, err := kernel.UUIDFromBytes(dto.CooperativeID[:])
	if err != nil {
		return nil, err
	}

	lots := make([]contract.ContractLot, 0, len(dto.Lots))
	for _, lotDTO := range dto.Lots {
		cl, lotErr := contractLotToDomain(lotDTO)
		if lotErr != nil {
			return nil, lotErr
		}
		lots = append(lots, cl)
	}

	return contract.RestoreContract(contract.Params{
		ID:            id,
		OrderID:       orderID,
		BuyerID:       buyerID,
		CooperativeID: cooperativeID,
		TrackingID:    dto.TrackingID,
		AgreedPrice:   dto.AgreedPrice,
		Lots:          lots,
	}, contract.Status(dto.Status), dto.CreatedAt)
}

func contractLotToDomain(dto ContractLotDTO) (contract.ContractLot, error) {
	lotID, err := kernel.UUIDFromBytes(dto.LotID[:])
	if err != nil {
		return contract.ContractLot{}, err
	}
	farmerID, err := kernel.UUIDFromBytes(dto.FarmerID[:])
	if err != nil {
		return contract.ContractLot{}, err
	}
	return contract.NewContractLot(lotID, farmerID, dto.QuantityKg, dto.Position)
}
