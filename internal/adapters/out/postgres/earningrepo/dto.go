// Package earningrepo provides data transfer objects and mapping functions
// for earning persistence. The unique index on the order reference is the
// load-bearing part: it is what makes payout computation exactly-once.
package earningrepo

import (
	"time"

	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EarningDTO represents the database structure for persisting earnings.
// One earning per order, enforced by the database.
type EarningDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	RiderID     uuid.UUID `gorm:"type:uuid;index"`
	AmountCents int64
	Basis       string
	CreatedAt   time.Time
}

// TableName specifies the database table name for earnings.
func (EarningDTO) TableName() string {
	return "earnings"
}

// fromDomain converts an earning aggregate to its database representation.
func fromDomain(aggregate *earning.Earning) EarningDTO {
	return EarningDTO{
		ID:          aggregate.ID().Bytes(),
		OrderID:     aggregate.OrderID().Bytes(),
		RiderID:     aggregate.RiderID().Bytes(),
		AmountCents: aggregate.Amount().Cents(),
		Basis:       aggregate.Basis(),
		CreatedAt:   aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to an earning aggregate.
func toDomain(dto EarningDTO) (*earning.Earning, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	riderID, err := kernel.UUIDFromBytes(dto.RiderID[:])
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewMoneyFromCents(dto.AmountCents)
	if err != nil {
		return nil, err
	}

	return earning.RestoreEarning(id, orderID, riderID, amount, dto.Basis, dto.CreatedAt)
}
