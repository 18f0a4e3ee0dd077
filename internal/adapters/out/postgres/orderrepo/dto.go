// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The status and rider columns carry the conditional-write conditions that
// arbitrate concurrent transitions and claims. Amounts are integer cents.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code             string     `gorm:"uniqueIndex"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;index"`
	RestaurantID     uuid.UUID  `gorm:"type:uuid;index"`
	RiderID          *uuid.UUID `gorm:"type:uuid;index"`
	Status           int        `gorm:"index"`
	PaymentRef       string     `gorm:"uniqueIndex"`
	PaymentConfirmed bool
	CancelReason     string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TipCents         int64
	TotalCents       int64
	Address          AddressDTO     `gorm:"embedded;embeddedPrefix:address_"`
	Items            []OrderItemDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
	AssignedAt       *time.Time
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded delivery address snapshot within the
// order table.
type AddressDTO struct {
	Street     string
	City       string
	PostalCode string
}

// OrderItemDTO represents one line item of an order. Items are immutable
// snapshots written once at order creation.
type OrderItemDTO struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Title          string
	UnitPriceCents int64
	Quantity       int
	LineTotalCents int64
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var riderID *uuid.UUID
	if id := aggregate.Rider(); id != nil {
		raw := id.Bytes()
		riderID = &raw
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:        aggregate.ID().Bytes(),
			Title:          item.Title(),
			UnitPriceCents: item.UnitPrice().Cents(),
			Quantity:       item.Quantity(),
			LineTotalCents: item.LineTotal().Cents(),
		})
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		Code:             aggregate.Code(),
		CustomerID:       aggregate.CustomerID().Bytes(),
		RestaurantID:     aggregate.RestaurantID().Bytes(),
		RiderID:          riderID,
		Status:           int(aggregate.Status()),
		PaymentRef:       aggregate.PaymentRef(),
		PaymentConfirmed: aggregate.PaymentConfirmed(),
		CancelReason:     aggregate.CancelReason(),
		SubtotalCents:    aggregate.Subtotal().Cents(),
		DeliveryFeeCents: aggregate.DeliveryFee().Cents(),
		TipCents:         aggregate.Tip().Cents(),
		TotalCents:       aggregate.Total().Cents(),
		Address: AddressDTO{
			Street:     aggregate.Address().Street(),
			City:       aggregate.Address().City(),
			PostalCode: aggregate.Address().PostalCode(),
		},
		Items:       items,
		CreatedAt:   aggregate.CreatedAt(),
		AssignedAt:  aggregate.AssignedAt(),
		PickedUpAt:  aggregate.PickedUpAt(),
		DeliveredAt: aggregate.DeliveredAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, which re-validates the stored invariants.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		riderID = &rID
	}

	subtotal, err := kernel.NewMoneyFromCents(dto.SubtotalCents)
	if err != nil {
		return nil, err
	}
	deliveryFee, err := kernel.NewMoneyFromCents(dto.DeliveryFeeCents)
	if err != nil {
		return nil, err
	}
	tip, err := kernel.NewMoneyFromCents(dto.TipCents)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoneyFromCents(dto.TotalCents)
	if err != nil {
		return nil, err
	}

	address, err := order.NewAddress(dto.Address.Street, dto.Address.City, dto.Address.PostalCode)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		unitPrice, priceErr := kernel.NewMoneyFromCents(itemDTO.UnitPriceCents)
		if priceErr != nil {
			return nil, priceErr
		}
		lineTotal, totalErr := kernel.NewMoneyFromCents(itemDTO.LineTotalCents)
		if totalErr != nil {
			return nil, totalErr
		}
		item, itemErr := order.RestoreItem(itemDTO.Title, unitPrice, itemDTO.Quantity, lineTotal)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		dto.Code,
		customerID,
		restaurantID,
		riderID,
		order.Status(dto.Status),
		dto.PaymentRef,
		dto.PaymentConfirmed,
		dto.CancelReason,
		subtotal,
		deliveryFee,
		tip,
		total,
		address,
		items,
		dto.CreatedAt,
		dto.AssignedAt,
		dto.PickedUpAt,
		dto.DeliveredAt,
	)
}
