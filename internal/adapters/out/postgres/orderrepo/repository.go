package orderrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
//
// The lifecycle writes are conditional updates: each carries a WHERE clause
// on the state the caller loaded, and a zero-row result is reported as
// ports.ErrConcurrentModification so the caller can re-read and classify.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its line items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its line items by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByPaymentRef retrieves the order correlated with an external charge.
func (r *GormOrderRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*order.Order, error) {
	if paymentRef == "" {
		return nil, errs.NewValueIsRequiredError("paymentRef")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "payment_ref = ?", paymentRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", paymentRef)
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateFromStatus persists the aggregate's lifecycle state conditionally on
// the status it was loaded with. Line items are immutable and not touched.
func (r *GormOrderRepository) UpdateFromStatus(ctx context.Context, aggregate *order.Order, from order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(from)).
		Updates(map[string]any{
			"status":            dto.Status,
			"rider_id":          dto.RiderID,
			"payment_confirmed": dto.PaymentConfirmed,
			"cancel_reason":     dto.CancelReason,
			"assigned_at":       dto.AssignedAt,
			"picked_up_at":      dto.PickedUpAt,
			"delivered_at":      dto.DeliveredAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrConcurrentModification
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Claim persists a rider claim through a single atomic conditional write.
// The WHERE clause only matches a ready, unassigned order, so the row itself
// arbitrates the race: exactly one concurrent claimant gets RowsAffected 1.
func (r *GormOrderRepository) Claim(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND rider_id IS NULL", dto.ID, int(order.ReadyForPickup)).
		Updates(map[string]any{
			"status":       dto.Status,
			"rider_id":     dto.RiderID,
			"assigned_at":  dto.AssignedAt,
			"picked_up_at": dto.PickedUpAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrConcurrentModification
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// ConfirmPayment persists the payment confirmation flag conditionally on it
// being unset, making replays observable instead of silently idempotent.
func (r *GormOrderRepository) ConfirmPayment(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND payment_confirmed = ?", aggregate.ID().Bytes(), false).
		Update("payment_confirmed", true)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrConcurrentModification
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetDeliveredWithoutEarning retrieves delivered orders that have no earning
// recorded yet. Feeds the payout retry job.
func (r *GormOrderRepository) GetDeliveredWithoutEarning(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Joins("LEFT JOIN earnings ON earnings.order_id = orders.id").
		Where("orders.status = ? AND earnings.id IS NULL", int(order.Delivered)).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}
