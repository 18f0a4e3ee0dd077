package earningrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEarningRepository implements EarningRepository using GORM.
// Requires the connection to be opened with TranslateError so a violated
// unique index surfaces as gorm.ErrDuplicatedKey.
type GormEarningRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEarningRepository creates a new GORM earning repository.
func NewGormEarningRepository(db *gorm.DB, tracker aggregateTracker) *GormEarningRepository {
	return &GormEarningRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new earning. A duplicate for the same order violates the
// unique index and is reported as earning.ErrPayoutAlreadyComputed.
func (r *GormEarningRepository) Add(ctx context.Context, aggregate *earning.Earning) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return earning.ErrPayoutAlreadyComputed
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByOrderID retrieves the earning recorded for an order.
func (r *GormEarningRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*earning.Earning, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto EarningDTO
	err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("earning", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
