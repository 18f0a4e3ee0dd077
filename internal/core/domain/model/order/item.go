package order

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item was not created via
// NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem constructor")

// Item is a line-item snapshot captured at order time: title, unit price, and
// quantity as they were in the catalog at that moment, not a live catalog
// reference. Invariant: lineTotal = unitPrice * quantity.
type Item struct {
	title     string
	unitPrice kernel.Money
	quantity  int
	lineTotal kernel.Money

	isConstructed bool
}

// NewItem creates a line-item snapshot, computing the line total from unit
// price and quantity.
func NewItem(title string, unitPrice kernel.Money, quantity int) (Item, error) {
	if title == "" {
		return Item{}, errs.NewValueIsRequiredError("item title")
	}
	if err := unitPrice.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	lineTotal, err := kernel.NewMoneyFromCents(unitPrice.Cents() * int64(quantity))
	if err != nil {
		return Item{}, err
	}

	return Item{
		title:         title,
		unitPrice:     unitPrice,
		quantity:      quantity,
		lineTotal:     lineTotal,
		isConstructed: true,
	}, nil
}

// RestoreItem reconstructs a line item from persistence, re-checking the
// line-total invariant so corrupted rows surface at load time.
func RestoreItem(title string, unitPrice kernel.Money, quantity int, lineTotal kernel.Money) (Item, error) {
	item, err := NewItem(title, unitPrice, quantity)
	if err != nil {
		return Item{}, err
	}

	if err := lineTotal.Validate(); err != nil {
		return Item{}, err
	}
	if !item.lineTotal.IsEqual(lineTotal) {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"line total",
			fmt.Errorf("stored %s does not equal %s * %d", lineTotal, unitPrice, quantity),
		)
	}

	return item, nil
}

// Validate ensures the item was created through a constructor.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// Title returns the catalog title as it was at order time.
func (i Item) Title() string {
	return i.title
}

// UnitPrice returns the unit price snapshot.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// LineTotal returns unitPrice * quantity.
func (i Item) LineTotal() kernel.Money {
	return i.lineTotal
}
