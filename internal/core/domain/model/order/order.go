package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrAlreadyClaimed indicates another rider already won the claim for a
	// ready order.
	ErrAlreadyClaimed = errors.New("order was already claimed by another rider")

	// ErrNotClaimable indicates the order is not in ReadyForPickup, so there
	// is nothing to claim. Cancelled and delivered orders report this rather
	// than ErrTerminalState, because the caller asked specifically for
	// custody, not a generic transition.
	ErrNotClaimable = errors.New("order is not claimable")

	// ErrTotalMismatch indicates the stored total does not equal
	// subtotal + delivery fee + tip.
	ErrTotalMismatch = errors.New("total must equal subtotal + delivery fee + tip")
)

// Order is the aggregate root for the order lifecycle. It is the single
// authoritative record racing actors mutate: customer, restaurant, rider, and
// admin requests and the external payment signal all resolve against its
// status and riderID.
//
// Invariants:
//   - total = subtotal + deliveryFee + tip, fixed at creation
//   - status changes only through the transition table (TransitionTo, ClaimBy,
//     Cancel, CancelForPaymentFailure)
//   - each lifecycle timestamp is set exactly once, monotonically
//   - riderID is set exactly once, by the winning claim
//
// The struct uses private fields so every mutation funnels through validated
// methods. Persistence reconstructs instances via RestoreOrder.
type Order struct {
	id           kernel.UUID
	code         string
	customerID   kernel.UUID
	restaurantID kernel.UUID
	riderID      *kernel.UUID

	status           Status
	paymentRef       string
	paymentConfirmed bool
	cancelReason     string

	subtotal    kernel.Money
	deliveryFee kernel.Money
	tip         kernel.Money
	total       kernel.Money

	address Address
	items   []Item

	createdAt   time.Time
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates an order in Pending status. The total is computed from
// subtotal, delivery fee, and tip, which fixes the money invariant forever.
// The address and items are snapshots owned by the order from here on.
//
// paymentRef is the idempotency key of the charge initiated by the
// out-of-scope checkout flow; the payment confirmation handler correlates
// asynchronous provider signals through it.
func NewOrder(
	id kernel.UUID,
	code string,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	paymentRef string,
	subtotal kernel.Money,
	deliveryFee kernel.Money,
	tip kernel.Money,
	address Address,
	items []Item,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setPaymentRef(paymentRef),
		o.setMoney(subtotal, deliveryFee, tip),
		o.setAddress(address),
		o.setItems(items),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence. Unlike NewOrder it
// accepts the full lifecycle state, and re-validates the invariants so
// corrupted rows surface at load time instead of propagating.
func RestoreOrder(
	id kernel.UUID,
	code string,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	riderID *kernel.UUID,
	status Status,
	paymentRef string,
	paymentConfirmed bool,
	cancelReason string,
	subtotal kernel.Money,
	deliveryFee kernel.Money,
	tip kernel.Money,
	total kernel.Money,
	address Address,
	items []Item,
	createdAt time.Time,
	assignedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o, err := NewOrder(
		id, code, customerID, restaurantID, paymentRef,
		subtotal, deliveryFee, tip, address, items, createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := total.Validate(); err != nil {
		return nil, err
	}
	if !o.total.IsEqual(total) {
		return nil, fmt.Errorf("%w: stored total is %s, parts sum to %s",
			ErrTotalMismatch, total, o.total)
	}
	if err := validateCanHaveRider(status, riderID != nil); err != nil {
		return nil, err
	}
	if riderID != nil {
		if err := riderID.Validate(); err != nil {
			return nil, err
		}
		rid := *riderID
		o.riderID = &rid
	}

	o.status = status
	o.paymentConfirmed = paymentConfirmed
	o.cancelReason = cancelReason
	o.assignedAt = copyTime(assignedAt)
	o.pickedUpAt = copyTime(pickedUpAt)
	o.deliveredAt = copyTime(deliveredAt)

	return o, nil
}

// validateCanHaveRider enforces consistency between status and rider
// assignment: custody states require a rider, earlier states forbid one.
// Cancelled orders may carry a rider (admin override after pickup) or not.
func validateCanHaveRider(status Status, hasRider bool) error {
	switch status {
	case PickedUp, Delivered:
		if !hasRider {
			return errs.NewValueIsInvalidErrorWithCause(
				"rider",
				fmt.Errorf("%s order must have a rider", status),
			)
		}
	case Pending, Preparing, ReadyForPickup:
		if hasRider {
			return errs.NewValueIsInvalidErrorWithCause(
				"rider",
				fmt.Errorf("%s order must not have a rider", status),
			)
		}
	case Cancelled:
	default:
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Code returns the human-readable order code, e.g. "ORD-20260831-0042".
func (o *Order) Code() string {
	return o.code
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the restaurant preparing the order.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Rider returns the assigned rider's ID, or nil before a successful claim.
func (o *Order) Rider() *kernel.UUID {
	return o.riderID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentRef returns the idempotency key of the external charge.
func (o *Order) PaymentRef() string {
	return o.paymentRef
}

// PaymentConfirmed reports whether a verified success signal has been applied.
func (o *Order) PaymentConfirmed() bool {
	return o.paymentConfirmed
}

// CancelReason returns the audit reason recorded at cancellation, if any.
func (o *Order) CancelReason() string {
	return o.cancelReason
}

// Subtotal returns the items subtotal fixed at creation.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// DeliveryFee returns the delivery fee fixed at creation.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// Tip returns the tip fixed at creation.
func (o *Order) Tip() kernel.Money {
	return o.tip
}

// Total returns subtotal + delivery fee + tip.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Address returns the delivery-address snapshot.
func (o *Order) Address() Address {
	return o.address
}

// Items returns a copy of the line-item snapshots.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AssignedAt returns when a rider won the claim, or nil.
func (o *Order) AssignedAt() *time.Time {
	return copyTime(o.assignedAt)
}

// PickedUpAt returns when the rider took custody, or nil.
func (o *Order) PickedUpAt() *time.Time {
	return copyTime(o.pickedUpAt)
}

// DeliveredAt returns when the order reached the customer, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return copyTime(o.deliveredAt)
}

// TransitionTo applies one lifecycle transition requested by an actor.
// Legality and authority come from the transition table; terminal states,
// illegal edges, and unauthorized roles fail with their distinct errors.
//
// Two edges carry extra rules beyond the table:
//   - ReadyForPickup -> PickedUp delegates to ClaimBy: the acting rider
//     becomes the order's rider, and the claim races through the
//     conditional write at the store
//   - PickedUp -> Delivered by a rider requires the acting rider to be the
//     one recorded on the order
//
// The corresponding timestamp is stamped with at, exactly once.
func (o *Order) TransitionTo(to Status, actorID kernel.UUID, role Role, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actorID.Validate(); err != nil {
		return err
	}

	if err := CanTransition(o.status, to, role); err != nil {
		return err
	}

	switch to {
	case PickedUp:
		return o.ClaimBy(actorID, at)
	case Delivered:
		if role == RoleRider && (o.riderID == nil || !o.riderID.IsEqual(actorID)) {
			return fmt.Errorf("%w: only the assigned rider may mark the order delivered",
				ErrUnauthorized)
		}
		o.status = Delivered
		if o.deliveredAt == nil {
			stamp := at
			o.deliveredAt = &stamp
		}
	default:
		o.status = to
	}

	return nil
}

// Cancel moves the order to Cancelled through the transition table and
// records an audit reason. Admin override cancellations use this with the
// RoleAdmin edges of the table.
func (o *Order) Cancel(actorID kernel.UUID, role Role, reason string, at time.Time) error {
	if err := o.TransitionTo(Cancelled, actorID, role, at); err != nil {
		return err
	}
	if o.cancelReason == "" {
		o.cancelReason = reason
	}
	return nil
}

// ClaimBy is the domain half of the rider claim: it validates that the order
// is claimable and records the winning rider. The race itself is arbitrated
// by the store's conditional write; a loser whose in-memory claim succeeded
// here will fail that write and be reclassified.
func (o *Order) ClaimBy(riderID kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := riderID.Validate(); err != nil {
		return err
	}

	if o.status != ReadyForPickup || o.riderID != nil {
		// A cancelled order is never claimable, even when a rider had
		// custody before an admin override.
		if o.riderID != nil && o.status != Cancelled {
			return fmt.Errorf("%w: order is held by rider %s", ErrAlreadyClaimed, o.riderID)
		}
		return fmt.Errorf("%w: current status is %s", ErrNotClaimable, o.status)
	}

	stamp := at
	o.riderID = &riderID
	o.status = PickedUp
	if o.assignedAt == nil {
		o.assignedAt = &stamp
	}
	if o.pickedUpAt == nil {
		o.pickedUpAt = &stamp
	}

	return nil
}

// ConfirmPayment applies a verified success signal from the payment provider.
// It returns true if the confirmation changed state, false if it was a
// replay; replays must not re-trigger downstream side effects.
func (o *Order) ConfirmPayment() bool {
	if o.paymentConfirmed {
		return false
	}
	o.paymentConfirmed = true
	return true
}

// CancelForPaymentFailure applies a verified failure signal: a not-yet
// cancelled order moves to Cancelled with the given audit reason. An already
// cancelled order is a no-op. A delivered order cannot be cancelled and
// reports ErrTerminalState.
func (o *Order) CancelForPaymentFailure(reason string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.status == Cancelled {
		return nil
	}
	if o.status == Delivered {
		return fmt.Errorf("%w: current status is %s", ErrTerminalState, o.status)
	}

	o.status = Cancelled
	if o.cancelReason == "" {
		o.cancelReason = reason
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("order code")
	}
	o.code = code
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	o.restaurantID = restaurantID
	return nil
}

func (o *Order) setPaymentRef(paymentRef string) error {
	if paymentRef == "" {
		return errs.NewValueIsRequiredError("payment reference")
	}
	o.paymentRef = paymentRef
	return nil
}

func (o *Order) setMoney(subtotal, deliveryFee, tip kernel.Money) error {
	if err := errors.Join(
		subtotal.Validate(),
		deliveryFee.Validate(),
		tip.Validate(),
	); err != nil {
		return err
	}

	total, err := subtotal.Add(deliveryFee)
	if err != nil {
		return err
	}
	total, err = total.Add(tip)
	if err != nil {
		return err
	}

	o.subtotal = subtotal
	o.deliveryFee = deliveryFee
	o.tip = tip
	o.total = total
	return nil
}

func (o *Order) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = createdAt
	return nil
}
