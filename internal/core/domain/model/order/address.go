package order

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address was not created via
// the NewAddress constructor.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is the delivery-address snapshot copied onto the order at creation
// time. It is a value object, never a live reference to the customer's
// address book, so later address edits do not retroactively alter history.
type Address struct {
	street     string
	city       string
	postalCode string

	guard guard.ConstructorGuard
}

// NewAddress creates a validated address snapshot.
// Street and city are required; postal code is optional.
func NewAddress(street, city, postalCode string) (Address, error) {
	address := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		address.setStreet(street),
		address.setCity(city),
	); err != nil {
		return Address{}, err
	}

	address.postalCode = postalCode
	return address, nil
}

// Validate ensures the address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the snapshot.
func (a Address) Street() string {
	return a.street
}

// City returns the city of the snapshot.
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code of the snapshot, possibly empty.
func (a Address) PostalCode() string {
	return a.postalCode
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}
