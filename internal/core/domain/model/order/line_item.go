package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxQuantity = 10_000

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product line of an order. Line items never change after the
// order is created.
type LineItem struct {
	productRef string
	quantity   int
	unitPrice  kernel.Money

	guard guard.ConstructorGuard
}

// NewLineItem validates a product line: the product reference is required,
// quantity is in [1, 10000] and the unit price is not negative.
func NewLineItem(productRef string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	item := LineItem{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductRef(productRef),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) ProductRef() string {
	return i.productRef
}

func (i LineItem) Quantity() int {
	return i.quantity
}

func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is quantity * unitPrice. It fails instead of overflowing.
func (i LineItem) Subtotal() (kernel.Money, error) {
	if i.unitPrice > 0 && int64(i.quantity) > math.MaxInt64/int64(i.unitPrice) {
		return 0, errs.NewValueIsOutOfRangeError("subtotal", fmt.Sprintf("%d x %d", i.quantity, i.unitPrice), 0, int64(math.MaxInt64))
	}
	return kernel.Money(int64(i.quantity) * int64(i.unitPrice)), nil
}

func (i *LineItem) setProductRef(productRef string) error {
	productRef = strings.TrimSpace(productRef)
	if productRef == "" {
		return errs.NewValueIsRequiredError("productRef")
	}
	i.productRef = productRef
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity < 1 || quantity > maxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return err
	}
	i.unitPrice = unitPrice
	return nil
}
