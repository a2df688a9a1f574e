package commands_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"

	"github.com/stretchr/testify/require"
)

type parties struct {
	client      kernel.UUID
	distributor kernel.UUID
	driver      kernel.UUID
}

func newParties() parties {
	return parties{client: kernel.NewUUID(), distributor: kernel.NewUUID(), driver: kernel.NewUUID()}
}

func lineItems(t *testing.T) []order.LineItem {
	t.Helper()
	rice, err := order.NewLineItem("rice-25kg", 2, 5000)
	require.NoError(t, err)
	oil, err := order.NewLineItem("oil-5l", 1, 2500)
	require.NoError(t, err)
	return []order.LineItem{rice, oil}
}

func pendingOrder(t *testing.T, p parties, isDelivery bool) *order.Order {
	t.Helper()
	var fee kernel.Money
	if isDelivery {
		fee = 2000
	}
	o, err := order.NewOrder(kernel.NewUUID(), p.client, p.distributor, isDelivery, lineItems(t), fee, fixedNow)
	require.NoError(t, err)
	return o
}

func confirmedOrder(t *testing.T, p parties, isDelivery bool) *order.Order {
	t.Helper()
	o := pendingOrder(t, p, isDelivery)
	require.NoError(t, o.Accept(p.distributor, fixedNow))
	o.ClearDomainEvents()
	return o
}

func inDeliveryOrder(t *testing.T, p parties) *order.Order {
	t.Helper()
	o := confirmedOrder(t, p, true)
	require.NoError(t, o.AssignDriver(p.distributor, p.driver, fixedNow))
	o.ClearDomainEvents()
	return o
}

func issuedCode(t *testing.T, orderID kernel.UUID, value string, role validationcode.Role) *validationcode.Code {
	t.Helper()
	c, err := validationcode.NewCode(kernel.NewUUID(), orderID, value, role, fixedNow)
	require.NoError(t, err)
	return c
}

func occupiedDriver(t *testing.T, id, orderID kernel.UUID) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(id, "Awa Diop", "plateau")
	require.NoError(t, err)
	require.NoError(t, d.Assign(orderID))
	return d
}
