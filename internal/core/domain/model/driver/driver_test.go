package driver_test

import (
	"strings"
	"testing"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriver(t *testing.T) {
	t.Run("should create available driver", func(t *testing.T) {
		id := kernel.NewUUID()

		d, err := driver.NewDriver(id, " Awa ", " Plateau ")

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.True(t, d.ID().IsEqual(id))
		assert.Equal(t, "Awa", d.Name())
		assert.Equal(t, "plateau", d.Zone())
		assert.Equal(t, driver.Available, d.Status())
		assert.Nil(t, d.OrderID())
	})

	t.Run("should fail with empty name and invalid id", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.UUID{}, "  ", "")

		require.ErrorIs(t, err, driver.ErrNameIsRequired)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should fail with overlong name", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.NewUUID(), strings.Repeat("a", 256), "")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestDriver_AssignRelease(t *testing.T) {
	t.Run("driver carries one order at a time", func(t *testing.T) {
		d, _ := driver.NewDriver(kernel.NewUUID(), "Awa", "")
		first := kernel.NewUUID()

		require.NoError(t, d.Assign(first))
		assert.Equal(t, driver.Occupied, d.Status())
		assert.True(t, d.OrderID().IsEqual(first))

		err := d.Assign(kernel.NewUUID())
		require.ErrorIs(t, err, errs.ErrDriverUnavailable)
		assert.True(t, d.OrderID().IsEqual(first))
	})

	t.Run("release frees the driver", func(t *testing.T) {
		d, _ := driver.NewDriver(kernel.NewUUID(), "Awa", "")
		orderID := kernel.NewUUID()
		require.NoError(t, d.Assign(orderID))

		require.NoError(t, d.Release(orderID))

		assert.True(t, d.IsAvailable())
		assert.Nil(t, d.OrderID())
	})

	t.Run("release from another order fails", func(t *testing.T) {
		d, _ := driver.NewDriver(kernel.NewUUID(), "Awa", "")
		require.NoError(t, d.Assign(kernel.NewUUID()))

		require.ErrorIs(t, d.Release(kernel.NewUUID()), driver.ErrOrderNotHeld)
		assert.Equal(t, driver.Occupied, d.Status())
	})
}

func TestDriver_ServesZone(t *testing.T) {
	local, _ := driver.NewDriver(kernel.NewUUID(), "Awa", "plateau")
	roaming, _ := driver.NewDriver(kernel.NewUUID(), "Moussa", "")

	assert.True(t, local.ServesZone("Plateau"))
	assert.True(t, local.ServesZone(""))
	assert.False(t, local.ServesZone("medina"))
	assert.True(t, roaming.ServesZone("medina"))
}

func TestRestoreDriver(t *testing.T) {
	t.Run("restores occupied driver", func(t *testing.T) {
		orderID := kernel.NewUUID()

		d, err := driver.RestoreDriver(kernel.NewUUID(), "Awa", "plateau", driver.Occupied, &orderID, 4)

		require.NoError(t, err)
		assert.Equal(t, 4, d.Version())
		assert.True(t, d.OrderID().IsEqual(orderID))
	})

	t.Run("refuses occupied driver without order", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "Awa", "", driver.Occupied, nil, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("refuses unknown status", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "Awa", "", driver.UnknownStatus, nil, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
