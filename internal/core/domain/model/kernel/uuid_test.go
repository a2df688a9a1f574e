package kernel_test

import (
	"encoding/json"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderIDText = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID_IsValidAndRandom(t *testing.T) {
	first, second := kernel.NewUUID(), kernel.NewUUID()

	require.NoError(t, first.Validate())
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, first.String())
	assert.False(t, first.IsEqual(second))
}

func TestUUIDFromString_AcceptedForms(t *testing.T) {
	for name, input := range map[string]string{
		"canonical": orderIDText,
		"braced":    "{" + orderIDText + "}",
		"urn":       "urn:uuid:" + orderIDText,
		"compact":   "550e8400e29b41d4a716446655440000",
	} {
		t.Run(name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err)
			assert.Equal(t, orderIDText, id.String())
		})
	}
}

func TestUUIDFromString_Rejects(t *testing.T) {
	for _, input := range []string{"", "order-42", "550e8400-e29b-41d4-a716", orderIDText + "-1", "550e8400-e29b-41d4-a716-44665544000g"} {
		_, err := kernel.UUIDFromString(input)
		assert.ErrorContains(t, err, "invalid UUID format", "input %q", input)
	}

	_, err := kernel.UUIDFromString(uuid.Nil.String())
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed, "the nil id is never an actor or entity")
}

func TestUUIDFromBytes_MatchesStorageForm(t *testing.T) {
	stored := uuid.MustParse(orderIDText)

	id, err := kernel.UUIDFromBytes(stored[:])
	require.NoError(t, err)
	assert.Equal(t, stored, id.Bytes())

	_, err = kernel.UUIDFromBytes(stored[:8])
	assert.ErrorContains(t, err, "invalid UUID format")

	_, err = kernel.UUIDFromBytes(make([]byte, 16))
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_ZeroValueIsNotConstructed(t *testing.T) {
	var actorID kernel.UUID

	assert.ErrorIs(t, actorID.Validate(), kernel.ErrUUIDIsNotConstructed)
	assert.True(t, actorID.IsEqual(kernel.UUID{}))
	assert.False(t, actorID.IsEqual(kernel.NewUUID()))
}

func TestUUID_BytesReturnsACopy(t *testing.T) {
	id := kernel.MustUUIDFromString(orderIDText)

	raw := id.Bytes()
	raw[0] = 0xFF

	assert.Equal(t, orderIDText, id.String())
}

func TestUUID_TextMarshalling(t *testing.T) {
	type payload struct {
		OrderID kernel.UUID `json:"orderId"`
	}
	id := kernel.MustUUIDFromString(orderIDText)

	raw, err := json.Marshal(payload{OrderID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":"`+orderIDText+`"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, id.IsEqual(decoded.OrderID))

	var garbage kernel.UUID
	assert.Error(t, garbage.UnmarshalText([]byte("nope")))
	assert.Panics(t, func() { kernel.MustUUIDFromString("nope") })
}
