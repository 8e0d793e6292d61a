package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersistence()

	items := map[uuid.UUID]LineItem{}
	for _, li := range []LineItem{
		{ProductID: uuid.New(), Name: "Chocolate Brownie", Price: 50, Quantity: 2, Image: "https://example.com/brownie.jpg"},
		{ProductID: uuid.New(), Name: "Red Velvet Cake", Price: 450.50, Quantity: 1, Image: ""},
		{ProductID: uuid.New(), Name: "Croissant", Price: 30, Quantity: 7, Image: "https://example.com/croissant.jpg"},
	} {
		items[li.ProductID] = li
	}

	require.NoError(t, p.Save(ctx, items))

	loaded, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestLoadOfUnwrittenSlotIsEmpty(t *testing.T) {
	p := NewMemoryPersistence()

	loaded, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "cart:sess-42", SlotKey("sess-42"))
}
